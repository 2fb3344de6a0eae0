package split

// ExactStrategy uses caller-supplied per-participant amounts. The amounts
// must sum to the total exactly; any discrepancy is rejected.
type ExactStrategy struct{}

// Type returns the split type identifier
func (s *ExactStrategy) Type() Type {
	return TypeExact
}

// Validate checks if the inputs are valid for an exact split
func (s *ExactStrategy) Validate(total int64, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}

	var sum int64
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingExactAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeAmount
		}
		sum += *p.Amount
	}

	if sum != total {
		return &MismatchError{Total: total, Sum: sum}
	}

	return nil
}

// Calculate returns the supplied amounts as shares, ordered by user ID.
func (s *ExactStrategy) Calculate(total int64, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	ordered := sortByUserID(participants)
	shares := make([]Share, len(ordered))
	for i, p := range ordered {
		shares[i] = Share{UserID: p.UserID, Amount: *p.Amount}
	}

	return shares, nil
}
