package split

// EqualStrategy divides the total equally among all participants using
// integer division; the remainder (total mod count) goes one minor unit at a
// time to the first participants in ascending user-ID order.
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total int64, participants []Input) error {
	return validateCommon(total, participants)
}

// Calculate divides the total into one share per participant, payer included.
func (s *EqualStrategy) Calculate(total int64, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	ordered := sortByUserID(participants)
	n := int64(len(ordered))
	base := total / n
	remainder := total % n

	shares := make([]Share, len(ordered))
	for i, p := range ordered {
		shares[i] = Share{UserID: p.UserID, Amount: base}
	}
	distributeRemainder(shares, remainder)

	return shares, nil
}
