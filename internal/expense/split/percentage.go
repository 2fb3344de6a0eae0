package split

import "math"

// percentageTolerance is how far the percentage sum may stray from 100.
const percentageTolerance = 0.01

// PercentageStrategy divides the total according to per-participant
// percentages. Each raw share is floored to whole minor units and the
// leftover is distributed with the same deterministic rule as the equal
// split, so the shares always sum to the total exactly.
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() Type {
	return TypePercentage
}

// Validate checks if the inputs are valid for a percentage split
func (s *PercentageStrategy) Validate(total int64, participants []Input) error {
	if err := validateCommon(total, participants); err != nil {
		return err
	}

	var sum float64
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if *p.Percentage < 0 || *p.Percentage > 100 {
			return ErrPercentageOutOfRange
		}
		sum += *p.Percentage
	}

	if math.Abs(sum-100) > percentageTolerance {
		return ErrInvalidPercentages
	}

	return nil
}

// Calculate floors each percentage share to minor units, then distributes the
// remainder in ascending user-ID order.
func (s *PercentageStrategy) Calculate(total int64, participants []Input) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	ordered := sortByUserID(participants)
	shares := make([]Share, len(ordered))

	var distributed int64
	for i, p := range ordered {
		amount := int64(math.Floor(float64(total) * (*p.Percentage) / 100))
		shares[i] = Share{UserID: p.UserID, Amount: amount}
		distributed += amount
	}
	distributeRemainder(shares, total-distributed)

	return shares, nil
}
