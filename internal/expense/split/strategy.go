package split

import (
	"errors"
	"fmt"
	"sort"
)

// Type defines the type of split strategy
type Type string

const (
	TypeEqual      Type = "equal"
	TypePercentage Type = "percentage"
	TypeExact      Type = "exact"
)

// Input represents a participant in a split with optional per-policy values.
// Amounts are integer minor currency units throughout; floats never reach a
// monetary result.
type Input struct {
	UserID     int64    `json:"user_id"`
	Percentage *float64 `json:"percentage,omitempty"` // for percentage split
	Amount     *int64   `json:"amount,omitempty"`     // for exact split, minor units
}

// Share is one participant's calculated share of the total. The shares of a
// split always sum to the expense total exactly.
type Share struct {
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Calculate computes the share for every participant, payer included.
	// The returned shares sum to total exactly, for every policy.
	Calculate(total int64, participants []Input) ([]Share, error)

	// Type returns the type identifier for this strategy
	Type() Type

	// Validate checks if the inputs are valid for this strategy
	Validate(total int64, participants []Input) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(splitType Type) (Strategy, error) {
	switch splitType {
	case TypeEqual:
		return &EqualStrategy{}, nil
	case TypePercentage:
		return &PercentageStrategy{}, nil
	case TypeExact:
		return &ExactStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split type: %s", splitType)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(Type(splitType))
}

var (
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrNonPositiveTotal     = errors.New("total must be at least one minor unit")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrDuplicateParticipant = errors.New("duplicate participant")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrMissingExactAmount   = errors.New("exact amount required for all participants")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrInvalidPercentages   = errors.New("percentages must sum to 100")
)

// MismatchError reports an exact split whose amounts do not sum to the total.
type MismatchError struct {
	Total int64
	Sum   int64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("exact amounts sum to %d, expense total is %d (off by %d)", e.Sum, e.Total, e.Sum-e.Total)
}

// validateCommon applies the checks shared by every strategy.
func validateCommon(total int64, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total < 1 {
		return ErrNonPositiveTotal
	}
	seen := make(map[int64]bool, len(participants))
	for _, p := range participants {
		if seen[p.UserID] {
			return fmt.Errorf("%w: user %d", ErrDuplicateParticipant, p.UserID)
		}
		seen[p.UserID] = true
	}
	return nil
}

// sortByUserID returns the participants ordered by ascending user ID. The
// remainder of an uneven division is handed out in this order, so the same
// request always produces the same shares.
func sortByUserID(participants []Input) []Input {
	ordered := make([]Input, len(participants))
	copy(ordered, participants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UserID < ordered[j].UserID
	})
	return ordered
}

// distributeRemainder spreads the units lost (or gained) by flooring across
// the shares, one minor unit at a time from the first share onward, so the
// shares sum to the total exactly.
func distributeRemainder(shares []Share, remainder int64) {
	i := 0
	for remainder > 0 {
		shares[i%len(shares)].Amount++
		remainder--
		i++
	}
	for remainder < 0 {
		shares[i%len(shares)].Amount--
		remainder++
		i++
	}
}
