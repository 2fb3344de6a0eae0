package split

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int64) *int64     { return &v }

func sumShares(shares []Share) int64 {
	var sum int64
	for _, s := range shares {
		sum += s.Amount
	}
	return sum
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	for _, st := range []Type{TypeEqual, TypePercentage, TypeExact} {
		strategy, err := f.Create(st)
		require.NoError(t, err)
		assert.Equal(t, st, strategy.Type())
	}

	_, err := f.CreateFromString("weighted")
	assert.Error(t, err)
}

func TestEqualSplit(t *testing.T) {
	s := &EqualStrategy{}

	t.Run("divides evenly", func(t *testing.T) {
		shares, err := s.Calculate(30000, []Input{{UserID: 1}, {UserID: 2}, {UserID: 3}})
		require.NoError(t, err)
		assert.Equal(t, []Share{
			{UserID: 1, Amount: 10000},
			{UserID: 2, Amount: 10000},
			{UserID: 3, Amount: 10000},
		}, shares)
	})

	t.Run("remainder goes to lowest user IDs first", func(t *testing.T) {
		shares, err := s.Calculate(100, []Input{{UserID: 3}, {UserID: 1}, {UserID: 2}})
		require.NoError(t, err)
		assert.Equal(t, []Share{
			{UserID: 1, Amount: 34},
			{UserID: 2, Amount: 33},
			{UserID: 3, Amount: 33},
		}, shares)
		assert.Equal(t, int64(100), sumShares(shares))
	})

	t.Run("single participant takes everything", func(t *testing.T) {
		shares, err := s.Calculate(501, []Input{{UserID: 7}})
		require.NoError(t, err)
		assert.Equal(t, []Share{{UserID: 7, Amount: 501}}, shares)
	})

	t.Run("same input always yields same shares", func(t *testing.T) {
		in := []Input{{UserID: 9}, {UserID: 4}, {UserID: 6}}
		first, err := s.Calculate(1000, in)
		require.NoError(t, err)
		second, err := s.Calculate(1000, in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("rejects empty participants", func(t *testing.T) {
		_, err := s.Calculate(100, nil)
		assert.ErrorIs(t, err, ErrNoParticipants)
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		_, err := s.Calculate(0, []Input{{UserID: 1}})
		assert.ErrorIs(t, err, ErrNonPositiveTotal)
	})

	t.Run("rejects duplicate participant", func(t *testing.T) {
		_, err := s.Calculate(100, []Input{{UserID: 1}, {UserID: 1}})
		assert.ErrorIs(t, err, ErrDuplicateParticipant)
	})
}

func TestPercentageSplit(t *testing.T) {
	s := &PercentageStrategy{}

	t.Run("splits by percentage", func(t *testing.T) {
		shares, err := s.Calculate(10000, []Input{
			{UserID: 1, Percentage: ptrF(50)},
			{UserID: 2, Percentage: ptrF(30)},
			{UserID: 3, Percentage: ptrF(20)},
		})
		require.NoError(t, err)
		assert.Equal(t, []Share{
			{UserID: 1, Amount: 5000},
			{UserID: 2, Amount: 3000},
			{UserID: 3, Amount: 2000},
		}, shares)
	})

	t.Run("uneven percentages still sum to total", func(t *testing.T) {
		shares, err := s.Calculate(1000, []Input{
			{UserID: 1, Percentage: ptrF(33.33)},
			{UserID: 2, Percentage: ptrF(33.33)},
			{UserID: 3, Percentage: ptrF(33.34)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), sumShares(shares))
	})

	t.Run("tolerates rounding drift within 0.01", func(t *testing.T) {
		_, err := s.Calculate(1000, []Input{
			{UserID: 1, Percentage: ptrF(33.333)},
			{UserID: 2, Percentage: ptrF(33.333)},
			{UserID: 3, Percentage: ptrF(33.333)},
		})
		assert.NoError(t, err)
	})

	t.Run("rejects percentages summing far from 100", func(t *testing.T) {
		_, err := s.Calculate(1000, []Input{
			{UserID: 1, Percentage: ptrF(60)},
			{UserID: 2, Percentage: ptrF(60)},
		})
		assert.ErrorIs(t, err, ErrInvalidPercentages)
	})

	t.Run("rejects missing percentage", func(t *testing.T) {
		_, err := s.Calculate(1000, []Input{
			{UserID: 1, Percentage: ptrF(100)},
			{UserID: 2},
		})
		assert.ErrorIs(t, err, ErrMissingPercentage)
	})

	t.Run("rejects out-of-range percentage", func(t *testing.T) {
		_, err := s.Calculate(1000, []Input{
			{UserID: 1, Percentage: ptrF(150)},
			{UserID: 2, Percentage: ptrF(-50)},
		})
		assert.ErrorIs(t, err, ErrPercentageOutOfRange)
	})
}

func TestExactSplit(t *testing.T) {
	s := &ExactStrategy{}

	t.Run("uses supplied amounts", func(t *testing.T) {
		shares, err := s.Calculate(500, []Input{
			{UserID: 2, Amount: ptrI(300)},
			{UserID: 1, Amount: ptrI(200)},
		})
		require.NoError(t, err)
		assert.Equal(t, []Share{
			{UserID: 1, Amount: 200},
			{UserID: 2, Amount: 300},
		}, shares)
	})

	t.Run("allows a zero share", func(t *testing.T) {
		shares, err := s.Calculate(500, []Input{
			{UserID: 1, Amount: ptrI(500)},
			{UserID: 2, Amount: ptrI(0)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(500), sumShares(shares))
	})

	t.Run("names the discrepancy on mismatch", func(t *testing.T) {
		_, err := s.Calculate(500, []Input{
			{UserID: 1, Amount: ptrI(300)},
			{UserID: 2, Amount: ptrI(150)},
		})
		require.Error(t, err)

		var mismatch *MismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, int64(500), mismatch.Total)
		assert.Equal(t, int64(450), mismatch.Sum)
		assert.Contains(t, err.Error(), "off by -50")
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := s.Calculate(100, []Input{
			{UserID: 1, Amount: ptrI(200)},
			{UserID: 2, Amount: ptrI(-100)},
		})
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("rejects missing amount", func(t *testing.T) {
		_, err := s.Calculate(100, []Input{{UserID: 1}})
		assert.ErrorIs(t, err, ErrMissingExactAmount)
	})
}
