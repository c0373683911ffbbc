package statutory

import (
	"fmt"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
)

// bounded is any bracket row with a half-open [Min, Max) range; zero Max is open-ended
type bounded interface {
	domain.ContributionBracket | domain.TaxBracket
}

func bounds[T bounded](row T) (min, max decimal.Decimal) {
	switch r := any(row).(type) {
	case domain.ContributionBracket:
		return r.Min, r.Max
	case domain.TaxBracket:
		return r.Min, r.Max
	}
	return decimal.Zero, decimal.Zero
}

// findBracket returns the row whose range contains amount. Rows must be
// ascending and contiguous; an amount past the last closed row lands in the
// open-ended top row.
func findBracket[T bounded](rows []T, amount decimal.Decimal) (T, error) {
	var zero T
	for _, row := range rows {
		min, max := bounds(row)
		if amount.LessThan(min) {
			continue
		}
		if max.IsZero() || amount.LessThan(max) {
			return row, nil
		}
	}
	return zero, fmt.Errorf("no bracket contains %s: %w", amount.String(), domain.ErrConfiguration)
}

// validateRanges checks that rows start at zero, are contiguous and end with
// exactly one open-ended row
func validateRanges[T bounded](name string, rows []T) error {
	if len(rows) == 0 {
		return fmt.Errorf("%s table is empty: %w", name, domain.ErrConfiguration)
	}
	first, _ := bounds(rows[0])
	if !first.IsZero() {
		return fmt.Errorf("%s table must start at 0, starts at %s: %w", name, first.String(), domain.ErrConfiguration)
	}
	for i, row := range rows {
		min, max := bounds(row)
		last := i == len(rows)-1
		if last {
			if !max.IsZero() {
				return fmt.Errorf("%s table: last row must be open-ended: %w", name, domain.ErrConfiguration)
			}
			continue
		}
		if max.LessThanOrEqual(min) {
			return fmt.Errorf("%s table row %d: max %s must exceed min %s: %w", name, i, max.String(), min.String(), domain.ErrConfiguration)
		}
		nextMin, _ := bounds(rows[i+1])
		if !nextMin.Equal(max) {
			return fmt.Errorf("%s table row %d: gap or overlap between %s and %s: %w", name, i, max.String(), nextMin.String(), domain.ErrConfiguration)
		}
	}
	return nil
}
