package statutory

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
)

// ValidatePolicy checks a policy before it is used for calculations
func ValidatePolicy(p *domain.StatutoryPolicy) error {
	if p == nil {
		return fmt.Errorf("policy is required: %w", domain.ErrConfiguration)
	}
	if err := validateSchedule(p.WorkSchedule); err != nil {
		return err
	}
	if err := validateSocialInsurance(p.SocialInsurance); err != nil {
		return err
	}
	if err := validateHealthInsurance(p.HealthInsurance); err != nil {
		return err
	}
	if err := validateHousingFund(p.HousingFund); err != nil {
		return err
	}
	if err := validateWithholdingTax(p.WithholdingTax); err != nil {
		return err
	}
	if err := validatePremiums(p.Premiums); err != nil {
		return err
	}
	return validateMinimumWages(p.MinimumWages)
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, domain.ErrConfiguration)...)
}

func validateSchedule(s domain.WorkSchedule) error {
	if s.StandardWorkingDaysPerMonth.LessThanOrEqual(decimal.Zero) {
		return configErrorf("standard working days per month must be positive")
	}
	if s.StandardHoursPerDay.LessThanOrEqual(decimal.Zero) {
		return configErrorf("standard hours per day must be positive")
	}
	return nil
}

func validateSocialInsurance(rows []domain.ContributionBracket) error {
	if err := validateRanges("social insurance", rows); err != nil {
		return err
	}
	for i, row := range rows {
		if row.Employee.IsNegative() || row.Employer.IsNegative() {
			return configErrorf("social insurance row %d: shares cannot be negative", i)
		}
		if !row.Total.Equal(row.Employee.Add(row.Employer)) {
			return configErrorf("social insurance row %d: total %s != employee %s + employer %s",
				i, row.Total.String(), row.Employee.String(), row.Employer.String())
		}
	}
	return nil
}

func validateHealthInsurance(r domain.HealthInsuranceRule) error {
	if r.Rate.IsNegative() || r.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return configErrorf("health insurance rate must be between 0 and 1")
	}
	if r.Floor.IsNegative() {
		return configErrorf("health insurance floor cannot be negative")
	}
	if r.Ceiling.LessThan(r.Floor) {
		return configErrorf("health insurance ceiling %s is below floor %s", r.Ceiling.String(), r.Floor.String())
	}
	return nil
}

func validateHousingFund(r domain.HousingFundRule) error {
	if r.LowerRate.IsNegative() || r.UpperRate.IsNegative() {
		return configErrorf("housing fund rates cannot be negative")
	}
	if r.Threshold.IsNegative() {
		return configErrorf("housing fund threshold cannot be negative")
	}
	if r.MaxEmployeeShare.IsNegative() {
		return configErrorf("housing fund cap cannot be negative")
	}
	return nil
}

// validateWithholdingTax also requires each row's base tax to pick up where
// the previous row ended, which keeps the tax non-decreasing in income
func validateWithholdingTax(rows []domain.TaxBracket) error {
	if err := validateRanges("withholding tax", rows); err != nil {
		return err
	}
	for i, row := range rows {
		if row.Rate.IsNegative() || row.BaseTax.IsNegative() {
			return configErrorf("withholding tax row %d: rate and base tax cannot be negative", i)
		}
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		reached := prev.BaseTax.Add(prev.Rate.Mul(prev.Max.Sub(prev.Min)))
		if row.BaseTax.LessThan(reached) {
			return configErrorf("withholding tax row %d: base tax %s is below %s accrued by the previous row",
				i, row.BaseTax.String(), reached.String())
		}
	}
	return nil
}

func validatePremiums(p domain.PremiumRates) error {
	multipliers := map[string]decimal.Decimal{
		"ordinary_overtime":        p.OrdinaryOvertime,
		"holiday_overtime":         p.HolidayOvertime,
		"special_holiday_overtime": p.SpecialHolidayOvertime,
		"regular_holiday_unworked": p.RegularHolidayUnworked,
		"regular_holiday_worked":   p.RegularHolidayWorked,
		"special_holiday_worked":   p.SpecialHolidayWorked,
		"special_holiday_unworked": p.SpecialHolidayUnworked,
		"night_differential_rate":  p.NightDifferentialRate,
	}
	for name, v := range multipliers {
		if v.IsNegative() {
			return configErrorf("premium %s cannot be negative", name)
		}
	}
	if p.ThirteenthMonthDivisor.LessThanOrEqual(decimal.Zero) {
		return configErrorf("thirteenth month divisor must be positive")
	}
	if p.AnnualizationPeriodsPerYear.LessThanOrEqual(decimal.Zero) {
		return configErrorf("annualization periods per year must be positive")
	}
	return nil
}

func validateMinimumWages(wages map[string]decimal.Decimal) error {
	seen := make(map[string]string, len(wages))
	for code, wage := range wages {
		key := normalizeRegion(code)
		if key == "" {
			return configErrorf("minimum wage region code cannot be blank")
		}
		if prev, dup := seen[key]; dup {
			return configErrorf("minimum wage regions %q and %q collide", prev, code)
		}
		seen[key] = code
		if wage.LessThanOrEqual(decimal.Zero) {
			return configErrorf("minimum wage for %s must be positive", code)
		}
	}
	return nil
}

func normalizeRegion(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
