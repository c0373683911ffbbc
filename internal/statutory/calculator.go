package statutory

import (
	"fmt"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Calculator evaluates the statutory formulas of one policy. It holds a
// private copy of the policy and exposes no way to change it, so a single
// Calculator can be shared across goroutines.
type Calculator struct {
	policy       domain.StatutoryPolicy
	minimumWages map[string]decimal.Decimal
}

// NewCalculator validates the policy and returns a calculator over a copy of it
func NewCalculator(policy *domain.StatutoryPolicy) (*Calculator, error) {
	if err := ValidatePolicy(policy); err != nil {
		return nil, fmt.Errorf("invalid statutory policy: %w", err)
	}
	p := policy.DeepCopy()
	wages := make(map[string]decimal.Decimal, len(p.MinimumWages))
	for code, wage := range p.MinimumWages {
		wages[normalizeRegion(code)] = wage
	}
	return &Calculator{policy: *p, minimumWages: wages}, nil
}

// NewDefaultCalculator returns a calculator over the built-in policy
func NewDefaultCalculator() *Calculator {
	c, err := NewCalculator(DefaultPolicy())
	if err != nil {
		panic(fmt.Sprintf("built-in statutory policy is invalid: %v", err))
	}
	return c
}

// Policy returns a copy of the policy in use
func (c *Calculator) Policy() *domain.StatutoryPolicy {
	return c.policy.DeepCopy()
}

// Schedule returns the work schedule in use
func (c *Calculator) Schedule() domain.WorkSchedule {
	return c.policy.WorkSchedule
}

func requireNonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%s cannot be negative (got %s): %w", name, v.String(), domain.ErrValidation)
	}
	return nil
}

// SocialInsuranceContribution looks the salary up in the bracket table.
// Salaries above the last boundary get the ceiling row.
func (c *Calculator) SocialInsuranceContribution(monthlySalary decimal.Decimal) (domain.ContributionShare, error) {
	if err := requireNonNegative("monthly salary", monthlySalary); err != nil {
		return domain.ContributionShare{}, err
	}
	row, err := findBracket(c.policy.SocialInsurance, monthlySalary)
	if err != nil {
		return domain.ContributionShare{}, err
	}
	return domain.ContributionShare{
		Total:         row.Employee.Add(row.Employer),
		EmployeeShare: row.Employee,
		EmployerShare: row.Employer,
	}, nil
}

// HealthInsuranceContribution applies the flat rate to the salary clamped
// into [floor, ceiling] and splits the result evenly
func (c *Calculator) HealthInsuranceContribution(monthlySalary decimal.Decimal) (domain.ContributionShare, error) {
	if err := requireNonNegative("monthly salary", monthlySalary); err != nil {
		return domain.ContributionShare{}, err
	}
	rule := c.policy.HealthInsurance
	base := decimal.Min(decimal.Max(monthlySalary, rule.Floor), rule.Ceiling)
	total := base.Mul(rule.Rate)
	employee := total.Div(two)
	return domain.ContributionShare{
		Total:         total,
		EmployeeShare: employee,
		EmployerShare: total.Sub(employee),
	}, nil
}

// HousingFundContribution uses the lower rate up to the threshold and the
// upper rate above it. The employer matches the capped employee share.
func (c *Calculator) HousingFundContribution(monthlySalary decimal.Decimal) (domain.ContributionShare, error) {
	if err := requireNonNegative("monthly salary", monthlySalary); err != nil {
		return domain.ContributionShare{}, err
	}
	rule := c.policy.HousingFund
	rate := rule.UpperRate
	if monthlySalary.LessThanOrEqual(rule.Threshold) {
		rate = rule.LowerRate
	}
	employee := decimal.Min(monthlySalary.Mul(rate), rule.MaxEmployeeShare)
	return domain.ContributionShare{
		Total:         employee.Add(employee),
		EmployeeShare: employee,
		EmployerShare: employee,
	}, nil
}

// Contributions computes all three mandatory contributions for a monthly salary
func (c *Calculator) Contributions(monthlySalary decimal.Decimal) (domain.StatutoryContributions, error) {
	social, err := c.SocialInsuranceContribution(monthlySalary)
	if err != nil {
		return domain.StatutoryContributions{}, fmt.Errorf("social insurance: %w", err)
	}
	health, err := c.HealthInsuranceContribution(monthlySalary)
	if err != nil {
		return domain.StatutoryContributions{}, fmt.Errorf("health insurance: %w", err)
	}
	housing, err := c.HousingFundContribution(monthlySalary)
	if err != nil {
		return domain.StatutoryContributions{}, fmt.Errorf("housing fund: %w", err)
	}
	return domain.StatutoryContributions{
		SocialInsurance: social,
		HealthInsurance: health,
		HousingFund:     housing,
	}, nil
}

// WithholdingTax computes annual tax as the bracket's base tax plus its
// marginal rate on the excess over the bracket floor
func (c *Calculator) WithholdingTax(annualTaxableIncome decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("annual taxable income", annualTaxableIncome); err != nil {
		return decimal.Zero, err
	}
	row, err := findBracket(c.policy.WithholdingTax, annualTaxableIncome)
	if err != nil {
		return decimal.Zero, err
	}
	return row.BaseTax.Add(annualTaxableIncome.Sub(row.Min).Mul(row.Rate)), nil
}

// MonthlyWithholdingTax annualizes a monthly income, taxes it and spreads
// the result back over the year
func (c *Calculator) MonthlyWithholdingTax(monthlyTaxableIncome decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("monthly taxable income", monthlyTaxableIncome); err != nil {
		return decimal.Zero, err
	}
	periods := c.policy.Premiums.AnnualizationPeriodsPerYear
	if periods.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("annualization periods per year is zero: %w", domain.ErrConfiguration)
	}
	annual, err := c.WithholdingTax(monthlyTaxableIncome.Mul(periods))
	if err != nil {
		return decimal.Zero, err
	}
	return annual.Div(periods), nil
}

// DailyRate derives the daily rate from a basic monthly salary
func (c *Calculator) DailyRate(basicMonthlySalary decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("basic monthly salary", basicMonthlySalary); err != nil {
		return decimal.Zero, err
	}
	days := c.policy.WorkSchedule.StandardWorkingDaysPerMonth
	if days.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("standard working days per month is zero: %w", domain.ErrConfiguration)
	}
	return basicMonthlySalary.Div(days), nil
}

// HourlyRate derives the hourly rate from a basic monthly salary
func (c *Calculator) HourlyRate(basicMonthlySalary decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("basic monthly salary", basicMonthlySalary); err != nil {
		return decimal.Zero, err
	}
	schedule := c.policy.WorkSchedule
	hoursPerMonth := schedule.StandardWorkingDaysPerMonth.Mul(schedule.StandardHoursPerDay)
	if hoursPerMonth.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("standard hours per month is zero: %w", domain.ErrConfiguration)
	}
	return basicMonthlySalary.Div(hoursPerMonth), nil
}

// OvertimeMultiplier picks the overtime rate. A designated holiday wins over
// a special holiday when both flags are set.
func (c *Calculator) OvertimeMultiplier(isHoliday, isSpecialHoliday bool) decimal.Decimal {
	switch {
	case isHoliday:
		return c.policy.Premiums.HolidayOvertime
	case isSpecialHoliday:
		return c.policy.Premiums.SpecialHolidayOvertime
	default:
		return c.policy.Premiums.OrdinaryOvertime
	}
}

// OvertimePremium is hourlyRate * multiplier * overtimeHours
func (c *Calculator) OvertimePremium(basicMonthlySalary, overtimeHours decimal.Decimal, isHoliday, isSpecialHoliday bool) (decimal.Decimal, error) {
	if err := requireNonNegative("overtime hours", overtimeHours); err != nil {
		return decimal.Zero, err
	}
	hourly, err := c.HourlyRate(basicMonthlySalary)
	if err != nil {
		return decimal.Zero, err
	}
	return hourly.Mul(c.OvertimeMultiplier(isHoliday, isSpecialHoliday)).Mul(overtimeHours), nil
}

// HolidayPay returns the pay owed for one holiday. A regular holiday is paid
// even when not worked; an unworked special holiday carries no obligation.
func (c *Calculator) HolidayPay(dailyRate decimal.Decimal, isRegularHoliday, workedOnHoliday bool) (decimal.Decimal, error) {
	if err := requireNonNegative("daily rate", dailyRate); err != nil {
		return decimal.Zero, err
	}
	p := c.policy.Premiums
	var multiplier decimal.Decimal
	switch {
	case isRegularHoliday && workedOnHoliday:
		multiplier = p.RegularHolidayWorked
	case isRegularHoliday:
		multiplier = p.RegularHolidayUnworked
	case workedOnHoliday:
		multiplier = p.SpecialHolidayWorked
	default:
		multiplier = p.SpecialHolidayUnworked
	}
	return dailyRate.Mul(multiplier), nil
}

// NightDifferential is hourlyRate * night rate * nightHours
func (c *Calculator) NightDifferential(basicMonthlySalary, nightHours decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("night hours", nightHours); err != nil {
		return decimal.Zero, err
	}
	hourly, err := c.HourlyRate(basicMonthlySalary)
	if err != nil {
		return decimal.Zero, err
	}
	return hourly.Mul(c.policy.Premiums.NightDifferentialRate).Mul(nightHours), nil
}

// ThirteenthMonthPay pro-rates the year's basic salary
func (c *Calculator) ThirteenthMonthPay(totalBasicSalaryForYear decimal.Decimal) (decimal.Decimal, error) {
	if err := requireNonNegative("total basic salary for year", totalBasicSalaryForYear); err != nil {
		return decimal.Zero, err
	}
	divisor := c.policy.Premiums.ThirteenthMonthDivisor
	if divisor.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("thirteenth month divisor is zero: %w", domain.ErrConfiguration)
	}
	return totalBasicSalaryForYear.Div(divisor), nil
}

// MinimumWage returns the daily minimum wage of a region. Unknown regions
// fail with ErrConfiguration; there is no fallback region.
func (c *Calculator) MinimumWage(regionCode string) (decimal.Decimal, error) {
	wage, ok := c.minimumWages[normalizeRegion(regionCode)]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown region %q: %w", regionCode, domain.ErrConfiguration)
	}
	return wage, nil
}

// MeetsMinimumWage reports whether dailySalary reaches the region's minimum
func (c *Calculator) MeetsMinimumWage(dailySalary decimal.Decimal, regionCode string) (bool, error) {
	if err := requireNonNegative("daily salary", dailySalary); err != nil {
		return false, err
	}
	wage, err := c.MinimumWage(regionCode)
	if err != nil {
		return false, err
	}
	return dailySalary.GreaterThanOrEqual(wage), nil
}
