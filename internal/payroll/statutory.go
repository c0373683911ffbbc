package payroll

import (
	"fmt"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
)

// Line names used by the statutory composition
const (
	OvertimeLine               = "Overtime"
	HolidayOvertimeLine        = "Holiday Overtime"
	SpecialHolidayOvertimeLine = "Special Holiday Overtime"
	NightDifferentialLine      = "Night Differential"
	RegularHolidayUnworkedLine = "Regular Holiday Pay"
	RegularHolidayWorkedLine   = "Regular Holiday Worked Pay"
	SpecialHolidayWorkedLine   = "Special Holiday Worked Pay"
	ThirteenthMonthLine        = "13th Month Pay"
	SocialInsuranceLine        = "Social Insurance"
	HealthInsuranceLine        = "Health Insurance"
	HousingFundLine            = "Housing Fund"
	WithholdingTaxLine         = "Withholding Tax"
)

// ApplyStatutory returns a new result with the period's premiums added as
// earnings and the employee contributions and monthly withholding tax added
// as deductions. The input result is not modified.
func (a *Aggregator) ApplyStatutory(result *domain.PayrollCalculationResult, inputs domain.PeriodInputs) (*domain.PayrollCalculationResult, error) {
	out, _, err := a.ComposeStatutory(result, inputs)
	return out, err
}

// ComposeStatutory is ApplyStatutory that also returns the full contribution
// breakdown, employer shares included
func (a *Aggregator) ComposeStatutory(result *domain.PayrollCalculationResult, inputs domain.PeriodInputs) (*domain.PayrollCalculationResult, domain.StatutoryContributions, error) {
	var none domain.StatutoryContributions
	if result == nil {
		return nil, none, fmt.Errorf("result is required: %w", domain.ErrValidation)
	}
	if err := validatePeriodInputs(inputs); err != nil {
		return nil, none, err
	}

	out := result.DeepCopy()
	basic := out.BaseSalary

	premiums, thirteenth, err := a.premiumLines(basic, inputs)
	if err != nil {
		return nil, none, err
	}
	out.Earnings = append(out.Earnings, premiums...)
	recomputeTotals(out)

	contributions, err := a.Statutory.Contributions(basic)
	if err != nil {
		return nil, none, err
	}
	out.Deductions = append(out.Deductions,
		statutoryDeduction(SocialInsuranceLine, contributions.SocialInsurance.EmployeeShare, domain.SourceContribution),
		statutoryDeduction(HealthInsuranceLine, contributions.HealthInsurance.EmployeeShare, domain.SourceContribution),
		statutoryDeduction(HousingFundLine, contributions.HousingFund.EmployeeShare, domain.SourceContribution),
	)

	taxable := out.TotalEarnings.Sub(contributions.EmployeeTotal()).Sub(thirteenth)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax, err := a.Statutory.MonthlyWithholdingTax(taxable)
	if err != nil {
		return nil, none, err
	}
	out.Deductions = append(out.Deductions, statutoryDeduction(WithholdingTaxLine, tax, domain.SourceTax))

	recomputeTotals(out)
	a.Logger.Debugf("employee %s: taxable %s, tax %s, net %s",
		out.EmployeeID, taxable.StringFixed(2), tax.StringFixed(2), out.NetPay.StringFixed(2))
	return out, contributions, nil
}

// premiumLines computes the earning lines for the period. Zero amounts are
// left out. The 13th-month amount is returned separately so the caller can
// keep it out of taxable income.
func (a *Aggregator) premiumLines(basic decimal.Decimal, in domain.PeriodInputs) ([]domain.LineItem, decimal.Decimal, error) {
	calc := a.Statutory
	var lines []domain.LineItem
	add := func(name string, amount decimal.Decimal) {
		if amount.IsZero() {
			return
		}
		lines = append(lines, domain.LineItem{
			Name:           name,
			Amount:         amount,
			Classification: domain.Earning,
			Source:         domain.SourcePremium,
		})
	}

	overtime := []struct {
		name             string
		hours            decimal.Decimal
		isHoliday        bool
		isSpecialHoliday bool
	}{
		{OvertimeLine, in.OvertimeHours, false, false},
		{HolidayOvertimeLine, in.HolidayOvertimeHours, true, false},
		{SpecialHolidayOvertimeLine, in.SpecialHolidayOvertimeHours, false, true},
	}
	for _, ot := range overtime {
		if ot.hours.IsZero() {
			continue
		}
		premium, err := calc.OvertimePremium(basic, ot.hours, ot.isHoliday, ot.isSpecialHoliday)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%s: %w", ot.name, err)
		}
		add(ot.name, premium)
	}

	if !in.NightDiffHours.IsZero() {
		night, err := calc.NightDifferential(basic, in.NightDiffHours)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%s: %w", NightDifferentialLine, err)
		}
		add(NightDifferentialLine, night)
	}

	daily, err := calc.DailyRate(basic)
	if err != nil {
		return nil, decimal.Zero, err
	}
	holidays := []struct {
		name    string
		days    int
		regular bool
		worked  bool
	}{
		{RegularHolidayUnworkedLine, in.RegularHolidaysUnworked, true, false},
		{RegularHolidayWorkedLine, in.RegularHolidaysWorked, true, true},
		{SpecialHolidayWorkedLine, in.SpecialHolidaysWorked, false, true},
	}
	for _, h := range holidays {
		if h.days == 0 {
			continue
		}
		pay, err := calc.HolidayPay(daily, h.regular, h.worked)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%s: %w", h.name, err)
		}
		add(h.name, pay.Mul(decimal.NewFromInt(int64(h.days))))
	}

	thirteenth := decimal.Zero
	if in.Include13thMonth {
		thirteenth, err = calc.ThirteenthMonthPay(in.BasicSalaryYearToDate)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("%s: %w", ThirteenthMonthLine, err)
		}
		add(ThirteenthMonthLine, thirteenth)
	}
	return lines, thirteenth, nil
}

func statutoryDeduction(name string, amount decimal.Decimal, source domain.LineSource) domain.LineItem {
	return domain.LineItem{
		Name:           name,
		Amount:         amount,
		Classification: domain.Deduction,
		Source:         source,
	}
}

func validatePeriodInputs(in domain.PeriodInputs) error {
	hours := map[string]decimal.Decimal{
		"overtime hours":                 in.OvertimeHours,
		"holiday overtime hours":         in.HolidayOvertimeHours,
		"special holiday overtime hours": in.SpecialHolidayOvertimeHours,
		"night differential hours":       in.NightDiffHours,
		"basic salary year to date":      in.BasicSalaryYearToDate,
	}
	for name, v := range hours {
		if v.IsNegative() {
			return fmt.Errorf("%s cannot be negative (got %s): %w", name, v.String(), domain.ErrValidation)
		}
	}
	days := map[string]int{
		"regular holidays unworked": in.RegularHolidaysUnworked,
		"regular holidays worked":   in.RegularHolidaysWorked,
		"special holidays worked":   in.SpecialHolidaysWorked,
	}
	for name, v := range days {
		if v < 0 {
			return fmt.Errorf("%s cannot be negative (got %d): %w", name, v, domain.ErrValidation)
		}
	}
	return nil
}
