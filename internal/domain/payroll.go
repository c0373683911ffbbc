package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineSource records where a line item came from
type LineSource string

const (
	SourceBase         LineSource = "base"
	SourceComponent    LineSource = "component"
	SourcePremium      LineSource = "premium"
	SourceContribution LineSource = "contribution"
	SourceTax          LineSource = "tax"
)

// LineItem is one named amount on a payslip
type LineItem struct {
	Name           string          `yaml:"name" json:"name"`
	Amount         decimal.Decimal `yaml:"amount" json:"amount"`
	Classification Classification  `yaml:"classification" json:"classification"`
	Source         LineSource      `yaml:"source" json:"source"`
	ComponentID    *int64          `yaml:"component_id,omitempty" json:"component_id,omitempty"`
}

// PayrollCalculationResult is the transient outcome of one calculation call
type PayrollCalculationResult struct {
	EmployeeID      string          `yaml:"employee_id" json:"employee_id"`
	BaseSalary      decimal.Decimal `yaml:"base_salary" json:"base_salary"`
	TotalEarnings   decimal.Decimal `yaml:"total_earnings" json:"total_earnings"`
	TotalDeductions decimal.Decimal `yaml:"total_deductions" json:"total_deductions"`
	TotalAllowances decimal.Decimal `yaml:"total_allowances" json:"total_allowances"`
	TotalBonuses    decimal.Decimal `yaml:"total_bonuses" json:"total_bonuses"`
	NetPay          decimal.Decimal `yaml:"net_pay" json:"net_pay"`
	Earnings        []LineItem      `yaml:"earnings" json:"earnings"`
	Deductions      []LineItem      `yaml:"deductions" json:"deductions"`
}

// DeepCopy returns a copy that shares no slices with the receiver
func (r *PayrollCalculationResult) DeepCopy() *PayrollCalculationResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Earnings = copyLines(r.Earnings)
	out.Deductions = copyLines(r.Deductions)
	return &out
}

func copyLines(lines []LineItem) []LineItem {
	if lines == nil {
		return nil
	}
	out := make([]LineItem, len(lines))
	for i, l := range lines {
		if l.ComponentID != nil {
			id := *l.ComponentID
			l.ComponentID = &id
		}
		out[i] = l
	}
	return out
}

// ContributionShare is the (total, employee, employer) triple returned by
// every statutory contribution. Total always equals EmployeeShare + EmployerShare.
type ContributionShare struct {
	Total         decimal.Decimal `yaml:"total" json:"total"`
	EmployeeShare decimal.Decimal `yaml:"employee_share" json:"employee_share"`
	EmployerShare decimal.Decimal `yaml:"employer_share" json:"employer_share"`
}

// StatutoryContributions groups the three mandatory contributions for one salary
type StatutoryContributions struct {
	SocialInsurance ContributionShare `yaml:"social_insurance" json:"social_insurance"`
	HealthInsurance ContributionShare `yaml:"health_insurance" json:"health_insurance"`
	HousingFund     ContributionShare `yaml:"housing_fund" json:"housing_fund"`
}

// EmployeeTotal sums the employee shares
func (c StatutoryContributions) EmployeeTotal() decimal.Decimal {
	return c.SocialInsurance.EmployeeShare.Add(c.HealthInsurance.EmployeeShare).Add(c.HousingFund.EmployeeShare)
}

// EmployerTotal sums the employer shares
func (c StatutoryContributions) EmployerTotal() decimal.Decimal {
	return c.SocialInsurance.EmployerShare.Add(c.HealthInsurance.EmployerShare).Add(c.HousingFund.EmployerShare)
}

// PeriodInputs carries the pay-period scalars a caller may feed into the
// statutory composition. Hours and day counts must be non-negative.
type PeriodInputs struct {
	OvertimeHours               decimal.Decimal `yaml:"overtime_hours" json:"overtime_hours"`
	HolidayOvertimeHours        decimal.Decimal `yaml:"holiday_overtime_hours" json:"holiday_overtime_hours"`
	SpecialHolidayOvertimeHours decimal.Decimal `yaml:"special_holiday_overtime_hours" json:"special_holiday_overtime_hours"`
	NightDiffHours              decimal.Decimal `yaml:"night_diff_hours" json:"night_diff_hours"`
	RegularHolidaysUnworked     int             `yaml:"regular_holidays_unworked" json:"regular_holidays_unworked" validate:"gte=0"`
	RegularHolidaysWorked       int             `yaml:"regular_holidays_worked" json:"regular_holidays_worked" validate:"gte=0"`
	SpecialHolidaysWorked       int             `yaml:"special_holidays_worked" json:"special_holidays_worked" validate:"gte=0"`
	Include13thMonth            bool            `yaml:"include_13th_month" json:"include_13th_month"`
	BasicSalaryYearToDate       decimal.Decimal `yaml:"basic_salary_year_to_date" json:"basic_salary_year_to_date"`
}

// EmployeePayInput is one employee entry of a payroll run
type EmployeePayInput struct {
	EmployeeID     string          `yaml:"employee_id" json:"employee_id" validate:"required"`
	Name           string          `yaml:"name" json:"name"`
	BaseSalary     decimal.Decimal `yaml:"base_salary" json:"base_salary"`
	RegionCode     string          `yaml:"region_code,omitempty" json:"region_code,omitempty"`
	ApplyStatutory bool            `yaml:"apply_statutory" json:"apply_statutory"`
	PeriodInputs   PeriodInputs    `yaml:"period_inputs" json:"period_inputs"`
}

// PayrollRun is the on-disk description of a batch run: the catalog, the
// assignments and the employees to pay
type PayrollRun struct {
	Period      string                        `yaml:"period" json:"period" validate:"required"`
	AsOf        *time.Time                    `yaml:"as_of,omitempty" json:"as_of,omitempty"`
	Components  []SalaryComponentDefinition   `yaml:"components" json:"components" validate:"dive"`
	Assignments []EmployeeComponentAssignment `yaml:"assignments" json:"assignments" validate:"dive"`
	Employees   []EmployeePayInput            `yaml:"employees" json:"employees" validate:"required,min=1,dive"`
}

// MinimumWageCheck is the advisory outcome of a minimum-wage comparison.
// A region missing from the policy is recorded as unknown and non-compliant.
type MinimumWageCheck struct {
	RegionCode    string          `yaml:"region_code" json:"region_code"`
	ImpliedDaily  decimal.Decimal `yaml:"implied_daily" json:"implied_daily"`
	MinimumDaily  decimal.Decimal `yaml:"minimum_daily" json:"minimum_daily"`
	Compliant     bool            `yaml:"compliant" json:"compliant"`
	UnknownRegion bool            `yaml:"unknown_region,omitempty" json:"unknown_region,omitempty"`
}

// Payslip is one employee's entry in a batch
type Payslip struct {
	EmployeeID    string                   `yaml:"employee_id" json:"employee_id"`
	Name          string                   `yaml:"name" json:"name"`
	Result        PayrollCalculationResult `yaml:"result" json:"result"`
	Contributions *StatutoryContributions  `yaml:"contributions,omitempty" json:"contributions,omitempty"`
	MinimumWage   *MinimumWageCheck        `yaml:"minimum_wage,omitempty" json:"minimum_wage,omitempty"`
}

// PayrollBatch is the outcome of a whole payroll run
type PayrollBatch struct {
	RunID       string          `yaml:"run_id" json:"run_id"`
	Period      string          `yaml:"period" json:"period"`
	AsOf        time.Time       `yaml:"as_of" json:"as_of"`
	GeneratedAt time.Time       `yaml:"generated_at" json:"generated_at"`
	Policy      string          `yaml:"policy" json:"policy"`
	Payslips    []Payslip       `yaml:"payslips" json:"payslips"`
	TotalNetPay decimal.Decimal `yaml:"total_net_pay" json:"total_net_pay"`
}
