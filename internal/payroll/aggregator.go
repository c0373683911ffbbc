package payroll

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/paygo/internal/catalog"
	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/logging"
	"github.com/rgehrsitz/paygo/internal/statutory"
	"github.com/shopspring/decimal"
)

// BasicSalaryLine is the name of the first earning line of every result
const BasicSalaryLine = "Basic Salary"

// ComponentResolver resolves an employee's effective components into money.
// *catalog.Engine implements it.
type ComponentResolver interface {
	Resolve(ctx context.Context, employeeID string, baseSalary decimal.Decimal) ([]domain.ComputedComponentAmount, error)
}

// Aggregator turns resolved components into a payroll result and, when the
// caller asks for it, layers the statutory premiums and deductions on top
type Aggregator struct {
	Resolver  ComponentResolver
	Statutory *statutory.Calculator
	Logger    logging.Logger
}

// NewAggregator creates an aggregator. A nil calculator uses the built-in policy.
func NewAggregator(resolver ComponentResolver, calc *statutory.Calculator) *Aggregator {
	if calc == nil {
		calc = statutory.NewDefaultCalculator()
	}
	return &Aggregator{
		Resolver:  resolver,
		Statutory: calc,
		Logger:    logging.NopLogger{},
	}
}

// SetLogger sets the logger; nil restores the no-op logger
func (a *Aggregator) SetLogger(l logging.Logger) {
	a.Logger = logging.OrNop(l)
}

// Calculate builds the component-driven result for one employee. Statutory
// rules are not applied here; see ApplyStatutory.
func (a *Aggregator) Calculate(ctx context.Context, employeeID string, baseSalary decimal.Decimal) (*domain.PayrollCalculationResult, error) {
	if baseSalary.IsNegative() {
		return nil, fmt.Errorf("base salary cannot be negative (got %s): %w", baseSalary.String(), domain.ErrValidation)
	}
	computed, err := a.Resolver.Resolve(ctx, employeeID, baseSalary)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve components for %s: %w", employeeID, err)
	}

	result := &domain.PayrollCalculationResult{
		EmployeeID:      employeeID,
		BaseSalary:      baseSalary,
		TotalAllowances: decimal.Zero,
		TotalBonuses:    decimal.Zero,
		Earnings: []domain.LineItem{{
			Name:           BasicSalaryLine,
			Amount:         baseSalary,
			Classification: domain.Earning,
			Source:         domain.SourceBase,
		}},
		Deductions: []domain.LineItem{},
	}

	for _, c := range computed {
		id := c.Definition.ID
		line := domain.LineItem{
			Name:           c.Name(),
			Amount:         c.Amount,
			Classification: c.Classification,
			Source:         domain.SourceComponent,
			ComponentID:    &id,
		}
		switch c.Classification {
		case domain.Earning:
			result.Earnings = append(result.Earnings, line)
			if c.Definition.Kind == domain.KindBonus {
				result.TotalBonuses = result.TotalBonuses.Add(c.Amount)
			} else {
				result.TotalAllowances = result.TotalAllowances.Add(c.Amount)
			}
		case domain.Deduction:
			result.Deductions = append(result.Deductions, line)
		default:
			return nil, fmt.Errorf("component %q has classification %q: %w", c.Name(), c.Classification, domain.ErrDataIntegrity)
		}
	}

	totals := catalog.Totals(computed)
	result.TotalEarnings = baseSalary.Add(totals[domain.Earning])
	result.TotalDeductions = totals[domain.Deduction]
	result.NetPay = result.TotalEarnings.Sub(result.TotalDeductions)
	a.Logger.Debugf("employee %s: earnings %s, deductions %s, net %s",
		employeeID, result.TotalEarnings.String(), result.TotalDeductions.String(), result.NetPay.String())
	return result, nil
}

// recomputeTotals derives the earning, deduction and net totals from the line items
func recomputeTotals(r *domain.PayrollCalculationResult) {
	r.TotalEarnings = sumLines(r.Earnings)
	r.TotalDeductions = sumLines(r.Deductions)
	r.NetPay = r.TotalEarnings.Sub(r.TotalDeductions)
}

func sumLines(lines []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

// MinimumWageCheck compares the daily rate implied by NetPay with the
// region's minimum. It is advisory and never changes the result.
func (a *Aggregator) MinimumWageCheck(result *domain.PayrollCalculationResult, regionCode string) (*domain.MinimumWageCheck, error) {
	if result == nil {
		return nil, fmt.Errorf("result is required: %w", domain.ErrValidation)
	}
	days := a.Statutory.Schedule().StandardWorkingDaysPerMonth
	if days.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("standard working days per month is zero: %w", domain.ErrConfiguration)
	}
	minimum, err := a.Statutory.MinimumWage(regionCode)
	if err != nil {
		return nil, err
	}
	implied := result.NetPay.Div(days)
	return &domain.MinimumWageCheck{
		RegionCode:   regionCode,
		ImpliedDaily: implied,
		MinimumDaily: minimum,
		Compliant:    implied.GreaterThanOrEqual(minimum),
	}, nil
}

// IsMinimumWageCompliant reports whether the result's implied daily rate
// reaches the region's minimum wage
func (a *Aggregator) IsMinimumWageCompliant(result *domain.PayrollCalculationResult, regionCode string) (bool, error) {
	check, err := a.MinimumWageCheck(result, regionCode)
	if err != nil {
		return false, err
	}
	if !check.Compliant {
		a.Logger.Warnf("employee %s: implied daily rate %s is below the %s minimum of %s",
			result.EmployeeID, check.ImpliedDaily.StringFixed(2), regionCode, check.MinimumDaily.StringFixed(2))
	}
	return check.Compliant, nil
}
