package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/logging"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Engine resolves an employee's component assignments into money. It reads
// through the injected ports on every call and keeps no cache.
type Engine struct {
	Components  domain.ComponentReader
	Assignments domain.AssignmentReader
	Now         func() time.Time
	Logger      logging.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the clock used to decide which assignments are currently effective
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.Now = now
		}
	}
}

// WithAsOf pins the effective-date check to a fixed day
func WithAsOf(day time.Time) Option {
	return WithClock(func() time.Time { return day })
}

// WithLogger sets the engine logger
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.SetLogger(l) }
}

// NewEngine creates an engine over the given read ports
func NewEngine(components domain.ComponentReader, assignments domain.AssignmentReader, opts ...Option) *Engine {
	e := &Engine{
		Components:  components,
		Assignments: assignments,
		Now:         time.Now,
		Logger:      logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetLogger sets the logger; nil restores the no-op logger
func (e *Engine) SetLogger(l logging.Logger) {
	e.Logger = logging.OrNop(l)
}

// ResolveAmount turns an assignment into money. Percentages are taken of
// baseSalary, fixed amounts pass through. Nothing is rounded or clamped.
func (e *Engine) ResolveAmount(a domain.EmployeeComponentAssignment, baseSalary decimal.Decimal) (decimal.Decimal, error) {
	if baseSalary.IsNegative() {
		return decimal.Zero, fmt.Errorf("base salary cannot be negative (got %s): %w", baseSalary.String(), domain.ErrValidation)
	}
	if a.CustomAmount.IsNegative() {
		return decimal.Zero, fmt.Errorf("assignment %d: custom amount cannot be negative (got %s): %w", a.ID, a.CustomAmount.String(), domain.ErrValidation)
	}
	if a.IsPercentage {
		return baseSalary.Mul(a.CustomAmount).Div(hundred), nil
	}
	return a.CustomAmount, nil
}

// ListEffectiveAssignments returns the employee's assignments that are
// effective today, in the order the reader returned them
func (e *Engine) ListEffectiveAssignments(ctx context.Context, employeeID string) ([]domain.EmployeeComponentAssignment, error) {
	all, err := e.Assignments.ListAssignments(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for %s: %w", employeeID, err)
	}
	today := e.Now()
	effective := make([]domain.EmployeeComponentAssignment, 0, len(all))
	for _, a := range all {
		if a.IsEffectiveOn(today) {
			effective = append(effective, a)
		}
	}
	e.Logger.Debugf("employee %s: %d of %d assignments effective on %s",
		employeeID, len(effective), len(all), today.Format("2006-01-02"))
	return effective, nil
}

// Classify reports which side of the payslip an assignment lands on, based
// only on its definition's kind. Inactive definitions still classify.
func (e *Engine) Classify(ctx context.Context, a domain.EmployeeComponentAssignment) (domain.Classification, error) {
	def, err := e.definition(ctx, a)
	if err != nil {
		return "", err
	}
	return classifyDefinition(a, def)
}

func (e *Engine) definition(ctx context.Context, a domain.EmployeeComponentAssignment) (domain.SalaryComponentDefinition, error) {
	def, err := e.Components.GetComponent(ctx, a.ComponentID)
	if err != nil {
		return domain.SalaryComponentDefinition{}, fmt.Errorf("assignment %d references component %d: %w: %w",
			a.ID, a.ComponentID, domain.ErrDataIntegrity, err)
	}
	return def, nil
}

func classifyDefinition(a domain.EmployeeComponentAssignment, def domain.SalaryComponentDefinition) (domain.Classification, error) {
	c, err := def.Kind.Classification()
	if err != nil {
		return "", fmt.Errorf("assignment %d, component %q: %w", a.ID, def.Name, err)
	}
	return c, nil
}

// Resolve lists, classifies and resolves every effective assignment of an
// employee. Any failure aborts the whole call.
func (e *Engine) Resolve(ctx context.Context, employeeID string, baseSalary decimal.Decimal) ([]domain.ComputedComponentAmount, error) {
	if baseSalary.IsNegative() {
		return nil, fmt.Errorf("base salary cannot be negative (got %s): %w", baseSalary.String(), domain.ErrValidation)
	}
	assignments, err := e.ListEffectiveAssignments(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ComputedComponentAmount, 0, len(assignments))
	for _, a := range assignments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		def, err := e.definition(ctx, a)
		if err != nil {
			return nil, err
		}
		class, err := classifyDefinition(a, def)
		if err != nil {
			return nil, err
		}
		amount, err := e.ResolveAmount(a, baseSalary)
		if err != nil {
			return nil, err
		}
		if !def.IsActive {
			e.Logger.Warnf("employee %s: component %q is inactive but still assigned", employeeID, def.Name)
		}
		out = append(out, domain.ComputedComponentAmount{
			Assignment:     a,
			Definition:     def,
			Amount:         amount,
			Classification: class,
		})
	}
	return out, nil
}

// AggregateByClassification sums the resolved amounts per side. Both keys
// are always present.
func (e *Engine) AggregateByClassification(ctx context.Context, employeeID string, baseSalary decimal.Decimal) (map[domain.Classification]decimal.Decimal, error) {
	computed, err := e.Resolve(ctx, employeeID, baseSalary)
	if err != nil {
		return nil, err
	}
	return Totals(computed), nil
}

// Totals sums resolved amounts per classification. Both keys are always present.
func Totals(computed []domain.ComputedComponentAmount) map[domain.Classification]decimal.Decimal {
	totals := map[domain.Classification]decimal.Decimal{
		domain.Earning:   decimal.Zero,
		domain.Deduction: decimal.Zero,
	}
	for _, c := range computed {
		totals[c.Classification] = totals[c.Classification].Add(c.Amount)
	}
	return totals
}
