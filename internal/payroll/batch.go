package payroll

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/paygo/internal/catalog"
	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/logging"
	"github.com/rgehrsitz/paygo/internal/statutory"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// BatchRunner computes every employee of a payroll run
type BatchRunner struct {
	Statutory   *statutory.Calculator
	Logger      logging.Logger
	Now         func() time.Time
	Concurrency int
}

// NewBatchRunner creates a runner. A nil calculator uses the built-in policy.
func NewBatchRunner(calc *statutory.Calculator) *BatchRunner {
	if calc == nil {
		calc = statutory.NewDefaultCalculator()
	}
	return &BatchRunner{
		Statutory:   calc,
		Logger:      logging.NopLogger{},
		Now:         time.Now,
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// SetLogger sets the logger; nil restores the no-op logger
func (r *BatchRunner) SetLogger(l logging.Logger) {
	r.Logger = logging.OrNop(l)
}

// RunBatch computes one payslip per employee of the run. Employees are
// independent and run concurrently; payslips keep the run's employee order.
// The first failure cancels the rest and fails the whole batch.
func (r *BatchRunner) RunBatch(ctx context.Context, run *domain.PayrollRun) (*domain.PayrollBatch, error) {
	if run == nil {
		return nil, fmt.Errorf("payroll run is required: %w", domain.ErrValidation)
	}
	store, err := catalog.NewMemoryStoreFromRun(run)
	if err != nil {
		return nil, fmt.Errorf("failed to load run catalog: %w", err)
	}

	generatedAt := r.Now()
	asOf := generatedAt
	if run.AsOf != nil {
		asOf = *run.AsOf
	}
	engine := catalog.NewEngine(store, store, catalog.WithAsOf(asOf), catalog.WithLogger(r.Logger))
	agg := NewAggregator(engine, r.Statutory)
	agg.SetLogger(r.Logger)

	batch := &domain.PayrollBatch{
		RunID:       uuid.NewString(),
		Period:      run.Period,
		AsOf:        asOf,
		GeneratedAt: generatedAt,
		Policy:      r.Statutory.Policy().Metadata.String(),
		Payslips:    make([]domain.Payslip, len(run.Employees)),
	}
	r.Logger.Infof("run %s: computing %d payslips for %s", batch.RunID, len(run.Employees), run.Period)

	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for i, emp := range run.Employees {
		g.Go(func() error {
			slip, err := agg.Payslip(gctx, emp)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.EmployeeID, err)
			}
			batch.Payslips[i] = *slip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.Logger.Errorf("run %s failed: %v", batch.RunID, err)
		return nil, err
	}

	batch.TotalNetPay = decimal.Zero
	for _, slip := range batch.Payslips {
		batch.TotalNetPay = batch.TotalNetPay.Add(slip.Result.NetPay)
	}
	r.Logger.Infof("run %s: total net pay %s", batch.RunID, batch.TotalNetPay.StringFixed(2))
	return batch, nil
}

// Payslip computes one employee: components first, then statutory
// composition and the minimum-wage advisory when requested
func (a *Aggregator) Payslip(ctx context.Context, emp domain.EmployeePayInput) (*domain.Payslip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := a.Calculate(ctx, emp.EmployeeID, emp.BaseSalary)
	if err != nil {
		return nil, err
	}
	slip := &domain.Payslip{EmployeeID: emp.EmployeeID, Name: emp.Name}

	if emp.ApplyStatutory {
		composed, contributions, err := a.ComposeStatutory(result, emp.PeriodInputs)
		if err != nil {
			return nil, err
		}
		result = composed
		slip.Contributions = &contributions
	}
	if emp.RegionCode != "" {
		check, err := a.MinimumWageCheck(result, emp.RegionCode)
		if err != nil {
			if _, lookupErr := a.Statutory.MinimumWage(emp.RegionCode); lookupErr == nil {
				return nil, err
			}
			a.Logger.Warnf("employee %s: unknown region %q, minimum wage not verified", emp.EmployeeID, emp.RegionCode)
			check = &domain.MinimumWageCheck{RegionCode: emp.RegionCode, UnknownRegion: true}
		} else if !check.Compliant {
			a.Logger.Warnf("employee %s: implied daily rate %s is below the %s minimum of %s",
				emp.EmployeeID, check.ImpliedDaily.StringFixed(2), check.RegionCode, check.MinimumDaily.StringFixed(2))
		}
		slip.MinimumWage = check
	}
	slip.Result = *result
	return slip, nil
}
