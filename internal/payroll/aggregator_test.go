package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/statutory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// stubResolver returns fixed component amounts
type stubResolver struct {
	computed []domain.ComputedComponentAmount
	err      error
}

func (s stubResolver) Resolve(context.Context, string, decimal.Decimal) ([]domain.ComputedComponentAmount, error) {
	return s.computed, s.err
}

func computed(id int64, name string, kind domain.ComponentKind, amount string) domain.ComputedComponentAmount {
	class, _ := kind.Classification()
	return domain.ComputedComponentAmount{
		Assignment:     domain.EmployeeComponentAssignment{ID: id * 10, ComponentID: id, IsActive: true},
		Definition:     domain.SalaryComponentDefinition{ID: id, Name: name, Kind: kind, IsActive: true},
		Amount:         dec(amount),
		Classification: class,
	}
}

func TestCalculate(t *testing.T) {
	agg := NewAggregator(stubResolver{computed: []domain.ComputedComponentAmount{
		computed(1, "Housing Allowance", domain.KindAllowance, "5000"),
		computed(2, "Union Dues", domain.KindDeduction, "1500"),
		computed(3, "Performance Bonus", domain.KindBonus, "2000"),
	}}, nil)

	result, err := agg.Calculate(context.Background(), "E-1", dec("50000"))
	require.NoError(t, err)

	assert.Equal(t, "E-1", result.EmployeeID)
	assertDecimal(t, "50000", result.BaseSalary)
	assertDecimal(t, "5000", result.TotalAllowances)
	assertDecimal(t, "2000", result.TotalBonuses)
	assertDecimal(t, "57000", result.TotalEarnings)
	assertDecimal(t, "1500", result.TotalDeductions)
	assertDecimal(t, "55500", result.NetPay)

	require.Len(t, result.Earnings, 3)
	assert.Equal(t, BasicSalaryLine, result.Earnings[0].Name)
	assert.Equal(t, domain.SourceBase, result.Earnings[0].Source)
	assert.Nil(t, result.Earnings[0].ComponentID)
	assert.Equal(t, "Housing Allowance", result.Earnings[1].Name)
	require.NotNil(t, result.Earnings[1].ComponentID)
	assert.Equal(t, int64(1), *result.Earnings[1].ComponentID)
	assert.Equal(t, "Performance Bonus", result.Earnings[2].Name)

	require.Len(t, result.Deductions, 1)
	assert.Equal(t, "Union Dues", result.Deductions[0].Name)
	assert.Equal(t, domain.SourceComponent, result.Deductions[0].Source)
}

func TestCalculate_NoComponents(t *testing.T) {
	agg := NewAggregator(stubResolver{}, nil)

	result, err := agg.Calculate(context.Background(), "E-2", dec("18000"))
	require.NoError(t, err)
	assertDecimal(t, "18000", result.TotalEarnings)
	assertDecimal(t, "0", result.TotalDeductions)
	assertDecimal(t, "18000", result.NetPay)
	assert.NotNil(t, result.Deductions)
}

func TestCalculate_NetPayIdentity(t *testing.T) {
	tests := []struct {
		name       string
		components []domain.ComputedComponentAmount
		base       string
	}{
		{"deductions exceed earnings", []domain.ComputedComponentAmount{
			computed(1, "Loan", domain.KindDeduction, "30000"),
		}, "12000"},
		{"fractional amounts", []domain.ComputedComponentAmount{
			computed(1, "Meal", domain.KindAllowance, "1234.5678"),
			computed(2, "Coop", domain.KindDeduction, "0.0001"),
			computed(3, "Spot", domain.KindBonus, "99.99"),
		}, "33333.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(stubResolver{computed: tt.components}, nil)
			result, err := agg.Calculate(context.Background(), "E-1", dec(tt.base))
			require.NoError(t, err)
			assert.True(t, result.NetPay.Equal(result.TotalEarnings.Sub(result.TotalDeductions)))
		})
	}
}

func TestCalculate_Errors(t *testing.T) {
	agg := NewAggregator(stubResolver{}, nil)
	_, err := agg.Calculate(context.Background(), "E-1", dec("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	agg = NewAggregator(stubResolver{err: errors.New("store down")}, nil)
	_, err = agg.Calculate(context.Background(), "E-1", dec("1000"))
	assert.ErrorContains(t, err, "store down")

	bad := computed(1, "Odd", domain.KindAllowance, "1")
	bad.Classification = domain.Classification("other")
	agg = NewAggregator(stubResolver{computed: []domain.ComputedComponentAmount{bad}}, nil)
	_, err = agg.Calculate(context.Background(), "E-1", dec("1000"))
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestIsMinimumWageCompliant(t *testing.T) {
	agg := NewAggregator(stubResolver{}, nil)

	tests := []struct {
		name   string
		net    string
		region string
		want   bool
	}{
		{"well above", "22000", "NCR", true},
		{"exactly at minimum", "14190", "NCR", true},
		{"below", "11000", "NCR", false},
		{"negative net pay", "-500", "BARMM", false},
		{"lower regional floor", "8800", "barmm", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := agg.IsMinimumWageCompliant(&domain.PayrollCalculationResult{NetPay: dec(tt.net)}, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err := agg.IsMinimumWageCompliant(&domain.PayrollCalculationResult{NetPay: dec("22000")}, "MARS")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = agg.IsMinimumWageCompliant(nil, "NCR")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMinimumWageCheck(t *testing.T) {
	agg := NewAggregator(stubResolver{}, statutory.NewDefaultCalculator())

	check, err := agg.MinimumWageCheck(&domain.PayrollCalculationResult{NetPay: dec("22000")}, "NCR")
	require.NoError(t, err)
	assertDecimal(t, "1000", check.ImpliedDaily)
	assertDecimal(t, "645", check.MinimumDaily)
	assert.True(t, check.Compliant)
}

func TestMinimumWageCheck_ZeroWorkingDays(t *testing.T) {
	agg := NewAggregator(stubResolver{}, &statutory.Calculator{})

	var err error
	require.NotPanics(t, func() {
		_, err = agg.MinimumWageCheck(&domain.PayrollCalculationResult{NetPay: dec("22000")}, "NCR")
	})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
