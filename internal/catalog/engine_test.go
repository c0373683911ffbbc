package catalog

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalog() []domain.SalaryComponentDefinition {
	return []domain.SalaryComponentDefinition{
		{ID: 1, Name: "Housing Allowance", Kind: domain.KindAllowance, DefaultAmount: dec("10"), IsPercentage: true, IsActive: true},
		{ID: 2, Name: "Union Dues", Kind: domain.KindDeduction, DefaultAmount: dec("1500"), IsActive: true},
		{ID: 3, Name: "Performance Bonus", Kind: domain.KindBonus, DefaultAmount: dec("2000"), IsActive: true},
		{ID: 4, Name: "Legacy Transport", Kind: domain.KindAllowance, DefaultAmount: dec("800"), IsActive: false},
		{ID: 5, Name: "Mystery", Kind: domain.ComponentKind("perk"), DefaultAmount: dec("1"), IsActive: true},
	}
}

func assignment(id, componentID int64, amount string, pct bool) domain.EmployeeComponentAssignment {
	return domain.EmployeeComponentAssignment{
		ID:            id,
		EmployeeID:    "E-1",
		ComponentID:   componentID,
		CustomAmount:  dec(amount),
		IsPercentage:  pct,
		EffectiveDate: day(2024, time.January, 1),
		IsActive:      true,
	}
}

func newTestEngine(t *testing.T, assignments ...domain.EmployeeComponentAssignment) *Engine {
	t.Helper()
	store, err := NewMemoryStore(testCatalog(), assignments)
	require.NoError(t, err)
	return NewEngine(store, store, WithAsOf(today))
}

func TestResolveAmount(t *testing.T) {
	e := NewEngine(nil, nil)

	tests := []struct {
		name   string
		amount string
		pct    bool
		base   string
		want   string
	}{
		{"ten percent of 50,000", "10", true, "50000", "5000"},
		{"fixed passes through", "1500", false, "50000", "1500"},
		{"fixed ignores base", "1500", false, "0", "1500"},
		{"above one hundred percent is not clamped", "150", true, "20000", "30000"},
		{"fractional percent keeps precision", "0.5", true, "12345", "61.725"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ResolveAmount(assignment(1, 1, tt.amount, tt.pct), dec(tt.base))
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}

	_, err := e.ResolveAmount(assignment(1, 1, "10", true), dec("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	for _, pct := range []bool{false, true} {
		_, err = e.ResolveAmount(assignment(1, 2, "-1500", pct), dec("50000"))
		assert.ErrorIs(t, err, domain.ErrValidation, "percentage=%v", pct)
	}
}

func TestResolveAmount_LinearInBase(t *testing.T) {
	e := NewEngine(nil, nil)
	a := assignment(1, 1, "7.5", true)

	for _, base := range []string{"1000", "33333.33", "98765.4321"} {
		single, err := e.ResolveAmount(a, dec(base))
		require.NoError(t, err)
		for _, k := range []int64{2, 3, 10} {
			scaled, err := e.ResolveAmount(a, dec(base).Mul(decimal.NewFromInt(k)))
			require.NoError(t, err)
			assert.True(t, single.Mul(decimal.NewFromInt(k)).Equal(scaled), "base %s k %d", base, k)
		}
	}
}

func TestListEffectiveAssignments(t *testing.T) {
	future := assignment(10, 2, "100", false)
	future.EffectiveDate = day(2024, time.July, 1)

	ended := assignment(11, 2, "100", false)
	end := day(2024, time.June, 14)
	ended.EndDate = &end

	endsToday := assignment(12, 2, "100", false)
	endToday := day(2024, time.June, 15)
	endsToday.EndDate = &endToday

	startsToday := assignment(13, 2, "100", false)
	startsToday.EffectiveDate = day(2024, time.June, 15).Add(23 * time.Hour)

	inactive := assignment(14, 2, "100", false)
	inactive.IsActive = false

	e := newTestEngine(t, future, ended, endsToday, startsToday, inactive, assignment(15, 1, "10", true))

	got, err := e.ListEffectiveAssignments(context.Background(), "E-1")
	require.NoError(t, err)

	ids := make([]int64, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int64{12, 13, 15}, ids)
}

func TestListEffectiveAssignments_UnknownEmployee(t *testing.T) {
	e := newTestEngine(t, assignment(1, 1, "10", true))

	got, err := e.ListEffectiveAssignments(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClassify(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		componentID int64
		want        domain.Classification
		wantErr     error
	}{
		{"allowance is earning", 1, domain.Earning, nil},
		{"deduction is deduction", 2, domain.Deduction, nil},
		{"bonus is earning", 3, domain.Earning, nil},
		{"inactive definition still classifies", 4, domain.Earning, nil},
		{"unknown kind", 5, "", domain.ErrDataIntegrity},
		{"missing definition", 99, "", domain.ErrDataIntegrity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Classify(ctx, assignment(1, tt.componentID, "1", false))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_MissingDefinitionKeepsCause(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Classify(context.Background(), assignment(1, 42, "1", false))
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
	assert.ErrorIs(t, err, domain.ErrComponentNotFound)
}

func TestResolve(t *testing.T) {
	e := newTestEngine(t,
		assignment(1, 1, "10", true),
		assignment(2, 2, "1500", false),
		assignment(3, 4, "800", false),
	)

	got, err := e.Resolve(context.Background(), "E-1", dec("50000"))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Housing Allowance", got[0].Name())
	assert.Equal(t, domain.Earning, got[0].Classification)
	assert.True(t, dec("5000").Equal(got[0].Amount))

	assert.Equal(t, "Union Dues", got[1].Name())
	assert.Equal(t, domain.Deduction, got[1].Classification)
	assert.True(t, dec("1500").Equal(got[1].Amount))

	assert.False(t, got[2].Definition.IsActive)
	assert.True(t, dec("800").Equal(got[2].Amount))
}

func TestResolve_AllOrNothing(t *testing.T) {
	e := newTestEngine(t,
		assignment(1, 1, "10", true),
		assignment(2, 5, "1", false),
	)

	got, err := e.Resolve(context.Background(), "E-1", dec("50000"))
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
	assert.Nil(t, got)

	_, err = newTestEngine(t).Resolve(context.Background(), "E-1", dec("-10"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAggregateByClassification(t *testing.T) {
	e := newTestEngine(t,
		assignment(1, 1, "10", true),
		assignment(2, 2, "1500", false),
		assignment(3, 3, "2000", false),
	)

	totals, err := e.AggregateByClassification(context.Background(), "E-1", dec("50000"))
	require.NoError(t, err)
	assert.True(t, dec("7000").Equal(totals[domain.Earning]))
	assert.True(t, dec("1500").Equal(totals[domain.Deduction]))
}

func TestAggregateByClassification_NegativeAmount(t *testing.T) {
	e := newTestEngine(t, assignment(1, 2, "-1500", false))

	totals, err := e.AggregateByClassification(context.Background(), "E-1", dec("50000"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Nil(t, totals)
}

func TestTotals(t *testing.T) {
	totals := Totals([]domain.ComputedComponentAmount{
		{Amount: dec("100.25"), Classification: domain.Earning},
		{Amount: dec("40"), Classification: domain.Deduction},
		{Amount: dec("0.75"), Classification: domain.Earning},
	})
	assert.True(t, dec("101").Equal(totals[domain.Earning]))
	assert.True(t, dec("40").Equal(totals[domain.Deduction]))

	empty := Totals(nil)
	require.Len(t, empty, 2)
	assert.True(t, empty[domain.Earning].IsZero())
	assert.True(t, empty[domain.Deduction].IsZero())
}

func TestAggregateByClassification_NoAssignments(t *testing.T) {
	totals, err := newTestEngine(t).AggregateByClassification(context.Background(), "E-1", dec("50000"))
	require.NoError(t, err)
	require.Contains(t, totals, domain.Earning)
	require.Contains(t, totals, domain.Deduction)
	assert.True(t, totals[domain.Earning].IsZero())
	assert.True(t, totals[domain.Deduction].IsZero())
}

func TestAggregateByClassification_OrderIndependent(t *testing.T) {
	assignments := []domain.EmployeeComponentAssignment{
		assignment(1, 1, "12.5", true),
		assignment(2, 2, "1500", false),
		assignment(3, 3, "2000.01", false),
		assignment(4, 1, "3.3", true),
		assignment(5, 2, "7.5", true),
		assignment(6, 4, "800", false),
	}
	base := dec("43210.98")

	want, err := newTestEngine(t, assignments...).AggregateByClassification(context.Background(), "E-1", base)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.EmployeeComponentAssignment(nil), assignments...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := newTestEngine(t, shuffled...).AggregateByClassification(context.Background(), "E-1", base)
		require.NoError(t, err)
		assert.True(t, want[domain.Earning].Equal(got[domain.Earning]))
		assert.True(t, want[domain.Deduction].Equal(got[domain.Deduction]))
	}
}

// countingReader records how often the engine reads assignments
type countingReader struct {
	calls int
	rows  []domain.EmployeeComponentAssignment
	err   error
}

func (r *countingReader) ListAssignments(context.Context, string) ([]domain.EmployeeComponentAssignment, error) {
	r.calls++
	return r.rows, r.err
}

func TestEngine_ReadsFreshEveryCall(t *testing.T) {
	store, err := NewMemoryStore(testCatalog(), nil)
	require.NoError(t, err)
	reader := &countingReader{rows: []domain.EmployeeComponentAssignment{assignment(1, 2, "100", false)}}
	e := NewEngine(store, reader, WithAsOf(today))

	first, err := e.AggregateByClassification(context.Background(), "E-1", dec("1000"))
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(first[domain.Deduction]))

	reader.rows = append(reader.rows, assignment(2, 2, "50", false))
	second, err := e.AggregateByClassification(context.Background(), "E-1", dec("1000"))
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(second[domain.Deduction]))
	assert.Equal(t, 2, reader.calls)
}

func TestEngine_ReaderErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	e := NewEngine(nil, &countingReader{err: boom})

	_, err := e.Resolve(context.Background(), "E-1", dec("1000"))
	assert.ErrorIs(t, err, boom)
}

func TestEngine_SetLogger(t *testing.T) {
	e := NewEngine(nil, nil)
	assert.IsType(t, logging.NopLogger{}, e.Logger)

	e.SetLogger(nil)
	assert.IsType(t, logging.NopLogger{}, e.Logger)
}

func TestMemoryStore(t *testing.T) {
	end := day(2024, time.December, 31)
	a := assignment(1, 1, "10", true)
	a.EndDate = &end

	store, err := NewMemoryStore(testCatalog(), []domain.EmployeeComponentAssignment{a})
	require.NoError(t, err)

	rows, err := store.ListAssignments(context.Background(), "E-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	*rows[0].EndDate = day(2000, time.January, 1)

	again, err := store.ListAssignments(context.Background(), "E-1")
	require.NoError(t, err)
	assert.Equal(t, end, *again[0].EndDate)

	_, err = store.GetComponent(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrComponentNotFound)

	_, err = NewMemoryStore(append(testCatalog(), testCatalog()[0]), nil)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}
