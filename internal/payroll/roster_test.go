package payroll

import (
	"context"
	"testing"

	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster(t *testing.T) {
	run := &domain.PayrollRun{
		Period: "2024-06",
		Employees: []domain.EmployeePayInput{
			{EmployeeID: "E-2", Name: "Second", BaseSalary: decimal.NewFromInt(20000)},
			{EmployeeID: "E-1", Name: "First", BaseSalary: decimal.NewFromInt(10000)},
		},
	}
	roster, err := NewRoster(run)
	require.NoError(t, err)
	assert.Equal(t, []string{"E-2", "E-1"}, roster.IDs())

	e, err := roster.Employee(context.Background(), " E-1 ")
	require.NoError(t, err)
	assert.Equal(t, "First", e.Name)

	_, err = roster.Employee(context.Background(), "E-9")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)

	var nilRoster *Roster
	_, err = nilRoster.Employee(context.Background(), "E-1")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	assert.Nil(t, nilRoster.IDs())
}

func TestRosterRejectsDuplicates(t *testing.T) {
	run := &domain.PayrollRun{
		Period: "2024-06",
		Employees: []domain.EmployeePayInput{
			{EmployeeID: "E-1"},
			{EmployeeID: "E-1"},
		},
	}
	_, err := NewRoster(run)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
}

func TestRosterHonoursContext(t *testing.T) {
	roster, err := NewRoster(nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = roster.Employee(ctx, "E-1")
	assert.ErrorIs(t, err, context.Canceled)
}
