package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComponentKind_Classification(t *testing.T) {
	tests := []struct {
		kind    ComponentKind
		want    Classification
		wantErr bool
	}{
		{KindAllowance, Earning, false},
		{KindBonus, Earning, false},
		{KindDeduction, Deduction, false},
		{"reimbursement", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := tt.kind.Classification()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDataIntegrity)
				assert.False(t, tt.kind.Valid())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, tt.kind.Valid())
		})
	}
}

func TestIsEffectiveOn(t *testing.T) {
	end := day(2024, 6, 30)
	tests := []struct {
		name string
		a    EmployeeComponentAssignment
		at   time.Time
		want bool
	}{
		{"open ended", EmployeeComponentAssignment{IsActive: true, EffectiveDate: day(2024, 1, 1)}, day(2030, 1, 1), true},
		{"inactive", EmployeeComponentAssignment{IsActive: false, EffectiveDate: day(2024, 1, 1)}, day(2024, 6, 1), false},
		{"future start", EmployeeComponentAssignment{IsActive: true, EffectiveDate: day(2024, 7, 1)}, day(2024, 6, 15), false},
		{"starts today", EmployeeComponentAssignment{IsActive: true, EffectiveDate: day(2024, 6, 15)}, day(2024, 6, 15).Add(9 * time.Hour), true},
		{"ends today", EmployeeComponentAssignment{IsActive: true, EffectiveDate: day(2024, 1, 1), EndDate: &end}, end.Add(23 * time.Hour), true},
		{"ended", EmployeeComponentAssignment{IsActive: true, EffectiveDate: day(2024, 1, 1), EndDate: &end}, day(2024, 7, 1), false},
		{"start time of day ignored", EmployeeComponentAssignment{IsActive: true, EffectiveDate: day(2024, 6, 15).Add(18 * time.Hour)}, day(2024, 6, 15).Add(8 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.IsEffectiveOn(tt.at))
		})
	}
}

func TestPayrollCalculationResult_DeepCopy(t *testing.T) {
	id := int64(7)
	r := &PayrollCalculationResult{
		EmployeeID: "E-1",
		Earnings:   []LineItem{{Name: "Basic Salary", Amount: decimal.NewFromInt(100)}},
		Deductions: []LineItem{{Name: "Loan", Amount: decimal.NewFromInt(5), ComponentID: &id}},
	}

	c := r.DeepCopy()
	c.Earnings[0].Name = "changed"
	*c.Deductions[0].ComponentID = 99

	assert.Equal(t, "Basic Salary", r.Earnings[0].Name)
	assert.Equal(t, int64(7), *r.Deductions[0].ComponentID)

	var nilResult *PayrollCalculationResult
	assert.Nil(t, nilResult.DeepCopy())
}

func TestStatutoryPolicy_DeepCopy(t *testing.T) {
	p := &StatutoryPolicy{
		Metadata:        PolicyMetadata{Jurisdiction: "PH", Version: "2024.1"},
		SocialInsurance: []ContributionBracket{{Employee: decimal.NewFromInt(1)}},
		WithholdingTax:  []TaxBracket{{Rate: decimal.NewFromInt(0)}},
		MinimumWages:    map[string]decimal.Decimal{"NCR": decimal.NewFromInt(645)},
	}

	c := p.DeepCopy()
	c.SocialInsurance[0].Employee = decimal.NewFromInt(9)
	c.WithholdingTax[0].Rate = decimal.NewFromInt(9)
	c.MinimumWages["NCR"] = decimal.NewFromInt(1)

	assert.True(t, p.SocialInsurance[0].Employee.Equal(decimal.NewFromInt(1)))
	assert.True(t, p.WithholdingTax[0].Rate.IsZero())
	assert.True(t, p.MinimumWages["NCR"].Equal(decimal.NewFromInt(645)))
	assert.Equal(t, "PH/2024.1", c.Metadata.String())
}

func TestStatutoryContributions_Totals(t *testing.T) {
	c := StatutoryContributions{
		SocialInsurance: ContributionShare{EmployeeShare: decimal.NewFromInt(240), EmployerShare: decimal.NewFromInt(480)},
		HealthInsurance: ContributionShare{EmployeeShare: decimal.NewFromInt(250), EmployerShare: decimal.NewFromInt(250)},
		HousingFund:     ContributionShare{EmployeeShare: decimal.NewFromInt(100), EmployerShare: decimal.NewFromInt(100)},
	}
	assert.True(t, c.EmployeeTotal().Equal(decimal.NewFromInt(590)))
	assert.True(t, c.EmployerTotal().Equal(decimal.NewFromInt(830)))
}
