package statutory

import (
	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/shopspring/decimal"
)

// STATUTORY POLICY ASSUMPTIONS (built-in default):
//
// 1. Work schedule: 22 working days per month, 8 hours per day.
// 2. Social insurance: fixed amounts per 2,000-wide salary band, employee
//    share 2.4% and employer share 4.8% of the band's credited salary. The
//    last band is open-ended and acts as the contribution ceiling.
// 3. Health insurance: 5% of salary clamped to [10,000, 100,000], split evenly.
// 4. Housing fund: 1% up to 1,500 monthly salary, 2% above, employee share
//    capped at 100 and matched by the employer.
// 5. Withholding tax: annual graduated table, 250,000 exempt.
// 6. Minimum wages: daily rates per region code.
//
// Values are policy data. Swap them through a policy YAML file rather than
// editing the calculator.

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// socialInsuranceBand builds the band [min, max) credited at msc
func socialInsuranceBand(min, max, msc string) domain.ContributionBracket {
	credited := d(msc)
	employee := credited.Mul(d("0.024"))
	employer := credited.Mul(d("0.048"))
	b := domain.ContributionBracket{
		Min:      d(min),
		Employee: employee,
		Employer: employer,
		Total:    employee.Add(employer),
	}
	if max != "" {
		b.Max = d(max)
	}
	return b
}

// DefaultPolicy returns the built-in 2024 policy. Each call returns a fresh value.
func DefaultPolicy() *domain.StatutoryPolicy {
	return &domain.StatutoryPolicy{
		Metadata: domain.PolicyMetadata{
			Jurisdiction:  "PH",
			Version:       "2024.1",
			EffectiveFrom: "2024-01-01",
			Description:   "Built-in statutory tables",
		},
		WorkSchedule: domain.WorkSchedule{
			StandardWorkingDaysPerMonth: decimal.NewFromInt(22),
			StandardHoursPerDay:         decimal.NewFromInt(8),
		},
		SocialInsurance: []domain.ContributionBracket{
			socialInsuranceBand("0", "3000", "2000"),
			socialInsuranceBand("3000", "5000", "4000"),
			socialInsuranceBand("5000", "7000", "6000"),
			socialInsuranceBand("7000", "9000", "8000"),
			socialInsuranceBand("9000", "11000", "10000"),
			socialInsuranceBand("11000", "13000", "12000"),
			socialInsuranceBand("13000", "15000", "14000"),
			socialInsuranceBand("15000", "17000", "16000"),
			socialInsuranceBand("17000", "19000", "18000"),
			socialInsuranceBand("19000", "", "20000"),
		},
		HealthInsurance: domain.HealthInsuranceRule{
			Rate:    d("0.05"),
			Floor:   decimal.NewFromInt(10000),
			Ceiling: decimal.NewFromInt(100000),
		},
		HousingFund: domain.HousingFundRule{
			LowerRate:        d("0.01"),
			UpperRate:        d("0.02"),
			Threshold:        decimal.NewFromInt(1500),
			MaxEmployeeShare: decimal.NewFromInt(100),
		},
		WithholdingTax: []domain.TaxBracket{
			{Min: d("0"), Max: d("250000"), BaseTax: d("0"), Rate: d("0")},
			{Min: d("250000"), Max: d("400000"), BaseTax: d("0"), Rate: d("0.15")},
			{Min: d("400000"), Max: d("800000"), BaseTax: d("22500"), Rate: d("0.20")},
			{Min: d("800000"), Max: d("2000000"), BaseTax: d("102500"), Rate: d("0.25")},
			{Min: d("2000000"), Max: d("8000000"), BaseTax: d("402500"), Rate: d("0.30")},
			{Min: d("8000000"), BaseTax: d("2202500"), Rate: d("0.35")},
		},
		Premiums: domain.PremiumRates{
			OrdinaryOvertime:            d("1.25"),
			HolidayOvertime:             d("2.0"),
			SpecialHolidayOvertime:      d("1.3"),
			RegularHolidayUnworked:      d("1.0"),
			RegularHolidayWorked:        d("2.0"),
			SpecialHolidayWorked:        d("1.3"),
			SpecialHolidayUnworked:      d("0"),
			NightDifferentialRate:       d("0.10"),
			ThirteenthMonthDivisor:      decimal.NewFromInt(12),
			AnnualizationPeriodsPerYear: decimal.NewFromInt(12),
		},
		MinimumWages: map[string]decimal.Decimal{
			"NCR":   d("645"),
			"CAR":   d("470"),
			"I":     d("468"),
			"II":    d("480"),
			"III":   d("550"),
			"IV-A":  d("560"),
			"IV-B":  d("404"),
			"V":     d("395"),
			"VI":    d("480"),
			"VII":   d("501"),
			"VIII":  d("435"),
			"IX":    d("381"),
			"X":     d("446"),
			"XI":    d("481"),
			"XII":   d("403"),
			"XIII":  d("390"),
			"BARMM": d("361"),
		},
	}
}
