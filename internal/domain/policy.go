package domain

import (
	"github.com/shopspring/decimal"
)

// StatutoryPolicy contains all jurisdiction rules for one point in time.
// It is loaded from a policy YAML file or taken from the built-in default,
// and treated as read-only once handed to a calculator.
type StatutoryPolicy struct {
	Metadata        PolicyMetadata             `yaml:"metadata" json:"metadata"`
	WorkSchedule    WorkSchedule               `yaml:"work_schedule" json:"work_schedule"`
	SocialInsurance []ContributionBracket      `yaml:"social_insurance" json:"social_insurance"`
	HealthInsurance HealthInsuranceRule        `yaml:"health_insurance" json:"health_insurance"`
	HousingFund     HousingFundRule            `yaml:"housing_fund" json:"housing_fund"`
	WithholdingTax  []TaxBracket               `yaml:"withholding_tax" json:"withholding_tax"`
	Premiums        PremiumRates               `yaml:"premiums" json:"premiums"`
	MinimumWages    map[string]decimal.Decimal `yaml:"minimum_wages" json:"minimum_wages"`
}

// PolicyMetadata identifies a policy version
type PolicyMetadata struct {
	Jurisdiction  string `yaml:"jurisdiction" json:"jurisdiction" validate:"required"`
	Version       string `yaml:"version" json:"version" validate:"required"`
	EffectiveFrom string `yaml:"effective_from" json:"effective_from"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
}

// String renders the metadata as "jurisdiction/version"
func (m PolicyMetadata) String() string {
	return m.Jurisdiction + "/" + m.Version
}

// WorkSchedule holds the denominators used to derive daily and hourly rates
type WorkSchedule struct {
	StandardWorkingDaysPerMonth decimal.Decimal `yaml:"standard_working_days_per_month" json:"standard_working_days_per_month"`
	StandardHoursPerDay         decimal.Decimal `yaml:"standard_hours_per_day" json:"standard_hours_per_day"`
}

// ContributionBracket maps the half-open salary range [Min, Max) to fixed
// contribution amounts. A zero Max marks the open-ended top bracket.
type ContributionBracket struct {
	Min      decimal.Decimal `yaml:"min" json:"min"`
	Max      decimal.Decimal `yaml:"max" json:"max"`
	Total    decimal.Decimal `yaml:"total" json:"total"`
	Employee decimal.Decimal `yaml:"employee" json:"employee"`
	Employer decimal.Decimal `yaml:"employer" json:"employer"`
}

// HealthInsuranceRule is a flat rate on a clamped contribution base, split evenly
type HealthInsuranceRule struct {
	Rate    decimal.Decimal `yaml:"rate" json:"rate"`
	Floor   decimal.Decimal `yaml:"floor" json:"floor"`
	Ceiling decimal.Decimal `yaml:"ceiling" json:"ceiling"`
}

// HousingFundRule is a two-tier employee rate with a capped employee share
type HousingFundRule struct {
	LowerRate        decimal.Decimal `yaml:"lower_rate" json:"lower_rate"`
	UpperRate        decimal.Decimal `yaml:"upper_rate" json:"upper_rate"`
	Threshold        decimal.Decimal `yaml:"threshold" json:"threshold"`
	MaxEmployeeShare decimal.Decimal `yaml:"max_employee_share" json:"max_employee_share"`
}

// TaxBracket is one row of a progressive annual tax table over [Min, Max).
// Tax inside the row is BaseTax + Rate * (income - Min). A zero Max marks the top row.
type TaxBracket struct {
	Min     decimal.Decimal `yaml:"min" json:"min"`
	Max     decimal.Decimal `yaml:"max" json:"max"`
	BaseTax decimal.Decimal `yaml:"base_tax" json:"base_tax"`
	Rate    decimal.Decimal `yaml:"rate" json:"rate"`
}

// PremiumRates holds the multipliers applied to derived hourly and daily rates
type PremiumRates struct {
	OrdinaryOvertime            decimal.Decimal `yaml:"ordinary_overtime" json:"ordinary_overtime"`
	HolidayOvertime             decimal.Decimal `yaml:"holiday_overtime" json:"holiday_overtime"`
	SpecialHolidayOvertime      decimal.Decimal `yaml:"special_holiday_overtime" json:"special_holiday_overtime"`
	RegularHolidayUnworked      decimal.Decimal `yaml:"regular_holiday_unworked" json:"regular_holiday_unworked"`
	RegularHolidayWorked        decimal.Decimal `yaml:"regular_holiday_worked" json:"regular_holiday_worked"`
	SpecialHolidayWorked        decimal.Decimal `yaml:"special_holiday_worked" json:"special_holiday_worked"`
	SpecialHolidayUnworked      decimal.Decimal `yaml:"special_holiday_unworked" json:"special_holiday_unworked"`
	NightDifferentialRate       decimal.Decimal `yaml:"night_differential_rate" json:"night_differential_rate"`
	ThirteenthMonthDivisor      decimal.Decimal `yaml:"thirteenth_month_divisor" json:"thirteenth_month_divisor"`
	AnnualizationPeriodsPerYear decimal.Decimal `yaml:"annualization_periods_per_year" json:"annualization_periods_per_year"`
}

// DeepCopy returns a copy that shares no slices or maps with the receiver
func (p *StatutoryPolicy) DeepCopy() *StatutoryPolicy {
	if p == nil {
		return nil
	}
	out := *p
	out.SocialInsurance = append([]ContributionBracket(nil), p.SocialInsurance...)
	out.WithholdingTax = append([]TaxBracket(nil), p.WithholdingTax...)
	if p.MinimumWages != nil {
		out.MinimumWages = make(map[string]decimal.Decimal, len(p.MinimumWages))
		for k, v := range p.MinimumWages {
			out.MinimumWages[k] = v
		}
	}
	return &out
}
