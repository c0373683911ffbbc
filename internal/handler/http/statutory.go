package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/handler/http/response"
	"github.com/rgehrsitz/paygo/internal/statutory"
	"github.com/shopspring/decimal"
)

type StatutoryHandler interface {
	GetPolicy(w http.ResponseWriter, r *http.Request)
	Contributions(w http.ResponseWriter, r *http.Request)
	WithholdingTax(w http.ResponseWriter, r *http.Request)
	Premiums(w http.ResponseWriter, r *http.Request)
	MinimumWage(w http.ResponseWriter, r *http.Request)
}

type statutoryHandlerImpl struct {
	calc *statutory.Calculator
}

func NewStatutoryHandler(calc *statutory.Calculator) StatutoryHandler {
	return &statutoryHandlerImpl{calc: calc}
}

type ContributionsRequest struct {
	MonthlySalary *decimal.Decimal `json:"monthly_salary" validate:"required"`
}

type ContributionsResponse struct {
	MonthlySalary decimal.Decimal               `json:"monthly_salary"`
	Contributions domain.StatutoryContributions `json:"contributions"`
	EmployeeTotal decimal.Decimal               `json:"employee_total"`
	EmployerTotal decimal.Decimal               `json:"employer_total"`
}

// WithholdingTaxRequest takes exactly one of the two incomes
type WithholdingTaxRequest struct {
	AnnualTaxableIncome  *decimal.Decimal `json:"annual_taxable_income" validate:"required_without=MonthlyTaxableIncome,excluded_with=MonthlyTaxableIncome"`
	MonthlyTaxableIncome *decimal.Decimal `json:"monthly_taxable_income" validate:"required_without=AnnualTaxableIncome"`
}

type WithholdingTaxResponse struct {
	AnnualTax  decimal.Decimal `json:"annual_tax"`
	MonthlyTax decimal.Decimal `json:"monthly_tax"`
}

type PremiumsRequest struct {
	BasicMonthlySalary *decimal.Decimal `json:"basic_monthly_salary" validate:"required"`
	OvertimeHours      decimal.Decimal  `json:"overtime_hours"`
	IsHoliday          bool             `json:"is_holiday"`
	IsSpecialHoliday   bool             `json:"is_special_holiday"`
	NightHours         decimal.Decimal  `json:"night_hours"`
	IsRegularHoliday   bool             `json:"is_regular_holiday"`
	WorkedOnHoliday    bool             `json:"worked_on_holiday"`
	BasicSalaryForYear decimal.Decimal  `json:"basic_salary_for_year"`
}

type PremiumsResponse struct {
	DailyRate          decimal.Decimal `json:"daily_rate"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	OvertimeMultiplier decimal.Decimal `json:"overtime_multiplier"`
	OvertimePremium    decimal.Decimal `json:"overtime_premium"`
	NightDifferential  decimal.Decimal `json:"night_differential"`
	HolidayPay         decimal.Decimal `json:"holiday_pay"`
	ThirteenthMonthPay decimal.Decimal `json:"thirteenth_month_pay"`
}

type MinimumWageResponse struct {
	RegionCode   string           `json:"region_code"`
	MinimumDaily decimal.Decimal  `json:"minimum_daily"`
	DailySalary  *decimal.Decimal `json:"daily_salary,omitempty"`
	Compliant    *bool            `json:"compliant,omitempty"`
}

func (h *statutoryHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.calc.Policy())
}

func (h *statutoryHandlerImpl) Contributions(w http.ResponseWriter, r *http.Request) {
	var req ContributionsRequest
	if err := decodeRequest(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	c, err := h.calc.Contributions(*req.MonthlySalary)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ContributionsResponse{
		MonthlySalary: *req.MonthlySalary,
		Contributions: c,
		EmployeeTotal: c.EmployeeTotal(),
		EmployerTotal: c.EmployerTotal(),
	})
}

func (h *statutoryHandlerImpl) WithholdingTax(w http.ResponseWriter, r *http.Request) {
	var req WithholdingTaxRequest
	if err := decodeRequest(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	periods := h.calc.Policy().Premiums.AnnualizationPeriodsPerYear
	var res WithholdingTaxResponse
	if req.MonthlyTaxableIncome != nil {
		monthly, err := h.calc.MonthlyWithholdingTax(*req.MonthlyTaxableIncome)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		res = WithholdingTaxResponse{AnnualTax: monthly.Mul(periods), MonthlyTax: monthly}
	} else {
		annual, err := h.calc.WithholdingTax(*req.AnnualTaxableIncome)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		res = WithholdingTaxResponse{AnnualTax: annual, MonthlyTax: annual.Div(periods)}
	}

	response.Success(w, res)
}

func (h *statutoryHandlerImpl) Premiums(w http.ResponseWriter, r *http.Request) {
	var req PremiumsRequest
	if err := decodeRequest(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	res, err := h.premiums(req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, res)
}

func (h *statutoryHandlerImpl) premiums(req PremiumsRequest) (PremiumsResponse, error) {
	basic := *req.BasicMonthlySalary
	var res PremiumsResponse
	var err error
	if res.DailyRate, err = h.calc.DailyRate(basic); err != nil {
		return res, err
	}
	if res.HourlyRate, err = h.calc.HourlyRate(basic); err != nil {
		return res, err
	}
	res.OvertimeMultiplier = h.calc.OvertimeMultiplier(req.IsHoliday, req.IsSpecialHoliday)
	if res.OvertimePremium, err = h.calc.OvertimePremium(basic, req.OvertimeHours, req.IsHoliday, req.IsSpecialHoliday); err != nil {
		return res, err
	}
	if res.NightDifferential, err = h.calc.NightDifferential(basic, req.NightHours); err != nil {
		return res, err
	}
	if res.HolidayPay, err = h.calc.HolidayPay(res.DailyRate, req.IsRegularHoliday, req.WorkedOnHoliday); err != nil {
		return res, err
	}
	if res.ThirteenthMonthPay, err = h.calc.ThirteenthMonthPay(req.BasicSalaryForYear); err != nil {
		return res, err
	}
	return res, nil
}

func (h *statutoryHandlerImpl) MinimumWage(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	wage, err := h.calc.MinimumWage(region)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			response.NotFound(w, fmt.Sprintf("Unknown region %q", region))
			return
		}
		response.HandleError(w, err)
		return
	}

	res := MinimumWageResponse{RegionCode: strings.ToUpper(strings.TrimSpace(region)), MinimumDaily: wage}
	if r.URL.Query().Has("daily_salary") {
		daily, err := decimalQuery(r, "daily_salary")
		if err != nil {
			response.HandleError(w, err)
			return
		}
		ok, err := h.calc.MeetsMinimumWage(daily, region)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		res.DailySalary = &daily
		res.Compliant = &ok
	}

	response.Success(w, res)
}

// decimalQuery parses a required decimal query parameter
func decimalQuery(r *http.Request, name string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return decimal.Zero, response.FieldErrors{name: "is required"}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, response.FieldErrors{name: "must be a decimal number"}
	}
	return d, nil
}
