package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/paygo/internal/catalog"
	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/handler/http/response"
	"github.com/rgehrsitz/paygo/internal/payroll"
	"github.com/shopspring/decimal"
)

type PayrollHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	EmployeePayslip(w http.ResponseWriter, r *http.Request)
	EmployeeComponents(w http.ResponseWriter, r *http.Request)
}

// EmployeeLookup finds the stored pay input of one employee
type EmployeeLookup interface {
	Employee(ctx context.Context, employeeID string) (domain.EmployeePayInput, error)
}

type payrollHandlerImpl struct {
	aggregator *payroll.Aggregator
	engine     *catalog.Engine
	employees  EmployeeLookup
}

// NewPayrollHandler serves payroll calculations. employees may be nil, in
// which case every stored-employee lookup reports not found.
func NewPayrollHandler(aggregator *payroll.Aggregator, engine *catalog.Engine, employees EmployeeLookup) PayrollHandler {
	return &payrollHandlerImpl{aggregator: aggregator, engine: engine, employees: employees}
}

type CalculatePayrollRequest struct {
	EmployeeID     string              `json:"employee_id" validate:"required"`
	Name           string              `json:"name"`
	BaseSalary     *decimal.Decimal    `json:"base_salary" validate:"required"`
	RegionCode     string              `json:"region_code"`
	ApplyStatutory bool                `json:"apply_statutory"`
	PeriodInputs   domain.PeriodInputs `json:"period_inputs"`
}

func (req CalculatePayrollRequest) payInput() domain.EmployeePayInput {
	return domain.EmployeePayInput{
		EmployeeID:     strings.TrimSpace(req.EmployeeID),
		Name:           req.Name,
		BaseSalary:     *req.BaseSalary,
		RegionCode:     req.RegionCode,
		ApplyStatutory: req.ApplyStatutory,
		PeriodInputs:   req.PeriodInputs,
	}
}

type EmployeeComponentsResponse struct {
	EmployeeID string                                    `json:"employee_id"`
	BaseSalary decimal.Decimal                           `json:"base_salary"`
	Components []domain.ComputedComponentAmount          `json:"components"`
	Totals     map[domain.Classification]decimal.Decimal `json:"totals"`
}

func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculatePayrollRequest
	if err := decodeRequest(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	slip, err := h.aggregator.Payslip(r.Context(), req.payInput())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, slip)
}

func (h *payrollHandlerImpl) EmployeePayslip(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if h.employees == nil {
		response.NotFound(w, "Employee not found")
		return
	}

	emp, err := h.employees.Employee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slip, err := h.aggregator.Payslip(r.Context(), emp)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, slip)
}

func (h *payrollHandlerImpl) EmployeeComponents(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	base, err := decimalQuery(r, "base_salary")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	components, err := h.engine.Resolve(r.Context(), employeeID, base)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if components == nil {
		components = []domain.ComputedComponentAmount{}
	}
	response.Success(w, EmployeeComponentsResponse{
		EmployeeID: employeeID,
		BaseSalary: base,
		Components: components,
		Totals:     catalog.Totals(components),
	})
}
