package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/paygo/internal/domain"
	"github.com/rgehrsitz/paygo/internal/statutory"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of policy and payroll run files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &InputParser{validate: v}
}

// decodeFile reads a YAML file strictly: unknown keys are rejected
func decodeFile(filename string, out any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// LoadPolicyFromFile loads and validates a statutory policy file
func (ip *InputParser) LoadPolicyFromFile(filename string) (*domain.StatutoryPolicy, error) {
	var policy domain.StatutoryPolicy
	if err := decodeFile(filename, &policy); err != nil {
		return nil, err
	}
	if err := ip.ValidatePolicy(&policy); err != nil {
		return nil, fmt.Errorf("policy validation failed: %w", err)
	}
	return &policy, nil
}

// ValidatePolicy checks the metadata and the statutory tables of a policy
func (ip *InputParser) ValidatePolicy(policy *domain.StatutoryPolicy) error {
	if policy == nil {
		return fmt.Errorf("policy is required: %w", domain.ErrConfiguration)
	}
	if err := ip.validate.Struct(policy.Metadata); err != nil {
		return fmt.Errorf("metadata: %w: %w", domain.ErrConfiguration, describeValidation(err))
	}
	return statutory.ValidatePolicy(policy)
}

// LoadRunFromFile loads and validates a payroll run file
func (ip *InputParser) LoadRunFromFile(filename string) (*domain.PayrollRun, error) {
	var run domain.PayrollRun
	if err := decodeFile(filename, &run); err != nil {
		return nil, err
	}
	if err := ip.ValidateRun(&run); err != nil {
		return nil, fmt.Errorf("run validation failed: %w", err)
	}
	return &run, nil
}

// ValidateRun checks a payroll run before it is computed
func (ip *InputParser) ValidateRun(run *domain.PayrollRun) error {
	if run == nil {
		return fmt.Errorf("run is required: %w", domain.ErrValidation)
	}
	if err := ip.validate.Struct(run); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, describeValidation(err))
	}

	components := make(map[int64]bool, len(run.Components))
	for i, c := range run.Components {
		if err := ip.validateComponent(c); err != nil {
			return fmt.Errorf("component %d (%s): %w", i, c.Name, err)
		}
		if components[c.ID] {
			return fmt.Errorf("component id %d is used twice: %w", c.ID, domain.ErrValidation)
		}
		components[c.ID] = true
	}

	for i, a := range run.Assignments {
		if err := ip.validateAssignment(a); err != nil {
			return fmt.Errorf("assignment %d (employee %s): %w", i, a.EmployeeID, err)
		}
		if !components[a.ComponentID] {
			return fmt.Errorf("assignment %d references unknown component %d: %w", i, a.ComponentID, domain.ErrValidation)
		}
	}

	employees := make(map[string]bool, len(run.Employees))
	for i, e := range run.Employees {
		if err := ip.validateEmployee(e); err != nil {
			return fmt.Errorf("employee %d (%s): %w", i, e.EmployeeID, err)
		}
		if employees[e.EmployeeID] {
			return fmt.Errorf("employee %s appears twice: %w", e.EmployeeID, domain.ErrValidation)
		}
		employees[e.EmployeeID] = true
	}
	return nil
}

func (ip *InputParser) validateComponent(c domain.SalaryComponentDefinition) error {
	if c.ID <= 0 {
		return fmt.Errorf("id must be positive: %w", domain.ErrValidation)
	}
	if c.DefaultAmount.IsNegative() {
		return fmt.Errorf("default amount cannot be negative: %w", domain.ErrValidation)
	}
	return nil
}

func (ip *InputParser) validateAssignment(a domain.EmployeeComponentAssignment) error {
	if a.CustomAmount.IsNegative() {
		return fmt.Errorf("custom amount cannot be negative: %w", domain.ErrValidation)
	}
	if a.EffectiveDate.IsZero() {
		return fmt.Errorf("effective date is required: %w", domain.ErrValidation)
	}
	if a.EndDate != nil && a.EndDate.Before(a.EffectiveDate) {
		return fmt.Errorf("end date %s is before effective date %s: %w",
			a.EndDate.Format("2006-01-02"), a.EffectiveDate.Format("2006-01-02"), domain.ErrValidation)
	}
	return nil
}

func (ip *InputParser) validateEmployee(e domain.EmployeePayInput) error {
	if e.BaseSalary.IsNegative() {
		return fmt.Errorf("base salary cannot be negative: %w", domain.ErrValidation)
	}
	in := e.PeriodInputs
	for name, v := range map[string]decimal.Decimal{
		"overtime_hours":                 in.OvertimeHours,
		"holiday_overtime_hours":         in.HolidayOvertimeHours,
		"special_holiday_overtime_hours": in.SpecialHolidayOvertimeHours,
		"night_diff_hours":               in.NightDiffHours,
		"basic_salary_year_to_date":      in.BasicSalaryYearToDate,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s cannot be negative: %w", name, domain.ErrValidation)
		}
	}
	return nil
}

// describeValidation flattens validator errors into one readable error
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// drop the root type name: "PayrollRun.employees[0].employee_id"
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s needs at least %s entries", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
