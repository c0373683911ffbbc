package payroll

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/paygo/internal/domain"
)

// Roster indexes the employees of a payroll run by id
type Roster struct {
	employees map[string]domain.EmployeePayInput
	order     []string
}

// NewRoster builds a roster from a run. Duplicate employee ids are rejected.
func NewRoster(run *domain.PayrollRun) (*Roster, error) {
	r := &Roster{employees: make(map[string]domain.EmployeePayInput)}
	if run == nil {
		return r, nil
	}
	for _, e := range run.Employees {
		id := strings.TrimSpace(e.EmployeeID)
		if _, dup := r.employees[id]; dup {
			return nil, fmt.Errorf("employee %s appears twice: %w", id, domain.ErrDataIntegrity)
		}
		r.employees[id] = e
		r.order = append(r.order, id)
	}
	return r, nil
}

// Employee returns the pay input of one employee
func (r *Roster) Employee(ctx context.Context, employeeID string) (domain.EmployeePayInput, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmployeePayInput{}, err
	}
	if r == nil {
		return domain.EmployeePayInput{}, fmt.Errorf("employee %s: %w", employeeID, domain.ErrEmployeeNotFound)
	}
	e, ok := r.employees[strings.TrimSpace(employeeID)]
	if !ok {
		return domain.EmployeePayInput{}, fmt.Errorf("employee %s: %w", employeeID, domain.ErrEmployeeNotFound)
	}
	return e, nil
}

// IDs returns the employee ids in run order
func (r *Roster) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}
