package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/paygo/internal/domain"
)

// MemoryStore serves both read ports from in-memory data. It is read-only
// after construction and hands out copies, so concurrent readers are safe.
type MemoryStore struct {
	components  map[int64]domain.SalaryComponentDefinition
	assignments map[string][]domain.EmployeeComponentAssignment
}

// NewMemoryStore indexes the catalog and the assignments. Duplicate
// component ids are rejected.
func NewMemoryStore(components []domain.SalaryComponentDefinition, assignments []domain.EmployeeComponentAssignment) (*MemoryStore, error) {
	s := &MemoryStore{
		components:  make(map[int64]domain.SalaryComponentDefinition, len(components)),
		assignments: make(map[string][]domain.EmployeeComponentAssignment),
	}
	for _, c := range components {
		if _, dup := s.components[c.ID]; dup {
			return nil, fmt.Errorf("duplicate component id %d: %w", c.ID, domain.ErrDataIntegrity)
		}
		s.components[c.ID] = c
	}
	for _, a := range assignments {
		a.EndDate = copyTime(a.EndDate)
		s.assignments[a.EmployeeID] = append(s.assignments[a.EmployeeID], a)
	}
	return s, nil
}

// NewMemoryStoreFromRun builds a store from the catalog and assignments of a run file
func NewMemoryStoreFromRun(run *domain.PayrollRun) (*MemoryStore, error) {
	return NewMemoryStore(run.Components, run.Assignments)
}

// GetComponent implements domain.ComponentReader
func (s *MemoryStore) GetComponent(ctx context.Context, id int64) (domain.SalaryComponentDefinition, error) {
	if err := ctx.Err(); err != nil {
		return domain.SalaryComponentDefinition{}, err
	}
	c, ok := s.components[id]
	if !ok {
		return domain.SalaryComponentDefinition{}, fmt.Errorf("component %d: %w", id, domain.ErrComponentNotFound)
	}
	return c, nil
}

// ListAssignments implements domain.AssignmentReader. Unknown employees have
// no assignments.
func (s *MemoryStore) ListAssignments(ctx context.Context, employeeID string) ([]domain.EmployeeComponentAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := s.assignments[employeeID]
	out := make([]domain.EmployeeComponentAssignment, len(stored))
	for i, a := range stored {
		a.EndDate = copyTime(a.EndDate)
		out[i] = a
	}
	return out, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
