package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rgehrsitz/paygo/internal/domain"
)

// CatalogStore reads salary components and employee assignments. It
// implements domain.ComponentReader and domain.AssignmentReader and never
// caches: every call is a fresh query.
type CatalogStore struct {
	q Querier
}

// NewCatalogStore creates a store over a pool or a transaction
func NewCatalogStore(q Querier) *CatalogStore {
	return &CatalogStore{q: q}
}

// GetComponent implements domain.ComponentReader
func (s *CatalogStore) GetComponent(ctx context.Context, id int64) (domain.SalaryComponentDefinition, error) {
	query := `
		SELECT id, name, kind, default_amount, is_percentage, is_active, COALESCE(description, '')
		FROM components
		WHERE id = $1
	`

	var c domain.SalaryComponentDefinition
	var kind string
	err := s.q.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&kind,
		&c.DefaultAmount,
		&c.IsPercentage,
		&c.IsActive,
		&c.Description,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SalaryComponentDefinition{}, fmt.Errorf("component %d: %w", id, domain.ErrComponentNotFound)
	}
	if err != nil {
		return domain.SalaryComponentDefinition{}, fmt.Errorf("failed to get component %d: %w", id, err)
	}
	c.Kind = domain.ComponentKind(kind)
	return c, nil
}

// ListAssignments implements domain.AssignmentReader. All of the employee's
// rows are returned in id order; effective-date filtering is the engine's job.
func (s *CatalogStore) ListAssignments(ctx context.Context, employeeID string) ([]domain.EmployeeComponentAssignment, error) {
	query := `
		SELECT id, employee_id, component_id, custom_amount, is_percentage, effective_date, end_date, is_active
		FROM employee_components
		WHERE employee_id = $1
		ORDER BY id ASC
	`

	rows, err := s.q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []domain.EmployeeComponentAssignment{}
	for rows.Next() {
		var a domain.EmployeeComponentAssignment
		if err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.ComponentID,
			&a.CustomAmount,
			&a.IsPercentage,
			&a.EffectiveDate,
			&a.EndDate,
			&a.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}
