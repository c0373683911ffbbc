package domain

import "context"

// ComponentReader is the read port onto the salary component catalog.
// GetComponent returns an error wrapping ErrComponentNotFound for unknown ids.
type ComponentReader interface {
	GetComponent(ctx context.Context, id int64) (SalaryComponentDefinition, error)
}

// AssignmentReader is the read port onto employee component assignments.
// Implementations return every stored assignment for the employee, effective
// or not; filtering is done by the engine.
type AssignmentReader interface {
	ListAssignments(ctx context.Context, employeeID string) ([]EmployeeComponentAssignment, error)
}
