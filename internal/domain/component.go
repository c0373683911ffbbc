package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ComponentKind is the catalog kind of a salary component
type ComponentKind string

const (
	KindAllowance ComponentKind = "allowance"
	KindDeduction ComponentKind = "deduction"
	KindBonus     ComponentKind = "bonus"
)

// Classification is the earning/deduction side a component lands on
type Classification string

const (
	Earning   Classification = "earning"
	Deduction Classification = "deduction"
)

// Classification maps a catalog kind to its payroll side. Unknown kinds are a
// data-integrity failure, never a default.
func (k ComponentKind) Classification() (Classification, error) {
	switch k {
	case KindAllowance, KindBonus:
		return Earning, nil
	case KindDeduction:
		return Deduction, nil
	default:
		return "", fmt.Errorf("component kind %q: %w", string(k), ErrDataIntegrity)
	}
}

// Valid reports whether the kind is one of the known catalog kinds
func (k ComponentKind) Valid() bool {
	_, err := k.Classification()
	return err == nil
}

// SalaryComponentDefinition is a reusable catalog entry (allowance, deduction or bonus)
type SalaryComponentDefinition struct {
	ID            int64           `yaml:"id" json:"id"`
	Name          string          `yaml:"name" json:"name" validate:"required"`
	Kind          ComponentKind   `yaml:"kind" json:"kind" validate:"required,oneof=allowance deduction bonus"`
	DefaultAmount decimal.Decimal `yaml:"default_amount" json:"default_amount"`
	IsPercentage  bool            `yaml:"is_percentage" json:"is_percentage"`
	IsActive      bool            `yaml:"is_active" json:"is_active"`
	Description   string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// EmployeeComponentAssignment binds a catalog component to one employee with
// its own amount and validity window
type EmployeeComponentAssignment struct {
	ID            int64           `yaml:"id" json:"id"`
	EmployeeID    string          `yaml:"employee_id" json:"employee_id" validate:"required"`
	ComponentID   int64           `yaml:"component_id" json:"component_id" validate:"required"`
	CustomAmount  decimal.Decimal `yaml:"custom_amount" json:"custom_amount"`
	IsPercentage  bool            `yaml:"is_percentage" json:"is_percentage"`
	EffectiveDate time.Time       `yaml:"effective_date" json:"effective_date"`
	EndDate       *time.Time      `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	IsActive      bool            `yaml:"is_active" json:"is_active"`
}

// IsEffectiveOn reports whether the assignment is active and its inclusive
// [EffectiveDate, EndDate] window contains the calendar day of at.
func (a *EmployeeComponentAssignment) IsEffectiveOn(at time.Time) bool {
	if !a.IsActive {
		return false
	}
	day := truncateDay(at)
	if truncateDay(a.EffectiveDate).After(day) {
		return false
	}
	if a.EndDate != nil && truncateDay(*a.EndDate).Before(day) {
		return false
	}
	return true
}

// truncateDay drops the time of day while keeping the date as written in its own location
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputedComponentAmount is an assignment resolved to money for one calculation
type ComputedComponentAmount struct {
	Assignment     EmployeeComponentAssignment `json:"assignment"`
	Definition     SalaryComponentDefinition   `json:"definition"`
	Amount         decimal.Decimal             `json:"amount"`
	Classification Classification              `json:"classification"`
}

// Name returns the display name of the underlying catalog component
func (c ComputedComponentAmount) Name() string {
	return c.Definition.Name
}
