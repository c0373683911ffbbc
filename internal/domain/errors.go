package domain

import "errors"

// Error categories. Every failure returned by the engine wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrValidation marks rejected caller input (negative salary, negative hours, ...)
	ErrValidation = errors.New("validation failed")
	// ErrDataIntegrity marks stored data the engine cannot interpret, such as an
	// assignment whose component is missing or has an unknown kind
	ErrDataIntegrity = errors.New("data integrity violation")
	// ErrConfiguration marks policy or lookup-key problems (unknown region, zero schedule)
	ErrConfiguration = errors.New("configuration error")
)

var (
	ErrComponentNotFound = errors.New("salary component not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
)
