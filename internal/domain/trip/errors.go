package trip

import "fmt"

// DomainError is the base error type for planning errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// InvalidInputError is fatal: the request cannot produce any plan
type InvalidInputError struct {
	*DomainError
}

func NewInvalidInputError(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{DomainError: &DomainError{Message: fmt.Sprintf("invalid input: "+format, args...)}}
}

// ClusteringError is fatal: zoning or day assignment produced no usable
// clusters
type ClusteringError struct {
	*DomainError
}

func NewClusteringError(format string, args ...interface{}) *ClusteringError {
	return &ClusteringError{DomainError: &DomainError{Message: fmt.Sprintf("clustering failed: "+format, args...)}}
}

// BudgetInfeasibleError is non-fatal: reconciliation exhausted its iteration
// caps without meeting every day's budget. It is surfaced as a warning on the
// output, never as a returned error.
type BudgetInfeasibleError struct {
	*DomainError
	DayIndex      int
	ExcessMinutes float64
}

func NewBudgetInfeasibleError(dayIndex int, excessMinutes float64) *BudgetInfeasibleError {
	return &BudgetInfeasibleError{
		DomainError: &DomainError{
			Message: fmt.Sprintf("day %d exceeds its time budget by %.0f minutes after reconciliation", dayIndex, excessMinutes),
		},
		DayIndex:      dayIndex,
		ExcessMinutes: excessMinutes,
	}
}

// ValidationError reports a single invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
