package payroll

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput means the aggregator was given zero attendance records.
	ErrEmptyInput = errors.New("no attendance records to settle")

	// ErrMissingSettings means a required rate is absent from the payroll
	// configuration and no fallback exists.
	ErrMissingSettings = errors.New("payroll settings missing required rate")

	// ErrMissingEmployeeID means settlement found no attendance rows
	// attributable to any employee.
	ErrMissingEmployeeID = errors.New("no attendance records with an employee id")

	// ErrDuplicateSettlement means a salary record already exists for the
	// employee and period and no force flag was given.
	ErrDuplicateSettlement = errors.New("period already settled for employee")

	// ErrRecordNotFound means no salary record exists with the given id.
	ErrRecordNotFound = errors.New("salary record not found")
)

// PartialFailureError is returned when a batch settlement settled some
// employees and failed for others. Settled employees are never rolled
// back; the per-employee outcomes carry the full report.
type PartialFailureError struct {
	Settled  int
	Failed   int
	Outcomes []Outcome

	errs []error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("batch settlement partially failed: %d settled, %d failed", e.Settled, e.Failed)
}

// Unwrap exposes the per-employee failures to errors.Is/errors.As.
func (e *PartialFailureError) Unwrap() []error {
	return e.errs
}
