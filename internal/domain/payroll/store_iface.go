package payroll

import (
	"context"

	"payday/internal/domain/attendance"
	"payday/internal/domain/settings"
)

// StoreAPI is the boundary the settlement orchestrator drives. The pgx
// implementation lives in store_data.go; tests substitute a fake.
type StoreAPI interface {
	// ListAttendance returns live attendance, optionally filtered to one
	// employee. Empty employeeID means all rows, including unattributed ones.
	ListAttendance(ctx context.Context, employeeID string) ([]attendance.Record, error)

	// DeleteAttendance removes exactly the given rows and reports how many
	// were actually deleted.
	DeleteAttendance(ctx context.Context, ids []string) (int, error)

	EmployeeName(ctx context.Context, employeeID string) (string, error)

	ReadSettings(ctx context.Context) (settings.Payroll, error)

	// HasSalaryRecord is the duplicate-settlement precondition check.
	HasSalaryRecord(ctx context.Context, employeeID string, year, month int) (bool, error)

	// CreateSalaryRecord persists a record and returns its id. It must
	// reject a duplicate (employee, year, month) key.
	CreateSalaryRecord(ctx context.Context, rec Record) (string, error)

	// DeleteSalaryRecord clears an existing record so a forced
	// re-settlement can replace it.
	DeleteSalaryRecord(ctx context.Context, employeeID string, year, month int) error

	GetSalaryRecord(ctx context.Context, id string) (Record, error)
	ListSalaryRecords(ctx context.Context, year, month, limit, offset int) ([]Record, error)
}
