package payroll

import (
	"time"

	"payday/internal/domain/attendance"
	"payday/internal/domain/settings"
)

// Record is one employee's finalized salary for one period. Created
// exactly once per (employee, year, month) by settlement; immutable
// afterwards except through a forced administrative re-settlement.
// AttendanceData is the only surviving copy of the consumed punches.
type Record struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	SalaryYear   int    `json:"salaryYear"`
	SalaryMonth  int    `json:"salaryMonth"`

	BaseSalary       float64 `json:"baseSalary"`
	HousingAllowance float64 `json:"housingAllowance"`
	WelfareAllowance float64 `json:"welfareAllowance"`

	// Rates are snapshotted so reports can re-derive per-day pay even
	// after the live settings change.
	BaseHourlyRate float64 `json:"baseHourlyRate"`
	OT1Multiplier  float64 `json:"ot1Multiplier"`
	OT2Multiplier  float64 `json:"ot2Multiplier"`

	TotalOT1Hours    float64 `json:"totalOt1Hours"`
	TotalOT2Hours    float64 `json:"totalOt2Hours"`
	TotalOvertimePay float64 `json:"totalOvertimePay"`
	HolidayDays      int     `json:"holidayDays"`
	TotalHolidayPay  float64 `json:"totalHolidayPay"`
	GrossSalary      float64 `json:"grossSalary"`

	Deductions      []settings.Deduction `json:"deductions"`
	TotalDeductions float64              `json:"totalDeductions"`
	NetSalary       float64              `json:"netSalary"`

	AttendanceData []attendance.Record `json:"attendanceData"`
	CreatedAt      time.Time           `json:"createdAt"`
}

const (
	ModeSingle = "single"
	ModeBatch  = "batch"
)

// SettleRequest drives one finalize action. EmployeeID empty means
// settle every employee with live attendance. Year/Month zero means the
// period is derived from the latest attendance date in the set. Force
// replaces an existing salary record for the period instead of failing
// with a duplicate-settlement error.
type SettleRequest struct {
	EmployeeID string `json:"employeeId,omitempty"`
	Year       int    `json:"year,omitempty"`
	Month      int    `json:"month,omitempty"`
	Force      bool   `json:"force,omitempty"`
}

// Outcome reports what settlement did for one employee. Error is empty
// on success; a set SalaryRecordID together with a set Error means the
// record persisted but its attendance rows were not consumed.
type Outcome struct {
	EmployeeID         string `json:"employeeId"`
	SalaryRecordID     string `json:"salaryRecordId,omitempty"`
	AttendanceConsumed int    `json:"attendanceConsumed"`
	Error              string `json:"error,omitempty"`
}

type SettleResult struct {
	Mode        string    `json:"mode"`
	SalaryYear  int       `json:"salaryYear"`
	SalaryMonth int       `json:"salaryMonth"`
	Outcomes    []Outcome `json:"outcomes"`
}
