package attendance

import "time"

const (
	SourceDevice = "device"
	SourceManual = "manual"
)

// Record is one day's punch pair for one employee. ClockOut may be empty
// while the day is still open. Records live until settlement consumes
// them; after that the only remaining copy is the snapshot embedded in
// the salary record.
type Record struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Date       string    `json:"date"` // YYYY-MM-DD
	ClockIn    string    `json:"clockIn"`
	ClockOut   string    `json:"clockOut"`
	IsHoliday  bool      `json:"isHoliday"`
	Source     string    `json:"source"`
	DeviceID   string    `json:"deviceId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PunchAction is what a device punch did to today's record.
type PunchAction string

const (
	PunchClockIn  PunchAction = "clock_in"
	PunchClockOut PunchAction = "clock_out"
)

// PunchResult is returned to the scanner so it can display the outcome.
type PunchResult struct {
	Action       PunchAction `json:"action"`
	EmployeeID   string      `json:"employeeId"`
	EmployeeName string      `json:"employeeName"`
	Date         string      `json:"date"`
	Time         string      `json:"time"`
}
