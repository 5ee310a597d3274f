package attendance

import (
	"context"
	"errors"
	"time"

	"payday/internal/domain/employee"
)

var ErrUnknownBarcode = errors.New("barcode does not match an active employee")

// Service handles the punch lifecycle. The scanner client only sends a
// barcode; the service decides whether that punch opens or closes
// today's record.
type Service struct {
	store     *Store
	employees *employee.Store
	now       func() time.Time
}

func NewService(store *Store, employees *employee.Store) *Service {
	return &Service{store: store, employees: employees, now: time.Now}
}

// Punch records a device punch for the employee with the given barcode.
// First punch of the day clocks in; a punch on an open day clocks out;
// a punch on an already closed day moves the clock-out forward (the
// last punch of the day wins). A zero `at` means the server clock;
// devices that buffer punches offline send their own timestamp.
func (s *Service) Punch(ctx context.Context, barcode, deviceID string, at time.Time) (PunchResult, error) {
	emp, err := s.employees.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return PunchResult{}, ErrUnknownBarcode
		}
		return PunchResult{}, err
	}

	now := at
	if now.IsZero() {
		now = s.now()
	}
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")
	result := PunchResult{EmployeeID: emp.ID, EmployeeName: emp.Name, Date: date, Time: clock}

	rec, err := s.store.ForDay(ctx, emp.ID, date)
	if errors.Is(err, ErrNotFound) {
		_, err := s.store.Create(ctx, Record{
			EmployeeID: emp.ID,
			Date:       date,
			ClockIn:    clock,
			Source:     SourceDevice,
			DeviceID:   deviceID,
		})
		if err != nil {
			return PunchResult{}, err
		}
		result.Action = PunchClockIn
		return result, nil
	}
	if err != nil {
		return PunchResult{}, err
	}

	if err := s.store.SetClockOut(ctx, rec.ID, clock); err != nil {
		return PunchResult{}, err
	}
	result.Action = PunchClockOut
	return result, nil
}
