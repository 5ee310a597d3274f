package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"payday/internal/domain/attendance"
	"payday/internal/domain/settings"
)

type fakeStore struct {
	records     []attendance.Record
	settings    settings.Payroll
	settingsErr error

	existing   map[string]bool
	createErr  map[string]error
	consumeErr map[string]error

	created        []Record
	deletedIDs     []string
	deletedRecords []string
	nextID         int
}

func newFakeStore(records ...attendance.Record) *fakeStore {
	return &fakeStore{
		records:    records,
		settings:   testSettings(),
		existing:   map[string]bool{},
		createErr:  map[string]error{},
		consumeErr: map[string]error{},
	}
}

func periodKey(employeeID string, year, month int) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, year, month)
}

func (f *fakeStore) ListAttendance(_ context.Context, employeeID string) ([]attendance.Record, error) {
	if employeeID == "" {
		return f.records, nil
	}
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteAttendance(_ context.Context, ids []string) (int, error) {
	for _, id := range ids {
		if err := f.consumeErr[strings.Split(id, "/")[0]]; err != nil {
			return 0, err
		}
	}
	f.deletedIDs = append(f.deletedIDs, ids...)
	return len(ids), nil
}

func (f *fakeStore) EmployeeName(_ context.Context, employeeID string) (string, error) {
	return "Employee " + employeeID, nil
}

func (f *fakeStore) ReadSettings(_ context.Context) (settings.Payroll, error) {
	if f.settingsErr != nil {
		return settings.Payroll{}, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakeStore) HasSalaryRecord(_ context.Context, employeeID string, year, month int) (bool, error) {
	return f.existing[periodKey(employeeID, year, month)], nil
}

func (f *fakeStore) CreateSalaryRecord(_ context.Context, rec Record) (string, error) {
	if err := f.createErr[rec.EmployeeID]; err != nil {
		return "", err
	}
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	f.created = append(f.created, rec)
	f.existing[periodKey(rec.EmployeeID, rec.SalaryYear, rec.SalaryMonth)] = true
	return rec.ID, nil
}

func (f *fakeStore) DeleteSalaryRecord(_ context.Context, employeeID string, year, month int) error {
	f.deletedRecords = append(f.deletedRecords, periodKey(employeeID, year, month))
	delete(f.existing, periodKey(employeeID, year, month))
	return nil
}

func (f *fakeStore) GetSalaryRecord(_ context.Context, id string) (Record, error) {
	for _, rec := range f.created {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrRecordNotFound
}

func (f *fakeStore) ListSalaryRecords(_ context.Context, year, month, limit, offset int) ([]Record, error) {
	return f.created, nil
}

func day(id, employeeID, date, clockOut string) attendance.Record {
	return attendance.Record{ID: id, EmployeeID: employeeID, Date: date, ClockIn: "09:00", ClockOut: clockOut}
}

func TestSettleSingleEmployee(t *testing.T) {
	store := newFakeStore(
		day("e1/a1", "e1", "2026-07-01", "20:47"),
		day("e1/a2", "e1", "2026-07-02", "16:10"),
	)
	svc := NewService(store)

	result, err := svc.Settle(context.Background(), SettleRequest{EmployeeID: "e1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode != ModeSingle {
		t.Fatalf("mode = %q, want single", result.Mode)
	}
	if result.SalaryYear != 2026 || result.SalaryMonth != 7 {
		t.Fatalf("period = %d-%d, want derived 2026-7", result.SalaryYear, result.SalaryMonth)
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0].Error != "" {
		t.Fatalf("unexpected outcomes: %+v", result.Outcomes)
	}
	if result.Outcomes[0].AttendanceConsumed != 2 {
		t.Fatalf("consumed = %d, want 2", result.Outcomes[0].AttendanceConsumed)
	}
	if len(store.created) != 1 || store.created[0].EmployeeName != "Employee e1" {
		t.Fatalf("unexpected created records: %+v", store.created)
	}
	if len(store.deletedIDs) != 2 {
		t.Fatalf("deleted ids = %v, want exactly the settled rows", store.deletedIDs)
	}
}

func TestSettleBatchSkipsUnattributed(t *testing.T) {
	store := newFakeStore(
		day("e2/a1", "e2", "2026-07-01", "17:00"),
		day("e1/a1", "e1", "2026-07-01", "18:30"),
		day("orphan", "", "2026-07-01", "18:00"),
	)
	svc := NewService(store)

	result, err := svc.Settle(context.Background(), SettleRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Mode != ModeBatch {
		t.Fatalf("mode = %q, want batch", result.Mode)
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("outcomes = %+v, want two employees", result.Outcomes)
	}
	// Sorted employee order.
	if result.Outcomes[0].EmployeeID != "e1" || result.Outcomes[1].EmployeeID != "e2" {
		t.Fatalf("outcome order = %s, %s", result.Outcomes[0].EmployeeID, result.Outcomes[1].EmployeeID)
	}
	for _, id := range store.deletedIDs {
		if id == "orphan" {
			t.Fatal("unattributed row was consumed")
		}
	}
}

func TestSettleEmptyInput(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.Settle(context.Background(), SettleRequest{}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestSettleOnlyUnattributed(t *testing.T) {
	svc := NewService(newFakeStore(day("orphan", "", "2026-07-01", "18:00")))
	if _, err := svc.Settle(context.Background(), SettleRequest{}); !errors.Is(err, ErrMissingEmployeeID) {
		t.Fatalf("expected ErrMissingEmployeeID, got %v", err)
	}
}

func TestSettleSettingsUnavailable(t *testing.T) {
	store := newFakeStore(day("e1/a1", "e1", "2026-07-01", "18:00"))
	store.settingsErr = settings.ErrUnavailable
	svc := NewService(store)
	if _, err := svc.Settle(context.Background(), SettleRequest{}); !errors.Is(err, settings.ErrUnavailable) {
		t.Fatalf("expected settings error, got %v", err)
	}
}

func TestSettleDuplicateRejected(t *testing.T) {
	store := newFakeStore(day("e1/a1", "e1", "2026-07-01", "18:00"))
	store.existing[periodKey("e1", 2026, 7)] = true
	svc := NewService(store)

	_, err := svc.Settle(context.Background(), SettleRequest{EmployeeID: "e1"})
	if !errors.Is(err, ErrDuplicateSettlement) {
		t.Fatalf("expected ErrDuplicateSettlement, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatal("duplicate settlement still created a record")
	}
	if len(store.deletedIDs) != 0 {
		t.Fatal("duplicate settlement consumed attendance")
	}
}

func TestSettleForceReplaces(t *testing.T) {
	store := newFakeStore(day("e1/a1", "e1", "2026-07-01", "18:00"))
	store.existing[periodKey("e1", 2026, 7)] = true
	svc := NewService(store)

	result, err := svc.Settle(context.Background(), SettleRequest{EmployeeID: "e1", Force: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deletedRecords) != 1 || store.deletedRecords[0] != periodKey("e1", 2026, 7) {
		t.Fatalf("existing record not replaced: %v", store.deletedRecords)
	}
	if len(store.created) != 1 || result.Outcomes[0].SalaryRecordID == "" {
		t.Fatalf("forced settlement did not create a record: %+v", result.Outcomes)
	}
}

func TestSettlePartialFailure(t *testing.T) {
	store := newFakeStore(
		day("e1/a1", "e1", "2026-07-01", "18:00"),
		day("e2/a1", "e2", "2026-07-01", "18:00"),
	)
	store.createErr["e2"] = errors.New("disk full")
	svc := NewService(store)

	result, err := svc.Settle(context.Background(), SettleRequest{})

	var partial *PartialFailureError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialFailureError, got %v", err)
	}
	if partial.Settled != 1 || partial.Failed != 1 {
		t.Fatalf("partial = %d settled, %d failed", partial.Settled, partial.Failed)
	}
	// The settled employee's record stays persisted.
	if len(store.created) != 1 || store.created[0].EmployeeID != "e1" {
		t.Fatalf("settled record missing: %+v", store.created)
	}
	if result.Outcomes[1].Error == "" {
		t.Fatal("failed employee has no error in its outcome")
	}
}

func TestSettleConsumeFailureReported(t *testing.T) {
	store := newFakeStore(day("e1/a1", "e1", "2026-07-01", "18:00"))
	store.consumeErr["e1"] = errors.New("connection reset")
	svc := NewService(store)

	result, err := svc.Settle(context.Background(), SettleRequest{EmployeeID: "e1"})
	if err == nil {
		t.Fatal("expected error when attendance was not consumed")
	}
	outcome := result.Outcomes[0]
	if outcome.SalaryRecordID == "" {
		t.Fatal("persisted record id missing from outcome")
	}
	if !strings.Contains(outcome.Error, "not consumed") {
		t.Fatalf("outcome error = %q, want persisted-but-not-consumed report", outcome.Error)
	}
}

func TestSettleExplicitPeriod(t *testing.T) {
	store := newFakeStore(day("e1/a1", "e1", "2026-07-31", "18:00"))
	svc := NewService(store)

	result, err := svc.Settle(context.Background(), SettleRequest{EmployeeID: "e1", Year: 2026, Month: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SalaryYear != 2026 || result.SalaryMonth != 8 {
		t.Fatalf("period = %d-%d, want explicit 2026-8", result.SalaryYear, result.SalaryMonth)
	}
	if store.created[0].SalaryMonth != 8 {
		t.Fatalf("record month = %d, want 8", store.created[0].SalaryMonth)
	}
}
