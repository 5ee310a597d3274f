package reports

import (
	"bytes"
	"strings"
	"testing"

	"payday/internal/domain/attendance"
	"payday/internal/domain/payroll"
	"payday/internal/domain/settings"
)

func settledRecord(t *testing.T) payroll.Record {
	t.Helper()
	records := []attendance.Record{
		{ID: "a3", EmployeeID: "e1", Date: "2026-07-03", ClockIn: "09:00", ClockOut: "20:47"},
		{ID: "a1", EmployeeID: "e1", Date: "2026-07-01", ClockIn: "09:00", ClockOut: "16:10"},
		{ID: "a2", EmployeeID: "e1", Date: "2026-07-02", IsHoliday: true},
	}
	cfg := settings.Payroll{
		BaseHourlyRate:  119,
		OT1Multiplier:   1.34,
		OT2Multiplier:   1.67,
		BaseMonthSalary: 28590,
	}
	rec, err := payroll.ComputeSalary("e1", "Test Employee", 2026, 7, records, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec
}

// Payslip lines are re-derived from the attendance snapshot with the
// same quantizer and rounding as settlement, so their sum must equal
// the stored overtime total exactly.
func TestBuildPayslipLinesSumMatchesRecord(t *testing.T) {
	rec := settledRecord(t)
	lines := BuildPayslipLines(rec)

	if len(lines) != 3 {
		t.Fatalf("lines = %d, want one per attendance day", len(lines))
	}

	var paySum, ot1Sum, ot2Sum float64
	for _, line := range lines {
		paySum += line.OT1Pay + line.OT2Pay
		ot1Sum += line.OT1Hours
		ot2Sum += line.OT2Hours
	}
	if paySum != rec.TotalOvertimePay {
		t.Fatalf("line pay sum = %v, stored total = %v", paySum, rec.TotalOvertimePay)
	}
	if ot1Sum != rec.TotalOT1Hours || ot2Sum != rec.TotalOT2Hours {
		t.Fatalf("line hours = (%v, %v), stored = (%v, %v)", ot1Sum, ot2Sum, rec.TotalOT1Hours, rec.TotalOT2Hours)
	}
}

func TestBuildPayslipLinesOrderedAndHolidayZero(t *testing.T) {
	lines := BuildPayslipLines(settledRecord(t))

	for i := 1; i < len(lines); i++ {
		if lines[i-1].Date > lines[i].Date {
			t.Fatalf("lines out of order: %s after %s", lines[i-1].Date, lines[i].Date)
		}
	}

	holiday := lines[1]
	if !holiday.IsHoliday {
		t.Fatalf("expected holiday on second line, got %+v", holiday)
	}
	if holiday.OT1Pay != 0 || holiday.OT2Pay != 0 || holiday.OT1Hours != 0 || holiday.OT2Hours != 0 {
		t.Fatalf("holiday line carries overtime: %+v", holiday)
	}
}

func TestRenderPayslipPDF(t *testing.T) {
	svc := NewService(nil)
	var buf bytes.Buffer
	if err := svc.RenderPayslipPDF(&buf, settledRecord(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatalf("output does not look like a PDF (%d bytes)", buf.Len())
	}
}

func TestRegister(t *testing.T) {
	rec := settledRecord(t)
	rows := NewService(nil).Register([]payroll.Record{rec})
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Net != rec.NetSalary || rows[0].Gross != rec.GrossSalary {
		t.Fatalf("register row %+v does not match record", rows[0])
	}
}
