package reports

import (
	"sort"

	"payday/internal/domain/payroll"
)

// PayslipLine is one attendance day as displayed on a payslip. Lines are
// re-derived from the attendance snapshot with the same quantizer and
// per-day rounding as settlement, so they always sum to the stored totals.
type PayslipLine struct {
	Date      string  `json:"date"`
	ClockIn   string  `json:"clockIn"`
	ClockOut  string  `json:"clockOut"`
	IsHoliday bool    `json:"isHoliday"`
	OT1Hours  float64 `json:"ot1Hours"`
	OT2Hours  float64 `json:"ot2Hours"`
	OT1Pay    float64 `json:"ot1Pay"`
	OT2Pay    float64 `json:"ot2Pay"`
}

// BuildPayslipLines expands a salary record's attendance snapshot into
// display lines using the rates snapshotted on the record.
func BuildPayslipLines(rec payroll.Record) []PayslipLine {
	lines := make([]PayslipLine, 0, len(rec.AttendanceData))
	for _, day := range rec.AttendanceData {
		line := PayslipLine{
			Date:      day.Date,
			ClockIn:   day.ClockIn,
			ClockOut:  day.ClockOut,
			IsHoliday: day.IsHoliday,
		}
		if !day.IsHoliday {
			ot := payroll.QuantizeDay(day.ClockIn, day.ClockOut)
			line.OT1Hours = ot.OT1Hours
			line.OT2Hours = ot.OT2Hours
			line.OT1Pay, line.OT2Pay = payroll.DayPay(ot, rec.BaseHourlyRate, rec.OT1Multiplier, rec.OT2Multiplier)
		}
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Date < lines[j].Date })
	return lines
}
