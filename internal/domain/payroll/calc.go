package payroll

import (
	"github.com/shopspring/decimal"

	"payday/internal/domain/attendance"
	"payday/internal/domain/settings"
)

// ComputeSalary aggregates one employee's attendance for one period into
// a complete salary record payload (no id, not persisted). It is pure
// and re-entrant: retrying after a failed persist cannot double-charge.
//
// Rounding discipline is load-bearing: each overtime tier is rounded to
// whole currency units per day before summing. Summing raw monthly
// hours and rounding once yields a different, incorrect total. The only
// whole-salary rounding happens on the final net amount. The holiday
// daily rate uses a ceiling while overtime uses round-half; the
// asymmetry is the documented statutory policy.
func ComputeSalary(employeeID, employeeName string, year, month int, records []attendance.Record, cfg settings.Payroll) (Record, error) {
	if len(records) == 0 {
		return Record{}, ErrEmptyInput
	}
	if cfg.BaseHourlyRate <= 0 || cfg.OT1Multiplier <= 0 || cfg.OT2Multiplier <= 0 || cfg.BaseMonthSalary <= 0 {
		return Record{}, ErrMissingSettings
	}

	rate := decimal.NewFromFloat(cfg.BaseHourlyRate)
	mult1 := decimal.NewFromFloat(cfg.OT1Multiplier)
	mult2 := decimal.NewFromFloat(cfg.OT2Multiplier)

	var totalOT1, totalOT2, overtimePay decimal.Decimal
	var holidayDays int

	for _, rec := range records {
		if rec.IsHoliday {
			holidayDays++
			continue
		}
		day := QuantizeDay(rec.ClockIn, rec.ClockOut)
		ot1 := decimal.NewFromFloat(day.OT1Hours)
		ot2 := decimal.NewFromFloat(day.OT2Hours)
		totalOT1 = totalOT1.Add(ot1)
		totalOT2 = totalOT2.Add(ot2)

		ot1Pay := rate.Mul(mult1).Mul(ot1).Round(0)
		ot2Pay := rate.Mul(mult2).Mul(ot2).Round(0)
		overtimePay = overtimePay.Add(ot1Pay).Add(ot2Pay)
	}

	baseMonth := decimal.NewFromFloat(cfg.BaseMonthSalary)
	dailyRate := baseMonth.Div(decimal.NewFromInt(30)).Ceil()
	holidayPay := dailyRate.Mul(decimal.NewFromInt(int64(holidayDays)))

	gross := baseMonth.
		Add(decimal.NewFromFloat(cfg.HousingAllowance)).
		Add(decimal.NewFromFloat(cfg.WelfareAllowance)).
		Add(overtimePay).
		Add(holidayPay)

	deductions := make([]settings.Deduction, len(cfg.Deductions))
	copy(deductions, cfg.Deductions)
	var totalDeductions decimal.Decimal
	for _, d := range deductions {
		totalDeductions = totalDeductions.Add(decimal.NewFromFloat(d.Amount))
	}

	net := gross.Sub(totalDeductions).Round(0)

	return Record{
		EmployeeID:       employeeID,
		EmployeeName:     employeeName,
		SalaryYear:       year,
		SalaryMonth:      month,
		BaseSalary:       cfg.BaseMonthSalary,
		HousingAllowance: cfg.HousingAllowance,
		WelfareAllowance: cfg.WelfareAllowance,
		BaseHourlyRate:   cfg.BaseHourlyRate,
		OT1Multiplier:    cfg.OT1Multiplier,
		OT2Multiplier:    cfg.OT2Multiplier,
		TotalOT1Hours:    totalOT1.InexactFloat64(),
		TotalOT2Hours:    totalOT2.InexactFloat64(),
		TotalOvertimePay: overtimePay.InexactFloat64(),
		HolidayDays:      holidayDays,
		TotalHolidayPay:  holidayPay.InexactFloat64(),
		GrossSalary:      gross.InexactFloat64(),
		Deductions:       deductions,
		TotalDeductions:  totalDeductions.InexactFloat64(),
		NetSalary:        net.InexactFloat64(),
		AttendanceData:   records,
	}, nil
}

// DayPay returns the independently rounded per-tier pay for one day at
// the given rates. Report rendering uses it so displayed lines always
// sum to the stored overtime total.
func DayPay(day DayOvertime, baseHourlyRate, ot1Multiplier, ot2Multiplier float64) (ot1Pay, ot2Pay float64) {
	rate := decimal.NewFromFloat(baseHourlyRate)
	ot1 := rate.Mul(decimal.NewFromFloat(ot1Multiplier)).Mul(decimal.NewFromFloat(day.OT1Hours)).Round(0)
	ot2 := rate.Mul(decimal.NewFromFloat(ot2Multiplier)).Mul(decimal.NewFromFloat(day.OT2Hours)).Round(0)
	return ot1.InexactFloat64(), ot2.InexactFloat64()
}
