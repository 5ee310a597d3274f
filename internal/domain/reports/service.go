package reports

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"payday/internal/domain/payroll"
)

type Service struct {
	store payroll.StoreAPI
}

func NewService(store payroll.StoreAPI) *Service {
	return &Service{store: store}
}

// RenderPayslipPDF writes a payslip for a persisted salary record. The
// per-day table comes from BuildPayslipLines, never from an independent
// overtime computation.
func (s *Service) RenderPayslipPDF(w io.Writer, rec payroll.Record) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", rec.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %04d-%02d", rec.SalaryYear, rec.SalaryMonth))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	headers := []string{"Date", "In", "Out", "OT1 h", "OT2 h", "OT1 pay", "OT2 pay"}
	widths := []float64{28, 20, 20, 20, 20, 26, 26}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range BuildPayslipLines(rec) {
		out := line.ClockOut
		if out == "" {
			out = "-"
		}
		note := ""
		if line.IsHoliday {
			note = " (holiday)"
		}
		cells := []string{
			line.Date + note,
			line.ClockIn,
			out,
			fmt.Sprintf("%.1f", line.OT1Hours),
			fmt.Sprintf("%.1f", line.OT2Hours),
			fmt.Sprintf("%.0f", line.OT1Pay),
			fmt.Sprintf("%.0f", line.OT2Pay),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Base salary: %.0f", rec.BaseSalary))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Allowances: %.0f", rec.HousingAllowance+rec.WelfareAllowance))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Overtime pay: %.0f (OT1 %.1fh, OT2 %.1fh)", rec.TotalOvertimePay, rec.TotalOT1Hours, rec.TotalOT2Hours))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Holiday pay: %.0f (%d days)", rec.TotalHolidayPay, rec.HolidayDays))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %.0f", rec.GrossSalary))
	pdf.Ln(7)
	for _, d := range rec.Deductions {
		pdf.Cell(0, 8, fmt.Sprintf("Deduction %s: -%.0f", d.Name, d.Amount))
		pdf.Ln(7)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net salary: %.0f", rec.NetSalary))

	return pdf.Output(w)
}

// RegisterRow is one employee's line in the monthly salary register.
type RegisterRow struct {
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Gross        float64 `json:"gross"`
	Deductions   float64 `json:"deductions"`
	Net          float64 `json:"net"`
}

// Register lists the settled salaries for one period.
func (s *Service) Register(records []payroll.Record) []RegisterRow {
	rows := make([]RegisterRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, RegisterRow{
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Gross:        rec.GrossSalary,
			Deductions:   rec.TotalDeductions,
			Net:          rec.NetSalary,
		})
	}
	return rows
}
