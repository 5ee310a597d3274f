package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"payday/internal/domain/attendance"
	"payday/internal/domain/settings"
)

// Store is the pgx-backed implementation of StoreAPI.
type Store struct {
	DB       *pgxpool.Pool
	Settings *settings.Store
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db, Settings: settings.NewStore(db)}
}

func (s *Store) ListAttendance(ctx context.Context, employeeID string) ([]attendance.Record, error) {
	query := `
    SELECT id, COALESCE(employee_id::text, ''), to_char(work_date, 'YYYY-MM-DD'),
           clock_in, clock_out, is_holiday, source, device_id, created_at
    FROM attendance_records
  `
	args := []any{}
	if employeeID != "" {
		query += " WHERE employee_id = $1"
		args = append(args, employeeID)
	}
	query += " ORDER BY work_date, created_at"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ClockIn, &rec.ClockOut,
			&rec.IsHoliday, &rec.Source, &rec.DeviceID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAttendance(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance_records WHERE id = ANY($1)", ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) EmployeeName(ctx context.Context, employeeID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT name FROM employees WHERE id = $1", employeeID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("employee %s not found", employeeID)
	}
	return name, err
}

func (s *Store) ReadSettings(ctx context.Context) (settings.Payroll, error) {
	return s.Settings.Read(ctx)
}

func (s *Store) HasSalaryRecord(ctx context.Context, employeeID string, year, month int) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM salary_records
    WHERE employee_id = $1 AND salary_year = $2 AND salary_month = $3
  `, employeeID, year, month).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateSalaryRecord(ctx context.Context, rec Record) (string, error) {
	deductionsJSON, err := json.Marshal(rec.Deductions)
	if err != nil {
		return "", err
	}
	attendanceJSON, err := json.Marshal(rec.AttendanceData)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO salary_records
      (employee_id, employee_name, salary_year, salary_month,
       base_salary, housing_allowance, welfare_allowance,
       base_hourly_rate, ot1_multiplier, ot2_multiplier,
       total_ot1_hours, total_ot2_hours, total_overtime_pay,
       holiday_days, total_holiday_pay, gross_salary,
       deductions_json, total_deductions, net_salary, attendance_json)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
    RETURNING id
  `, rec.EmployeeID, rec.EmployeeName, rec.SalaryYear, rec.SalaryMonth,
		rec.BaseSalary, rec.HousingAllowance, rec.WelfareAllowance,
		rec.BaseHourlyRate, rec.OT1Multiplier, rec.OT2Multiplier,
		rec.TotalOT1Hours, rec.TotalOT2Hours, rec.TotalOvertimePay,
		rec.HolidayDays, rec.TotalHolidayPay, rec.GrossSalary,
		deductionsJSON, rec.TotalDeductions, rec.NetSalary, attendanceJSON).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on (employee_id, salary_year, salary_month).
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrDuplicateSettlement
		}
		return "", err
	}
	return id, nil
}

func (s *Store) DeleteSalaryRecord(ctx context.Context, employeeID string, year, month int) error {
	_, err := s.DB.Exec(ctx, `
    DELETE FROM salary_records
    WHERE employee_id = $1 AND salary_year = $2 AND salary_month = $3
  `, employeeID, year, month)
	return err
}

const salaryRecordColumns = `
    id, employee_id, employee_name, salary_year, salary_month,
    base_salary, housing_allowance, welfare_allowance,
    base_hourly_rate, ot1_multiplier, ot2_multiplier,
    total_ot1_hours, total_ot2_hours, total_overtime_pay,
    holiday_days, total_holiday_pay, gross_salary,
    deductions_json, total_deductions, net_salary, attendance_json, created_at
`

func (s *Store) GetSalaryRecord(ctx context.Context, id string) (Record, error) {
	row := s.DB.QueryRow(ctx, "SELECT "+salaryRecordColumns+" FROM salary_records WHERE id = $1", id)
	rec, err := scanSalaryRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *Store) ListSalaryRecords(ctx context.Context, year, month, limit, offset int) ([]Record, error) {
	query := "SELECT " + salaryRecordColumns + " FROM salary_records"
	args := []any{}
	if year > 0 && month > 0 {
		query += " WHERE salary_year = $1 AND salary_month = $2"
		args = append(args, year, month)
	}
	query += fmt.Sprintf(" ORDER BY salary_year DESC, salary_month DESC, employee_name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanSalaryRecord(row pgx.Row) (Record, error) {
	var rec Record
	var deductionsJSON, attendanceJSON []byte
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.SalaryYear, &rec.SalaryMonth,
		&rec.BaseSalary, &rec.HousingAllowance, &rec.WelfareAllowance,
		&rec.BaseHourlyRate, &rec.OT1Multiplier, &rec.OT2Multiplier,
		&rec.TotalOT1Hours, &rec.TotalOT2Hours, &rec.TotalOvertimePay,
		&rec.HolidayDays, &rec.TotalHolidayPay, &rec.GrossSalary,
		&deductionsJSON, &rec.TotalDeductions, &rec.NetSalary, &attendanceJSON, &rec.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(deductionsJSON, &rec.Deductions); err != nil {
		rec.Deductions = nil
	}
	if err := json.Unmarshal(attendanceJSON, &rec.AttendanceData); err != nil {
		rec.AttendanceData = nil
	}
	return rec, nil
}
