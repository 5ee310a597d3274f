package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("attendance record not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = `
    id, COALESCE(employee_id::text, ''), to_char(work_date, 'YYYY-MM-DD'),
    clock_in, clock_out, is_holiday, source, device_id, created_at
`

func (s *Store) List(ctx context.Context, employeeID string, limit, offset int) ([]Record, error) {
	query := "SELECT " + recordColumns + " FROM attendance_records"
	args := []any{}
	if employeeID != "" {
		query += " WHERE employee_id = $1"
		args = append(args, employeeID)
	}
	query += fmt.Sprintf(" ORDER BY work_date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+" FROM attendance_records WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// OpenForDay returns the employee's record for the given date, if any.
func (s *Store) ForDay(ctx context.Context, employeeID, date string) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = $1 AND work_date = $2
    ORDER BY created_at DESC
    LIMIT 1
  `, employeeID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *Store) Create(ctx context.Context, rec Record) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, work_date, clock_in, clock_out, is_holiday, source, device_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, nullIfEmpty(rec.EmployeeID), rec.Date, rec.ClockIn, rec.ClockOut, rec.IsHoliday, rec.Source, rec.DeviceID).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, rec Record) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET employee_id = $1, work_date = $2, clock_in = $3, clock_out = $4, is_holiday = $5
    WHERE id = $6
  `, nullIfEmpty(rec.EmployeeID), rec.Date, rec.ClockIn, rec.ClockOut, rec.IsHoliday, rec.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance_records WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetClockOut(ctx context.Context, id, clockOut string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE attendance_records SET clock_out = $1 WHERE id = $2", clockOut, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ClockIn, &rec.ClockOut,
		&rec.IsHoliday, &rec.Source, &rec.DeviceID, &rec.CreatedAt)
	return rec, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
