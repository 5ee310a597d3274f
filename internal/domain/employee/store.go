package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, activeOnly bool) ([]Employee, error) {
	query := "SELECT id, name, COALESCE(barcode, ''), active, created_at FROM employees"
	if activeOnly {
		query += " WHERE active"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Barcode, &emp.Active, &emp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(barcode, ''), active, created_at
    FROM employees
    WHERE id = $1
  `, id).Scan(&emp.ID, &emp.Name, &emp.Barcode, &emp.Active, &emp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) FindByBarcode(ctx context.Context, barcode string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(barcode, ''), active, created_at
    FROM employees
    WHERE barcode = $1 AND active
  `, barcode).Scan(&emp.ID, &emp.Name, &emp.Barcode, &emp.Active, &emp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) Create(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, barcode, active)
    VALUES ($1, NULLIF($2, ''), $3)
    RETURNING id
  `, emp.Name, emp.Barcode, emp.Active).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1, barcode = NULLIF($2, ''), active = $3
    WHERE id = $4
  `, emp.Name, emp.Barcode, emp.Active, emp.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
