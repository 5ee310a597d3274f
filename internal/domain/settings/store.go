package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Read returns the single payroll settings row. ErrUnavailable means no
// configuration exists yet; the caller decides whether defaults apply.
func (s *Store) Read(ctx context.Context) (Payroll, error) {
	var cfg Payroll
	var deductionsJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT base_hourly_rate, ot1_multiplier, ot2_multiplier,
           base_month_salary, welfare_allowance, housing_allowance,
           deductions_json, updated_at
    FROM payroll_settings
    WHERE id = 1
  `).Scan(&cfg.BaseHourlyRate, &cfg.OT1Multiplier, &cfg.OT2Multiplier,
		&cfg.BaseMonthSalary, &cfg.WelfareAllowance, &cfg.HousingAllowance,
		&deductionsJSON, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, ErrUnavailable
	}
	if err != nil {
		return Payroll{}, err
	}
	if err := json.Unmarshal(deductionsJSON, &cfg.Deductions); err != nil {
		cfg.Deductions = nil
	}
	return cfg, nil
}

func (s *Store) Update(ctx context.Context, cfg Payroll) error {
	deductionsJSON, err := json.Marshal(cfg.Deductions)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO payroll_settings
      (id, base_hourly_rate, ot1_multiplier, ot2_multiplier,
       base_month_salary, welfare_allowance, housing_allowance, deductions_json, updated_at)
    VALUES (1,$1,$2,$3,$4,$5,$6,$7,now())
    ON CONFLICT (id)
    DO UPDATE SET base_hourly_rate = EXCLUDED.base_hourly_rate,
                  ot1_multiplier = EXCLUDED.ot1_multiplier,
                  ot2_multiplier = EXCLUDED.ot2_multiplier,
                  base_month_salary = EXCLUDED.base_month_salary,
                  welfare_allowance = EXCLUDED.welfare_allowance,
                  housing_allowance = EXCLUDED.housing_allowance,
                  deductions_json = EXCLUDED.deductions_json,
                  updated_at = now()
  `, cfg.BaseHourlyRate, cfg.OT1Multiplier, cfg.OT2Multiplier,
		cfg.BaseMonthSalary, cfg.WelfareAllowance, cfg.HousingAllowance, deductionsJSON)
	return err
}
