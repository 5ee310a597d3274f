package payroll

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"payday/internal/domain/attendance"
	"payday/internal/domain/settings"
)

// Service is the settlement orchestrator. It groups live attendance by
// employee, aggregates each group into a salary record, persists the
// record and only then deletes the consumed attendance rows.
//
// Persist and consume are deliberately two separate steps, not a
// distributed transaction. An interruption between them leaves the
// punches live, so the failure mode is a rejected duplicate settlement
// (guarded by HasSalaryRecord) rather than data loss. Callers must keep
// other actors from touching an employee's attendance between the start
// of aggregation and the completion of consumption.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Settle runs one finalize action. Employees are processed in sorted id
// order, each one's persist-then-consume pair completing before the
// next starts, so an interruption leaves a deterministic boundary.
// Every employee in the result has either a salary record id or an
// error; none is silently dropped.
func (s *Service) Settle(ctx context.Context, req SettleRequest) (SettleResult, error) {
	cfg, err := s.store.ReadSettings(ctx)
	if err != nil {
		return SettleResult{}, err
	}

	records, err := s.store.ListAttendance(ctx, req.EmployeeID)
	if err != nil {
		return SettleResult{}, err
	}
	if len(records) == 0 {
		return SettleResult{}, ErrEmptyInput
	}

	groups := map[string][]int{}
	for i, rec := range records {
		if rec.EmployeeID == "" {
			// Unattributed rows are neither aggregated nor deleted.
			continue
		}
		groups[rec.EmployeeID] = append(groups[rec.EmployeeID], i)
	}
	if len(groups) == 0 {
		return SettleResult{}, ErrMissingEmployeeID
	}

	year, month := req.Year, req.Month
	if year == 0 || month == 0 {
		year, month, err = derivePeriod(records)
		if err != nil {
			return SettleResult{}, err
		}
	}

	employeeIDs := make([]string, 0, len(groups))
	for id := range groups {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	mode := ModeBatch
	if req.EmployeeID != "" || len(employeeIDs) == 1 {
		mode = ModeSingle
	}

	result := SettleResult{Mode: mode, SalaryYear: year, SalaryMonth: month}
	settled := 0
	var failures []error
	for _, employeeID := range employeeIDs {
		outcome, err := s.settleEmployee(ctx, employeeID, year, month, records, groups[employeeID], cfg, req.Force)
		result.Outcomes = append(result.Outcomes, outcome)
		if err != nil {
			failures = append(failures, fmt.Errorf("employee %s: %w", employeeID, err))
		} else {
			settled++
		}
	}

	if len(failures) > 0 && settled > 0 {
		return result, &PartialFailureError{Settled: settled, Failed: len(failures), Outcomes: result.Outcomes, errs: failures}
	}
	if len(failures) > 0 {
		return result, fmt.Errorf("settlement failed: %w", failures[0])
	}
	return result, nil
}

func (s *Service) settleEmployee(ctx context.Context, employeeID string, year, month int, all []attendance.Record, indexes []int, cfg settings.Payroll, force bool) (Outcome, error) {
	outcome := Outcome{EmployeeID: employeeID}
	fail := func(err error) (Outcome, error) {
		outcome.Error = err.Error()
		return outcome, err
	}

	exists, err := s.store.HasSalaryRecord(ctx, employeeID, year, month)
	if err != nil {
		return fail(err)
	}
	if exists {
		if !force {
			return fail(ErrDuplicateSettlement)
		}
		if err := s.store.DeleteSalaryRecord(ctx, employeeID, year, month); err != nil {
			return fail(err)
		}
	}

	name, err := s.store.EmployeeName(ctx, employeeID)
	if err != nil {
		return fail(err)
	}

	group := make([]attendance.Record, 0, len(indexes))
	ids := make([]string, 0, len(indexes))
	for _, i := range indexes {
		group = append(group, all[i])
		ids = append(ids, all[i].ID)
	}

	rec, err := ComputeSalary(employeeID, name, year, month, group, cfg)
	if err != nil {
		return fail(err)
	}

	recordID, err := s.store.CreateSalaryRecord(ctx, rec)
	if err != nil {
		return fail(err)
	}
	outcome.SalaryRecordID = recordID

	consumed, err := s.store.DeleteAttendance(ctx, ids)
	if err != nil {
		// The record is persisted but its source rows survived; report it
		// loudly so the operator resolves the orphaned punches.
		return fail(fmt.Errorf("salary record %s persisted but attendance not consumed: %w", recordID, err))
	}
	outcome.AttendanceConsumed = consumed
	return outcome, nil
}

// derivePeriod picks the salary period from the latest attendance date.
func derivePeriod(records []attendance.Record) (int, int, error) {
	latest := ""
	for _, rec := range records {
		if rec.Date > latest {
			latest = rec.Date
		}
	}
	parts := strings.SplitN(latest, "-", 3)
	if len(parts) != 3 {
		return 0, 0, fmt.Errorf("cannot derive salary period from date %q", latest)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("cannot derive salary period from date %q", latest)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("cannot derive salary period from date %q", latest)
	}
	return year, month, nil
}
