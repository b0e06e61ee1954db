package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
	"github.com/tadris-labs/school-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

// GetSettings implements payroll.Repository.
func (r *payrollRepository) GetSettings(ctx context.Context, schoolID string) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, school_id, absence_penalty_rate, lateness_penalty_rate,
			early_leave_penalty_rate, overtime_rate, lateness_grace_minutes,
			max_lateness_grace_minutes, early_leave_grace_minutes,
			shift_start, shift_end, working_hours_per_day, working_days_per_month,
			weekend_days, weekday_rules, created_at, updated_at
		FROM payroll_settings
		WHERE school_id = $1
		LIMIT 1
	`

	var (
		s                payroll.Settings
		weekendDaysJSON  []byte
		weekdayRulesJSON []byte
	)
	err := q.QueryRow(ctx, query, schoolID).Scan(
		&s.ID, &s.SchoolID, &s.AbsencePenaltyRate, &s.LatenessPenaltyRate,
		&s.EarlyLeavePenaltyRate, &s.OvertimeRate, &s.LatenessGraceMinutes,
		&s.MaxLatenessGraceMinutes, &s.EarlyLeaveGraceMinutes,
		&s.ShiftStart, &s.ShiftEnd, &s.WorkingHoursPerDay, &s.WorkingDaysPerMonth,
		&weekendDaysJSON, &weekdayRulesJSON, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Settings{}, payroll.ErrSettingsNotFound
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	if err := json.Unmarshal(weekendDaysJSON, &s.WeekendDays); err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to decode weekend days: %w", err)
	}
	if err := json.Unmarshal(weekdayRulesJSON, &s.WeekdayRules); err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to decode weekday rules: %w", err)
	}

	return s, nil
}

// UpsertSettings implements payroll.Repository.
func (r *payrollRepository) UpsertSettings(ctx context.Context, settings payroll.Settings) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	weekendDaysJSON, err := json.Marshal(settings.WeekendDays)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to encode weekend days: %w", err)
	}
	weekdayRulesJSON, err := json.Marshal(settings.WeekdayRules)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to encode weekday rules: %w", err)
	}

	query := `
		INSERT INTO payroll_settings (school_id, absence_penalty_rate, lateness_penalty_rate,
			early_leave_penalty_rate, overtime_rate, lateness_grace_minutes,
			max_lateness_grace_minutes, early_leave_grace_minutes,
			shift_start, shift_end, working_hours_per_day, working_days_per_month,
			weekend_days, weekday_rules)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (school_id) DO UPDATE SET
			absence_penalty_rate = EXCLUDED.absence_penalty_rate,
			lateness_penalty_rate = EXCLUDED.lateness_penalty_rate,
			early_leave_penalty_rate = EXCLUDED.early_leave_penalty_rate,
			overtime_rate = EXCLUDED.overtime_rate,
			lateness_grace_minutes = EXCLUDED.lateness_grace_minutes,
			max_lateness_grace_minutes = EXCLUDED.max_lateness_grace_minutes,
			early_leave_grace_minutes = EXCLUDED.early_leave_grace_minutes,
			shift_start = EXCLUDED.shift_start,
			shift_end = EXCLUDED.shift_end,
			working_hours_per_day = EXCLUDED.working_hours_per_day,
			working_days_per_month = EXCLUDED.working_days_per_month,
			weekend_days = EXCLUDED.weekend_days,
			weekday_rules = EXCLUDED.weekday_rules,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		settings.SchoolID, settings.AbsencePenaltyRate, settings.LatenessPenaltyRate,
		settings.EarlyLeavePenaltyRate, settings.OvertimeRate, settings.LatenessGraceMinutes,
		settings.MaxLatenessGraceMinutes, settings.EarlyLeaveGraceMinutes,
		settings.ShiftStart, settings.ShiftEnd, settings.WorkingHoursPerDay, settings.WorkingDaysPerMonth,
		weekendDaysJSON, weekdayRulesJSON,
	).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}

	return settings, nil
}

// CreateOverride implements payroll.Repository.
func (r *payrollRepository) CreateOverride(ctx context.Context, override payroll.CalendarOverride) (payroll.CalendarOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO calendar_overrides (school_id, date, day_type, pay_rate, bonus, end_time, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		override.SchoolID, override.Date, override.DayType,
		override.PayRate, override.Bonus, override.EndTime, override.Note,
	).Scan(&override.ID, &override.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.CalendarOverride{}, payroll.ErrOverrideDateTaken
		}
		return payroll.CalendarOverride{}, fmt.Errorf("failed to create calendar override: %w", err)
	}

	return override, nil
}

// ListOverridesInRange implements payroll.Repository. Ordering by created_at
// makes the earliest override win when a date somehow has more than one.
func (r *payrollRepository) ListOverridesInRange(ctx context.Context, schoolID string, from, to time.Time) ([]payroll.CalendarOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, school_id, date, day_type, pay_rate, bonus, end_time, note, created_at
		FROM calendar_overrides
		WHERE school_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, created_at, id
	`

	rows, err := q.Query(ctx, query, schoolID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar overrides: %w", err)
	}
	defer rows.Close()

	var overrides []payroll.CalendarOverride
	for rows.Next() {
		var o payroll.CalendarOverride
		err := rows.Scan(
			&o.ID, &o.SchoolID, &o.Date, &o.DayType,
			&o.PayRate, &o.Bonus, &o.EndTime, &o.Note, &o.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar override row: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar override rows: %w", err)
	}

	return overrides, nil
}

// DeleteOverride implements payroll.Repository.
func (r *payrollRepository) DeleteOverride(ctx context.Context, id string, schoolID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM calendar_overrides WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return fmt.Errorf("failed to delete calendar override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrOverrideNotFound
	}

	return nil
}

// CreateSalary implements payroll.Repository. The record and its items land
// in one transaction; IDs are generated client side so the items can be
// batched without round-tripping for the record ID.
func (r *payrollRepository) CreateSalary(ctx context.Context, record payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		record.ID = uuid.NewString()

		query := `
			INSERT INTO salary_records (id, school_id, staff_id, period_month, period_year,
				base_salary, total_allowances, total_deductions, net_salary, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			record.ID, record.SchoolID, record.StaffID, record.PeriodMonth, record.PeriodYear,
			record.BaseSalary, record.TotalAllowances, record.TotalDeductions,
			record.NetSalary, record.Status,
		).Scan(&record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return payroll.ErrSalaryAlreadyExists
			}
			return fmt.Errorf("failed to create salary record: %w", err)
		}

		itemQuery := `
			INSERT INTO salary_items (id, salary_record_id, type, name, amount, note, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for i := range record.Items {
			item := &record.Items[i]
			item.ID = uuid.NewString()
			item.SalaryRecordID = record.ID
			_, err := tx.Exec(ctx, itemQuery,
				item.ID, record.ID, item.Type, item.Name, item.Amount, item.Note, i,
			)
			if err != nil {
				return fmt.Errorf("failed to create salary item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return payroll.SalaryRecord{}, err
	}

	return record, nil
}

const salaryColumns = `r.id, r.school_id, r.staff_id, r.period_month, r.period_year,
	r.base_salary, r.total_allowances, r.total_deductions, r.net_salary,
	r.status, r.paid_at, r.payment_method, r.created_at, r.updated_at`

func scanSalary(row pgx.Row, withStaffName bool) (payroll.SalaryRecord, error) {
	var rec payroll.SalaryRecord
	dest := []any{
		&rec.ID, &rec.SchoolID, &rec.StaffID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BaseSalary, &rec.TotalAllowances, &rec.TotalDeductions, &rec.NetSalary,
		&rec.Status, &rec.PaidAt, &rec.PaymentMethod, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withStaffName {
		dest = append(dest, &rec.StaffName)
	}
	return rec, row.Scan(dest...)
}

// GetSalaryByID implements payroll.Repository.
func (r *payrollRepository) GetSalaryByID(ctx context.Context, id string, schoolID string) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `, s.full_name
		FROM salary_records r
		JOIN staff s ON s.id = r.staff_id
		WHERE r.id = $1 AND r.school_id = $2
		LIMIT 1
	`

	rec, err := scanSalary(q.QueryRow(ctx, query, id, schoolID), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary record by id: %w", err)
	}

	return rec, nil
}

// GetSalaryByStaffPeriod implements payroll.Repository.
func (r *payrollRepository) GetSalaryByStaffPeriod(ctx context.Context, staffID string, month, year int, schoolID string) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salary_records r
		WHERE r.staff_id = $1 AND r.period_month = $2 AND r.period_year = $3 AND r.school_id = $4
		LIMIT 1
	`

	rec, err := scanSalary(q.QueryRow(ctx, query, staffID, month, year, schoolID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary record by staff and period: %w", err)
	}

	return rec, nil
}

// ListSalariesForPeriod implements payroll.Repository.
func (r *payrollRepository) ListSalariesForPeriod(ctx context.Context, schoolID string, month, year int) ([]payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryColumns + `
		FROM salary_records r
		WHERE r.school_id = $1 AND r.period_month = $2 AND r.period_year = $3
		ORDER BY r.staff_id
	`

	rows, err := q.Query(ctx, query, schoolID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary records for period: %w", err)
	}
	defer rows.Close()

	var records []payroll.SalaryRecord
	for rows.Next() {
		rec, err := scanSalary(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary record rows: %w", err)
	}

	return records, nil
}

// ListSalaries implements payroll.Repository.
func (r *payrollRepository) ListSalaries(ctx context.Context, schoolID string, filter payroll.SalaryFilter) ([]payroll.SalaryRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"r.school_id = $1"}
	args := []any{schoolID}
	arg := 2

	addCondition := func(cond string, value any) {
		conditions = append(conditions, fmt.Sprintf(cond, arg))
		args = append(args, value)
		arg++
	}

	if filter.PeriodMonth != nil {
		addCondition("r.period_month = $%d", *filter.PeriodMonth)
	}
	if filter.PeriodYear != nil {
		addCondition("r.period_year = $%d", *filter.PeriodYear)
	}
	if filter.StaffID != nil {
		addCondition("r.staff_id = $%d", *filter.StaffID)
	}
	if filter.Status != nil {
		addCondition("r.status = $%d", *filter.Status)
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM salary_records r WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count salary records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, s.full_name
		FROM salary_records r
		JOIN staff s ON s.id = r.staff_id
		WHERE %s
		ORDER BY r.period_year DESC, r.period_month DESC, s.full_name
		LIMIT $%d OFFSET $%d
	`, salaryColumns, where, arg, arg+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salary records: %w", err)
	}
	defer rows.Close()

	var records []payroll.SalaryRecord
	for rows.Next() {
		rec, err := scanSalary(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan salary record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate salary record rows: %w", err)
	}

	return records, totalCount, nil
}

// GetSalaryItems implements payroll.Repository.
func (r *payrollRepository) GetSalaryItems(ctx context.Context, salaryRecordID string) ([]payroll.SalaryItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, salary_record_id, type, name, amount, note
		FROM salary_items
		WHERE salary_record_id = $1
		ORDER BY sort_order, id
	`

	rows, err := q.Query(ctx, query, salaryRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary items: %w", err)
	}
	defer rows.Close()

	var items []payroll.SalaryItem
	for rows.Next() {
		var item payroll.SalaryItem
		err := rows.Scan(&item.ID, &item.SalaryRecordID, &item.Type, &item.Name, &item.Amount, &item.Note)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary item rows: %w", err)
	}

	return items, nil
}

// MarkSalaryPaid implements payroll.Repository. Only records still due can be
// marked; an already paid record is left untouched.
func (r *payrollRepository) MarkSalaryPaid(ctx context.Context, id string, schoolID string, method string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_records
		SET status = $3, payment_method = $4, paid_at = $5, updated_at = NOW()
		WHERE id = $1 AND school_id = $2 AND status = $6
	`

	tag, err := q.Exec(ctx, query, id, schoolID, payroll.SalaryStatusPaid, method, paidAt, payroll.SalaryStatusDue)
	if err != nil {
		return fmt.Errorf("failed to mark salary record paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish missing from already paid.
		var status payroll.SalaryStatus
		err := q.QueryRow(ctx, `SELECT status FROM salary_records WHERE id = $1 AND school_id = $2`, id, schoolID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrSalaryRecordNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check salary record status: %w", err)
		}
		return payroll.ErrSalaryAlreadyPaid
	}

	return nil
}
