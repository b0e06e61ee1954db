package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
	"github.com/tadris-labs/school-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.school_id, a.staff_id, a.date, a.status,
	a.check_in, a.check_out, a.late_minutes, a.overtime_minutes, a.worked_hours,
	a.note, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.SchoolID, &att.StaffID, &att.Date, &att.Status,
		&att.CheckIn, &att.CheckOut, &att.LateMinutes, &att.OvertimeMinutes,
		&att.WorkedHours, &att.Note, &att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.Repository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (school_id, staff_id, date, status, check_in, check_out,
			late_minutes, overtime_minutes, worked_hours, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.SchoolID, a.StaffID, a.Date, a.Status, a.CheckIn, a.CheckOut,
		a.LateMinutes, a.OvertimeMinutes, a.WorkedHours, a.Note,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a, nil
}

// Upsert implements attendance.Repository. One record per (staff, date); an
// existing record for the same date is replaced.
func (r *attendanceRepository) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (school_id, staff_id, date, status, check_in, check_out,
			late_minutes, overtime_minutes, worked_hours, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (staff_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			check_in = COALESCE(EXCLUDED.check_in, attendances.check_in),
			check_out = COALESCE(EXCLUDED.check_out, attendances.check_out),
			late_minutes = EXCLUDED.late_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			worked_hours = EXCLUDED.worked_hours,
			note = EXCLUDED.note,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.SchoolID, a.StaffID, a.Date, a.Status, a.CheckIn, a.CheckOut,
		a.LateMinutes, a.OvertimeMinutes, a.WorkedHours, a.Note,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return a, nil
}

// Update implements attendance.Repository.
func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET status = $3, check_in = $4, check_out = $5, late_minutes = $6,
			overtime_minutes = $7, worked_hours = $8, note = $9, updated_at = NOW()
		WHERE id = $1 AND school_id = $2
	`

	tag, err := q.Exec(ctx, query,
		a.ID, a.SchoolID, a.Status, a.CheckIn, a.CheckOut,
		a.LateMinutes, a.OvertimeMinutes, a.WorkedHours, a.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// GetByStaffAndDate implements attendance.Repository.
func (r *attendanceRepository) GetByStaffAndDate(ctx context.Context, staffID string, date time.Time, schoolID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.staff_id = $1 AND a.date = $2 AND a.school_id = $3
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, staffID, date, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record for that date; the caller decides what it means
		}
		return nil, fmt.Errorf("failed to get attendance by staff and date: %w", err)
	}

	return &att, nil
}

// ListInRange implements attendance.Repository.
func (r *attendanceRepository) ListInRange(ctx context.Context, schoolID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.school_id = $1 AND a.date >= $2 AND a.date <= $3
		ORDER BY a.staff_id, a.date
	`

	rows, err := q.Query(ctx, query, schoolID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances in range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance rows: %w", err)
	}

	return records, nil
}

// List implements attendance.Repository.
func (r *attendanceRepository) List(ctx context.Context, schoolID string, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"a.school_id = $1"}
	args := []any{schoolID}
	arg := 2

	addCondition := func(cond string, value any) {
		conditions = append(conditions, fmt.Sprintf(cond, arg))
		args = append(args, value)
		arg++
	}

	if filter.StaffID != nil {
		addCondition("a.staff_id = $%d", *filter.StaffID)
	}
	if filter.DateFrom != nil {
		addCondition("a.date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCondition("a.date <= $%d", *filter.DateTo)
	}
	if filter.Status != nil {
		addCondition("a.status = $%d", *filter.Status)
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, s.full_name
		FROM attendances a
		JOIN staff s ON s.id = a.staff_id
		WHERE %s
		ORDER BY a.date DESC, s.full_name
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, arg, arg+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.SchoolID, &att.StaffID, &att.Date, &att.Status,
			&att.CheckIn, &att.CheckOut, &att.LateMinutes, &att.OvertimeMinutes,
			&att.WorkedHours, &att.Note, &att.CreatedAt, &att.UpdatedAt,
			&att.StaffName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance rows: %w", err)
	}

	return records, totalCount, nil
}
