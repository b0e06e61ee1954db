package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
	"github.com/tadris-labs/school-backend-go/internal/pkg/database"
)

type staffRepository struct {
	db *database.DB
}

func NewStaffRepository(db *database.DB) staff.Repository {
	return &staffRepository{db: db}
}

const staffColumns = `id, school_id, full_name, email, phone, position, base_salary, is_active, hire_date, created_at, updated_at`

func scanStaff(row pgx.Row) (staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(
		&s.ID, &s.SchoolID, &s.FullName, &s.Email, &s.Phone, &s.Position,
		&s.BaseSalary, &s.IsActive, &s.HireDate, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements staff.Repository.
func (r *staffRepository) Create(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO staff (school_id, full_name, email, phone, position, base_salary, is_active, hire_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.SchoolID, s.FullName, s.Email, s.Phone, s.Position,
		s.BaseSalary, s.IsActive, s.HireDate,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return staff.Staff{}, staff.ErrEmailExists
		}
		return staff.Staff{}, fmt.Errorf("failed to create staff: %w", err)
	}

	return s, nil
}

// GetByID implements staff.Repository.
func (r *staffRepository) GetByID(ctx context.Context, id string, schoolID string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1 AND school_id = $2 LIMIT 1`

	s, err := scanStaff(q.QueryRow(ctx, query, id, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff by id: %w", err)
	}

	return s, nil
}

// ListActiveBySchool implements staff.Repository.
func (r *staffRepository) ListActiveBySchool(ctx context.Context, schoolID string) ([]staff.Staff, error) {
	return r.list(ctx, schoolID, true)
}

// ListBySchool implements staff.Repository.
func (r *staffRepository) ListBySchool(ctx context.Context, schoolID string) ([]staff.Staff, error) {
	return r.list(ctx, schoolID, false)
}

func (r *staffRepository) list(ctx context.Context, schoolID string, activeOnly bool) ([]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + staffColumns + ` FROM staff WHERE school_id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY full_name, id`

	rows, err := q.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var members []staff.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		members = append(members, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff rows: %w", err)
	}

	return members, nil
}

// Update implements staff.Repository. Only the fields present in the request
// are written.
func (r *staffRepository) Update(ctx context.Context, schoolID string, req staff.UpdateStaffRequest) error {
	q := GetQuerier(ctx, r.db)

	sets := []string{"updated_at = NOW()"}
	args := []any{req.ID, schoolID}
	arg := 3

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}

	if req.FullName != nil {
		addSet("full_name", *req.FullName)
	}
	if req.Email != nil {
		addSet("email", *req.Email)
	}
	if req.Phone != nil {
		addSet("phone", *req.Phone)
	}
	if req.Position != nil {
		addSet("position", *req.Position)
	}
	if req.BaseSalary != nil {
		addSet("base_salary", *req.BaseSalary)
	}
	if req.IsActive != nil {
		addSet("is_active", *req.IsActive)
	}

	query := `UPDATE staff SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 AND school_id = $2`

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return staff.ErrEmailExists
		}
		return fmt.Errorf("failed to update staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}

	return nil
}

// ListSchoolIDs implements staff.Repository.
func (r *staffRepository) ListSchoolIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT DISTINCT school_id FROM staff WHERE is_active = true ORDER BY school_id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list school ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan school id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate school ids: %w", err)
	}

	return ids, nil
}
