package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records.
// All methods take schoolID to keep tenants isolated.
type Repository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)

	// Upsert replaces the record for (staff, date) if one exists.
	Upsert(ctx context.Context, a Attendance) (Attendance, error)

	Update(ctx context.Context, a Attendance) error

	// GetByStaffAndDate returns nil when no record exists for that date;
	// the payroll classifier treats that as meaningful.
	GetByStaffAndDate(ctx context.Context, staffID string, date time.Time, schoolID string) (*Attendance, error)

	// ListInRange returns every record in [from, to] for all staff of a
	// school; the payroll run fetches one month in a single query.
	ListInRange(ctx context.Context, schoolID string, from, to time.Time) ([]Attendance, error)

	List(ctx context.Context, schoolID string, filter Filter) ([]Attendance, int64, error)
}
