package staff

import "context"

// Repository defines data access for the staff roster.
// All methods take schoolID to keep tenants isolated.
type Repository interface {
	Create(ctx context.Context, s Staff) (Staff, error)
	GetByID(ctx context.Context, id string, schoolID string) (Staff, error)
	ListActiveBySchool(ctx context.Context, schoolID string) ([]Staff, error)
	ListBySchool(ctx context.Context, schoolID string) ([]Staff, error)
	Update(ctx context.Context, schoolID string, req UpdateStaffRequest) error

	// ListSchoolIDs returns every school that has at least one active staff
	// member; the payroll cron job iterates these.
	ListSchoolIDs(ctx context.Context) ([]string, error)
}
