package payroll

import "context"

// Service is the payroll use-case surface exposed to handlers and cron jobs.
type Service interface {
	// Settings
	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	// Calendar overrides
	CreateOverride(ctx context.Context, req CreateOverrideRequest) (OverrideResponse, error)
	ListOverrides(ctx context.Context, month, year int) ([]OverrideResponse, error)
	DeleteOverride(ctx context.Context, id string) error

	// Salary generation and lookup
	GenerateSalaries(ctx context.Context, req GenerateSalariesRequest) (RunReport, error)
	// GenerateSalariesForSchool is the claims-free entry point used by the
	// cron scheduler; GenerateSalaries resolves the school from JWT claims
	// and delegates here.
	GenerateSalariesForSchool(ctx context.Context, schoolID string, month, year int) (RunReport, error)
	GetSalary(ctx context.Context, id string) (SalaryRecordResponse, error)
	ListSalaries(ctx context.Context, filter SalaryFilter) (ListSalariesResponse, error)
	MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (SalaryRecordResponse, error)
}
