package payroll

import (
	"context"
	"time"
)

// Repository defines data access for payroll configuration and results.
// All methods take schoolID to keep tenants isolated.
type Repository interface {
	// Settings
	GetSettings(ctx context.Context, schoolID string) (Settings, error)
	UpsertSettings(ctx context.Context, settings Settings) (Settings, error)

	// Calendar overrides
	CreateOverride(ctx context.Context, override CalendarOverride) (CalendarOverride, error)
	ListOverridesInRange(ctx context.Context, schoolID string, from, to time.Time) ([]CalendarOverride, error)
	DeleteOverride(ctx context.Context, id string, schoolID string) error

	// Salary records
	// CreateSalary persists the record together with its ordered items in one
	// transaction; either everything lands or nothing does.
	CreateSalary(ctx context.Context, record SalaryRecord) (SalaryRecord, error)
	GetSalaryByID(ctx context.Context, id string, schoolID string) (SalaryRecord, error)
	GetSalaryByStaffPeriod(ctx context.Context, staffID string, month, year int, schoolID string) (SalaryRecord, error)
	ListSalariesForPeriod(ctx context.Context, schoolID string, month, year int) ([]SalaryRecord, error)
	ListSalaries(ctx context.Context, schoolID string, filter SalaryFilter) ([]SalaryRecord, int64, error)
	GetSalaryItems(ctx context.Context, salaryRecordID string) ([]SalaryItem, error)
	MarkSalaryPaid(ctx context.Context, id string, schoolID string, method string, paidAt time.Time) error
}
