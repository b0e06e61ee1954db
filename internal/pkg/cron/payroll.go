package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
)

// PayrollJobs generates last month's salaries for every school once the new
// month starts. Generation is idempotent, so running the job repeatedly on
// day one is harmless.
type PayrollJobs struct {
	payrollService payroll.Service
	staffRepo      staff.Repository
	logger         *slog.Logger
}

func NewPayrollJobs(payrollService payroll.Service, staffRepo staff.Repository, logger *slog.Logger) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		staffRepo:      staffRepo,
		logger:         logger,
	}
}

// Register adds the monthly payroll job to the scheduler. The job ticks
// hourly but only acts on the first day of the month.
func (j *PayrollJobs) Register(scheduler *Scheduler) {
	scheduler.AddJob("monthly-payroll", time.Hour, j.runMonthlyPayroll)
}

func (j *PayrollJobs) runMonthlyPayroll(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Day() != 1 {
		return nil
	}

	prev := now.AddDate(0, -1, 0)
	month := int(prev.Month())
	year := prev.Year()

	schoolIDs, err := j.staffRepo.ListSchoolIDs(ctx)
	if err != nil {
		return err
	}

	for _, schoolID := range schoolIDs {
		report, err := j.payrollService.GenerateSalariesForSchool(ctx, schoolID, month, year)
		if err != nil {
			j.logger.Error("scheduled payroll run failed",
				"school_id", schoolID, "month", month, "year", year, "error", err)
			continue
		}
		j.logger.Info("scheduled payroll run finished",
			"school_id", schoolID, "month", month, "year", year,
			"created", report.Created, "skipped", report.Skipped, "failed", report.Failed)
	}

	return nil
}
