package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
	"github.com/tadris-labs/school-backend-go/internal/pkg/validator"
)

type payrollServiceImpl struct {
	repo      payroll.Repository
	staffRepo staff.Repository
	attRepo   attendance.Repository
	logger    *slog.Logger
}

func NewPayrollService(
	repo payroll.Repository,
	staffRepo staff.Repository,
	attRepo attendance.Repository,
	logger *slog.Logger,
) payroll.Service {
	return &payrollServiceImpl{
		repo:      repo,
		staffRepo: staffRepo,
		attRepo:   attRepo,
		logger:    logger,
	}
}

// schoolFromContext pulls the tenant scope out of the JWT claims.
func schoolFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	schoolID, ok := claims["school_id"].(string)
	if !ok || schoolID == "" {
		return "", fmt.Errorf("school_id claim is missing or invalid")
	}

	return schoolID, nil
}

// ========== SETTINGS ==========

func (s *payrollServiceImpl) GetSettings(ctx context.Context) (payroll.SettingsResponse, error) {
	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.repo.GetSettings(ctx, schoolID)
	if err != nil {
		if errors.Is(err, payroll.ErrSettingsNotFound) {
			return settingsToResponse(payroll.DefaultSettings(schoolID)), nil
		}
		return payroll.SettingsResponse{}, err
	}

	return settingsToResponse(settings), nil
}

func (s *payrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	current, err := s.repo.GetSettings(ctx, schoolID)
	if err != nil && !errors.Is(err, payroll.ErrSettingsNotFound) {
		return payroll.SettingsResponse{}, err
	}
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		current = payroll.DefaultSettings(schoolID)
	}

	if req.AbsencePenaltyRate != nil {
		current.AbsencePenaltyRate = *req.AbsencePenaltyRate
	}
	if req.LatenessPenaltyRate != nil {
		current.LatenessPenaltyRate = *req.LatenessPenaltyRate
	}
	if req.EarlyLeavePenaltyRate != nil {
		current.EarlyLeavePenaltyRate = *req.EarlyLeavePenaltyRate
	}
	if req.OvertimeRate != nil {
		current.OvertimeRate = *req.OvertimeRate
	}
	if req.LatenessGraceMinutes != nil {
		current.LatenessGraceMinutes = *req.LatenessGraceMinutes
	}
	if req.MaxLatenessGraceMinutes != nil {
		current.MaxLatenessGraceMinutes = *req.MaxLatenessGraceMinutes
	}
	if req.EarlyLeaveGraceMinutes != nil {
		current.EarlyLeaveGraceMinutes = *req.EarlyLeaveGraceMinutes
	}
	if req.ShiftStart != nil {
		current.ShiftStart = *req.ShiftStart
	}
	if req.ShiftEnd != nil {
		current.ShiftEnd = *req.ShiftEnd
	}
	if req.WorkingHoursPerDay != nil {
		current.WorkingHoursPerDay = *req.WorkingHoursPerDay
	}
	if req.WorkingDaysPerMonth != nil {
		current.WorkingDaysPerMonth = *req.WorkingDaysPerMonth
	}
	if req.WeekendDays != nil {
		current.WeekendDays = make([]time.Weekday, 0, len(*req.WeekendDays))
		for _, d := range *req.WeekendDays {
			current.WeekendDays = append(current.WeekendDays, time.Weekday(d))
		}
	}
	if req.WeekdayRules != nil {
		current.WeekdayRules = *req.WeekdayRules
	}

	updated, err := s.repo.UpsertSettings(ctx, current)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	return settingsToResponse(updated), nil
}

// ========== CALENDAR OVERRIDES ==========

func (s *payrollServiceImpl) CreateOverride(ctx context.Context, req payroll.CreateOverrideRequest) (payroll.OverrideResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.OverrideResponse{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return payroll.OverrideResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	created, err := s.repo.CreateOverride(ctx, payroll.CalendarOverride{
		SchoolID: schoolID,
		Date:     date,
		DayType:  payroll.DayType(req.DayType),
		PayRate:  req.PayRate,
		Bonus:    req.Bonus,
		EndTime:  req.EndTime,
		Note:     req.Note,
	})
	if err != nil {
		return payroll.OverrideResponse{}, err
	}

	return overrideToResponse(created), nil
}

func (s *payrollServiceImpl) ListOverrides(ctx context.Context, month, year int) ([]payroll.OverrideResponse, error) {
	if !validator.IsValidPeriod(month, year) {
		return nil, payroll.ErrInvalidPeriod
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	overrides, err := s.repo.ListOverridesInRange(ctx, schoolID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.OverrideResponse, 0, len(overrides))
	for _, ov := range overrides {
		result = append(result, overrideToResponse(ov))
	}
	return result, nil
}

func (s *payrollServiceImpl) DeleteOverride(ctx context.Context, id string) error {
	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return err
	}

	return s.repo.DeleteOverride(ctx, id, schoolID)
}

// ========== SALARY GENERATION ==========

func (s *payrollServiceImpl) GenerateSalaries(ctx context.Context, req payroll.GenerateSalariesRequest) (payroll.RunReport, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunReport{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return payroll.RunReport{}, err
	}

	return s.GenerateSalariesForSchool(ctx, schoolID, req.PeriodMonth, req.PeriodYear)
}

// GenerateSalariesForSchool runs payroll for one school and month. The run
// works on the snapshot fetched up front, processes staff one at a time and
// never touches an existing salary record. A persistence failure for one
// staff member is logged and reported; the run continues with the rest.
// Cancellation is honored between staff members, never mid-calculation.
func (s *payrollServiceImpl) GenerateSalariesForSchool(ctx context.Context, schoolID string, month, year int) (payroll.RunReport, error) {
	if !validator.IsValidPeriod(month, year) {
		return payroll.RunReport{}, payroll.ErrInvalidPeriod
	}

	settings, err := s.repo.GetSettings(ctx, schoolID)
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		// Absence of configuration is not an error; a query failure is.
		settings = payroll.DefaultSettings(schoolID)
	} else if err != nil {
		return payroll.RunReport{}, fmt.Errorf("failed to load payroll settings: %w", err)
	}
	if settings.WorkingDaysPerMonth <= 0 || !settings.WorkingHoursPerDay.IsPositive() {
		return payroll.RunReport{}, payroll.ErrInvalidSettings
	}

	roster, err := s.staffRepo.ListActiveBySchool(ctx, schoolID)
	if err != nil {
		return payroll.RunReport{}, fmt.Errorf("failed to load staff roster: %w", err)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	overrides, err := s.repo.ListOverridesInRange(ctx, schoolID, from, to)
	if err != nil {
		return payroll.RunReport{}, fmt.Errorf("failed to load calendar overrides: %w", err)
	}

	records, err := s.attRepo.ListInRange(ctx, schoolID, from, to)
	if err != nil {
		return payroll.RunReport{}, fmt.Errorf("failed to load attendance records: %w", err)
	}
	recordsByStaff := make(map[string][]attendance.Attendance, len(roster))
	for _, rec := range records {
		recordsByStaff[rec.StaffID] = append(recordsByStaff[rec.StaffID], rec)
	}

	existing, err := s.repo.ListSalariesForPeriod(ctx, schoolID, month, year)
	if err != nil {
		return payroll.RunReport{}, fmt.Errorf("failed to load existing salary records: %w", err)
	}
	hasSalary := make(map[string]bool, len(existing))
	for _, rec := range existing {
		hasSalary[rec.StaffID] = true
	}

	report := payroll.RunReport{PeriodMonth: month, PeriodYear: year}

	for _, st := range roster {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}

		if hasSalary[st.ID] {
			report.Skipped++
			report.Results = append(report.Results, payroll.StaffRunResult{
				StaffID:   st.ID,
				StaffName: st.FullName,
				Status:    payroll.RunStatusSkipped,
				Reason:    "salary record already exists for this period",
			})
			continue
		}

		record := buildMonthlySalary(st, month, year, overrides, recordsByStaff[st.ID], settings)

		created, err := s.repo.CreateSalary(ctx, record)
		if err != nil {
			if errors.Is(err, payroll.ErrSalaryAlreadyExists) {
				report.Skipped++
				report.Results = append(report.Results, payroll.StaffRunResult{
					StaffID:   st.ID,
					StaffName: st.FullName,
					Status:    payroll.RunStatusSkipped,
					Reason:    "salary record already exists for this period",
				})
				continue
			}
			s.logger.Error("failed to persist salary record",
				"school_id", schoolID,
				"staff_id", st.ID,
				"period_month", month,
				"period_year", year,
				"error", err,
			)
			report.Failed++
			report.Results = append(report.Results, payroll.StaffRunResult{
				StaffID:   st.ID,
				StaffName: st.FullName,
				Status:    payroll.RunStatusFailed,
				Reason:    err.Error(),
			})
			continue
		}

		net := created.NetSalary
		report.Created++
		report.Results = append(report.Results, payroll.StaffRunResult{
			StaffID:   st.ID,
			StaffName: st.FullName,
			Status:    payroll.RunStatusCreated,
			NetSalary: &net,
		})
	}

	s.logger.Info("payroll run completed",
		"school_id", schoolID,
		"period_month", month,
		"period_year", year,
		"created", report.Created,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)

	return report, nil
}

// ========== SALARY LOOKUP ==========

func (s *payrollServiceImpl) GetSalary(ctx context.Context, id string) (payroll.SalaryRecordResponse, error) {
	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	record, err := s.repo.GetSalaryByID(ctx, id, schoolID)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	items, err := s.repo.GetSalaryItems(ctx, record.ID)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}
	record.Items = items

	return salaryToResponse(record), nil
}

func (s *payrollServiceImpl) ListSalaries(ctx context.Context, filter payroll.SalaryFilter) (payroll.ListSalariesResponse, error) {
	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return payroll.ListSalariesResponse{}, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, totalCount, err := s.repo.ListSalaries(ctx, schoolID, filter)
	if err != nil {
		return payroll.ListSalariesResponse{}, err
	}

	data := make([]payroll.SalaryRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, salaryToResponse(r))
	}

	return payroll.ListSalariesResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *payrollServiceImpl) MarkPaid(ctx context.Context, id string, req payroll.MarkPaidRequest) (payroll.SalaryRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	record, err := s.repo.GetSalaryByID(ctx, id, schoolID)
	if err != nil {
		return payroll.SalaryRecordResponse{}, err
	}
	if record.Status == payroll.SalaryStatusPaid {
		return payroll.SalaryRecordResponse{}, payroll.ErrSalaryAlreadyPaid
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	if err := s.repo.MarkSalaryPaid(ctx, id, schoolID, req.PaymentMethod, paidAt); err != nil {
		return payroll.SalaryRecordResponse{}, err
	}

	return s.GetSalary(ctx, id)
}

// ========== MAPPERS ==========

func settingsToResponse(s payroll.Settings) payroll.SettingsResponse {
	weekend := make([]int, 0, len(s.WeekendDays))
	for _, d := range s.WeekendDays {
		weekend = append(weekend, int(d))
	}

	return payroll.SettingsResponse{
		ID:                      s.ID,
		SchoolID:                s.SchoolID,
		AbsencePenaltyRate:      s.AbsencePenaltyRate,
		LatenessPenaltyRate:     s.LatenessPenaltyRate,
		EarlyLeavePenaltyRate:   s.EarlyLeavePenaltyRate,
		OvertimeRate:            s.OvertimeRate,
		LatenessGraceMinutes:    s.LatenessGraceMinutes,
		MaxLatenessGraceMinutes: s.MaxLatenessGraceMinutes,
		EarlyLeaveGraceMinutes:  s.EarlyLeaveGraceMinutes,
		ShiftStart:              s.ShiftStart,
		ShiftEnd:                s.ShiftEnd,
		WorkingHoursPerDay:      s.WorkingHoursPerDay,
		WorkingDaysPerMonth:     s.WorkingDaysPerMonth,
		WeekendDays:             weekend,
		WeekdayRules:            s.WeekdayRules,
	}
}

func overrideToResponse(ov payroll.CalendarOverride) payroll.OverrideResponse {
	return payroll.OverrideResponse{
		ID:      ov.ID,
		Date:    ov.Date.Format("2006-01-02"),
		DayType: string(ov.DayType),
		PayRate: ov.PayRate,
		Bonus:   ov.Bonus,
		EndTime: ov.EndTime,
		Note:    ov.Note,
	}
}

func salaryToResponse(r payroll.SalaryRecord) payroll.SalaryRecordResponse {
	var paidAtStr *string
	if r.PaidAt != nil {
		str := r.PaidAt.Format(time.RFC3339)
		paidAtStr = &str
	}

	staffName := ""
	if r.StaffName != nil {
		staffName = *r.StaffName
	}

	items := make([]payroll.SalaryItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, payroll.SalaryItemResponse{
			Type:   string(item.Type),
			Name:   item.Name,
			Amount: item.Amount,
			Note:   item.Note,
		})
	}

	return payroll.SalaryRecordResponse{
		ID:              r.ID,
		StaffID:         r.StaffID,
		StaffName:       staffName,
		PeriodMonth:     r.PeriodMonth,
		PeriodYear:      r.PeriodYear,
		BaseSalary:      r.BaseSalary,
		TotalAllowances: r.TotalAllowances,
		TotalDeductions: r.TotalDeductions,
		NetSalary:       r.NetSalary,
		Status:          string(r.Status),
		PaidAt:          paidAtStr,
		PaymentMethod:   r.PaymentMethod,
		Items:           items,
	}
}
