package attendance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
)

type attendanceServiceImpl struct {
	attRepo     attendance.Repository
	staffRepo   staff.Repository
	payrollRepo payroll.Repository
}

func NewAttendanceService(
	attRepo attendance.Repository,
	staffRepo staff.Repository,
	payrollRepo payroll.Repository,
) attendance.Service {
	return &attendanceServiceImpl{
		attRepo:     attRepo,
		staffRepo:   staffRepo,
		payrollRepo: payrollRepo,
	}
}

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

func (a *attendanceServiceImpl) settingsFor(ctx context.Context, schoolID string) (payroll.Settings, error) {
	settings, err := a.payrollRepo.GetSettings(ctx, schoolID)
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		return payroll.DefaultSettings(schoolID), nil
	}
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to load payroll settings: %w", err)
	}
	return settings, nil
}

func (a *attendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := a.staffRepo.GetByID(ctx, req.StaffID, schoolID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = *req.At
	}
	date := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	existing, err := a.attRepo.GetByStaffAndDate(ctx, req.StaffID, date, schoolID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing != nil && existing.CheckIn != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	settings, err := a.settingsFor(ctx, schoolID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Lateness is recorded in full from the official shift start; the
	// payroll calculation applies grace periods, not this service.
	shiftStart := minutesOfDay(settings.ShiftStart)
	lateMinutes := at.Hour()*60 + at.Minute() - shiftStart
	if lateMinutes < 0 {
		lateMinutes = 0
	}

	status := attendance.StatusPresent
	if lateMinutes > settings.LatenessGraceMinutes {
		status = attendance.StatusLate
	}

	created, err := a.attRepo.Upsert(ctx, attendance.Attendance{
		SchoolID:    schoolID,
		StaffID:     req.StaffID,
		Date:        date,
		Status:      status,
		CheckIn:     &at,
		LateMinutes: &lateMinutes,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return toResponse(created), nil
}

func (a *attendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	at := time.Now().UTC()
	if req.At != nil {
		at = *req.At
	}
	date := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)

	rec, err := a.attRepo.GetByStaffAndDate(ctx, req.StaffID, date, schoolID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if rec == nil || rec.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	settings, err := a.settingsFor(ctx, schoolID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec.CheckOut = &at

	worked := decimal.NewFromFloat(at.Sub(*rec.CheckIn).Hours()).Round(2)
	rec.WorkedHours = &worked

	// Overtime minutes past the official shift end; early departure is not
	// computed here, payroll derives it from the check-out time against the
	// day's resolved shift end.
	if overtime := at.Hour()*60 + at.Minute() - minutesOfDay(settings.ShiftEnd); overtime > 0 {
		rec.OvertimeMinutes = &overtime
	}

	if err := a.attRepo.Update(ctx, *rec); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return toResponse(*rec), nil
}

func (a *attendanceServiceImpl) Record(ctx context.Context, req attendance.RecordRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := a.staffRepo.GetByID(ctx, req.StaffID, schoolID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	created, err := a.attRepo.Upsert(ctx, attendance.Attendance{
		SchoolID:        schoolID,
		StaffID:         req.StaffID,
		Date:            date,
		Status:          attendance.Status(req.Status),
		LateMinutes:     req.LateMinutes,
		OvertimeMinutes: req.OvertimeMinutes,
		WorkedHours:     req.WorkedHours,
		Note:            req.Note,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return toResponse(created), nil
}

func (a *attendanceServiceImpl) List(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	schoolID, err := schoolFromContext(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, totalCount, err := a.attRepo.List(ctx, schoolID, filter)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	data := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, toResponse(rec))
	}

	return attendance.ListResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func toResponse(rec attendance.Attendance) attendance.AttendanceResponse {
	staffName := ""
	if rec.StaffName != nil {
		staffName = *rec.StaffName
	}

	return attendance.AttendanceResponse{
		ID:              rec.ID,
		StaffID:         rec.StaffID,
		StaffName:       staffName,
		Date:            rec.Date.Format("2006-01-02"),
		Status:          string(rec.Status),
		CheckIn:         timePtrToString(rec.CheckIn),
		CheckOut:        timePtrToString(rec.CheckOut),
		LateMinutes:     rec.LateMinutes,
		OvertimeMinutes: rec.OvertimeMinutes,
		WorkedHours:     rec.WorkedHours,
		Note:            rec.Note,
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}

func minutesOfDay(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return h*60 + m
}
