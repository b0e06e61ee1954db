package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tadris-labs/school-backend-go/internal/pkg/validator"
)

// ========== SETTINGS DTOs ==========

type SettingsResponse struct {
	ID                      string                 `json:"id"`
	SchoolID                string                 `json:"school_id"`
	AbsencePenaltyRate      decimal.Decimal        `json:"absence_penalty_rate"`
	LatenessPenaltyRate     decimal.Decimal        `json:"lateness_penalty_rate"`
	EarlyLeavePenaltyRate   decimal.Decimal        `json:"early_leave_penalty_rate"`
	OvertimeRate            decimal.Decimal        `json:"overtime_rate"`
	LatenessGraceMinutes    int                    `json:"lateness_grace_minutes"`
	MaxLatenessGraceMinutes int                    `json:"max_lateness_grace_minutes"`
	EarlyLeaveGraceMinutes  int                    `json:"early_leave_grace_minutes"`
	ShiftStart              string                 `json:"shift_start"`
	ShiftEnd                string                 `json:"shift_end"`
	WorkingHoursPerDay      decimal.Decimal        `json:"working_hours_per_day"`
	WorkingDaysPerMonth     int                    `json:"working_days_per_month"`
	WeekendDays             []int                  `json:"weekend_days"` // 0=Sunday .. 6=Saturday
	WeekdayRules            map[string]WeekdayRule `json:"weekday_rules,omitempty"`
}

type UpdateSettingsRequest struct {
	AbsencePenaltyRate      *decimal.Decimal        `json:"absence_penalty_rate,omitempty"`
	LatenessPenaltyRate     *decimal.Decimal        `json:"lateness_penalty_rate,omitempty"`
	EarlyLeavePenaltyRate   *decimal.Decimal        `json:"early_leave_penalty_rate,omitempty"`
	OvertimeRate            *decimal.Decimal        `json:"overtime_rate,omitempty"`
	LatenessGraceMinutes    *int                    `json:"lateness_grace_minutes,omitempty"`
	MaxLatenessGraceMinutes *int                    `json:"max_lateness_grace_minutes,omitempty"`
	EarlyLeaveGraceMinutes  *int                    `json:"early_leave_grace_minutes,omitempty"`
	ShiftStart              *string                 `json:"shift_start,omitempty"`
	ShiftEnd                *string                 `json:"shift_end,omitempty"`
	WorkingHoursPerDay      *decimal.Decimal        `json:"working_hours_per_day,omitempty"`
	WorkingDaysPerMonth     *int                    `json:"working_days_per_month,omitempty"`
	WeekendDays             *[]int                  `json:"weekend_days,omitempty"`
	WeekdayRules            *map[string]WeekdayRule `json:"weekday_rules,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	for field, rate := range map[string]*decimal.Decimal{
		"absence_penalty_rate":     r.AbsencePenaltyRate,
		"lateness_penalty_rate":    r.LatenessPenaltyRate,
		"early_leave_penalty_rate": r.EarlyLeavePenaltyRate,
		"overtime_rate":            r.OvertimeRate,
	} {
		if rate != nil && rate.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	for field, minutes := range map[string]*int{
		"lateness_grace_minutes":     r.LatenessGraceMinutes,
		"max_lateness_grace_minutes": r.MaxLatenessGraceMinutes,
		"early_leave_grace_minutes":  r.EarlyLeaveGraceMinutes,
	} {
		if minutes != nil && *minutes < 0 {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	if r.ShiftStart != nil && !validator.IsValidTimeOfDay(*r.ShiftStart) {
		errs = append(errs, validator.ValidationError{Field: "shift_start", Message: "must be HH:MM"})
	}
	if r.ShiftEnd != nil && !validator.IsValidTimeOfDay(*r.ShiftEnd) {
		errs = append(errs, validator.ValidationError{Field: "shift_end", Message: "must be HH:MM"})
	}
	if r.WorkingHoursPerDay != nil && !r.WorkingHoursPerDay.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "working_hours_per_day", Message: "must be positive"})
	}
	if r.WorkingDaysPerMonth != nil && *r.WorkingDaysPerMonth <= 0 {
		errs = append(errs, validator.ValidationError{Field: "working_days_per_month", Message: "must be positive"})
	}
	if r.WeekendDays != nil {
		for _, d := range *r.WeekendDays {
			if d < 0 || d > 6 {
				errs = append(errs, validator.ValidationError{Field: "weekend_days", Message: "weekday index must be 0-6"})
				break
			}
		}
	}
	if r.WeekdayRules != nil {
		for name, rule := range *r.WeekdayRules {
			if !validator.IsInSlice(name, weekdayNames) {
				errs = append(errs, validator.ValidationError{Field: "weekday_rules", Message: "unknown weekday: " + name})
			}
			if rule.EndTime != nil && !validator.IsValidTimeOfDay(*rule.EndTime) {
				errs = append(errs, validator.ValidationError{Field: "weekday_rules", Message: "end_time must be HH:MM"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

var weekdayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// ========== CALENDAR OVERRIDE DTOs ==========

type CreateOverrideRequest struct {
	Date    string           `json:"date"` // "YYYY-MM-DD"
	DayType string           `json:"day_type"`
	PayRate *decimal.Decimal `json:"pay_rate,omitempty"`
	Bonus   *decimal.Decimal `json:"bonus,omitempty"`
	EndTime *string          `json:"end_time,omitempty"`
	Note    *string          `json:"note,omitempty"`
}

func (r *CreateOverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if !validator.IsInSlice(r.DayType, DayTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "day_type", Message: "must be one of work, off, paid_off"})
	}
	if r.PayRate != nil && r.PayRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "pay_rate", Message: "must be non-negative"})
	}
	if r.Bonus != nil && r.Bonus.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus", Message: "must be non-negative"})
	}
	if r.EndTime != nil && !validator.IsValidTimeOfDay(*r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be HH:MM"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OverrideResponse struct {
	ID      string           `json:"id"`
	Date    string           `json:"date"`
	DayType string           `json:"day_type"`
	PayRate *decimal.Decimal `json:"pay_rate,omitempty"`
	Bonus   *decimal.Decimal `json:"bonus,omitempty"`
	EndTime *string          `json:"end_time,omitempty"`
	Note    *string          `json:"note,omitempty"`
}

// ========== SALARY DTOs ==========

type GenerateSalariesRequest struct {
	PeriodMonth int `json:"period_month"`
	PeriodYear  int `json:"period_year"`
}

func (r *GenerateSalariesRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidPeriod(r.PeriodMonth, r.PeriodYear) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "invalid month/year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryItemResponse struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

type SalaryRecordResponse struct {
	ID              string               `json:"id"`
	StaffID         string               `json:"staff_id"`
	StaffName       string               `json:"staff_name,omitempty"`
	PeriodMonth     int                  `json:"period_month"`
	PeriodYear      int                  `json:"period_year"`
	BaseSalary      decimal.Decimal      `json:"base_salary"`
	TotalAllowances decimal.Decimal      `json:"total_allowances"`
	TotalDeductions decimal.Decimal      `json:"total_deductions"`
	NetSalary       decimal.Decimal      `json:"net_salary"`
	Status          string               `json:"status"`
	PaidAt          *string              `json:"paid_at,omitempty"`
	PaymentMethod   *string              `json:"payment_method,omitempty"`
	Items           []SalaryItemResponse `json:"items,omitempty"`
}

type SalaryFilter struct {
	PeriodMonth *int
	PeriodYear  *int
	StaffID     *string
	Status      *string
	Page        int
	Limit       int
}

type ListSalariesResponse struct {
	Data       []SalaryRecordResponse `json:"data"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
}

type MarkPaidRequest struct {
	PaymentMethod string     `json:"payment_method"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PaymentMethod) {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
