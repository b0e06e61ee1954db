package attendance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tadris-labs/school-backend-go/internal/pkg/validator"
)

type CheckInRequest struct {
	StaffID string     `json:"staff_id"`
	At      *time.Time `json:"at,omitempty"` // defaults to now
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	StaffID string     `json:"staff_id"`
	At      *time.Time `json:"at,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordRequest upserts a manual attendance entry (absence, leave, mission).
type RecordRequest struct {
	StaffID         string           `json:"staff_id"`
	Date            string           `json:"date"` // "YYYY-MM-DD"
	Status          string           `json:"status"`
	LateMinutes     *int             `json:"late_minutes,omitempty"`
	OvertimeMinutes *int             `json:"overtime_minutes,omitempty"`
	WorkedHours     *decimal.Decimal `json:"worked_hours,omitempty"`
	Note            *string          `json:"note,omitempty"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if !validator.IsInSlice(r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "is invalid"})
	}
	if r.LateMinutes != nil && *r.LateMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_minutes", Message: "must be non-negative"})
	}
	if r.OvertimeMinutes != nil && *r.OvertimeMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "overtime_minutes", Message: "must be non-negative"})
	}
	if r.WorkedHours != nil && r.WorkedHours.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "worked_hours", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID              string           `json:"id"`
	StaffID         string           `json:"staff_id"`
	StaffName       string           `json:"staff_name,omitempty"`
	Date            string           `json:"date"`
	Status          string           `json:"status"`
	CheckIn         *string          `json:"check_in,omitempty"`
	CheckOut        *string          `json:"check_out,omitempty"`
	LateMinutes     *int             `json:"late_minutes,omitempty"`
	OvertimeMinutes *int             `json:"overtime_minutes,omitempty"`
	WorkedHours     *decimal.Decimal `json:"worked_hours,omitempty"`
	Note            *string          `json:"note,omitempty"`
}

type Filter struct {
	StaffID  *string
	DateFrom *time.Time
	DateTo   *time.Time
	Status   *string
	Page     int
	Limit    int
}

type ListResponse struct {
	Data       []AttendanceResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}
