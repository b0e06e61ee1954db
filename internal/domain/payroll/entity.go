package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// WeekdayRule overrides the default treatment of one weekday for a school,
// e.g. "friday is off" or "saturday ends at 12:30".
type WeekdayRule struct {
	IsOff   bool    `json:"is_off"`
	EndTime *string `json:"end_time,omitempty"` // "HH:MM", nil means the global shift end
}

// Settings - per-school payroll configuration.
// WorkingHoursPerDay and WorkingDaysPerMonth are divisors and must stay positive;
// DefaultSettings and request validation enforce that.
type Settings struct {
	ID                      string
	SchoolID                string
	AbsencePenaltyRate      decimal.Decimal
	LatenessPenaltyRate     decimal.Decimal
	EarlyLeavePenaltyRate   decimal.Decimal
	OvertimeRate            decimal.Decimal
	LatenessGraceMinutes    int
	MaxLatenessGraceMinutes int
	EarlyLeaveGraceMinutes  int
	ShiftStart              string // "HH:MM"
	ShiftEnd                string // "HH:MM"
	WorkingHoursPerDay      decimal.Decimal
	WorkingDaysPerMonth     int
	WeekendDays             []time.Weekday
	WeekdayRules            map[string]WeekdayRule // keyed by lowercase weekday name
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSettings returns the settings used when a school has not configured
// payroll yet. All fallback values live here and nowhere else.
func DefaultSettings(schoolID string) Settings {
	return Settings{
		SchoolID:                schoolID,
		AbsencePenaltyRate:      decimal.NewFromInt(1),
		LatenessPenaltyRate:     decimal.NewFromInt(1),
		EarlyLeavePenaltyRate:   decimal.NewFromInt(1),
		OvertimeRate:            decimal.NewFromFloat(1.5),
		LatenessGraceMinutes:    15,
		MaxLatenessGraceMinutes: 30,
		EarlyLeaveGraceMinutes:  15,
		ShiftStart:              "08:00",
		ShiftEnd:                "16:00",
		WorkingHoursPerDay:      decimal.NewFromInt(8),
		WorkingDaysPerMonth:     30,
		WeekendDays:             []time.Weekday{time.Saturday, time.Sunday},
		WeekdayRules:            map[string]WeekdayRule{},
	}
}

// DayType enum for calendar overrides
type DayType string

const (
	DayTypeWork    DayType = "work"
	DayTypeOff     DayType = "off"
	DayTypePaidOff DayType = "paid_off"
)

var DayTypeValues = []string{
	string(DayTypeWork),
	string(DayTypeOff),
	string(DayTypePaidOff),
}

// IsOff reports whether the day type denotes a non-working day.
func (d DayType) IsOff() bool {
	return d != DayTypeWork
}

// CalendarOverride - an exception for one specific date: a holiday, a bonus
// day, a working weekend or a day with a custom end-of-shift time.
type CalendarOverride struct {
	ID        string
	SchoolID  string
	Date      time.Time
	DayType   DayType
	PayRate   *decimal.Decimal // multiplier applied to the day rate, nil = 1.0
	Bonus     *decimal.Decimal // fixed amount, nil = none
	EndTime   *string          // "HH:MM", nil means the global shift end
	Note      *string
	CreatedAt time.Time
}

// ItemType enum
type ItemType string

const (
	ItemTypeAllowance ItemType = "allowance"
	ItemTypeDeduction ItemType = "deduction"
)

// SalaryItem - one named monetary entry composing a salary record.
type SalaryItem struct {
	ID             string
	SalaryRecordID string
	Type           ItemType
	Name           string
	Amount         decimal.Decimal
	Note           string
}

// SalaryStatus enum
type SalaryStatus string

const (
	SalaryStatusDue  SalaryStatus = "due"
	SalaryStatusPaid SalaryStatus = "paid"
)

// SalaryRecord - the generated monthly salary for one staff member.
// At most one record exists per (staff, month); regeneration never touches it.
type SalaryRecord struct {
	ID              string
	SchoolID        string
	StaffID         string
	PeriodMonth     int
	PeriodYear      int
	BaseSalary      decimal.Decimal
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
	Status          SalaryStatus
	PaidAt          *time.Time
	PaymentMethod   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []SalaryItem

	// Joined fields
	StaffName *string
}

// RunStatus enum for per-staff outcomes of a payroll run
type RunStatus string

const (
	RunStatusCreated RunStatus = "created"
	RunStatusSkipped RunStatus = "skipped"
	RunStatusFailed  RunStatus = "failed"
)

// StaffRunResult - the outcome of one staff member within a payroll run.
type StaffRunResult struct {
	StaffID   string           `json:"staff_id"`
	StaffName string           `json:"staff_name"`
	Status    RunStatus        `json:"status"`
	NetSalary *decimal.Decimal `json:"net_salary,omitempty"`
	Reason    string           `json:"reason,omitempty"`
}

// RunReport - the structured result of one payroll run. Callers get the
// full per-staff picture instead of a bare created-count.
type RunReport struct {
	PeriodMonth int              `json:"period_month"`
	PeriodYear  int              `json:"period_year"`
	Created     int              `json:"created"`
	Skipped     int              `json:"skipped"`
	Failed      int              `json:"failed"`
	Results     []StaffRunResult `json:"results"`
}
