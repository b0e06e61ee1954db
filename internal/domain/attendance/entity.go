package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. Present, late and on-mission all count as present for pay
// purposes; everything else (including a missing record on a work day)
// counts as absent.
type Status string

const (
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusOnMission Status = "on_mission"
	StatusAbsent    Status = "absent"
	StatusOnLeave   Status = "on_leave"
	StatusExcused   Status = "excused"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusLate),
	string(StatusOnMission),
	string(StatusAbsent),
	string(StatusOnLeave),
	string(StatusExcused),
}

// CountsAsPresent reports whether the status earns the day's pay.
func (s Status) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusLate || s == StatusOnMission
}

// Attendance - zero or one record per (staff, date).
type Attendance struct {
	ID              string
	SchoolID        string
	StaffID         string
	Date            time.Time
	Status          Status
	CheckIn         *time.Time
	CheckOut        *time.Time
	LateMinutes     *int
	OvertimeMinutes *int
	WorkedHours     *decimal.Decimal
	Note            *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	StaffName *string
}
