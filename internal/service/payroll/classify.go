package payroll

import (
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
)

// Presence is the pay-relevant classification of one staff-date pair.
type Presence int

const (
	PresenceDayOff Presence = iota
	PresencePresent
	PresenceAbsent
)

// classifyDay combines the resolved day policy with the attendance record,
// if any. An off day is an off day no matter what was recorded. On a work
// day, a missing record and a record with status absent/on_leave/excused
// are classified identically as absent: leave is not carved out from the
// absence penalty.
func classifyDay(policy DayPolicy, rec *attendance.Attendance) Presence {
	if policy.IsOff {
		return PresenceDayOff
	}
	if rec != nil && rec.Status.CountsAsPresent() {
		return PresencePresent
	}
	return PresenceAbsent
}
