package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in for this date")
	ErrNotCheckedIn       = errors.New("no open check-in for this date")
)
