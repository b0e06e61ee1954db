package response

import (
	"errors"
	"net/http"

	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
	"github.com/tadris-labs/school-backend-go/internal/domain/auth"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
	"github.com/tadris-labs/school-backend-go/internal/domain/user"
	"github.com/tadris-labs/school-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, staff.ErrEmailExists):
		Conflict(w, "Email already registered in this school")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in for this date")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "No open check-in for this date")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSettingsNotFound):
		NotFound(w, "Payroll settings not found")
	case errors.Is(err, payroll.ErrInvalidSettings):
		BadRequest(w, "Payroll settings are invalid", nil)
	case errors.Is(err, payroll.ErrOverrideNotFound):
		NotFound(w, "Calendar override not found")
	case errors.Is(err, payroll.ErrOverrideDateTaken):
		Conflict(w, "Calendar override already exists for this date")
	case errors.Is(err, payroll.ErrSalaryRecordNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, payroll.ErrSalaryAlreadyExists):
		Conflict(w, "Salary record already exists for this period")
	case errors.Is(err, payroll.ErrSalaryAlreadyPaid):
		Conflict(w, "Salary record already paid")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
