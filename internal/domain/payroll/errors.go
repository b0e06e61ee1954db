package payroll

import "errors"

var (
	ErrSettingsNotFound     = errors.New("payroll settings not found")
	ErrInvalidSettings      = errors.New("payroll settings are invalid")
	ErrOverrideNotFound     = errors.New("calendar override not found")
	ErrOverrideDateTaken    = errors.New("calendar override already exists for this date")
	ErrSalaryRecordNotFound = errors.New("salary record not found")
	ErrSalaryAlreadyExists  = errors.New("salary record already exists for this period")
	ErrSalaryAlreadyPaid    = errors.New("salary record already paid")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
)
