package staff

import (
	"github.com/shopspring/decimal"
	"github.com/tadris-labs/school-backend-go/internal/pkg/validator"
)

type CreateStaffRequest struct {
	FullName   string          `json:"full_name"`
	Email      *string         `json:"email,omitempty"`
	Phone      *string         `json:"phone,omitempty"`
	Position   *string         `json:"position,omitempty"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	HireDate   *string         `json:"hire_date,omitempty"` // "YYYY-MM-DD"
}

func (r *CreateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "is invalid"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStaffRequest struct {
	ID         string
	FullName   *string          `json:"full_name,omitempty"`
	Email      *string          `json:"email,omitempty"`
	Phone      *string          `json:"phone,omitempty"`
	Position   *string          `json:"position,omitempty"`
	BaseSalary *decimal.Decimal `json:"base_salary,omitempty"`
	IsActive   *bool            `json:"is_active,omitempty"`
}

func (r *UpdateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "cannot be empty"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "is invalid"})
	}
	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type StaffResponse struct {
	ID         string          `json:"id"`
	FullName   string          `json:"full_name"`
	Email      *string         `json:"email,omitempty"`
	Phone      *string         `json:"phone,omitempty"`
	Position   *string         `json:"position,omitempty"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	IsActive   bool            `json:"is_active"`
	HireDate   *string         `json:"hire_date,omitempty"`
}
