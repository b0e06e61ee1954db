package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

// Staff - a school employee on the payroll roster. The payroll engine only
// reads the compensation fields; the rest is HR bookkeeping.
type Staff struct {
	ID         string
	SchoolID   string
	FullName   string
	Email      *string
	Phone      *string
	Position   *string
	BaseSalary decimal.Decimal // monthly
	IsActive   bool
	HireDate   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
