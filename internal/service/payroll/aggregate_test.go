package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
)

func testStaff(base int64) staff.Staff {
	return staff.Staff{
		ID:         "staff-1",
		SchoolID:   "school-1",
		FullName:   "Amina Hassan",
		BaseSalary: decimal.NewFromInt(base),
		IsActive:   true,
	}
}

// presentWorkdays builds a plain present record for every working day of
// March 2025 under the given settings and overrides, minus the listed days.
func presentWorkdays(s payroll.Settings, overrides []payroll.CalendarOverride, except ...int) []attendance.Attendance {
	skip := make(map[int]bool, len(except))
	for _, day := range except {
		skip[day] = true
	}

	var records []attendance.Attendance
	for day := 1; day <= 31; day++ {
		date := time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
		if resolveDayPolicy(date, overrides, s).IsOff || skip[day] {
			continue
		}
		records = append(records, attendance.Attendance{
			SchoolID: "school-1",
			StaffID:  "staff-1",
			Date:     date,
			Status:   attendance.StatusPresent,
		})
	}
	return records
}

func findItem(t *testing.T, items []payroll.SalaryItem, name string) payroll.SalaryItem {
	t.Helper()
	for _, item := range items {
		if item.Name == name {
			return item
		}
	}
	t.Fatalf("item %q not found in %v", name, items)
	return payroll.SalaryItem{}
}

func TestBuildMonthlySalary_PerfectMonth(t *testing.T) {
	s := testSettings()
	records := presentWorkdays(s, nil)

	rec := buildMonthlySalary(testStaff(3000), 3, 2025, nil, records, s)

	assert.Empty(t, rec.Items)
	assert.True(t, rec.TotalAllowances.IsZero())
	assert.True(t, rec.TotalDeductions.IsZero())
	assert.True(t, rec.NetSalary.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, payroll.SalaryStatusDue, rec.Status)
	assert.Equal(t, 3, rec.PeriodMonth)
	assert.Equal(t, 2025, rec.PeriodYear)
}

func TestBuildMonthlySalary_OneAbsence(t *testing.T) {
	// Base 3000 over 30 working days: one absence costs exactly 100.00.
	s := testSettings()
	records := presentWorkdays(s, nil, 5)

	rec := buildMonthlySalary(testStaff(3000), 3, 2025, nil, records, s)

	require.Len(t, rec.Items, 1)
	item := findItem(t, rec.Items, "Absence penalty")
	assert.Equal(t, payroll.ItemTypeDeduction, item.Type)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(100)), "got %s", item.Amount)
	assert.True(t, rec.NetSalary.Equal(decimal.NewFromInt(2900)), "got %s", rec.NetSalary)
}

func TestBuildMonthlySalary_MissingRecordEqualsAbsence(t *testing.T) {
	s := testSettings()

	withAbsentRecord := presentWorkdays(s, nil, 5)
	withAbsentRecord = append(withAbsentRecord, attendance.Attendance{
		StaffID: "staff-1",
		Date:    time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:  attendance.StatusAbsent,
	})
	noRecord := presentWorkdays(s, nil, 5)

	a := buildMonthlySalary(testStaff(3000), 3, 2025, nil, withAbsentRecord, s)
	b := buildMonthlySalary(testStaff(3000), 3, 2025, nil, noRecord, s)

	assert.True(t, a.NetSalary.Equal(b.NetSalary))
	assert.True(t, a.TotalDeductions.Equal(b.TotalDeductions))
}

func TestBuildMonthlySalary_WorkedWeekendWithRateBonus(t *testing.T) {
	// A weekend date flipped to a working day at 1.5x pay: one rate bonus
	// line item worth half a day rate, and no absence for that date.
	s := testSettings()
	rate := decimal.NewFromFloat(1.5)
	overrides := []payroll.CalendarOverride{
		{ID: "ov-1", Date: time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC), DayType: payroll.DayTypeWork, PayRate: &rate},
	}
	records := presentWorkdays(s, overrides)

	rec := buildMonthlySalary(testStaff(3000), 3, 2025, overrides, records, s)

	require.Len(t, rec.Items, 1)
	item := findItem(t, rec.Items, "Rate bonus for day 8")
	assert.Equal(t, payroll.ItemTypeAllowance, item.Type)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(50)), "got %s", item.Amount)
	assert.True(t, rec.NetSalary.Equal(decimal.NewFromInt(3050)), "got %s", rec.NetSalary)
}

func TestBuildMonthlySalary_HolidayBonus(t *testing.T) {
	s := testSettings()
	bonus := decimal.NewFromInt(75)
	overrides := []payroll.CalendarOverride{
		{ID: "ov-1", Date: time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC), DayType: payroll.DayTypePaidOff, Bonus: &bonus},
	}
	records := presentWorkdays(s, overrides)

	rec := buildMonthlySalary(testStaff(3000), 3, 2025, overrides, records, s)

	require.Len(t, rec.Items, 1)
	item := findItem(t, rec.Items, "Bonus for day 17")
	assert.Equal(t, payroll.ItemTypeAllowance, item.Type)
	assert.True(t, item.Amount.Equal(bonus))
	assert.True(t, rec.NetSalary.Equal(decimal.NewFromInt(3075)))
}

func TestBuildMonthlySalary_LatenessAccumulates(t *testing.T) {
	// 40 late minutes past the 30-minute cap forfeit the grace entirely:
	// 40 minutes at the minute rate, not 40-15.
	s := testSettings()
	records := presentWorkdays(s, nil, 5)
	late := 40
	records = append(records, attendance.Attendance{
		StaffID:     "staff-1",
		Date:        time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Status:      attendance.StatusLate,
		LateMinutes: &late,
	})

	rec := buildMonthlySalary(testStaff(3000), 3, 2025, nil, records, s)

	require.Len(t, rec.Items, 1)
	item := findItem(t, rec.Items, "Lateness penalty")
	assert.Equal(t, payroll.ItemTypeDeduction, item.Type)
	assert.Equal(t, "accumulated over the month", item.Note)
	// minute rate = 100/8/60; 40 minutes -> 8.333... rounded to 8.33
	assert.True(t, item.Amount.Equal(decimal.NewFromFloat(8.33)), "got %s", item.Amount)
}

func TestBuildMonthlySalary_RoundingAtLineItem(t *testing.T) {
	// Base 1000 over 30 days: day rate 33.333..., the item carries 33.33.
	s := testSettings()
	records := presentWorkdays(s, nil, 5)

	rec := buildMonthlySalary(testStaff(1000), 3, 2025, nil, records, s)

	item := findItem(t, rec.Items, "Absence penalty")
	assert.True(t, item.Amount.Equal(decimal.NewFromFloat(33.33)), "got %s", item.Amount)
	assert.True(t, rec.NetSalary.Equal(decimal.NewFromFloat(966.67)), "got %s", rec.NetSalary)
}

func TestBuildMonthlySalary_NetNeverNegative(t *testing.T) {
	s := testSettings()
	s.AbsencePenaltyRate = decimal.NewFromInt(10)

	// No attendance at all: every working day of the month is an absence.
	rec := buildMonthlySalary(testStaff(3000), 3, 2025, nil, nil, s)

	assert.True(t, rec.TotalDeductions.GreaterThan(rec.BaseSalary))
	assert.True(t, rec.NetSalary.IsZero(), "got %s", rec.NetSalary)
}
