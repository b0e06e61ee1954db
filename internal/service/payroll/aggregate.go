package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
	"github.com/tadris-labs/school-backend-go/internal/domain/staff"
)

// buildMonthlySalary folds one staff member's month into a salary record
// with its line items. Per-day bonus and rate-bonus effects become one line
// item per triggering day; absence, lateness, early departure and overtime
// accumulate across the month into at most four summary items, emitted only
// when positive. Pure function of the in-memory snapshot.
func buildMonthlySalary(st staff.Staff, month, year int, overrides []payroll.CalendarOverride, records []attendance.Attendance, s payroll.Settings) payroll.SalaryRecord {
	dayRate := st.BaseSalary.Div(decimal.NewFromInt(int64(s.WorkingDaysPerMonth)))
	minuteRate := dayRate.Div(s.WorkingHoursPerDay).Div(sixty)

	byDay := make(map[int]*attendance.Attendance, len(records))
	for i := range records {
		rec := &records[i]
		if rec.StaffID != st.ID {
			continue
		}
		if rec.Date.Year() == year && int(rec.Date.Month()) == month {
			byDay[rec.Date.Day()] = rec
		}
	}

	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	var items []payroll.SalaryItem
	totalAllowances := decimal.Zero
	totalDeductions := decimal.Zero
	absence := decimal.Zero
	lateness := decimal.Zero
	earlyLeave := decimal.Zero
	overtime := decimal.Zero

	for day := 1; day <= lastDay; day++ {
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		policy := resolveDayPolicy(date, overrides, s)
		rec := byDay[day]
		presence := classifyDay(policy, rec)
		eff := dayEffect(policy, presence, rec, dayRate, minuteRate, s)

		if eff.Bonus.IsPositive() {
			amount := eff.Bonus.Round(2)
			items = append(items, payroll.SalaryItem{
				Type:   payroll.ItemTypeAllowance,
				Name:   fmt.Sprintf("Bonus for day %d", day),
				Amount: amount,
			})
			totalAllowances = totalAllowances.Add(amount)
		}
		if eff.RateBonus.IsPositive() {
			amount := eff.RateBonus.Round(2)
			items = append(items, payroll.SalaryItem{
				Type:   payroll.ItemTypeAllowance,
				Name:   fmt.Sprintf("Rate bonus for day %d", day),
				Amount: amount,
			})
			totalAllowances = totalAllowances.Add(amount)
		}

		absence = absence.Add(eff.Absence)
		lateness = lateness.Add(eff.Lateness)
		earlyLeave = earlyLeave.Add(eff.EarlyLeave)
		overtime = overtime.Add(eff.Overtime)
	}

	if overtime.IsPositive() {
		amount := overtime.Round(2)
		items = append(items, payroll.SalaryItem{
			Type:   payroll.ItemTypeAllowance,
			Name:   "Overtime",
			Amount: amount,
			Note:   "accumulated over the month",
		})
		totalAllowances = totalAllowances.Add(amount)
	}
	if absence.IsPositive() {
		amount := absence.Round(2)
		items = append(items, payroll.SalaryItem{
			Type:   payroll.ItemTypeDeduction,
			Name:   "Absence penalty",
			Amount: amount,
			Note:   "accumulated over the month",
		})
		totalDeductions = totalDeductions.Add(amount)
	}
	if lateness.IsPositive() {
		amount := lateness.Round(2)
		items = append(items, payroll.SalaryItem{
			Type:   payroll.ItemTypeDeduction,
			Name:   "Lateness penalty",
			Amount: amount,
			Note:   "accumulated over the month",
		})
		totalDeductions = totalDeductions.Add(amount)
	}
	if earlyLeave.IsPositive() {
		amount := earlyLeave.Round(2)
		items = append(items, payroll.SalaryItem{
			Type:   payroll.ItemTypeDeduction,
			Name:   "Early departure penalty",
			Amount: amount,
			Note:   "accumulated over the month",
		})
		totalDeductions = totalDeductions.Add(amount)
	}

	net := st.BaseSalary.Add(totalAllowances).Sub(totalDeductions)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return payroll.SalaryRecord{
		SchoolID:        st.SchoolID,
		StaffID:         st.ID,
		PeriodMonth:     month,
		PeriodYear:      year,
		BaseSalary:      st.BaseSalary,
		TotalAllowances: totalAllowances,
		TotalDeductions: totalDeductions,
		NetSalary:       net,
		Status:          payroll.SalaryStatusDue,
		Items:           items,
	}
}
