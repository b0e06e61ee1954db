package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
)

// DayEffect holds the monetary effects of a single day, unrounded. The
// aggregator rounds when it turns effects into line items.
type DayEffect struct {
	Bonus      decimal.Decimal
	RateBonus  decimal.Decimal
	Absence    decimal.Decimal
	Lateness   decimal.Decimal
	EarlyLeave decimal.Decimal
	Overtime   decimal.Decimal
}

var (
	quarterHour = decimal.NewFromFloat(0.25)
	sixty       = decimal.NewFromInt(60)
)

// dayEffect computes one day's pay effects from the resolved policy, the
// presence classification and the attendance record (nil unless one exists).
// Pure function; the rules apply independently and can stack on one day.
//
// dayRate is baseSalary / workingDaysPerMonth, minuteRate is
// dayRate / workingHoursPerDay / 60; both precomputed by the caller.
func dayEffect(policy DayPolicy, presence Presence, rec *attendance.Attendance, dayRate, minuteRate decimal.Decimal, s payroll.Settings) DayEffect {
	var eff DayEffect

	// A fixed bonus pays out regardless of presence.
	if policy.Bonus.IsPositive() {
		eff.Bonus = policy.Bonus
	}

	// The rate multiplier pays on worked days and on paid off days alike,
	// so a premium holiday still carries its premium.
	if policy.PayRate.GreaterThan(one) && presence != PresenceAbsent {
		eff.RateBonus = dayRate.Mul(policy.PayRate.Sub(one))
	}

	if presence == PresenceAbsent {
		eff.Absence = dayRate.Mul(s.AbsencePenaltyRate)
		return eff
	}
	if presence != PresencePresent || rec == nil {
		return eff
	}

	// Lateness: within the grace period costs nothing; past the hard cap
	// the grace is forfeit and the full lateness is penalized.
	if rec.LateMinutes != nil && *rec.LateMinutes > 0 {
		late := *rec.LateMinutes
		penalized := 0
		switch {
		case late > s.MaxLatenessGraceMinutes:
			penalized = late
		case late > s.LatenessGraceMinutes:
			penalized = late - s.LatenessGraceMinutes
		}
		if penalized > 0 {
			eff.Lateness = decimal.NewFromInt(int64(penalized)).Mul(minuteRate).Mul(s.LatenessPenaltyRate)
		}
	}

	// Early departure is measured against the resolved shift end, which an
	// override or weekday rule may have moved.
	if rec.CheckOut != nil {
		early := policy.ShiftEndMinutes - clockMinutes(*rec.CheckOut)
		if early > s.EarlyLeaveGraceMinutes {
			eff.EarlyLeave = decimal.NewFromInt(int64(early)).Mul(minuteRate).Mul(s.EarlyLeavePenaltyRate)
		}
	}

	// Overtime: recorded minutes win; otherwise derive from worked hours
	// when they exceed the standard day by more than a quarter hour.
	var otMinutes int64
	if rec.OvertimeMinutes != nil && *rec.OvertimeMinutes > 0 {
		otMinutes = int64(*rec.OvertimeMinutes)
	} else if rec.WorkedHours != nil && rec.WorkedHours.GreaterThan(s.WorkingHoursPerDay.Add(quarterHour)) {
		otMinutes = rec.WorkedHours.Sub(s.WorkingHoursPerDay).Mul(sixty).Round(0).IntPart()
	}
	if otMinutes > 0 {
		eff.Overtime = decimal.NewFromInt(otMinutes).Mul(minuteRate).Mul(s.OvertimeRate)
	}

	return eff
}
