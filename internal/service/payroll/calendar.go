package payroll

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
)

// DayPolicy is the resolved treatment of one calendar date: whether it is a
// working day, the pay-rate multiplier, any fixed bonus, and the effective
// end-of-shift time. Computed fresh each run, never stored.
type DayPolicy struct {
	IsOff           bool
	PayRate         decimal.Decimal
	Bonus           decimal.Decimal
	ShiftEndMinutes int
}

var one = decimal.NewFromInt(1)

// resolveDayPolicy merges the three configuration layers for one date:
// explicit date override > per-weekday rule > global weekend set. Every date
// resolves to a policy; there is no error path. When several overrides carry
// the same date the earliest-created one wins (the repository orders by
// created_at, id).
func resolveDayPolicy(date time.Time, overrides []payroll.CalendarOverride, s payroll.Settings) DayPolicy {
	defaultEnd := minutesOfDay(s.ShiftEnd)

	for i := range overrides {
		ov := &overrides[i]
		if !sameDate(ov.Date, date) {
			continue
		}
		p := DayPolicy{
			IsOff:           ov.DayType.IsOff(),
			PayRate:         one,
			Bonus:           decimal.Zero,
			ShiftEndMinutes: defaultEnd,
		}
		if ov.PayRate != nil {
			p.PayRate = *ov.PayRate
		}
		if ov.Bonus != nil {
			p.Bonus = *ov.Bonus
		}
		if ov.EndTime != nil {
			p.ShiftEndMinutes = minutesOfDay(*ov.EndTime)
		}
		return p
	}

	if rule, ok := s.WeekdayRules[strings.ToLower(date.Weekday().String())]; ok {
		end := defaultEnd
		if rule.EndTime != nil {
			end = minutesOfDay(*rule.EndTime)
		}
		return DayPolicy{IsOff: rule.IsOff, PayRate: one, Bonus: decimal.Zero, ShiftEndMinutes: end}
	}

	for _, wd := range s.WeekendDays {
		if wd == date.Weekday() {
			return DayPolicy{IsOff: true, PayRate: one, Bonus: decimal.Zero, ShiftEndMinutes: defaultEnd}
		}
	}

	return DayPolicy{IsOff: false, PayRate: one, Bonus: decimal.Zero, ShiftEndMinutes: defaultEnd}
}

// minutesOfDay parses "HH:MM" into minutes since midnight. Malformed input
// yields 0; the format is validated on the way into the store.
func minutesOfDay(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return h*60 + m
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
