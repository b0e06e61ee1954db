package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tadris-labs/school-backend-go/internal/domain/payroll"
)

func testSettings() payroll.Settings {
	return payroll.DefaultSettings("school-1")
}

func d(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestResolveDayPolicy_PlainWorkday(t *testing.T) {
	s := testSettings()

	// 2025-03-05 is a Wednesday
	p := resolveDayPolicy(d(5), nil, s)

	assert.False(t, p.IsOff)
	assert.True(t, p.PayRate.Equal(decimal.NewFromInt(1)))
	assert.True(t, p.Bonus.IsZero())
	assert.Equal(t, 16*60, p.ShiftEndMinutes)
}

func TestResolveDayPolicy_WeekendIsOff(t *testing.T) {
	s := testSettings()

	// 2025-03-01 is a Saturday
	p := resolveDayPolicy(d(1), nil, s)

	assert.True(t, p.IsOff)
}

func TestResolveDayPolicy_WeekdayRuleBeatsWeekend(t *testing.T) {
	s := testSettings()
	end := "12:30"
	s.WeekdayRules = map[string]payroll.WeekdayRule{
		"saturday": {IsOff: false, EndTime: &end},
	}

	p := resolveDayPolicy(d(1), nil, s)

	assert.False(t, p.IsOff)
	assert.Equal(t, 12*60+30, p.ShiftEndMinutes)
}

func TestResolveDayPolicy_OverrideBeatsWeekdayRule(t *testing.T) {
	s := testSettings()
	s.WeekdayRules = map[string]payroll.WeekdayRule{
		"friday": {IsOff: true},
	}

	rate := decimal.NewFromFloat(1.5)
	overrides := []payroll.CalendarOverride{
		{ID: "ov-1", Date: d(7), DayType: payroll.DayTypeWork, PayRate: &rate},
	}

	// 2025-03-07 is a Friday
	p := resolveDayPolicy(d(7), overrides, s)

	assert.False(t, p.IsOff)
	assert.True(t, p.PayRate.Equal(rate))
}

func TestResolveDayPolicy_FirstOverrideWins(t *testing.T) {
	s := testSettings()
	bonusA := decimal.NewFromInt(50)
	bonusB := decimal.NewFromInt(99)
	overrides := []payroll.CalendarOverride{
		{ID: "ov-1", Date: d(10), DayType: payroll.DayTypeWork, Bonus: &bonusA},
		{ID: "ov-2", Date: d(10), DayType: payroll.DayTypeOff, Bonus: &bonusB},
	}

	p := resolveDayPolicy(d(10), overrides, s)

	assert.False(t, p.IsOff)
	assert.True(t, p.Bonus.Equal(bonusA))
}

func TestResolveDayPolicy_OverrideEndTime(t *testing.T) {
	s := testSettings()
	end := "13:00"
	overrides := []payroll.CalendarOverride{
		{ID: "ov-1", Date: d(12), DayType: payroll.DayTypeWork, EndTime: &end},
	}

	p := resolveDayPolicy(d(12), overrides, s)

	assert.Equal(t, 13*60, p.ShiftEndMinutes)
}

func TestResolveDayPolicy_PaidOffIsOff(t *testing.T) {
	s := testSettings()
	overrides := []payroll.CalendarOverride{
		{ID: "ov-1", Date: d(17), DayType: payroll.DayTypePaidOff},
	}

	p := resolveDayPolicy(d(17), overrides, s)

	assert.True(t, p.IsOff)
}

func TestMinutesOfDay(t *testing.T) {
	assert.Equal(t, 0, minutesOfDay("00:00"))
	assert.Equal(t, 8*60, minutesOfDay("08:00"))
	assert.Equal(t, 16*60+45, minutesOfDay("16:45"))
	assert.Equal(t, 0, minutesOfDay("garbage"))
}
