package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tadris-labs/school-backend-go/internal/domain/attendance"
)

// base salary 3000, 30 working days, 8 hours per day
var (
	testDayRate    = decimal.NewFromInt(100)
	testMinuteRate = testDayRate.Div(decimal.NewFromInt(8)).Div(decimal.NewFromInt(60))
)

func workPolicy() DayPolicy {
	return DayPolicy{IsOff: false, PayRate: one, Bonus: decimal.Zero, ShiftEndMinutes: 16 * 60}
}

func presentRecord() *attendance.Attendance {
	return &attendance.Attendance{Status: attendance.StatusPresent}
}

func TestDayEffect_PerfectDayHasNoEffects(t *testing.T) {
	eff := dayEffect(workPolicy(), PresencePresent, presentRecord(), testDayRate, testMinuteRate, testSettings())

	assert.True(t, eff.Bonus.IsZero())
	assert.True(t, eff.RateBonus.IsZero())
	assert.True(t, eff.Absence.IsZero())
	assert.True(t, eff.Lateness.IsZero())
	assert.True(t, eff.EarlyLeave.IsZero())
	assert.True(t, eff.Overtime.IsZero())
}

func TestDayEffect_AbsencePenalty(t *testing.T) {
	eff := dayEffect(workPolicy(), PresenceAbsent, nil, testDayRate, testMinuteRate, testSettings())

	assert.True(t, eff.Absence.Equal(testDayRate), "expected %s, got %s", testDayRate, eff.Absence)
}

func TestDayEffect_LatenessGraceLadder(t *testing.T) {
	s := testSettings() // grace 15, max grace 30

	cases := []struct {
		name      string
		late      int
		penalized int
	}{
		{"within grace", 10, 0},
		{"at grace boundary", 15, 0},
		{"past grace", 20, 5},
		{"at max grace", 30, 15},
		{"past max grace forfeits grace", 40, 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := presentRecord()
			rec.LateMinutes = &tc.late

			eff := dayEffect(workPolicy(), PresencePresent, rec, testDayRate, testMinuteRate, s)

			want := decimal.NewFromInt(int64(tc.penalized)).Mul(testMinuteRate)
			assert.True(t, eff.Lateness.Equal(want), "late %d: expected %s, got %s", tc.late, want, eff.Lateness)
		})
	}
}

func TestDayEffect_EarlyDeparture(t *testing.T) {
	s := testSettings() // early leave grace 15

	// Checked out at 15:20, shift ends 16:00: 40 minutes early, past grace,
	// so all 40 minutes are penalized.
	out := time.Date(2025, 3, 5, 15, 20, 0, 0, time.UTC)
	rec := presentRecord()
	rec.CheckOut = &out

	eff := dayEffect(workPolicy(), PresencePresent, rec, testDayRate, testMinuteRate, s)

	want := decimal.NewFromInt(40).Mul(testMinuteRate)
	assert.True(t, eff.EarlyLeave.Equal(want), "expected %s, got %s", want, eff.EarlyLeave)
}

func TestDayEffect_EarlyDepartureWithinGrace(t *testing.T) {
	out := time.Date(2025, 3, 5, 15, 50, 0, 0, time.UTC)
	rec := presentRecord()
	rec.CheckOut = &out

	eff := dayEffect(workPolicy(), PresencePresent, rec, testDayRate, testMinuteRate, testSettings())

	assert.True(t, eff.EarlyLeave.IsZero())
}

func TestDayEffect_EarlyDepartureUsesResolvedShiftEnd(t *testing.T) {
	// Shift shortened to 12:00 by the day policy; leaving at 15:20 is not early.
	policy := workPolicy()
	policy.ShiftEndMinutes = 12 * 60

	out := time.Date(2025, 3, 5, 15, 20, 0, 0, time.UTC)
	rec := presentRecord()
	rec.CheckOut = &out

	eff := dayEffect(policy, PresencePresent, rec, testDayRate, testMinuteRate, testSettings())

	assert.True(t, eff.EarlyLeave.IsZero())
}

func TestDayEffect_OvertimeRecordedMinutesWin(t *testing.T) {
	s := testSettings() // overtime rate 1.5

	minutes := 60
	worked := decimal.NewFromInt(12) // would derive 240 minutes; recorded wins
	rec := presentRecord()
	rec.OvertimeMinutes = &minutes
	rec.WorkedHours = &worked

	eff := dayEffect(workPolicy(), PresencePresent, rec, testDayRate, testMinuteRate, s)

	want := decimal.NewFromInt(60).Mul(testMinuteRate).Mul(s.OvertimeRate)
	assert.True(t, eff.Overtime.Equal(want), "expected %s, got %s", want, eff.Overtime)
}

func TestDayEffect_OvertimeDerivedFromWorkedHours(t *testing.T) {
	s := testSettings()

	worked := decimal.NewFromFloat(9.5) // 1.5h past the 8h day
	rec := presentRecord()
	rec.WorkedHours = &worked

	eff := dayEffect(workPolicy(), PresencePresent, rec, testDayRate, testMinuteRate, s)

	want := decimal.NewFromInt(90).Mul(testMinuteRate).Mul(s.OvertimeRate)
	assert.True(t, eff.Overtime.Equal(want), "expected %s, got %s", want, eff.Overtime)
}

func TestDayEffect_OvertimeNotDerivedWithinQuarterHour(t *testing.T) {
	worked := decimal.NewFromFloat(8.25)
	rec := presentRecord()
	rec.WorkedHours = &worked

	eff := dayEffect(workPolicy(), PresencePresent, rec, testDayRate, testMinuteRate, testSettings())

	assert.True(t, eff.Overtime.IsZero())
}

func TestDayEffect_BonusPaysRegardlessOfPresence(t *testing.T) {
	policy := workPolicy()
	policy.Bonus = decimal.NewFromInt(50)

	absent := dayEffect(policy, PresenceAbsent, nil, testDayRate, testMinuteRate, testSettings())
	present := dayEffect(policy, PresencePresent, presentRecord(), testDayRate, testMinuteRate, testSettings())

	assert.True(t, absent.Bonus.Equal(decimal.NewFromInt(50)))
	assert.True(t, present.Bonus.Equal(decimal.NewFromInt(50)))
}

func TestDayEffect_RateBonusNotPaidToAbsent(t *testing.T) {
	policy := workPolicy()
	policy.PayRate = decimal.NewFromFloat(1.5)

	eff := dayEffect(policy, PresenceAbsent, nil, testDayRate, testMinuteRate, testSettings())

	assert.True(t, eff.RateBonus.IsZero())
	assert.True(t, eff.Absence.Equal(testDayRate))
}

func TestDayEffect_RateBonusOnPaidOffDay(t *testing.T) {
	// A premium holiday keeps its premium even though nobody works it.
	policy := workPolicy()
	policy.IsOff = true
	policy.PayRate = decimal.NewFromFloat(1.5)

	eff := dayEffect(policy, PresenceDayOff, nil, testDayRate, testMinuteRate, testSettings())

	want := testDayRate.Mul(decimal.NewFromFloat(0.5))
	assert.True(t, eff.RateBonus.Equal(want), "expected %s, got %s", want, eff.RateBonus)
}

func TestClassifyDay(t *testing.T) {
	off := DayPolicy{IsOff: true}
	work := workPolicy()

	late := &attendance.Attendance{Status: attendance.StatusLate}
	onLeave := &attendance.Attendance{Status: attendance.StatusOnLeave}
	excused := &attendance.Attendance{Status: attendance.StatusExcused}

	assert.Equal(t, PresenceDayOff, classifyDay(off, presentRecord()))
	assert.Equal(t, PresencePresent, classifyDay(work, presentRecord()))
	assert.Equal(t, PresencePresent, classifyDay(work, late))
	assert.Equal(t, PresenceAbsent, classifyDay(work, nil))
	assert.Equal(t, PresenceAbsent, classifyDay(work, onLeave))
	assert.Equal(t, PresenceAbsent, classifyDay(work, excused))
}
