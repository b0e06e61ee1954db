package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("a"))
	assert.False(t, IsEmpty(" a "))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.org",
		"user+tag@example.co",
	}
	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
	}

	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("2025-03-05")
	assert.True(t, ok)
	assert.Equal(t, 2025, date.Year())
	assert.Equal(t, 5, date.Day())

	_, ok = IsValidDate("05-03-2025")
	assert.False(t, ok)
	_, ok = IsValidDate("2025-13-01")
	assert.False(t, ok)
	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "08:00", "16:45", "23:59"}
	invalid := []string{"", "24:00", "8:00", "16:60", "16-45", "noon"}

	for _, s := range valid {
		assert.True(t, IsValidTimeOfDay(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsValidTimeOfDay(s), s)
	}
}

func TestIsInSlice(t *testing.T) {
	values := []string{"work", "off", "paid_off"}

	assert.True(t, IsInSlice("work", values))
	assert.False(t, IsInSlice("holiday", values))
	assert.False(t, IsInSlice("", values))
}

func TestIsValidPeriod(t *testing.T) {
	assert.True(t, IsValidPeriod(1, 2025))
	assert.True(t, IsValidPeriod(12, 2000))
	assert.False(t, IsValidPeriod(0, 2025))
	assert.False(t, IsValidPeriod(13, 2025))
	assert.False(t, IsValidPeriod(6, 1999))
	assert.False(t, IsValidPeriod(6, 2101))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "shift_start", Message: "must be HH:MM"},
		{Field: "period", Message: "invalid month/year"},
	}

	assert.Contains(t, errs.Error(), "shift_start: must be HH:MM")
	assert.Equal(t, map[string]string{
		"shift_start": "must be HH:MM",
		"period":      "invalid month/year",
	}, errs.ToMap())
}
