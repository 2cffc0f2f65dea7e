package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func usedAccount(period time.Time) *Account {
	return &Account{
		DailyLimit:   Rupees(500000),
		MonthlyLimit: Rupees(1000000),
		DailyUsed:    Rupees(125000),
		MonthlyUsed:  Rupees(450000),
		UsageDate:    period,
	}
}

func TestRollUsage_MidnightIST(t *testing.T) {
	// 18:29Z is 23:59 IST on the same day, 18:31Z is 00:01 IST the next day.
	period := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	a := usedAccount(period)
	a.RollUsage(time.Date(2025, 3, 1, 18, 29, 0, 0, time.UTC))
	assert.Equal(t, Rupees(125000), a.DailyUsed)
	assert.Equal(t, Rupees(450000), a.MonthlyUsed)
	assert.Equal(t, period, a.UsageDate)

	a.RollUsage(time.Date(2025, 3, 1, 18, 31, 0, 0, time.UTC))
	assert.Equal(t, Amount(0), a.DailyUsed)
	assert.Equal(t, Rupees(450000), a.MonthlyUsed)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), a.UsageDate)
	assert.Equal(t, Rupees(500000), a.DailyRemaining())
}

func TestRollUsage_MonthBoundary(t *testing.T) {
	a := usedAccount(time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC))

	// 2025-10-31 18:30Z is 2025-11-01 00:00 IST.
	a.RollUsage(time.Date(2025, 10, 31, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, Amount(0), a.DailyUsed)
	assert.Equal(t, Amount(0), a.MonthlyUsed)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), a.UsageDate)
}

func TestRollUsage_SameMonthNextYear(t *testing.T) {
	a := usedAccount(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	a.RollUsage(time.Date(2025, 3, 15, 6, 0, 0, 0, time.UTC))
	assert.Equal(t, Amount(0), a.DailyUsed)
	assert.Equal(t, Amount(0), a.MonthlyUsed)
}

func TestRollUsage_KeepsCountersWithoutPeriodOrClock(t *testing.T) {
	a := usedAccount(time.Time{})
	a.RollUsage(time.Date(2025, 3, 1, 4, 0, 0, 0, time.UTC))
	assert.Equal(t, Rupees(125000), a.DailyUsed)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), a.UsageDate)

	b := usedAccount(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	b.RollUsage(time.Time{})
	assert.Equal(t, Rupees(125000), b.DailyUsed)

	// a clock behind the recorded period never resets anything
	b.RollUsage(time.Date(2025, 2, 27, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, Rupees(125000), b.DailyUsed)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), b.UsageDate)
}
