package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWeekDays(t *testing.T) {
	start := time.Date(2024, time.October, 7, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, time.October, 20, 0, 0, 0, 0, time.UTC)

	days := GenerateWeekDays(start, time.October, 2024, today)

	require.Len(t, days, 7)
	want := []string{
		"2024-10-07", "2024-10-08", "2024-10-09", "2024-10-10",
		"2024-10-11", "2024-10-12", "2024-10-13",
	}
	for i, d := range days {
		assert.Equal(t, want[i], d.Date)
		assert.False(t, d.IsOtherMonth, "day %s", d.Date)
		assert.False(t, d.IsFuture, "day %s", d.Date)
		assert.True(t, d.Interactive())
	}
}

func TestGenerateWeekDaysFlagsOtherMonth(t *testing.T) {
	// Week spanning October into November, displayed month October.
	start := time.Date(2024, time.October, 28, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)

	days := GenerateWeekDays(start, time.October, 2024, today)

	assert.False(t, days[3].IsOtherMonth) // 2024-10-31
	assert.True(t, days[4].IsOtherMonth)  // 2024-11-01
	assert.False(t, days[4].Interactive())
}

func TestGenerateWeekDaysFlagsFuture(t *testing.T) {
	start := time.Date(2024, time.October, 7, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, time.October, 9, 0, 0, 0, 0, time.UTC)

	days := GenerateWeekDays(start, time.October, 2024, today)

	assert.False(t, days[2].IsFuture) // today itself is not future
	assert.True(t, days[3].IsFuture)
	assert.False(t, days[3].Interactive())
}

func TestDayTotal(t *testing.T) {
	logs := []DailyLog{
		{LogDate: "2024-10-07", LoggedHours: 2},
		{LogDate: "2024-10-07", LoggedHours: 1.5},
		{LogDate: "2024-10-08", LoggedHours: 4},
	}

	assert.Equal(t, 3.5, DayTotal(logs, "2024-10-07"))
	assert.Equal(t, 4.0, DayTotal(logs, "2024-10-08"))
	assert.Equal(t, 0.0, DayTotal(logs, "2024-10-09"))
}

func TestMonthRange(t *testing.T) {
	// October 2024: the 1st is a Tuesday, the 31st a Thursday.
	from, to := MonthRange(time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024-09-30", from.Format(DateLayout))
	assert.Equal(t, "2024-11-03", to.Format(DateLayout))
}

func TestMonthWeeks(t *testing.T) {
	logs := []DailyLog{
		{ID: "l1", LogDate: "2024-10-07", LoggedHours: 2},
		{ID: "l2", LogDate: "2024-10-09", LoggedHours: 1.5},
		{ID: "l3", LogDate: "2024-10-14", LoggedHours: 8}, // next week
	}

	weeks := MonthWeeks(time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), logs)
	// 2024-09-30 .. 2024-11-03 is five weeks.
	require.Len(t, weeks, 5)

	// Oldest first; the partial September week is present and empty.
	assert.Equal(t, "2024-09-30", weeks[0].StartDate.Format(DateLayout))
	assert.Equal(t, 0.0, weeks[0].TotalHours)
	assert.Empty(t, weeks[0].Logs)

	second := weeks[1]
	assert.Equal(t, WeekKey(41, 2024), second.Key)
	assert.Equal(t, "2024-10-07", second.StartDate.Format(DateLayout))
	assert.Equal(t, "2024-10-13", second.EndDate.Format(DateLayout))
	assert.Equal(t, 3.5, second.TotalHours)
	require.Len(t, second.Logs, 2)
	assert.Equal(t, "l1", second.Logs[0].ID)

	assert.Equal(t, 8.0, weeks[2].TotalHours)
}

func TestMonthWeeksRecomputedFromLogs(t *testing.T) {
	month := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	logs := []DailyLog{{ID: "l1", LogDate: "2024-10-07", LoggedHours: 2}}

	before := MonthWeeks(month, logs)
	logs = append(logs, DailyLog{ID: "l2", LogDate: "2024-10-07", LoggedHours: 1.5})
	after := MonthWeeks(month, logs)

	assert.Equal(t, 2.0, before[1].TotalHours)
	assert.Equal(t, 3.5, after[1].TotalHours)
}

func TestWeekKeyFor(t *testing.T) {
	// 2024-10-07 is the Monday of ISO week 41.
	d := time.Date(2024, time.October, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "41-2024", WeekKeyFor(d))
}

func TestHourOptions(t *testing.T) {
	opts := HourOptions()
	require.Len(t, opts, 16)
	assert.Equal(t, 0.5, opts[0])
	assert.Equal(t, 8.0, opts[15])
	for i := 1; i < len(opts); i++ {
		assert.Equal(t, 0.5, opts[i]-opts[i-1])
	}
}
