package timesheet

import (
	"fmt"
	"sort"
	"time"
)

// WeekLog is a read-derived aggregate over one ISO week. It is recomputed
// from the underlying daily logs whenever they change, never mutated
// directly.
type WeekLog struct {
	Key        string
	WeekNo     int
	Year       int
	StartDate  time.Time
	EndDate    time.Time // inclusive, StartDate + 6 days
	TotalHours float64
	Logs       []DailyLog
}

// WeekKey builds the composite key identifying a week across years.
func WeekKey(weekNo, year int) string {
	return fmt.Sprintf("%d-%d", weekNo, year)
}

// WeekKeyFor returns the composite key of the ISO week containing t.
func WeekKeyFor(t time.Time) string {
	year, week := t.ISOWeek()
	return WeekKey(week, year)
}

// weekStart returns the Monday of the ISO week containing t, at midnight UTC.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := day.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	return day.AddDate(0, 0, -int(weekday-time.Monday))
}

// MonthRange returns the fetch window covering every week that overlaps the
// month: the Monday on or before the 1st through the Sunday on or after the
// last day.
func MonthRange(month time.Time) (time.Time, time.Time) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return weekStart(first), weekStart(last).AddDate(0, 0, 6)
}

// MonthWeeks derives the weekly aggregates for every week overlapping the
// month, oldest first, empty weeks included. The aggregates are recomputed
// from the logs on every call; they are never mutated in place.
func MonthWeeks(month time.Time, logs []DailyLog) []WeekLog {
	from, to := MonthRange(month)

	var weeks []WeekLog
	for start := from; !start.After(to); start = start.AddDate(0, 0, 7) {
		year, week := start.ISOWeek()
		w := WeekLog{
			Key:       WeekKey(week, year),
			WeekNo:    week,
			Year:      year,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 6),
		}
		startStr := start.Format(DateLayout)
		endStr := w.EndDate.Format(DateLayout)
		for _, l := range logs {
			if l.LogDate >= startStr && l.LogDate <= endStr {
				w.Logs = append(w.Logs, l)
				w.TotalHours += l.LoggedHours
			}
		}
		sort.Slice(w.Logs, func(i, j int) bool { return w.Logs[i].LogDate < w.Logs[j].LogDate })
		weeks = append(weeks, w)
	}
	return weeks
}

// WeekDay is one calendar day of an expanded week. Days outside the
// displayed month or in the future take no new entries.
type WeekDay struct {
	Date         string
	IsOtherMonth bool
	IsFuture     bool
}

// Interactive reports whether a new entry may be opened for the day.
func (d WeekDay) Interactive() bool {
	return !d.IsOtherMonth && !d.IsFuture
}

// GenerateWeekDays expands a week's start date into its 7 consecutive days.
// The days are computed, not fetched. currentMonth/currentYear identify the
// displayed month; today bounds the future check.
func GenerateWeekDays(start time.Time, currentMonth time.Month, currentYear int, today time.Time) []WeekDay {
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, WeekDay{
			Date:         d.Format(DateLayout),
			IsOtherMonth: d.Month() != currentMonth || d.Year() != currentYear,
			IsFuture:     d.After(todayDate),
		})
	}
	return days
}

// DayTotal sums the logged hours of entries matching the date exactly.
func DayTotal(logs []DailyLog, date string) float64 {
	var total float64
	for _, l := range logs {
		if l.LogDate == date {
			total += l.LoggedHours
		}
	}
	return total
}
