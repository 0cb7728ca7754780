// Package stats derives attendance and income figures from booking rows.
package stats

import (
	"time"

	"court-booking-api/internal/schedule"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// Window returns the reporting window for a period type on the club clock:
// week is Monday 00:00:00 through Sunday 23:59:59 of the current week,
// month and year are calendar-aligned, anything else is the trailing seven
// days ending now.
func Window(period string, now time.Time) (start, end time.Time) {
	n := now.In(schedule.Zone)
	switch period {
	case PeriodWeek:
		// back up to Monday; Sunday counts as the end of the prior week
		offset := int(n.Weekday()) - 1
		if n.Weekday() == time.Sunday {
			offset = 6
		}
		start = time.Date(n.Year(), n.Month(), n.Day()-offset, 0, 0, 0, 0, schedule.Zone)
		end = start.AddDate(0, 0, 6)
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, schedule.Zone)
	case PeriodMonth:
		start = time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, schedule.Zone)
		last := start.AddDate(0, 1, -1)
		end = time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, schedule.Zone)
	case PeriodYear:
		start = time.Date(n.Year(), time.January, 1, 0, 0, 0, 0, schedule.Zone)
		end = time.Date(n.Year(), time.December, 31, 23, 59, 59, 0, schedule.Zone)
	default:
		start = time.Date(n.Year(), n.Month(), n.Day()-7, 0, 0, 0, 0, schedule.Zone)
		end = time.Date(n.Year(), n.Month(), n.Day(), 23, 59, 59, 0, schedule.Zone)
	}
	return start, end
}
