package schedule

import (
	"time"

	"court-booking-api/internal/model"
)

// SeriesWeeks is how far a permanent booking expands: one occurrence per
// week for a year.
const SeriesWeeks = 52

// Occurrences returns the weekly recurrence timestamps for a series
// anchored at start: weeks 1..SeriesWeeks, each shifted by exactly seven
// days on the club clock, same time of day. The anchor itself is not
// included.
func Occurrences(start time.Time) []time.Time {
	base := start.In(Zone)
	out := make([]time.Time, 0, SeriesWeeks)
	for week := 1; week <= SeriesWeeks; week++ {
		out = append(out, base.AddDate(0, 0, 7*week))
	}
	return out
}

// SplitSeries partitions series members around the anchor's calendar date:
// members on or before it are demoted to ordinary bookings (history kept),
// members strictly after it are erased. A collapsed series cannot be
// resumed from the same anchor.
func SplitSeries(members []model.Booking, anchor time.Time) (demote, erase []model.Booking) {
	anchorDay := DayOf(anchor)
	for _, b := range members {
		if DayOf(b.Date).After(anchorDay) {
			erase = append(erase, b)
		} else {
			demote = append(demote, b)
		}
	}
	return demote, erase
}
