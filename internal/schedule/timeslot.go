// Package schedule holds the calendar rules for bookings: the club runs on
// a fixed UTC-6 clock, slots are whole hours between 06:00 and 23:00, and
// permanent bookings expand into weekly series.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"court-booking-api/internal/model"
)

// Zone is the club's wall clock. Bookings are stored as absolute
// timestamps but all calendar comparisons happen in this zone.
var Zone = time.FixedZone("UTC-6", -6*60*60)

var (
	ErrBadSlot     = errors.New("invalid time slot")
	ErrPastBooking = errors.New("booking date/time is in the past")
)

// SlotHour extracts the hour from a slot label. Accepts "HH:MM" and the
// legacy "HH:MM-HH:MM" range form; only the leading hour matters.
func SlotHour(slot string) (int, error) {
	if len(slot) < 5 || slot[2] != ':' {
		return 0, ErrBadSlot
	}
	h, err := strconv.Atoi(slot[:2])
	if err != nil {
		return 0, ErrBadSlot
	}
	if h < 6 || h > 23 {
		return 0, fmt.Errorf("%w: hour %d outside 6..23", ErrBadSlot, h)
	}
	return h, nil
}

// SlotTime combines a calendar date ("2006-01-02") with a slot label into
// the absolute booking timestamp on the club clock.
func SlotTime(date, slot string) (time.Time, error) {
	hour, err := SlotHour(slot)
	if err != nil {
		return time.Time{}, err
	}
	min, err := strconv.Atoi(slot[3:5])
	if err != nil || min < 0 || min > 59 {
		return time.Time{}, ErrBadSlot
	}
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, Zone), nil
}

// ValidateNotPast rejects bookings whose date is before today, or on today
// with a slot hour earlier than the current hour. Admins bypass both
// checks; they backfill historical records.
func ValidateNotPast(bookingAt time.Time, role string, now time.Time) error {
	if role == model.RoleAdmin {
		return nil
	}
	bDay := DayOf(bookingAt)
	today := DayOf(now)
	if bDay.Before(today) {
		return ErrPastBooking
	}
	if bDay.Equal(today) && bookingAt.In(Zone).Hour() < now.In(Zone).Hour() {
		return ErrPastBooking
	}
	return nil
}

// DayOf truncates a timestamp to midnight on the club clock.
func DayOf(t time.Time) time.Time {
	y, m, d := t.In(Zone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Zone)
}
