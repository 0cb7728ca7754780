package store

import (
	"context"
	"time"

	"court-booking-api/internal/model"
	"court-booking-api/internal/stats"
)

const rowCols = `b.id, b.date, b.time_slot, b.status, b.deposit, b.client_name,
	c.id, c.name, c.price_six_am, c.price_seven_to_fifteen,
	c.price_sixteen_to_twenty_one, c.price_twenty_two, c.price_twenty_three`

func collectRows(ctx context.Context, s *Store, query string, args ...any) ([]stats.BookingRow, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stats.BookingRow
	for rows.Next() {
		var r stats.BookingRow
		if err := rows.Scan(&r.ID, &r.Date, &r.TimeSlot, &r.Status, &r.Deposit, &r.ClientName,
			&r.CourtID, &r.CourtName, &r.Pricing.SixAM, &r.Pricing.SevenToFifteen,
			&r.Pricing.SixteenToTwentyOne, &r.Pricing.TwentyTwo, &r.Pricing.TwentyThree,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClientRows returns a client's bookings in the window, joined with court
// pricing, matched by reference or denormalized name.
func (s *Store) ClientRows(ctx context.Context, clientID, clientName string, from, to time.Time) ([]stats.BookingRow, error) {
	return collectRows(ctx, s,
		`SELECT `+rowCols+`
		 FROM bookings b JOIN courts c ON c.id = b.court_id
		 WHERE (b.client_id = $1 OR b.client_name = $2)
		   AND b.date >= $3 AND b.date <= $4
		 ORDER BY b.date`, clientID, clientName, from, to)
}

// AttendedRows returns every attended booking in the window with court
// pricing. The elapsed-time filter is applied by the aggregator, which
// knows the evaluation instant.
func (s *Store) AttendedRows(ctx context.Context, from, to time.Time) ([]stats.BookingRow, error) {
	return collectRows(ctx, s,
		`SELECT `+rowCols+`
		 FROM bookings b JOIN courts c ON c.id = b.court_id
		 WHERE b.status = $1 AND b.date >= $2 AND b.date <= $3
		 ORDER BY b.date`, model.StatusArrived, from, to)
}
