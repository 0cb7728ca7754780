package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"court-booking-api/internal/model"
)

const bookingCols = `id, COALESCE(user_id::text, ''), court_id, date, time_slot,
	COALESCE(client_id::text, ''), client_name, deposit, status,
	is_permanent, permanent_end_date, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	b := &model.Booking{}
	err := row.Scan(&b.ID, &b.UserID, &b.CourtID, &b.Date, &b.TimeSlot,
		&b.ClientID, &b.ClientName, &b.Deposit, &b.Status,
		&b.IsPermanent, &b.PermanentEndDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return b, nil
}

// nullable turns the empty client id into SQL NULL.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}

// CreateBooking inserts the booking and, when a client is attached, adds
// the booking to that client's set in the same transaction.
func (s *Store) CreateBooking(ctx context.Context, b *model.Booking) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, user_id, court_id, date, time_slot, client_id, client_name,
		                       deposit, status, is_permanent, permanent_end_date)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		b.ID, nullable(b.UserID), b.CourtID, b.Date, b.TimeSlot, nullable(b.ClientID), b.ClientName,
		b.Deposit, b.Status, b.IsPermanent, b.PermanentEndDate,
	)
	if err != nil {
		return translate(err)
	}

	if b.ClientID != "" {
		_, err = tx.Exec(ctx,
			`INSERT INTO client_bookings (client_id, booking_id) VALUES ($1,$2)
			 ON CONFLICT DO NOTHING`, b.ClientID, b.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) BookingByID(ctx context.Context, id string) (*model.Booking, error) {
	return scanBooking(s.pool.QueryRow(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE id = $1`, id))
}

func (s *Store) BookingsByCourt(ctx context.Context, courtID string) ([]model.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bookingCols+` FROM bookings WHERE court_id = $1 ORDER BY date`, courtID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (s *Store) BookingsByCourtRange(ctx context.Context, courtID string, from, to time.Time) ([]model.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bookingCols+` FROM bookings
		 WHERE court_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date`, courtID, from, to)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// BookingsForClient matches by reference or by the denormalized name, so
// legacy bookings that never got a client id still show up.
func (s *Store) BookingsForClient(ctx context.Context, clientID, clientName string, newestFirst bool) ([]model.Booking, error) {
	order := "date"
	if newestFirst {
		order = "date DESC"
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+bookingCols+` FROM bookings
		 WHERE client_id = $1 OR client_name = $2
		 ORDER BY `+order, clientID, clientName)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows interface {
	Next() bool
	Scan(...any) error
	Close()
	Err() error
}) ([]model.Booking, error) {
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpdateBooking writes the booking and re-syncs the client set when the
// reference moved: pull from the previous client, add to the new one.
func (s *Store) UpdateBooking(ctx context.Context, b *model.Booking, prevClientID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE bookings SET client_id=$1, client_name=$2, deposit=$3, status=$4, updated_at=NOW()
		 WHERE id=$5`,
		nullable(b.ClientID), b.ClientName, b.Deposit, b.Status, b.ID,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if prevClientID != b.ClientID {
		if prevClientID != "" {
			_, err = tx.Exec(ctx,
				`DELETE FROM client_bookings WHERE client_id=$1 AND booking_id=$2`,
				prevClientID, b.ID)
			if err != nil {
				return err
			}
		}
		if b.ClientID != "" {
			_, err = tx.Exec(ctx,
				`INSERT INTO client_bookings (client_id, booking_id) VALUES ($1,$2)
				 ON CONFLICT DO NOTHING`, b.ClientID, b.ID)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM client_bookings WHERE booking_id=$1`, id)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// SeriesMembers returns every booking in a permanent series. Matching is
// by client name, not id: renaming a client mid-series orphans the tail.
func (s *Store) SeriesMembers(ctx context.Context, courtID, timeSlot, clientName string) ([]model.Booking, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+bookingCols+` FROM bookings
		 WHERE court_id = $1 AND time_slot = $2 AND client_name = $3 AND is_permanent
		 ORDER BY date`, courtID, timeSlot, clientName)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ExpandSeries marks the anchor permanent and inserts one booking per
// requested occurrence, skipping slots already taken on the same court at
// the same timestamp. Created bookings start as not-arrived and join the
// anchor's client set. The whole expansion is one transaction.
func (s *Store) ExpandSeries(ctx context.Context, anchor *model.Booking, occurrences []time.Time, endDate time.Time) ([]model.Booking, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE bookings SET is_permanent=TRUE, permanent_end_date=$1, updated_at=NOW() WHERE id=$2`,
		endDate, anchor.ID)
	if err != nil {
		return nil, err
	}

	var created []model.Booking
	for _, at := range occurrences {
		var taken bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE court_id=$1 AND date=$2 AND time_slot=$3)`,
			anchor.CourtID, at, anchor.TimeSlot,
		).Scan(&taken)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		nb := model.Booking{
			ID:               uuid.New().String(),
			UserID:           anchor.UserID,
			CourtID:          anchor.CourtID,
			Date:             at,
			TimeSlot:         anchor.TimeSlot,
			ClientID:         anchor.ClientID,
			ClientName:       anchor.ClientName,
			Deposit:          anchor.Deposit,
			Status:           model.StatusNotArrived,
			IsPermanent:      true,
			PermanentEndDate: &endDate,
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO bookings (id, user_id, court_id, date, time_slot, client_id, client_name,
			                       deposit, status, is_permanent, permanent_end_date)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			nb.ID, nullable(nb.UserID), nb.CourtID, nb.Date, nb.TimeSlot, nullable(nb.ClientID), nb.ClientName,
			nb.Deposit, nb.Status, nb.IsPermanent, nb.PermanentEndDate,
		)
		if err != nil {
			return nil, err
		}
		created = append(created, nb)
	}

	if anchor.ClientID != "" {
		for _, nb := range created {
			_, err = tx.Exec(ctx,
				`INSERT INTO client_bookings (client_id, booking_id) VALUES ($1,$2)
				 ON CONFLICT DO NOTHING`, anchor.ClientID, nb.ID)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// CollapseSeries demotes the kept members in place and erases the future
// ones, pulling erased ids from their client's set. One transaction.
func (s *Store) CollapseSeries(ctx context.Context, demoteIDs, eraseIDs []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if len(demoteIDs) > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE bookings SET is_permanent=FALSE, permanent_end_date=NULL, updated_at=NOW()
			 WHERE id = ANY($1)`, demoteIDs)
		if err != nil {
			return err
		}
	}

	if len(eraseIDs) > 0 {
		_, err = tx.Exec(ctx,
			`DELETE FROM client_bookings WHERE booking_id = ANY($1)`, eraseIDs)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM bookings WHERE id = ANY($1)`, eraseIDs)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
