package store

import (
	"context"
	"strings"
	"time"

	"court-booking-api/internal/model"
)

const clientCols = `c.id, c.name, c.phone, c.email,
	COALESCE(array_agg(cb.booking_id::text) FILTER (WHERE cb.booking_id IS NOT NULL), '{}')`

func (s *Store) CreateClient(ctx context.Context, c *model.Client) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO clients (id, name, phone, email) VALUES ($1,$2,$3,$4)`,
		c.ID, c.Name, c.Phone, c.Email,
	)
	return translate(err)
}

func (s *Store) ClientByID(ctx context.Context, id string) (*model.Client, error) {
	c := &model.Client{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+clientCols+`
		 FROM clients c LEFT JOIN client_bookings cb ON cb.client_id = c.id
		 WHERE c.id = $1
		 GROUP BY c.id`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Bookings)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// ClientByName looks up a client by exact trimmed name. Used when a booking
// arrives with a free-text client name and no id.
func (s *Store) ClientByName(ctx context.Context, name string) (*model.Client, error) {
	c := &model.Client{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+clientCols+`
		 FROM clients c LEFT JOIN client_bookings cb ON cb.client_id = c.id
		 WHERE c.name = $1
		 GROUP BY c.id`, strings.TrimSpace(name),
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Bookings)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+clientCols+`
		 FROM clients c LEFT JOIN client_bookings cb ON cb.client_id = c.id
		 GROUP BY c.id
		 ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Bookings); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateClient(ctx context.Context, c *model.Client) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE clients SET name=$1, phone=$2, email=$3 WHERE id=$4`,
		c.Name, c.Phone, c.Email, c.ID,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClientAggregate is the store-side summary for one client's full booking
// history (not windowed by period).
type ClientAggregate struct {
	TotalBookings   int64      `json:"totalBookings"`
	ArrivedBookings int64      `json:"arrivedBookings"`
	TotalDeposit    float64    `json:"totalDeposit"`
	AvgDeposit      float64    `json:"avgDeposit"`
	LastBooking     *time.Time `json:"lastBooking"`
}

func (s *Store) AggregateClient(ctx context.Context, clientID, clientName string) (*ClientAggregate, error) {
	a := &ClientAggregate{}
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = $3),
		        COALESCE(SUM(deposit), 0),
		        COALESCE(AVG(deposit), 0),
		        MAX(date)
		 FROM bookings
		 WHERE client_id = $1 OR client_name = $2`, clientID, clientName, model.StatusArrived,
	).Scan(&a.TotalBookings, &a.ArrivedBookings, &a.TotalDeposit, &a.AvgDeposit, &a.LastBooking)
	if err != nil {
		return nil, err
	}
	return a, nil
}
