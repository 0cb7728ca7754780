package store

import (
	"context"

	"court-booking-api/internal/model"
)

const courtCols = `id, name, color, is_original,
	price_six_am, price_seven_to_fifteen, price_sixteen_to_twenty_one,
	price_twenty_two, price_twenty_three`

func scanCourt(row interface{ Scan(...any) error }) (*model.Court, error) {
	c := &model.Court{}
	err := row.Scan(&c.ID, &c.Name, &c.Color, &c.IsOriginal,
		&c.Pricing.SixAM, &c.Pricing.SevenToFifteen, &c.Pricing.SixteenToTwentyOne,
		&c.Pricing.TwentyTwo, &c.Pricing.TwentyThree)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *Store) CreateCourt(ctx context.Context, c *model.Court) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO courts (`+courtCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.Name, c.Color, c.IsOriginal,
		c.Pricing.SixAM, c.Pricing.SevenToFifteen, c.Pricing.SixteenToTwentyOne,
		c.Pricing.TwentyTwo, c.Pricing.TwentyThree,
	)
	return translate(err)
}

func (s *Store) CourtByID(ctx context.Context, id string) (*model.Court, error) {
	return scanCourt(s.pool.QueryRow(ctx,
		`SELECT `+courtCols+` FROM courts WHERE id = $1`, id))
}

// ListCourts returns either the bookable courts or the "(Original)"
// template courts, never both.
func (s *Store) ListCourts(ctx context.Context, originals bool) ([]model.Court, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+courtCols+` FROM courts WHERE is_original = $1 ORDER BY name`, originals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCourt(ctx context.Context, c *model.Court) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE courts SET name=$1, color=$2,
		 price_six_am=$3, price_seven_to_fifteen=$4, price_sixteen_to_twenty_one=$5,
		 price_twenty_two=$6, price_twenty_three=$7
		 WHERE id=$8`,
		c.Name, c.Color,
		c.Pricing.SixAM, c.Pricing.SevenToFifteen, c.Pricing.SixteenToTwentyOne,
		c.Pricing.TwentyTwo, c.Pricing.TwentyThree, c.ID,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCourt(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM courts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
