// Package pricing resolves slot hours against a court's rate table.
package pricing

import "court-booking-api/internal/model"

// Price returns the rate for a booking at the given hour. The bucket table
// is fixed: new hours mean extending this switch, not data.
func Price(hour int, p model.Pricing) float64 {
	switch {
	case hour == 6:
		return p.SixAM
	case hour >= 7 && hour <= 15:
		return p.SevenToFifteen
	case hour >= 16 && hour <= 21:
		return p.SixteenToTwentyOne
	case hour == 22:
		return p.TwentyTwo
	case hour == 23:
		return p.TwentyThree
	default:
		return 0
	}
}

// Clamp normalizes a rate table so every bucket is non-negative.
func Clamp(p model.Pricing) model.Pricing {
	return model.Pricing{
		SixAM:              nonNegative(p.SixAM),
		SevenToFifteen:     nonNegative(p.SevenToFifteen),
		SixteenToTwentyOne: nonNegative(p.SixteenToTwentyOne),
		TwentyTwo:          nonNegative(p.TwentyTwo),
		TwentyThree:        nonNegative(p.TwentyThree),
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
