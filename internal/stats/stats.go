package stats

import (
	"sort"
	"time"

	"court-booking-api/internal/model"
	"court-booking-api/internal/pricing"
	"court-booking-api/internal/schedule"
)

// BookingRow is one booking joined with its court's rate table, the unit
// the aggregator works over.
type BookingRow struct {
	ID         string
	Date       time.Time
	TimeSlot   string
	Status     string
	Deposit    float64
	ClientName string
	CourtID    string
	CourtName  string
	Pricing    model.Pricing
}

// Price resolves the row's rate from its slot hour. Rows with unparseable
// slots price at zero rather than failing the whole aggregation.
func (r BookingRow) Price() float64 {
	hour, err := schedule.SlotHour(r.TimeSlot)
	if err != nil {
		return 0
	}
	return pricing.Price(hour, r.Pricing)
}

// counted reports whether a row contributes income: the client arrived and
// the slot has already elapsed. Future "arrived" bookings left over from
// data correction never count.
func counted(r BookingRow, now time.Time) bool {
	return r.Status == model.StatusArrived && r.Date.Before(now)
}

type ClientSummary struct {
	BookingsCount   int     `json:"bookingsCount"`
	AttendanceCount int     `json:"attendanceCount"`
	AttendanceRate  float64 `json:"attendanceRate"`
	TotalIncome     float64 `json:"totalCalculatedIncome"`
}

// SummarizeClient computes one client's period figures from its rows.
func SummarizeClient(rows []BookingRow, now time.Time) ClientSummary {
	var s ClientSummary
	s.BookingsCount = len(rows)
	for _, r := range rows {
		if r.Status == model.StatusArrived {
			s.AttendanceCount++
		}
		if counted(r, now) {
			s.TotalIncome += r.Price()
		}
	}
	if s.BookingsCount > 0 {
		s.AttendanceRate = float64(s.AttendanceCount) / float64(s.BookingsCount)
	}
	return s
}

type DateIncome struct {
	Date   string  `json:"date"`
	Income float64 `json:"income"`
}

type CourtIncome struct {
	CourtID   string  `json:"courtId"`
	CourtName string  `json:"courtName"`
	Income    float64 `json:"income"`
}

type HourIncome struct {
	Hour   int     `json:"hour"`
	Income float64 `json:"income"`
}

type Financial struct {
	TotalIncome float64       `json:"totalIncome"`
	ByPeriod    []DateIncome  `json:"byPeriod"`
	ByCourt     []CourtIncome `json:"byCourt"`
	BySchedule  []HourIncome  `json:"bySchedule"`
}

// Aggregate computes fleet income over attended, already-elapsed rows,
// grouped by club-clock calendar date, by court, and by slot hour.
func Aggregate(rows []BookingRow, now time.Time) Financial {
	out := Financial{
		ByPeriod:   []DateIncome{},
		ByCourt:    []CourtIncome{},
		BySchedule: []HourIncome{},
	}
	byDate := map[string]float64{}
	byCourt := map[string]*CourtIncome{}
	byHour := map[int]float64{}

	for _, r := range rows {
		if !counted(r, now) {
			continue
		}
		price := r.Price()
		out.TotalIncome += price

		day := r.Date.In(schedule.Zone).Format("2006-01-02")
		byDate[day] += price

		if c, ok := byCourt[r.CourtID]; ok {
			c.Income += price
		} else {
			byCourt[r.CourtID] = &CourtIncome{CourtID: r.CourtID, CourtName: r.CourtName, Income: price}
		}

		if hour, err := schedule.SlotHour(r.TimeSlot); err == nil {
			byHour[hour] += price
		}
	}

	for day, income := range byDate {
		out.ByPeriod = append(out.ByPeriod, DateIncome{Date: day, Income: income})
	}
	sort.Slice(out.ByPeriod, func(i, j int) bool { return out.ByPeriod[i].Date < out.ByPeriod[j].Date })

	for _, c := range byCourt {
		out.ByCourt = append(out.ByCourt, *c)
	}
	sort.Slice(out.ByCourt, func(i, j int) bool { return out.ByCourt[i].CourtName < out.ByCourt[j].CourtName })

	for hour, income := range byHour {
		out.BySchedule = append(out.BySchedule, HourIncome{Hour: hour, Income: income})
	}
	sort.Slice(out.BySchedule, func(i, j int) bool { return out.BySchedule[i].Hour < out.BySchedule[j].Hour })

	return out
}

// Elapsed filters rows down to attended bookings that already happened,
// the set the detail export lists.
func Elapsed(rows []BookingRow, now time.Time) []BookingRow {
	out := make([]BookingRow, 0, len(rows))
	for _, r := range rows {
		if counted(r, now) {
			out = append(out, r)
		}
	}
	return out
}
