package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
	// ids of bookings referencing this client, kept symmetric with
	// Booking.ClientID on every booking write
	Bookings []string `json:"bookings"`
}

// Pricing maps the five fixed hour buckets to a price. Hours outside the
// buckets price at zero (see pricing.Price).
type Pricing struct {
	SixAM              float64 `json:"sixAM"`
	SevenToFifteen     float64 `json:"sevenToFifteen"`
	SixteenToTwentyOne float64 `json:"sixteenToTwentyOne"`
	TwentyTwo          float64 `json:"twentyTwo"`
	TwentyThree        float64 `json:"twentyThree"`
}

type Court struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	IsOriginal bool    `json:"isOriginal"`
	Pricing    Pricing `json:"pricing"`
}

const (
	StatusArrived    = "arrived"
	StatusNotArrived = "not-arrived"
)

type Booking struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user"`
	CourtID          string     `json:"court"`
	Date             time.Time  `json:"date"`
	TimeSlot         string     `json:"timeSlot"`
	ClientID         string     `json:"client,omitempty"`
	ClientName       string     `json:"clientName"`
	Deposit          float64    `json:"deposit"`
	Status           string     `json:"status,omitempty"`
	IsPermanent      bool       `json:"isPermanent"`
	PermanentEndDate *time.Time `json:"permanentEndDate,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type LogEntry struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"createdAt"`
}
