package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type Accommodation struct {
	ID          int64    `db:"id" bson:"_id" json:"id"`
	Name        string   `db:"name" bson:"name" json:"name"`
	Location    string   `db:"location" bson:"location" json:"location"`
	Description string   `db:"description" bson:"description" json:"description"`
	Capacity    int      `db:"capacity" bson:"capacity" json:"capacity"`
	PricePerDay *float64 `db:"price_per_day" bson:"pricePerDay" json:"pricePerDay"`
}

// AccommodationFields holds the mutable part of an Accommodation (everything but the id).
type AccommodationFields struct {
	Name        string
	Location    string
	Description string
	Capacity    int
	PricePerDay *float64
}

func (a Accommodation) Fields() AccommodationFields {
	return AccommodationFields{
		Name:        a.Name,
		Location:    a.Location,
		Description: a.Description,
		Capacity:    a.Capacity,
		PricePerDay: a.PricePerDay,
	}
}

// Apply replaces every mutable field of a with f.
func (a *Accommodation) Apply(f AccommodationFields) {
	a.Name = f.Name
	a.Location = f.Location
	a.Description = f.Description
	a.Capacity = f.Capacity
	a.PricePerDay = f.PricePerDay
}

// Booking is owned by the bookings service; this service only reads it.
type Booking struct {
	IDAccommodation int64     `json:"idAccommodation"`
	FromDate        Timestamp `json:"fromDate"`
	ToDate          Timestamp `json:"toDate"`
}

// Covers reports whether t lies within [FromDate, ToDate], both ends inclusive.
func (b Booking) Covers(t time.Time) bool {
	return !b.FromDate.Time.After(t) && !b.ToDate.Time.Before(t)
}

// Timestamp decodes either epoch milliseconds or an RFC 3339 string and
// encodes back to epoch milliseconds.
type Timestamp struct{ time.Time }

func FromMillis(ms int64) Timestamp { return Timestamp{time.UnixMilli(ms).UTC()} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", b, err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

// Notification is forwarded to the notifications service as-is.
type Notification struct {
	Recipient string `json:"recipient" form:"recipient" validate:"required,email"`
	Subject   string `json:"subject" form:"subject" validate:"required,max=255"`
	Body      string `json:"body" form:"body"`
}
