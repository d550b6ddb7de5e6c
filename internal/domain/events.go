package domain

import "time"

const (
	EventAccommodationCreated = "accommodation.created"
	EventAccommodationUpdated = "accommodation.updated"
	EventAccommodationDeleted = "accommodation.deleted"
)

type AccommodationEvent struct {
	ID              string         `json:"eventId"`
	Type            string         `json:"type"`
	AccommodationID int64          `json:"id"`
	Accommodation   *Accommodation `json:"accommodation,omitempty"`
	OccurredAt      time.Time      `json:"occurredAt"`
}
