package handlers

import (
	"accommodations/internal/clients"
	"accommodations/internal/events"
	"accommodations/internal/services"
	"accommodations/internal/telemetry"
)

type Deps struct {
	AccommodationHandler *AccommodationHandler
	DirectoryHandler     *DirectoryHandler
	OpsHandler           *OpsHandler
}

// NewDeps wires services over the given ports. A nil registry disables
// metrics, a nil publisher disables events.
func NewDeps(store services.AccommodationStore, bookings services.BookingLister, dir *clients.DirectoryClient, pub events.Publisher, reg *telemetry.Registry) *Deps {
	var tel telemetry.Telemetry = telemetry.Noop{}
	if reg != nil {
		tel = reg
	}

	accSvc := services.NewAccommodationService(store, pub, tel)
	availSvc := services.NewAvailabilityService(bookings, tel)

	return &Deps{
		AccommodationHandler: &AccommodationHandler{Accommodations: accSvc, Checker: availSvc},
		DirectoryHandler:     &DirectoryHandler{Directory: dir},
		OpsHandler:           &OpsHandler{Ready: accSvc.Ready, Registry: reg},
	}
}
