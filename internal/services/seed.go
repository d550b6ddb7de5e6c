package services

import (
	"context"
	"log"

	"accommodations/internal/domain"
)

func price(v float64) *float64 { return &v }

var demoAccommodations = []domain.Accommodation{
	{ID: 1, Name: "Hotel Slon", Location: "Ljubljana", Capacity: 4, PricePerDay: price(120.0)},
	{ID: 2, Name: "Motel Medno", Location: "Medno", Capacity: 5, PricePerDay: price(40.0)},
	{ID: 3, Name: "Hotel Kanu", Location: "Dragočajna", Capacity: 2, PricePerDay: price(50.0)},
	{ID: 4, Name: "Hotel Emonec", Location: "Ljubljana", Capacity: 5, PricePerDay: price(80.0)},
	{ID: 5, Name: "Tobacna Red", Location: "Ljubljana", Capacity: 4, PricePerDay: price(60.0)},
	{ID: 6, Name: "Hotel Tabor", Location: "Maribor", Capacity: 2, PricePerDay: price(35.0)},
	{ID: 7, Name: "Arena Welness hotel", Location: "Maribor", Capacity: 5, PricePerDay: price(45.0)},
	{ID: 8, Name: "Grand Hotel Union", Location: "Ljubljana", Capacity: 2, PricePerDay: price(80.0)},
}

// SeedIfEmpty inserts the demo accommodations into an empty store and
// reports how many were written.
func SeedIfEmpty(ctx context.Context, store AccommodationStore) (int, error) {
	existing, err := store.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	log.Println("[seed] inserting demo accommodations")
	for _, a := range demoAccommodations {
		if _, err := store.Insert(ctx, a); err != nil {
			return 0, err
		}
	}
	return len(demoAccommodations), nil
}
