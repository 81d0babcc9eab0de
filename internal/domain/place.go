package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Place is a single itinerary entry within a trip, pinned to a day of the
// trip rather than a calendar date. A place is exclusively owned by its
// parent trip; its lifetime is bounded by it.
type Place struct {
	ID           uuid.UUID `json:"id"`
	TripID       uuid.UUID `json:"trip_id"`
	LocationName string    `json:"location_name"`
	Notes        string    `json:"notes,omitempty"`
	DayNumber    int       `json:"day_number"` // 1-based day within the trip
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlaceUpdate carries the mutable fields of a place for an update operation.
type PlaceUpdate struct {
	LocationName string
	Notes        string
	DayNumber    int
}

// SortPlaces sorts places in the canonical list order for a trip:
// day number ascending, then creation time ascending, then ID as a final
// deterministic tiebreaker. Every list of places handed to a caller — whether
// read from the store or re-derived from a local cache patch — must be in
// this order.
func SortPlaces(places []Place) {
	sort.SliceStable(places, func(i, j int) bool {
		if places[i].DayNumber != places[j].DayNumber {
			return places[i].DayNumber < places[j].DayNumber
		}
		if !places[i].CreatedAt.Equal(places[j].CreatedAt) {
			return places[i].CreatedAt.Before(places[j].CreatedAt)
		}
		return places[i].ID.String() < places[j].ID.String()
	})
}
