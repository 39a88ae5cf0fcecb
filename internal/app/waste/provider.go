package waste

import (
	"context"
	"time"
)

// City is one entry of the upstream city list.
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Street is one entry of the upstream street list. The detail endpoint for a
// single street additionally carries its house numbers.
type Street struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	HausNrList []StreetNumber `json:"hausNrList"`
}

// StreetNumber is a house number on a street. Its id doubles as the location
// identifier used to fetch collection events.
type StreetNumber struct {
	ID int64  `json:"id"`
	Nr string `json:"nr"`
}

// Event is a single collection event at one location.
type Event struct {
	Date     time.Time
	Category Category
}

// Provider is the contract of the upstream waste data provider. All operations
// fail with errs.ErrInvalidResponse on any non-success upstream result, which
// makes them eligible for the event service's one-shot retry.
type Provider interface {
	// Cities returns the full list of known cities.
	Cities(ctx context.Context) ([]City, error)

	// Streets returns the streets of the given city.
	Streets(ctx context.Context, cityID int64) ([]Street, error)

	// StreetNumbers returns the house numbers of the given street.
	StreetNumbers(ctx context.Context, streetID int64) ([]StreetNumber, error)

	// Events returns the collection events at the given location, restricted
	// server-side to the given categories.
	Events(ctx context.Context, locationID int64, categories []Category) ([]Event, error)
}
