/*
Package user contains the core data structures for a registered chat user and the
ordered stages of address resolution.

A user's address is resolved one stage at a time: city, then street, then street
number, then the upstream location id derived from the street number. The mutators
below enforce that setting an earlier stage clears every later one, so a user can
never hold a street without a city or a location id without a street number.
*/
package user

import (
	"strings"
	"time"
)

// Stage identifies the next unresolved step of a user's address.
type Stage int

const (
	// StageCity means the next free-text input names the user's city.
	StageCity Stage = iota

	// StageStreet means the city is known and the next input names the street.
	StageStreet

	// StageStreetNumber means city and street are known and the next input is the house number.
	StageStreetNumber

	// StageLocation means all address strings are known but the upstream location id is missing
	// and must be re-derived from them. No input is consumed at this stage.
	StageLocation

	// StageComplete means the address is fully resolved.
	StageComplete
)

// User represents a registered chat user. The ID is the Telegram chat id.
// The JSON keys match the legacy user file format (garbage.users.json).
type User struct {
	ID int64 `json:"id"`

	// Resolved address, canonical lowercase. Each field is empty until its stage succeeds.
	City         string `json:"city,omitempty"`
	Street       string `json:"street,omitempty"`
	StreetNumber string `json:"streetNumber,omitempty"`

	// LocationID is the upstream-assigned key for the fully resolved address.
	// Zero means not yet derived. It can silently become stale upstream.
	LocationID int64 `json:"location,omitempty"`

	// Timezone is the IANA zone the reminder time is interpreted in.
	Timezone string `json:"timezone,omitempty"`

	// ReminderAt is the daily reminder time, stored as an absolute UTC instant
	// meaning "today at hh:mm in Timezone". The scheduler only reads its
	// hour and minute; the date component is ignored.
	ReminderAt *time.Time `json:"cronTime,omitempty"`
}

// New returns a fresh user with only identity and timezone set.
func New(id int64, timezone string) *User {
	return &User{ID: id, Timezone: timezone}
}

// Stage derives the next unresolved address stage.
func (u *User) Stage() Stage {
	switch {
	case u.City == "":
		return StageCity
	case u.Street == "":
		return StageStreet
	case u.StreetNumber == "":
		return StageStreetNumber
	case u.LocationID == 0:
		return StageLocation
	default:
		return StageComplete
	}
}

// Resolved reports whether the address is fully resolved down to the location id.
func (u *User) Resolved() bool {
	return u.Stage() == StageComplete
}

// SetCity stores the canonical city name and clears all later stages.
func (u *User) SetCity(name string) {
	u.City = strings.ToLower(name)
	u.Street = ""
	u.StreetNumber = ""
	u.LocationID = 0
}

// SetStreet stores the canonical street name and clears all later stages.
func (u *User) SetStreet(name string) {
	u.Street = strings.ToLower(name)
	u.StreetNumber = ""
	u.LocationID = 0
}

// SetStreetNumber stores the canonical street number together with the location id
// derived from it. The two always change as a unit.
func (u *User) SetStreetNumber(number string, locationID int64) {
	u.StreetNumber = strings.ToLower(number)
	u.LocationID = locationID
}

// SetLocationID overwrites the location id, used by re-derivation when the
// upstream identifier has become stale.
func (u *User) SetLocationID(locationID int64) {
	u.LocationID = locationID
}

// Zone returns the user's time.Location, falling back to def when the stored
// timezone is empty or unknown.
func (u *User) Zone(def *time.Location) *time.Location {
	if u.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return def
	}
	return loc
}
