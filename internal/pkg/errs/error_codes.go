/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the service and in the replies sent back to chat users.
*/
package errs

// 1xxx: Input Validation Errors
const (
	// ErrInvalidReminderTime indicates that a submitted reminder time is not a valid hh:mm value.
	ErrInvalidReminderTime = 1001
)

// 2xxx: Address Resolution and Collection Errors
const (
	// ErrCityNotFound indicates that no city in the upstream database matches the submitted name.
	ErrCityNotFound = 2101

	// ErrStreetNotFound indicates that no street in the resolved city matches the submitted name.
	ErrStreetNotFound = 2102

	// ErrStreetNumberNotFound indicates that no street number on the resolved street matches the submitted value.
	ErrStreetNumberNotFound = 2103

	// ErrNoUpcomingEvents indicates that the upstream calendar holds no collection date on or after today.
	ErrNoUpcomingEvents = 2201
)

// 3xxx: User Account Errors
const (
	// ErrUserAlreadyExists indicates that a registration was attempted for an already known chat id.
	ErrUserAlreadyExists = 3001

	// ErrUserDoesNotExist indicates that an operation referenced a chat id that is not registered.
	ErrUserDoesNotExist = 3002
)

// 5xxx: Upstream and Internal Errors
const (
	// ErrUnknown represents an unclassified, general internal error.
	ErrUnknown = 5000

	// ErrInvalidResponse indicates that the upstream waste data provider returned a
	// non-success or undecodable response. The event service retries such failures
	// once after refreshing the location id.
	ErrInvalidResponse = 5001
)
