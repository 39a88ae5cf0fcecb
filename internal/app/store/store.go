/*
Package store persists registered users.

It exposes the UserStore interface consumed by the conversation layer, the event
service, and the reminder scheduler, with two backends: a JSON file compatible with
the legacy user list (FileStore) and Postgres (Postgres), selected via configuration.

Persistence is an explicit contract: mutating a user returned by Get does nothing
until the caller passes it back through Save. Both backends serialize writes, so
concurrent mutations of different users cannot corrupt the stored data.
*/
package store

import (
	"context"

	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
)

// UserStore is the persistence contract for registered users.
type UserStore interface {
	// Get returns the user with the given chat id, or ErrUserDoesNotExist.
	Get(ctx context.Context, id int64) (*user.User, error)

	// List returns all registered users.
	List(ctx context.Context) ([]*user.User, error)

	// Create registers a new user, failing with ErrUserAlreadyExists if the id is taken.
	Create(ctx context.Context, u *user.User) error

	// Delete removes the user with the given chat id, or fails with ErrUserDoesNotExist.
	Delete(ctx context.Context, id int64) error

	// Save persists the current state of an existing user.
	Save(ctx context.Context, u *user.User) error
}
