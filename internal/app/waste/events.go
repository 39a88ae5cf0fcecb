package waste

import (
	"context"
	"time"

	"github.com/miscOS/telegram-garbage-bot/internal/app/store"
	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/logx"
)

// Collection is the result of an event query: one date and the display names of
// everything collected on it. Names keep provider order and may repeat when a
// location has the same category collected twice that day.
type Collection struct {
	Date       time.Time
	Categories []string
}

// Events computes the next relevant collection for a user. It fetches fresh
// data from the provider on every query and owns the stale-location retry: a
// location id can silently become invalid upstream, so the first
// ErrInvalidResponse triggers a re-derivation of the id followed by exactly one
// retry.
type Events struct {
	provider Provider
	resolver *Resolver
	store    store.UserStore
	zone     *time.Location

	now func() time.Time
}

// NewEvents creates the event service. zone is the district default timezone,
// used for "today" when a user carries no timezone of their own.
func NewEvents(provider Provider, resolver *Resolver, userStore store.UserStore, zone *time.Location) *Events {
	return &Events{
		provider: provider,
		resolver: resolver,
		store:    userStore,
		zone:     zone,
		now:      time.Now,
	}
}

// NextCollection returns the next collection at the user's location restricted
// to the given categories. The user must be fully resolved.
//
// With a reference date, that date is the target and its (possibly empty)
// category list is returned; this serves the scheduler's "what happens
// tomorrow" lookups. Without one, the target is the earliest event date on or
// after today in the user's timezone, and ErrNoUpcomingEvents is returned when
// no such date exists.
func (e *Events) NextCollection(ctx context.Context, u *user.User, categories []Category, referenceDate *time.Time) (Collection, error) {
	return e.nextCollection(ctx, u, categories, referenceDate, true)
}

func (e *Events) nextCollection(ctx context.Context, u *user.User, categories []Category, referenceDate *time.Time, retry bool) (Collection, error) {
	if !u.Resolved() {
		return Collection{}, errs.NewError(errs.ErrUnknown)
	}

	events, err := e.provider.Events(ctx, u.LocationID, categories)
	if err != nil {
		if retry && errs.HasCode(err, errs.ErrInvalidResponse) {
			// The location id may have gone stale upstream. Refresh it from the
			// stored address strings and try once more.
			if rerr := e.resolver.Rederive(ctx, u); rerr != nil {
				return Collection{}, rerr
			}
			if serr := e.store.Save(ctx, u); serr != nil {
				logx.Error(serr, "Failed to persist re-derived location id", "user_id", u.ID)
			}
			logx.Info("Re-derived stale location id", "user_id", u.ID, "location_id", u.LocationID)
			return e.nextCollection(ctx, u, categories, referenceDate, false)
		}
		return Collection{}, err
	}

	var target time.Time
	if referenceDate != nil {
		target = dateOnly(*referenceDate)
	} else {
		today := dateOnly(e.now().In(u.Zone(e.zone)))

		found := false
		for _, event := range events {
			date := dateOnly(event.Date)
			if date.Before(today) {
				continue
			}
			if !found || date.Before(target) {
				target = date
				found = true
			}
		}
		if !found {
			return Collection{}, errs.NewError(errs.ErrNoUpcomingEvents)
		}
	}

	collection := Collection{Date: target, Categories: []string{}}
	for _, event := range events {
		if dateOnly(event.Date).Equal(target) {
			collection.Categories = append(collection.Categories, event.Category.Name())
		}
	}
	return collection, nil
}

// dateOnly strips the time-of-day and zone, keeping only the calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
