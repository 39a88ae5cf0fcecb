package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/miscOS/telegram-garbage-bot/internal/app/store"
	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/app/waste"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/logx"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/metrics"
)

// Notifier delivers a reminder notification to a user. The Telegram transport
// implements it.
type Notifier interface {
	Notify(ctx context.Context, userID int64, collection waste.Collection) error
}

// CollectionSource answers "what is collected on this date" queries.
// *waste.Events implements it.
type CollectionSource interface {
	NextCollection(ctx context.Context, u *user.User, categories []waste.Category, referenceDate *time.Time) (waste.Collection, error)
}

// Scheduler fires a tick every step minutes and notifies every due user about
// tomorrow's collection. A user is due when their stored reminder time,
// reduced to UTC minutes-of-day, lies within one step of the current tick.
//
// Per-user failures are logged and isolated; one broken user never stops the
// rest of the list or a later tick.
type Scheduler struct {
	store    store.UserStore
	events   CollectionSource
	notifier Notifier
	step     int
	zone     *time.Location

	now func() time.Time
}

// NewScheduler wires the scheduler. stepMinutes is the tick granularity
// (already clamped by configuration), zone the district default timezone.
func NewScheduler(userStore store.UserStore, events CollectionSource, notifier Notifier, stepMinutes int, zone *time.Location) *Scheduler {
	return &Scheduler{
		store:    userStore,
		events:   events,
		notifier: notifier,
		step:     stepMinutes,
		zone:     zone,
		now:      time.Now,
	}
}

// Run fires ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	logx.Info("Reminder scheduler started", "step_minutes", s.step)

	ticker := time.NewTicker(time.Duration(s.step) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logx.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick processes the full user list once.
func (s *Scheduler) Tick(ctx context.Context) {
	tickID := uuid.NewString()
	metrics.SchedulerTicks.Inc()

	users, err := s.store.List(ctx)
	if err != nil {
		logx.Error(err, "Failed to list users for reminder tick", "tick_id", tickID)
		return
	}

	now := s.now().UTC()
	nowMinutes := now.Hour()*60 + now.Minute()

	due := 0
	for _, u := range users {
		if u.ReminderAt == nil {
			continue
		}

		target := u.ReminderAt.UTC()
		targetMinutes := target.Hour()*60 + target.Minute()

		diff := nowMinutes - targetMinutes
		if diff < 0 {
			diff = -diff
		}
		if diff >= s.step {
			continue
		}

		due++
		s.remind(ctx, u, tickID)
	}

	logx.Debug("Reminder tick completed", "tick_id", tickID, "users", len(users), "due", due)
}

// remind fetches tomorrow's collection for one due user and notifies them when
// anything is collected. Failures are logged and swallowed.
func (s *Scheduler) remind(ctx context.Context, u *user.User, tickID string) {
	if !u.Resolved() {
		logx.Warn("Skipping reminder for user with unresolved address", "tick_id", tickID, "user_id", u.ID)
		return
	}

	zone := u.Zone(s.zone)
	local := s.now().In(zone)
	tomorrow := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone).AddDate(0, 0, 1)

	collection, err := s.events.NextCollection(ctx, u, waste.KnownCategories(), &tomorrow)
	if err != nil {
		if errs.HasCode(err, errs.ErrNoUpcomingEvents) {
			return
		}
		logx.Error(err, "Failed to fetch collection for reminder", "tick_id", tickID, "user_id", u.ID)
		metrics.ReminderFailures.Inc()
		return
	}

	if len(collection.Categories) == 0 {
		return
	}

	if err := s.notifier.Notify(ctx, u.ID, collection); err != nil {
		logx.Error(err, "Failed to deliver reminder notification", "tick_id", tickID, "user_id", u.ID)
		metrics.ReminderFailures.Inc()
		return
	}

	metrics.RemindersDispatched.Inc()
}
