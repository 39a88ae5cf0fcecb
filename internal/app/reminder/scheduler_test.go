package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/app/waste"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
)

type listStore struct {
	users []*user.User
}

func (s *listStore) Get(ctx context.Context, id int64) (*user.User, error) { return nil, nil }
func (s *listStore) List(ctx context.Context) ([]*user.User, error)        { return s.users, nil }
func (s *listStore) Create(ctx context.Context, u *user.User) error        { return nil }
func (s *listStore) Delete(ctx context.Context, id int64) error            { return nil }
func (s *listStore) Save(ctx context.Context, u *user.User) error          { return nil }

type fakeSource struct {
	collections map[int64]waste.Collection
	failures    map[int64]error

	queried  []int64
	lastRefs map[int64]time.Time
}

func (f *fakeSource) NextCollection(ctx context.Context, u *user.User, categories []waste.Category, referenceDate *time.Time) (waste.Collection, error) {
	f.queried = append(f.queried, u.ID)
	if f.lastRefs == nil {
		f.lastRefs = make(map[int64]time.Time)
	}
	if referenceDate != nil {
		f.lastRefs[u.ID] = *referenceDate
	}
	if err, ok := f.failures[u.ID]; ok {
		return waste.Collection{}, err
	}
	return f.collections[u.ID], nil
}

type fakeNotifier struct {
	notified map[int64]waste.Collection
}

func (f *fakeNotifier) Notify(ctx context.Context, userID int64, collection waste.Collection) error {
	if f.notified == nil {
		f.notified = make(map[int64]waste.Collection)
	}
	f.notified[userID] = collection
	return nil
}

// remindedUser builds a resolved user whose reminder fires at the given UTC time-of-day.
func remindedUser(id int64, hour, minute int) *user.User {
	u := user.New(id, "UTC")
	u.SetCity("Aachen")
	u.SetStreet("Jülicher Straße")
	u.SetStreetNumber("12", 1111)
	at := time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
	u.ReminderAt = &at
	return u
}

func newTestScheduler(st *listStore, source *fakeSource, notifier *fakeNotifier, step int, now time.Time) *Scheduler {
	s := NewScheduler(st, source, notifier, step, time.UTC)
	s.now = func() time.Time { return now }
	return s
}

func tickAt(hour, minute int) time.Time {
	return time.Date(2024, 3, 1, hour, minute, 0, 0, time.UTC)
}

func TestTickNotifiesDueUser(t *testing.T) {
	u := remindedUser(1, 8, 0)
	collection := waste.Collection{Date: tickAt(0, 0).AddDate(0, 0, 1), Categories: []string{"Restmüll"}}
	source := &fakeSource{collections: map[int64]waste.Collection{1: collection}}
	notifier := &fakeNotifier{}

	// |478 - 480| = 2 < 5: due.
	s := newTestScheduler(&listStore{users: []*user.User{u}}, source, notifier, 5, tickAt(7, 58))
	s.Tick(context.Background())

	require.Contains(t, notifier.notified, int64(1))
	assert.Equal(t, collection, notifier.notified[1])

	// The lookup must target tomorrow.
	require.Contains(t, source.lastRefs, int64(1))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), source.lastRefs[1])
}

func TestTickSkipsUserOutsideDueWindow(t *testing.T) {
	u := remindedUser(1, 8, 0)
	source := &fakeSource{}
	notifier := &fakeNotifier{}

	// |470 - 480| = 10 >= 5: not due.
	s := newTestScheduler(&listStore{users: []*user.User{u}}, source, notifier, 5, tickAt(7, 50))
	s.Tick(context.Background())

	assert.Empty(t, source.queried)
	assert.Empty(t, notifier.notified)
}

func TestTickSkipsUsersWithoutReminder(t *testing.T) {
	u := remindedUser(1, 8, 0)
	u.ReminderAt = nil
	source := &fakeSource{}
	notifier := &fakeNotifier{}

	s := newTestScheduler(&listStore{users: []*user.User{u}}, source, notifier, 5, tickAt(8, 0))
	s.Tick(context.Background())

	assert.Empty(t, source.queried)
	assert.Empty(t, notifier.notified)
}

func TestTickDispatchesNothingOnQuietDay(t *testing.T) {
	u := remindedUser(1, 8, 0)
	source := &fakeSource{collections: map[int64]waste.Collection{
		1: {Date: tickAt(0, 0).AddDate(0, 0, 1), Categories: []string{}},
	}}
	notifier := &fakeNotifier{}

	s := newTestScheduler(&listStore{users: []*user.User{u}}, source, notifier, 5, tickAt(8, 0))
	s.Tick(context.Background())

	assert.Len(t, source.queried, 1)
	assert.Empty(t, notifier.notified)
}

func TestTickIsolatesPerUserFailures(t *testing.T) {
	broken := remindedUser(1, 8, 0)
	healthy := remindedUser(2, 8, 0)
	collection := waste.Collection{Date: tickAt(0, 0).AddDate(0, 0, 1), Categories: []string{"Papiermüll"}}

	source := &fakeSource{
		collections: map[int64]waste.Collection{2: collection},
		failures:    map[int64]error{1: errs.NewError(errs.ErrInvalidResponse)},
	}
	notifier := &fakeNotifier{}

	s := newTestScheduler(&listStore{users: []*user.User{broken, healthy}}, source, notifier, 5, tickAt(8, 0))
	s.Tick(context.Background())

	assert.Equal(t, []int64{1, 2}, source.queried, "a failing user must not abort the rest")
	require.Contains(t, notifier.notified, int64(2))
	assert.NotContains(t, notifier.notified, int64(1))
}

func TestTickSkipsUnresolvedUsers(t *testing.T) {
	u := user.New(1, "UTC")
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	u.ReminderAt = &at
	source := &fakeSource{}
	notifier := &fakeNotifier{}

	s := newTestScheduler(&listStore{users: []*user.User{u}}, source, notifier, 5, tickAt(8, 0))
	s.Tick(context.Background())

	assert.Empty(t, source.queried)
	assert.Empty(t, notifier.notified)
}
