package bot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miscOS/telegram-garbage-bot/internal/app/reminder"
	"github.com/miscOS/telegram-garbage-bot/internal/app/store"
	"github.com/miscOS/telegram-garbage-bot/internal/app/waste"
)

// stubProvider serves one resolvable address (Aachen, Jülicher Straße 12,
// location 1111) and a fixed event list far in the future.
type stubProvider struct {
	events []waste.Event
}

func (p *stubProvider) Cities(ctx context.Context) ([]waste.City, error) {
	return []waste.City{{ID: 1, Name: "Aachen"}}, nil
}

func (p *stubProvider) Streets(ctx context.Context, cityID int64) ([]waste.Street, error) {
	return []waste.Street{{ID: 10, Name: "Jülicher Straße"}}, nil
}

func (p *stubProvider) StreetNumbers(ctx context.Context, streetID int64) ([]waste.StreetNumber, error) {
	return []waste.StreetNumber{{ID: 1111, Nr: "12"}}, nil
}

func (p *stubProvider) Events(ctx context.Context, locationID int64, categories []waste.Category) ([]waste.Event, error) {
	var out []waste.Event
	want := make(map[waste.Category]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	for _, event := range p.events {
		if len(categories) == 0 || want[event.Category] {
			out = append(out, event)
		}
	}
	return out, nil
}

func newTestBot(t *testing.T, provider *stubProvider) *Service {
	t.Helper()

	fileStore, err := store.NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	resolver := waste.NewResolver(provider)
	events := waste.NewEvents(provider, resolver, fileStore, berlin)
	reminders := reminder.NewService(5, berlin)

	return NewService(fileStore, resolver, events, reminders, "Europe/Berlin")
}

func TestConversationFlow(t *testing.T) {
	// Monday far in the future, so the collection is always upcoming.
	collectionDate := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	provider := &stubProvider{events: []waste.Event{
		{Date: collectionDate, Category: waste.CategoryPaper},
		{Date: collectionDate, Category: waste.CategoryResidual},
	}}
	svc := newTestBot(t, provider)
	ctx := context.Background()

	assert.Equal(t, msgRegistered, svc.HandleCommand(ctx, 42, "register", ""))
	assert.Equal(t, msgAskStreet, svc.HandleText(ctx, 42, "Aachen"))
	assert.Equal(t, msgAskStreetNumber, svc.HandleText(ctx, 42, "Jülicher Straße"))
	assert.Equal(t, msgSetupComplete, svc.HandleText(ctx, 42, "12"))

	reply := svc.HandleCommand(ctx, 42, "next", "")
	assert.Contains(t, reply, "Montag, 7. Januar 2030")
	assert.Contains(t, reply, "Papiermüll")
	assert.Contains(t, reply, "Restmüll")
}

func TestTextAfterSetupIsIgnored(t *testing.T) {
	svc := newTestBot(t, &stubProvider{})
	ctx := context.Background()

	svc.HandleCommand(ctx, 42, "register", "")
	svc.HandleText(ctx, 42, "Aachen")
	svc.HandleText(ctx, 42, "Jülicher Straße")
	svc.HandleText(ctx, 42, "12")

	assert.Empty(t, svc.HandleText(ctx, 42, "noch eine Nachricht"))
}

func TestTextFromUnregisteredChatIsIgnored(t *testing.T) {
	svc := newTestBot(t, &stubProvider{})

	assert.Empty(t, svc.HandleText(context.Background(), 42, "Aachen"))
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	svc := newTestBot(t, &stubProvider{})

	assert.Empty(t, svc.HandleCommand(context.Background(), 42, "weather", ""))
}

func TestRegisterTwice(t *testing.T) {
	svc := newTestBot(t, &stubProvider{})
	ctx := context.Background()

	svc.HandleCommand(ctx, 42, "register", "")
	reply := svc.HandleCommand(ctx, 42, "register", "")

	assert.Contains(t, reply, "bereits registriert")
}

func TestRemove(t *testing.T) {
	svc := newTestBot(t, &stubProvider{})
	ctx := context.Background()

	svc.HandleCommand(ctx, 42, "register", "")
	assert.Equal(t, msgRemoved, svc.HandleCommand(ctx, 42, "remove", ""))

	reply := svc.HandleCommand(ctx, 42, "remove", "")
	assert.Contains(t, reply, "noch nicht registriert")
}

func TestCronCommand(t *testing.T) {
	svc := newTestBot(t, &stubProvider{})
	ctx := context.Background()

	svc.HandleCommand(ctx, 42, "register", "")

	reply := svc.HandleCommand(ctx, 42, "cron", "08:03")
	assert.Contains(t, reply, "08:05", "the confirmed time is the quantized one")

	assert.Equal(t, msgReminderCleared, svc.HandleCommand(ctx, 42, "cron", ""))

	reply = svc.HandleCommand(ctx, 42, "cron", "morgens")
	assert.Contains(t, reply, "hh:mm")
}

func TestNextCommandBeforeSetupPrompts(t *testing.T) {
	svc := newTestBot(t, &stubProvider{})
	ctx := context.Background()

	svc.HandleCommand(ctx, 42, "register", "")
	assert.Equal(t, msgAskCity, svc.HandleCommand(ctx, 42, "next", ""))

	svc.HandleText(ctx, 42, "Aachen")
	assert.Equal(t, msgAskStreet, svc.HandleCommand(ctx, 42, "next", ""))
}

func TestSingleCategoryCommands(t *testing.T) {
	paperDate := time.Date(2030, 1, 8, 0, 0, 0, 0, time.UTC)
	provider := &stubProvider{events: []waste.Event{
		{Date: paperDate, Category: waste.CategoryPaper},
	}}
	svc := newTestBot(t, provider)
	ctx := context.Background()

	svc.HandleCommand(ctx, 42, "register", "")
	svc.HandleText(ctx, 42, "Aachen")
	svc.HandleText(ctx, 42, "Jülicher Straße")
	svc.HandleText(ctx, 42, "12")

	reply := svc.HandleCommand(ctx, 42, "paper", "")
	assert.Contains(t, reply, "Papiermüll")
	assert.Contains(t, reply, "Dienstag, 8. Januar 2030")

	reply = svc.HandleCommand(ctx, 42, "plastic", "")
	assert.Contains(t, reply, "keine anstehenden Abholtermine")
}
