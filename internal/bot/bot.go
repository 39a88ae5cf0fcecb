/*
Package bot contains the conversation layer: it maps chat commands and free-text
input to the resolver, event service, and reminder service, and phrases the
German replies. The Telegram transport lives in this package too but everything
user-visible goes through Service, which is transport-agnostic and returns
plain reply strings.
*/
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miscOS/telegram-garbage-bot/internal/app/reminder"
	"github.com/miscOS/telegram-garbage-bot/internal/app/store"
	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/app/waste"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/logx"
)

const (
	msgRegistered = "Ich habe einen Account für dich angelegt. Ich benötige noch deinen Wohnort.\n\nIn welcher Stadt wohnst du?"
	msgRemoved    = "Ich habe deine vorhandenen Daten gelöscht. Mit /register kannst du dich neu anmelden."

	msgAskCity         = "In welcher Stadt wohnst du?"
	msgAskStreet       = "In welcher Straße wohnst du?"
	msgAskStreetNumber = "Wie lautet deine Hausnummer?"
	msgSetupComplete   = "Einrichtung abgeschlossen. Mit /cron hh:mm kannst du die automatische Erinnerung einstellen."

	msgReminderCleared = "Ich habe deine Erinnerung gelöscht."
)

// Service handles one inbound chat message at a time and produces the reply
// text. An empty reply means "say nothing".
type Service struct {
	store     store.UserStore
	resolver  *waste.Resolver
	events    *waste.Events
	reminders *reminder.Service
	timezone  string
}

// NewService wires the conversation layer. timezone is the district default
// assigned to newly registered users.
func NewService(userStore store.UserStore, resolver *waste.Resolver, events *waste.Events, reminders *reminder.Service, timezone string) *Service {
	return &Service{
		store:     userStore,
		resolver:  resolver,
		events:    events,
		reminders: reminders,
		timezone:  timezone,
	}
}

// HandleCommand executes a slash command for the given chat and returns the
// reply. Unknown commands are ignored.
func (s *Service) HandleCommand(ctx context.Context, chatID int64, command, args string) string {
	switch command {
	case "register":
		return s.register(ctx, chatID)
	case "remove":
		return s.remove(ctx, chatID)
	case "cron":
		return s.setReminder(ctx, chatID, args)
	case "next":
		return s.nextCollection(ctx, chatID, []waste.Category{waste.CategoryPlastic, waste.CategoryPaper, waste.CategoryResidual})
	case "paper":
		return s.singleCollection(ctx, chatID, waste.CategoryPaper)
	case "plastic":
		return s.singleCollection(ctx, chatID, waste.CategoryPlastic)
	default:
		return ""
	}
}

// HandleText routes free-text input into the address dialog. Text from
// unregistered chats and from users whose address is already complete is
// ignored, matching the original conversation behavior.
func (s *Service) HandleText(ctx context.Context, chatID int64, text string) string {
	u, err := s.store.Get(ctx, chatID)
	if err != nil {
		if errs.HasCode(err, errs.ErrUserDoesNotExist) {
			return ""
		}
		return replyFor(err)
	}

	if u.Resolved() {
		return ""
	}

	if _, err := s.resolver.Advance(ctx, u, text); err != nil {
		return replyFor(err)
	}
	if err := s.store.Save(ctx, u); err != nil {
		return replyFor(err)
	}

	switch u.Stage() {
	case user.StageStreet:
		return msgAskStreet
	case user.StageStreetNumber:
		return msgAskStreetNumber
	default:
		return msgSetupComplete
	}
}

func (s *Service) register(ctx context.Context, chatID int64) string {
	u := user.New(chatID, s.timezone)
	if err := s.store.Create(ctx, u); err != nil {
		return replyFor(err)
	}
	logx.Info("Registered new user", "user_id", chatID)
	return msgRegistered
}

func (s *Service) remove(ctx context.Context, chatID int64) string {
	if err := s.store.Delete(ctx, chatID); err != nil {
		return replyFor(err)
	}
	logx.Info("Removed user", "user_id", chatID)
	return msgRemoved
}

func (s *Service) setReminder(ctx context.Context, chatID int64, args string) string {
	u, err := s.store.Get(ctx, chatID)
	if err != nil {
		return replyFor(err)
	}

	if err := s.reminders.Set(u, args); err != nil {
		return replyFor(err)
	}
	if err := s.store.Save(ctx, u); err != nil {
		return replyFor(err)
	}

	if u.ReminderAt == nil {
		return msgReminderCleared
	}

	local := u.ReminderAt.In(u.Zone(time.UTC))
	return fmt.Sprintf("Alles klar, ich erinnere dich täglich um %s Uhr an die Abholung am nächsten Tag.", local.Format("15:04"))
}

func (s *Service) nextCollection(ctx context.Context, chatID int64, categories []waste.Category) string {
	u, reply := s.resolvedUser(ctx, chatID)
	if reply != "" {
		return reply
	}

	collection, err := s.events.NextCollection(ctx, u, categories, nil)
	if err != nil {
		return replyFor(err)
	}

	return fmt.Sprintf(
		"Bei der Abholung am %s wird folgendes mitgenommen:\n ⋅ %s",
		formatLongDate(collection.Date),
		strings.Join(collection.Categories, "\n ⋅ "),
	)
}

func (s *Service) singleCollection(ctx context.Context, chatID int64, category waste.Category) string {
	u, reply := s.resolvedUser(ctx, chatID)
	if reply != "" {
		return reply
	}

	collection, err := s.events.NextCollection(ctx, u, []waste.Category{category}, nil)
	if err != nil {
		return replyFor(err)
	}
	if len(collection.Categories) == 0 {
		return replyFor(errs.NewError(errs.ErrNoUpcomingEvents))
	}

	return fmt.Sprintf("%s wird am %s abgeholt.", collection.Categories[0], formatLongDate(collection.Date))
}

// resolvedUser loads the user and, when the address is still incomplete,
// returns the prompt for the current resolution stage instead.
func (s *Service) resolvedUser(ctx context.Context, chatID int64) (*user.User, string) {
	u, err := s.store.Get(ctx, chatID)
	if err != nil {
		return nil, replyFor(err)
	}

	switch u.Stage() {
	case user.StageCity:
		return nil, msgAskCity
	case user.StageStreet:
		return nil, msgAskStreet
	case user.StageStreetNumber:
		return nil, msgAskStreetNumber
	case user.StageLocation:
		// Address strings are known but the location id is missing, e.g. after
		// loading a legacy user file. Derive it on the fly.
		if err := s.resolver.Rederive(ctx, u); err != nil {
			return nil, replyFor(err)
		}
		if err := s.store.Save(ctx, u); err != nil {
			return nil, replyFor(err)
		}
	}
	return u, ""
}

// replyFor turns any error into the reply text shown to the user. CustomError
// messages are user-facing German already; everything else collapses into the
// generic unknown-error reply.
func replyFor(err error) string {
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		return customErr.Message
	}
	return errs.NewError(errs.ErrUnknown, err).Message
}
