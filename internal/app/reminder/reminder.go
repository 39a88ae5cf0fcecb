/*
Package reminder implements the daily collection reminder: quantizing
user-submitted reminder times onto the scheduler's tick grid and the periodic
scheduler that notifies users the day before a collection.
*/
package reminder

import (
	"strconv"
	"strings"
	"time"

	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
)

// Service validates and quantizes reminder times. The step is the scheduler
// tick granularity in minutes; a stored reminder time always lies on a multiple
// of it so every reminder falls within exactly one tick's due window.
type Service struct {
	step int
	zone *time.Location

	now func() time.Time
}

// NewService creates a reminder service for the given tick step (minutes,
// already clamped by configuration) and district default timezone.
func NewService(stepMinutes int, zone *time.Location) *Service {
	return &Service{
		step: stepMinutes,
		zone: zone,
		now:  time.Now,
	}
}

// Set parses input as "hh:mm", quantizes it to the tick grid, and stores it on
// the user as an absolute UTC instant anchored to today in the user's timezone.
// The instant represents a recurring daily time; the scheduler only reads its
// hour and minute. An empty input clears the reminder.
//
// The caller persists the user afterwards.
func (s *Service) Set(u *user.User, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		u.ReminderAt = nil
		return nil
	}

	hour, minute, err := parseClockTime(input)
	if err != nil {
		return err
	}

	hour, minute = quantize(hour, minute, s.step)

	zone := u.Zone(s.zone)
	local := s.now().In(zone)
	// time.Date normalizes an overflowing hour (e.g. 24:00) into the next day.
	at := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, zone).UTC()
	u.ReminderAt = &at

	return nil
}

// parseClockTime parses "hh:mm" with 0 <= hh <= 24 and 0 <= mm <= 59.
func parseClockTime(input string) (hour, minute int, err error) {
	parts := strings.SplitN(input, ":", 2)
	if len(parts) != 2 {
		return 0, 0, errs.NewError(errs.ErrInvalidReminderTime)
	}

	hour, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, errs.NewError(errs.ErrInvalidReminderTime)
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, errs.NewError(errs.ErrInvalidReminderTime)
	}

	if hour < 0 || hour > 24 || minute < 0 || minute > 59 {
		return 0, 0, errs.NewError(errs.ErrInvalidReminderTime)
	}
	return hour, minute, nil
}

// quantize rounds the minute to the nearest multiple of step, ties rounding up,
// carrying an overflowing minute into the hour.
func quantize(hour, minute, step int) (int, int) {
	rem := minute % step
	if rem*2 >= step {
		minute += step - rem
	} else {
		minute -= rem
	}
	if minute >= 60 {
		minute -= 60
		hour++
	}
	return hour, minute
}
