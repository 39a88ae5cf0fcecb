package reminder

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
)

func newTestService(step int, zone *time.Location) *Service {
	svc := NewService(step, zone)
	svc.now = func() time.Time {
		// A winter date, so Europe/Berlin is at a fixed UTC+1 offset.
		return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSetQuantizesToTickGrid(t *testing.T) {
	cases := []struct {
		step   int
		input  string
		wantHH int
		wantMM int
	}{
		{5, "08:00", 8, 0},
		{5, "08:02", 8, 0},
		{5, "08:03", 8, 5},
		{10, "08:04", 8, 0},
		{10, "08:05", 8, 10}, // tie rounds up
		{15, "08:53", 9, 0},  // 53 mod 15 = 8 > 7, rounds up and carries
		{30, "23:45", 0, 0},  // carries over midnight into the next day
		{1, "13:37", 13, 37},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("step%d_%s", tc.step, tc.input), func(t *testing.T) {
			svc := newTestService(tc.step, time.UTC)
			u := user.New(1, "UTC")

			require.NoError(t, svc.Set(u, tc.input))
			require.NotNil(t, u.ReminderAt)

			stored := u.ReminderAt.UTC()
			assert.Equal(t, tc.wantHH, stored.Hour())
			assert.Equal(t, tc.wantMM, stored.Minute())
		})
	}
}

func TestSetNeverProducesInvalidClockTime(t *testing.T) {
	svc := newTestService(5, time.UTC)

	for hh := 0; hh <= 24; hh++ {
		for mm := 0; mm <= 59; mm++ {
			u := user.New(1, "UTC")
			require.NoError(t, svc.Set(u, fmt.Sprintf("%02d:%02d", hh, mm)))
			require.NotNil(t, u.ReminderAt)

			stored := u.ReminderAt.UTC()
			assert.Zero(t, stored.Minute()%5, "minute must lie on the tick grid")
			assert.GreaterOrEqual(t, stored.Minute(), 0)
			assert.Less(t, stored.Minute(), 60)
		}
	}
}

func TestSetRejectsMalformedInput(t *testing.T) {
	svc := newTestService(5, time.UTC)

	for _, input := range []string{"8", "ab:cd", "08:xx", "25:00", "-1:30", "08:60", "08:-5", "0800"} {
		u := user.New(1, "UTC")
		err := svc.Set(u, input)
		require.Error(t, err, "input %q", input)
		assert.True(t, errs.HasCode(err, errs.ErrInvalidReminderTime), "input %q", input)
		assert.Nil(t, u.ReminderAt)
	}
}

func TestSetEmptyInputClearsReminder(t *testing.T) {
	svc := newTestService(5, time.UTC)
	u := user.New(1, "UTC")

	require.NoError(t, svc.Set(u, "08:00"))
	require.NotNil(t, u.ReminderAt)

	require.NoError(t, svc.Set(u, ""))
	assert.Nil(t, u.ReminderAt)
}

func TestSetAnchorsToUserTimezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	svc := newTestService(5, berlin)
	u := user.New(1, "Europe/Berlin")

	require.NoError(t, svc.Set(u, "08:00"))
	require.NotNil(t, u.ReminderAt)

	// 08:00 Berlin winter time is 07:00 UTC.
	stored := u.ReminderAt.UTC()
	assert.Equal(t, 7, stored.Hour())
	assert.Zero(t, stored.Minute())
}
