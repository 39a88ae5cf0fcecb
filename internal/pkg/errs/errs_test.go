package errs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorInterpolatesDetails(t *testing.T) {
	err := NewError(ErrCityNotFound, "Atlantis")

	assert.Equal(t, ErrCityNotFound, err.Code)
	assert.Contains(t, err.Message, `"Atlantis"`)
}

func TestNewErrorWithoutDetailsKeepsTemplate(t *testing.T) {
	err := NewError(ErrNoUpcomingEvents)

	assert.Equal(t, ErrNoUpcomingEvents, err.Code)
	assert.Equal(t, "Ich habe keine anstehenden Abholtermine für dich gefunden.", err.Message)
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	err := NewError(99999)

	assert.Equal(t, ErrUnknown, err.Code)
}

func TestErrorStringCarriesCode(t *testing.T) {
	err := NewError(ErrUserDoesNotExist)

	assert.Contains(t, err.Error(), fmt.Sprintf("%d", ErrUserDoesNotExist))
}

func TestHasCode(t *testing.T) {
	err := NewError(ErrInvalidResponse)

	assert.True(t, HasCode(err, ErrInvalidResponse))
	assert.False(t, HasCode(err, ErrUnknown))
	assert.False(t, HasCode(nil, ErrInvalidResponse))
	assert.False(t, HasCode(fmt.Errorf("plain error"), ErrInvalidResponse))
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("fetching events: %w", NewError(ErrInvalidResponse))

	require.Error(t, err)
	assert.True(t, HasCode(err, ErrInvalidResponse))
}
