package waste

import (
	"context"
	"strings"

	"github.com/miscOS/telegram-garbage-bot/internal/app/user"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/errs"
)

// Resolver advances a user's address resolution by exactly one stage per call.
//
// Matching against the upstream lists is exact and case-insensitive; when the
// upstream holds several entries with the same canonical name, the first match
// in provider order wins and no ambiguity is reported. The resolver never
// persists the user, callers Save after a mutating advance.
type Resolver struct {
	provider Provider
}

// NewResolver creates a resolver on top of the given provider.
func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Advance resolves the user's next unresolved stage from input and reports
// which stage was completed. On a failed lookup the user is left unmutated so
// the conversation can re-prompt for corrected input.
//
// When all address strings are set but the location id is missing, Advance
// re-derives the id from the stored strings without consuming input. A fully
// resolved user is a no-op success with zero provider calls.
func (r *Resolver) Advance(ctx context.Context, u *user.User, input string) (user.Stage, error) {
	stage := u.Stage()

	switch stage {
	case user.StageCity:
		city, err := r.findCity(ctx, input)
		if err != nil {
			return stage, err
		}
		u.SetCity(city.Name)

	case user.StageStreet:
		city, err := r.findCity(ctx, u.City)
		if err != nil {
			return stage, err
		}
		street, err := r.findStreet(ctx, city.ID, input)
		if err != nil {
			return stage, err
		}
		u.SetStreet(street.Name)

	case user.StageStreetNumber:
		number, err := r.walkToStreetNumber(ctx, u, input)
		if err != nil {
			return stage, err
		}
		u.SetStreetNumber(number.Nr, number.ID)

	case user.StageLocation:
		if err := r.Rederive(ctx, u); err != nil {
			return stage, err
		}
	}

	return stage, nil
}

// Rederive re-runs the full city, street, street-number chain from the stored
// address strings and overwrites the location id. It is used when the upstream
// identifier has become stale between sessions. Lookup failures propagate
// unchanged, since they mean the stored address truly vanished upstream.
func (r *Resolver) Rederive(ctx context.Context, u *user.User) error {
	number, err := r.walkToStreetNumber(ctx, u, u.StreetNumber)
	if err != nil {
		return err
	}
	u.SetLocationID(number.ID)
	return nil
}

// walkToStreetNumber resolves the stored city and street, then looks up the
// given house number on that street.
func (r *Resolver) walkToStreetNumber(ctx context.Context, u *user.User, number string) (StreetNumber, error) {
	city, err := r.findCity(ctx, u.City)
	if err != nil {
		return StreetNumber{}, err
	}
	street, err := r.findStreet(ctx, city.ID, u.Street)
	if err != nil {
		return StreetNumber{}, err
	}
	return r.findStreetNumber(ctx, street.ID, number)
}

func (r *Resolver) findCity(ctx context.Context, name string) (City, error) {
	cities, err := r.provider.Cities(ctx)
	if err != nil {
		return City{}, err
	}
	for _, city := range cities {
		if strings.EqualFold(city.Name, name) {
			return city, nil
		}
	}
	return City{}, errs.NewError(errs.ErrCityNotFound, name)
}

func (r *Resolver) findStreet(ctx context.Context, cityID int64, name string) (Street, error) {
	streets, err := r.provider.Streets(ctx, cityID)
	if err != nil {
		return Street{}, err
	}
	for _, street := range streets {
		if strings.EqualFold(street.Name, name) {
			return street, nil
		}
	}
	return Street{}, errs.NewError(errs.ErrStreetNotFound, name)
}

func (r *Resolver) findStreetNumber(ctx context.Context, streetID int64, number string) (StreetNumber, error) {
	numbers, err := r.provider.StreetNumbers(ctx, streetID)
	if err != nil {
		return StreetNumber{}, err
	}
	for _, nr := range numbers {
		if strings.EqualFold(nr.Nr, number) {
			return nr, nil
		}
	}
	return StreetNumber{}, errs.NewError(errs.ErrStreetNumberNotFound, number)
}
