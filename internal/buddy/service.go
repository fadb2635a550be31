// Service layer of the internal package buddy.

package buddy

import (
	"context"
	"strings"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/pkg/log"
	"github.com/jackpalacios/jackstatz/pkg/validations"
)

// Service layer of internal package buddy which encapsulates the sports buddy roster of JackStatz.
type Service interface {
	// Whole roster, readOnly is set when sign ups are refused.
	listbuddies(context.Context) ([]entity.Buddy, bool, error)
	// Roster narrowed down by sport, location and age range.
	searchbuddies(context.Context, entity.BuddyFilter) ([]entity.Buddy, bool, error)
	// Validates and saves a new buddy.
	addbuddy(context.Context, entity.BuddyForm) (entity.Buddy, error)
}

type service struct {
	store  store.Store
	logger log.Logger
}

func NewService(buddyStore store.Store, logger log.Logger) Service {
	validations.RegisterCustomValidations()
	return service{store: buddyStore, logger: logger}
}

func (s service) listbuddies(ctx context.Context) ([]entity.Buddy, bool, error) {
	buddies, dberr := s.store.ListBuddies(ctx)
	if dberr != nil {
		s.logger.WithCtx(ctx).Error().Err(dberr).Msg("Couldn't list buddies")
		return nil, false, errors.InternalServerError("Couldn't load the buddy list.")
	}
	return buddies, !s.store.Available(), nil
}

func (s service) searchbuddies(ctx context.Context, filter entity.BuddyFilter) ([]entity.Buddy, bool, error) {
	lo, hi, ranged, valerr := ageBounds(filter)
	if valerr != nil {
		return nil, !s.store.Available(), valerr
	}
	buddies, readOnly, err := s.listbuddies(ctx)
	if err != nil {
		return nil, readOnly, err
	}

	sport := strings.ToLower(strings.TrimSpace(filter.Sport))
	location := strings.ToLower(strings.TrimSpace(filter.Location))
	matched := make([]entity.Buddy, 0, len(buddies))
	for _, b := range buddies {
		if sport != "" && !strings.Contains(strings.ToLower(b.Sport), sport) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(b.Location), location) {
			continue
		}
		if ranged && (b.Age < lo || b.Age > hi) {
			continue
		}
		matched = append(matched, b)
	}
	return matched, readOnly, nil
}

func (s service) addbuddy(ctx context.Context, form entity.BuddyForm) (entity.Buddy, error) {
	buddy, valerr := buddyFromForm(form)
	if valerr != nil {
		return entity.Buddy{}, valerr
	}
	if !s.store.Available() {
		return entity.Buddy{}, errors.ServiceUnavailable("Sign ups are closed while the datastore is unavailable.")
	}
	saved, dberr := s.store.AddBuddy(ctx, buddy)
	if dberr != nil {
		s.logger.WithCtx(ctx).Error().Err(dberr).Str("name", buddy.Name).Msg("Couldn't save buddy")
		return entity.Buddy{}, errors.InternalServerError("Couldn't save the buddy.")
	}
	s.logger.WithCtx(ctx).Info().Int64("id", saved.ID).Msg("Buddy signed up")
	return saved, nil
}
