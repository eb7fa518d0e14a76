package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopchat/backend/internal/domain"
)

// ProfileService keeps per-session preference profiles in the cache store
type ProfileService struct {
	cache     domain.CacheRepository
	retention time.Duration
	now       func() time.Time
}

// NewProfileService creates a profile service. Zero retention keeps profiles for 30 days.
func NewProfileService(cache domain.CacheRepository, retention time.Duration) *ProfileService {
	if retention <= 0 {
		retention = 720 * time.Hour
	}
	return &ProfileService{
		cache:     cache,
		retention: retention,
		now:       time.Now,
	}
}

func profileKey(sessionID string) string {
	return "profile:" + sessionID
}

// Get returns the stored profile, creating and saving the default one on first sight
func (s *ProfileService) Get(ctx context.Context, sessionID string) (*domain.UserProfile, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidRequest
	}

	data, err := s.cache.Get(ctx, profileKey(sessionID))
	if err == nil {
		var profile domain.UserProfile
		if jsonErr := json.Unmarshal(data, &profile); jsonErr == nil {
			return &profile, nil
		}
		// Unreadable entries are replaced by a fresh profile
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		return nil, err
	}

	profile := domain.NewUserProfile(sessionID, s.now())
	if err := s.save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update applies the signals from one turn. Read-modify-write without locking:
// concurrent updates to one session may lose an interaction entry.
func (s *ProfileService) Update(ctx context.Context, sessionID string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	profile, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	intent := update.Intent
	if intent == "" {
		intent = domain.Unknown
	}

	profile.InteractionLog = append(profile.InteractionLog, domain.Interaction{
		Timestamp:    now,
		Intent:       intent,
		Satisfaction: update.Satisfaction,
	})
	if n := len(profile.InteractionLog); n > domain.MaxInteractionLog {
		profile.InteractionLog = profile.InteractionLog[n-domain.MaxInteractionLog:]
	}

	if update.CategoryPreference != "" {
		profile.Preferences.Categories = appendUnique(profile.Preferences.Categories, update.CategoryPreference)
		profile.PreferredCategories = appendUnique(profile.PreferredCategories, update.CategoryPreference)
	}

	if update.BudgetRange.Known() {
		profile.BudgetRange = update.BudgetRange
	}

	profile.LastInteraction = now

	if err := s.save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) save(ctx context.Context, profile *domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.cache.Set(ctx, profileKey(profile.SessionID), data, s.retention)
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
