package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/domain/providers"
	"github.com/villagehub/directory-backend/internal/domain/repositories"
	apperrors "github.com/villagehub/directory-backend/pkg/errors"
)

// ProfileService handles business logic for directory profiles. The search
// index and event bus are kept in sync best-effort: index failures are logged
// rather than failing the write (eventual consistency; the indexer reconciles).
type ProfileService struct {
	repo       repositories.ProfileRepository
	searchRepo repositories.ProfileSearchRepository
	events     providers.EventBus
}

// NewProfileService creates a new profile service
func NewProfileService(repo repositories.ProfileRepository, searchRepo repositories.ProfileSearchRepository, events providers.EventBus) *ProfileService {
	return &ProfileService{
		repo:       repo,
		searchRepo: searchRepo,
		events:     events,
	}
}

// Create creates a new profile, indexes it and publishes a change event
func (s *ProfileService) Create(ctx context.Context, profile *entities.Profile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return apperrors.NewValidationError("profile name is required")
	}

	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.Slug == "" {
		profile.Slug = Slugify(profile.Name)
	}
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.repo.Create(ctx, profile); err != nil {
		return err
	}

	s.syncIndex(ctx, profile)
	s.publish(ctx, profile.ID, entities.ProfileEventTypeCreated)
	return nil
}

// GetByID retrieves a profile by ID
func (s *ProfileService) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySlug retrieves a profile by its public slug
func (s *ProfileService) GetBySlug(ctx context.Context, slug string) (*entities.Profile, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Update updates a profile and its index entry
func (s *ProfileService) Update(ctx context.Context, profile *entities.Profile) error {
	if err := s.repo.Update(ctx, profile); err != nil {
		return err
	}

	s.syncIndex(ctx, profile)
	s.publish(ctx, profile.ID, entities.ProfileEventTypeUpdated)
	return nil
}

// Delete deletes a profile and removes it from the index
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("profile_id", id).Msg("failed to delete profile from index")
		}
	}
	s.publish(ctx, id, entities.ProfileEventTypeDeleted)
	return nil
}

// List retrieves profiles
func (s *ProfileService) List(ctx context.Context, filter repositories.ProfileFilter) ([]*entities.Profile, error) {
	return s.repo.List(ctx, filter)
}

func (s *ProfileService) syncIndex(ctx context.Context, profile *entities.Profile) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, profile); err != nil {
		log.Warn().Err(err).Str("profile_id", profile.ID).Msg("failed to index profile")
	}
}

func (s *ProfileService) publish(ctx context.Context, profileID string, eventType entities.ProfileEventType) {
	if s.events == nil {
		return
	}
	event := entities.NewProfileEvent(profileID, eventType)
	if err := s.events.Publish(ctx, providers.EventChannelProfileUpdates, event); err != nil {
		log.Warn().Err(err).Str("profile_id", profileID).Msg("failed to publish profile event")
	}
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a profile name
func Slugify(name string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
