package service

import (
	"context"
	"strings"
	"time"

	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/mapper"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/session"
	"commercial-hub-be/internal/store"
	"commercial-hub-be/pkg/querycache"

	"github.com/gofiber/fiber/v2"
)

const profilesQuery = "profiles"

type IProfileService interface {
	List(ctx context.Context) ([]dto.ProfileResponse, error)
	GetOrCreate(ctx context.Context, identity entity.Identity) (*dto.ProfileResponse, error)
	UpdateMood(ctx context.Context, identity entity.Identity, req *dto.UpdateMoodRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	client store.Client
	cache  *querycache.Cache
	logger logger.ILogger
}

func NewProfileService(client store.Client, cache *querycache.Cache, log logger.ILogger) (IProfileService, error) {
	s := &profileService{
		client: client,
		cache:  cache,
		logger: log,
	}
	err := cache.Register(profilesQuery, store.CollectionProfiles, func(ctx context.Context) (interface{}, error) {
		return client.SelectProfiles(ctx)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns the team mood board, freshest update first.
func (s *profileService) List(ctx context.Context) ([]dto.ProfileResponse, error) {
	profiles, err := querycache.GetAs[[]*entity.Profile](ctx, s.cache, profilesQuery)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		res = append(res, mapper.ProfileToResponse(profile))
	}
	return res, nil
}

// GetOrCreate resolves the caller's profile, creating it on first sign-in.
func (s *profileService) GetOrCreate(ctx context.Context, identity entity.Identity) (*dto.ProfileResponse, error) {
	profile, err := session.ResolveProfile(ctx, s.client, identity)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "profile could not be resolved")
	}
	res := mapper.ProfileToResponse(profile)
	return &res, nil
}

// UpdateMood writes the caller's mood symbol. Free text within reason; an
// empty value resets to the default.
func (s *profileService) UpdateMood(ctx context.Context, identity entity.Identity, req *dto.UpdateMoodRequest) (*dto.ProfileResponse, error) {
	profile, err := session.ResolveProfile(ctx, s.client, identity)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "profile could not be resolved")
	}

	mood := strings.TrimSpace(req.MoodStatus)
	if mood == "" {
		mood = entity.MoodDefault
	}

	now := time.Now()
	profile.MoodStatus = mood
	profile.UpdatedAt = &now
	if err := s.client.UpsertProfile(ctx, profile); err != nil {
		return nil, &entity.SaveError{Err: err}
	}
	s.cache.Invalidate(profilesQuery)

	s.logger.Info("ProfileService", "Mood updated", map[string]interface{}{
		"user_id": identity.Id.String(),
		"mood":    mood,
	})

	res := mapper.ProfileToResponse(profile)
	return &res, nil
}
