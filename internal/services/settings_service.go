package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/repository"
)

var ErrInvalidSettings = errors.New("invalid settings")

// SettingsService resolves platform settings as defaults, then the settings
// file, then the admin overrides stored in the database.
type SettingsService struct {
	store repository.Store
	file  config.SettingsPatch
}

func NewSettingsService(store repository.Store, file config.SettingsPatch) *SettingsService {
	return &SettingsService{store: store, file: file}
}

func (s *SettingsService) Current(ctx context.Context) (config.PlatformSettings, error) {
	overrides, err := s.store.Settings().Load(ctx)
	if err != nil {
		return config.PlatformSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s.resolve(overrides), nil
}

func (s *SettingsService) resolve(overrides config.SettingsPatch) config.PlatformSettings {
	return config.DefaultSettings().Apply(s.file).Apply(overrides)
}

// Update merges patch into the stored overrides. The merged result must
// validate before anything is written.
func (s *SettingsService) Update(ctx context.Context, adminID uuid.UUID, patch config.SettingsPatch) (config.PlatformSettings, error) {
	stored, err := s.store.Settings().Load(ctx)
	if err != nil {
		return config.PlatformSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	merged := stored.Merge(patch)
	resolved := s.resolve(merged)
	if err := resolved.Validate(); err != nil {
		return config.PlatformSettings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	if err := s.store.Settings().Save(ctx, merged, &adminID); err != nil {
		return config.PlatformSettings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return resolved, nil
}
