// Package settings synchronizes user preferences with the backend. Changes
// apply optimistically for UI responsiveness; a failed update is resolved by
// refetching the authoritative settings and overwriting the optimistic copy.
package settings

import (
	"context"

	"astraguru/backend"
	"astraguru/models"
	"astraguru/utils"

	"go.uber.org/zap"
)

// SessionSettings is the slice of the session store this service writes.
type SessionSettings interface {
	Get(ctx context.Context, userID string) (*models.UserSession, error)
	SetSettings(ctx context.Context, userID string, settings models.UserSettings) error
}

// SettingsService reconciles optimistic preference changes with the backend.
type SettingsService interface {
	Update(ctx context.Context, userID string, settings models.UserSettings) (models.UserSettings, error)
	Fetch(ctx context.Context, userID string) (models.UserSettings, error)
	Seed(ctx context.Context, userID string, settings models.UserSettings) error
}

// InvalidSettingError is a pre-flight validation failure; nothing is sent to
// the backend and nothing is applied locally.
type InvalidSettingError struct {
	Field string
	Value string
}

func (e *InvalidSettingError) Error() string {
	return "invalid setting " + e.Field + ": " + e.Value
}

// DefaultSettingsService implements SettingsService.
type DefaultSettingsService struct {
	API      backend.SettingsAPI
	Sessions SessionSettings
}

// Update applies the change locally first, then persists it. On a backend
// failure the authoritative settings are refetched and overwrite the
// optimistic value, discarding the change.
func (s *DefaultSettingsService) Update(ctx context.Context, userID string, settings models.UserSettings) (models.UserSettings, error) {
	if !settings.Language.Valid() {
		return models.UserSettings{}, &InvalidSettingError{Field: "language", Value: string(settings.Language)}
	}
	if !settings.ResponseLength.Valid() {
		return models.UserSettings{}, &InvalidSettingError{Field: "responseLength", Value: string(settings.ResponseLength)}
	}

	if err := s.Sessions.SetSettings(ctx, userID, settings); err != nil {
		return models.UserSettings{}, err
	}

	if err := s.API.UpdateSettings(ctx, userID, settings); err != nil {
		authoritative, ferr := s.API.GetSettings(ctx, userID)
		if ferr != nil {
			utils.GetLogger().Error("failed to refetch settings after rejected update",
				zap.String("userID", userID), zap.Error(ferr))
			return models.UserSettings{}, err
		}
		if serr := s.Sessions.SetSettings(ctx, userID, authoritative); serr != nil {
			utils.GetLogger().Error("failed to restore authoritative settings",
				zap.String("userID", userID), zap.Error(serr))
		}
		return authoritative, err
	}
	return settings, nil
}

// Fetch loads the authoritative settings and overwrites the local copy.
// This is the only settings read path; login payloads are just a seed.
func (s *DefaultSettingsService) Fetch(ctx context.Context, userID string) (models.UserSettings, error) {
	settings, err := s.API.GetSettings(ctx, userID)
	if err != nil {
		return models.UserSettings{}, err
	}
	if err := s.Sessions.SetSettings(ctx, userID, settings); err != nil {
		return models.UserSettings{}, err
	}
	return settings, nil
}

// Seed stores the transient settings carried by a login payload. It never
// supersedes a fetch.
func (s *DefaultSettingsService) Seed(ctx context.Context, userID string, settings models.UserSettings) error {
	return s.Sessions.SetSettings(ctx, userID, settings.Normalized())
}
