package backend

import (
	"context"
	"fmt"
	"net/http"

	"astraguru/models"
)

type settingsEnvelope struct {
	Success  bool                `json:"success"`
	Error    string              `json:"error,omitempty"`
	Settings models.UserSettings `json:"settings"`
}

// GetSettings fetches the authoritative user preferences. This is the single
// settings-fetch path; login payloads only seed the local store.
func (c *Client) GetSettings(ctx context.Context, userID string) (models.UserSettings, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/settings/"+userID, nil)
	if err != nil {
		return models.UserSettings{}, err
	}
	if status == http.StatusNotFound {
		return models.UserSettings{}, &UserNotFoundError{UserID: userID}
	}

	var env settingsEnvelope
	if err := decode(data, &env); err != nil {
		return models.UserSettings{}, err
	}
	if !env.Success {
		return models.UserSettings{}, fmt.Errorf("settings fetch rejected: %s", env.Error)
	}
	return env.Settings.Normalized(), nil
}

// UpdateSettings persists a preference change.
func (c *Client) UpdateSettings(ctx context.Context, userID string, settings models.UserSettings) error {
	status, data, err := c.do(ctx, http.MethodPatch, "/settings/"+userID, settings)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return &UserNotFoundError{UserID: userID}
	}

	var env settingsEnvelope
	if err := decode(data, &env); err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("settings update rejected: %s", env.Error)
	}
	return nil
}
