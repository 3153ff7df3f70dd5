package backend

import (
	"context"
	"fmt"
	"net/http"

	"astraguru/models"
	"astraguru/utils"
)

// ListGurus fetches the bookable gurus. Avatar colors are assigned locally
// so a guru always renders with the same palette entry.
func (c *Client) ListGurus(ctx context.Context) ([]models.Guru, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/gurus", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("guru listing failed with status %d", status)
	}

	var gurus []models.Guru
	if err := decode(data, &gurus); err != nil {
		return nil, err
	}
	for i := range gurus {
		gurus[i].Avatar = utils.AvatarFor(gurus[i].ID)
	}
	return gurus, nil
}

// GetConsultationTypes fetches a guru's offerings with durations and prices.
func (c *Client) GetConsultationTypes(ctx context.Context, guruID string) ([]models.ConsultationType, error) {
	status, data, err := c.do(ctx, http.MethodGet, "/gurus/"+guruID+"/consultations", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("guru %s not found", guruID)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("consultation type fetch failed with status %d", status)
	}

	var types []models.ConsultationType
	if err := decode(data, &types); err != nil {
		return nil, err
	}
	return types, nil
}
