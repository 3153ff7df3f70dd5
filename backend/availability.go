package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"astraguru/models"
)

type wireSlot struct {
	StartHour       int `json:"start_hour"`
	StartMinute     int `json:"start_minute"`
	DurationMinutes int `json:"duration_minutes"`
}

// GetAvailability fetches the open slots for a guru on a single date.
func (c *Client) GetAvailability(ctx context.Context, guruID, date string) ([]models.TimeSlot, error) {
	query := url.Values{}
	query.Set("guruId", guruID)
	query.Set("from", date)
	query.Set("to", date)

	status, data, err := c.do(ctx, http.MethodGet, "/availability?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("availability fetch failed with status %d", status)
	}

	var raw []wireSlot
	if err := decode(data, &raw); err != nil {
		return nil, err
	}

	slots := make([]models.TimeSlot, 0, len(raw))
	for _, s := range raw {
		slots = append(slots, models.TimeSlot{
			GuruID:          guruID,
			Date:            date,
			StartHour:       s.StartHour,
			StartMinute:     s.StartMinute,
			DurationMinutes: s.DurationMinutes,
		})
	}
	return slots, nil
}
