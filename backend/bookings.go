package backend

import (
	"context"
	"fmt"
	"net/http"

	"astraguru/models"
)

// BookingRequest is the fully-specified payload for POST /bookings.
type BookingRequest struct {
	UserID             string `json:"userId"`
	GuruID             string `json:"guruId"`
	ConsultationTypeID string `json:"consultationTypeId"`
	BookingDate        string `json:"bookingDate"`
	StartHour          int    `json:"startHour"`
	StartMinute        int    `json:"startMinute"`
	DurationMinutes    int    `json:"durationMinutes"`
}

// NewCreditBalance is a pointer because rejections carry no user block at
// all; only a successful booking reports the new balance.
type bookingEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Booking models.Booking `json:"booking"`
	User    struct {
		NewCreditBalance *int `json:"newCreditBalance"`
	} `json:"user"`
}

// CreateBooking books a slot. The returned balance is authoritative and
// replaces whatever the client had.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (models.Booking, int, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/bookings", req)
	if err != nil {
		return models.Booking{}, 0, err
	}

	switch status {
	case http.StatusConflict:
		return models.Booking{}, 0, &SlotConflictError{GuruID: req.GuruID, Date: req.BookingDate}
	case http.StatusNotFound:
		return models.Booking{}, 0, &UserNotFoundError{UserID: req.UserID}
	}

	var env bookingEnvelope
	if err := decode(data, &env); err != nil {
		return models.Booking{}, 0, err
	}
	if !env.Success {
		if status == http.StatusPaymentRequired {
			insufficient := &InsufficientCreditsError{}
			if env.User.NewCreditBalance != nil {
				insufficient.CurrentCredits = *env.User.NewCreditBalance
				insufficient.HasBalance = true
			}
			return models.Booking{}, 0, insufficient
		}
		return models.Booking{}, 0, fmt.Errorf("booking rejected: %s", env.Message)
	}
	if env.User.NewCreditBalance == nil {
		return models.Booking{}, 0, fmt.Errorf("booking response missing new balance")
	}
	return env.Booking, *env.User.NewCreditBalance, nil
}

type cancelRequest struct {
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

type cancelEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Booking struct {
		models.Booking
		CreditsRefunded int `json:"creditsRefunded"`
	} `json:"booking"`
}

// CancelBooking cancels a confirmed booking. The refund amount is the
// backend's decision; it is not necessarily the credits originally spent.
func (c *Client) CancelBooking(ctx context.Context, bookingID, userID, reason string) (models.Booking, int, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/bookings/"+bookingID+"/cancel", cancelRequest{
		UserID: userID,
		Reason: reason,
	})
	if err != nil {
		return models.Booking{}, 0, err
	}
	if status == http.StatusNotFound {
		return models.Booking{}, 0, fmt.Errorf("booking %s not found", bookingID)
	}

	var env cancelEnvelope
	if err := decode(data, &env); err != nil {
		return models.Booking{}, 0, err
	}
	if !env.Success {
		return models.Booking{}, 0, fmt.Errorf("cancellation rejected: %s", env.Message)
	}
	return env.Booking.Booking, env.Booking.CreditsRefunded, nil
}
