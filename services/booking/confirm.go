package booking

import (
	"context"
	"errors"
	"time"

	"astraguru/backend"
	"astraguru/models"
	"astraguru/services/credit"
	"astraguru/utils"

	"go.uber.org/zap"
)

// Confirm submits the fully-specified booking. The credit pre-check runs
// first: an insufficient balance short-circuits to the purchase flow without
// touching the booking endpoint. A slot conflict drops the flow back to the
// date stage and force-refreshes availability so the stale slot disappears.
func (s *DefaultBookingFlowService) Confirm(ctx context.Context, flowID string) (*models.Booking, error) {
	logger := utils.GetLogger()

	flow, err := s.Flows.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if flow.Stage != models.StageSlotSelected {
		return nil, &FlowStateError{Stage: flow.Stage, Action: "confirm"}
	}
	if err := validateConfirmable(flow); err != nil {
		return nil, err
	}

	balance, err := s.Ledger.Balance(ctx, flow.UserID)
	if err != nil {
		return nil, err
	}
	if balance < flow.CreditsRequired {
		// The handler redirects to the purchase flow instead of calling the
		// booking endpoint.
		return nil, &backend.InsufficientCreditsError{
			CurrentCredits:  balance,
			RequiredCredits: flow.CreditsRequired,
			HasBalance:      true,
		}
	}

	flow.Stage = models.StageConfirming
	if err := s.Flows.Put(ctx, *flow); err != nil {
		return nil, err
	}

	booking, newBalance, err := s.API.CreateBooking(ctx, backend.BookingRequest{
		UserID:             flow.UserID,
		GuruID:             flow.GuruID,
		ConsultationTypeID: flow.ConsultationTypeID,
		BookingDate:        flow.Date,
		StartHour:          flow.Slot.StartHour,
		StartMinute:        flow.Slot.StartMinute,
		DurationMinutes:    flow.Slot.DurationMinutes,
	})
	if err != nil {
		return nil, s.handleConfirmFailure(ctx, flow, err)
	}

	if err := s.Ledger.Reconcile(ctx, flow.UserID, newBalance); err != nil {
		logger.Error("failed to store post-booking balance",
			zap.String("userID", flow.UserID), zap.Error(err))
	}
	if err := s.Availability.Invalidate(ctx, flow.GuruID, flow.Date); err != nil {
		logger.Warn("failed to invalidate availability after booking",
			zap.String("guruID", flow.GuruID), zap.String("date", flow.Date), zap.Error(err))
	}

	flow.Stage = models.StageBooked
	flow.BookingID = booking.ID
	if err := s.Flows.Put(ctx, *flow); err != nil {
		logger.Warn("failed to persist booked flow", zap.String("flowID", flow.FlowID), zap.Error(err))
	}

	s.journalBooking(ctx, booking)
	return &booking, nil
}

func (s *DefaultBookingFlowService) handleConfirmFailure(ctx context.Context, flow *models.BookingFlow, err error) error {
	logger := utils.GetLogger()

	var conflict *backend.SlotConflictError
	var insufficient *backend.InsufficientCreditsError
	switch {
	case errors.As(err, &conflict):
		// Another client won the slot. Drop back to date selection and
		// refetch so the consumed slot is gone from the next listing.
		flow.Stage = models.StageDateSelected
		flow.Slot = nil
		if perr := s.Flows.Put(ctx, *flow); perr != nil {
			logger.Warn("failed to persist conflicted flow", zap.String("flowID", flow.FlowID), zap.Error(perr))
		}
		if _, rerr := s.Availability.ForceRefresh(ctx, flow.GuruID, flow.Date); rerr != nil {
			logger.Warn("failed to refresh availability after conflict",
				zap.String("guruID", flow.GuruID), zap.String("date", flow.Date), zap.Error(rerr))
		}
	case errors.As(err, &insufficient):
		// The backend knew better than our cached balance. Trust a reported
		// balance; a bare rejection carries none, so refresh instead of
		// overwriting with a made-up value.
		if insufficient.HasBalance {
			if rerr := s.Ledger.Reconcile(ctx, flow.UserID, insufficient.CurrentCredits); rerr != nil {
				logger.Error("failed to reconcile balance after booking rejection",
					zap.String("userID", flow.UserID), zap.Error(rerr))
			}
		} else if refreshed, rerr := s.Ledger.Refresh(ctx, flow.UserID); rerr == nil {
			insufficient.CurrentCredits = refreshed
			insufficient.HasBalance = true
		} else {
			logger.Warn("failed to refresh balance after booking rejection",
				zap.String("userID", flow.UserID), zap.Error(rerr))
		}
		flow.Stage = models.StageSlotSelected
		if perr := s.Flows.Put(ctx, *flow); perr != nil {
			logger.Warn("failed to persist rejected flow", zap.String("flowID", flow.FlowID), zap.Error(perr))
		}
	default:
		// Ambiguous or transport failure: return to the slot stage; the
		// caller resolves the balance with a refresh.
		flow.Stage = models.StageSlotSelected
		if perr := s.Flows.Put(ctx, *flow); perr != nil {
			logger.Warn("failed to persist flow after booking error", zap.String("flowID", flow.FlowID), zap.Error(perr))
		}
	}
	return err
}

func validateConfirmable(flow *models.BookingFlow) error {
	switch {
	case flow.GuruID == "":
		return &MissingFieldError{Field: "guruId"}
	case flow.ConsultationTypeID == "":
		return &MissingFieldError{Field: "consultationTypeId"}
	case flow.Date == "":
		return &MissingFieldError{Field: "date"}
	case flow.Slot == nil:
		return &MissingFieldError{Field: "slot"}
	}
	return nil
}

func (s *DefaultBookingFlowService) journalBooking(ctx context.Context, booking models.Booking) {
	if s.Journal == nil {
		return
	}
	logger := utils.GetLogger()
	if err := s.Journal.RecordBooking(ctx, booking); err != nil {
		logger.Warn("failed to journal booking", zap.String("bookingID", booking.ID), zap.Error(err))
	}
	tx := models.CreditTransaction{
		TransactionID: credit.NewTransactionID(booking.UserID, "booking-"+booking.ID),
		UserID:        booking.UserID,
		Kind:          models.TransactionSpend,
		Amount:        booking.CreditsUsed,
		Reason:        "consultation_booking",
		Status:        models.TransactionConfirmed,
		Timestamp:     time.Now(),
	}
	if err := s.Journal.RecordTransaction(ctx, tx); err != nil {
		logger.Warn("failed to journal booking spend", zap.String("bookingID", booking.ID), zap.Error(err))
	}
}
