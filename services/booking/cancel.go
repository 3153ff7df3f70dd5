package booking

import (
	"context"
	"time"

	"astraguru/models"
	"astraguru/services/credit"
	"astraguru/utils"

	"go.uber.org/zap"
)

// Cancel cancels a confirmed booking. The refund amount is whatever the
// backend reports (partial-refund policies apply), so the balance is
// refreshed from the backend rather than incremented locally. The freed
// slot's (guru, date) availability entry is invalidated so it reappears on
// the next fetch.
func (s *DefaultBookingFlowService) Cancel(ctx context.Context, userID, bookingID, reason string) (int, error) {
	logger := utils.GetLogger()

	if bookingID == "" {
		return 0, &MissingFieldError{Field: "bookingId"}
	}

	booking, refunded, err := s.API.CancelBooking(ctx, bookingID, userID, reason)
	if err != nil {
		return 0, err
	}

	if _, err := s.Ledger.Refresh(ctx, userID); err != nil {
		logger.Warn("failed to refresh balance after cancellation",
			zap.String("userID", userID), zap.Error(err))
	}
	if err := s.Availability.Invalidate(ctx, booking.GuruID, booking.Date); err != nil {
		logger.Warn("failed to invalidate availability after cancellation",
			zap.String("guruID", booking.GuruID), zap.String("date", booking.Date), zap.Error(err))
	}

	if s.Journal != nil {
		if err := s.Journal.SetBookingStatus(ctx, bookingID, models.BookingCancelled); err != nil {
			logger.Warn("failed to journal cancellation", zap.String("bookingID", bookingID), zap.Error(err))
		}
		tx := models.CreditTransaction{
			TransactionID: credit.NewTransactionID(userID, "refund-"+bookingID),
			UserID:        userID,
			Kind:          models.TransactionRefund,
			Amount:        refunded,
			Reason:        "booking_cancellation",
			Status:        models.TransactionConfirmed,
			Timestamp:     time.Now(),
		}
		if err := s.Journal.RecordTransaction(ctx, tx); err != nil {
			logger.Warn("failed to journal refund", zap.String("bookingID", bookingID), zap.Error(err))
		}
	}
	return refunded, nil
}
