package booking

import (
	"context"

	"astraguru/backend"
	"astraguru/database/repository/journal"
	"astraguru/models"
	"astraguru/services/credit"
)

// BookingFlowService drives the multi-step booking workflow against the
// availability cache, the credit ledger and the backend booking endpoints.
type BookingFlowService interface {
	StartFlow(ctx context.Context, userID string) (*models.BookingFlow, error)
	SelectGuru(ctx context.Context, flowID, guruID string) (*models.BookingFlow, []models.ConsultationType, error)
	SelectConsultation(ctx context.Context, flowID, consultationTypeID string) (*models.BookingFlow, error)
	SelectDate(ctx context.Context, flowID, date string) (*models.BookingFlow, []models.TimeSlot, error)
	SelectSlot(ctx context.Context, flowID string, slot models.TimeSlot) (*models.BookingFlow, error)
	Confirm(ctx context.Context, flowID string) (*models.Booking, error)
	Cancel(ctx context.Context, userID, bookingID, reason string) (int, error)
}

// DefaultBookingFlowService implements BookingFlowService.
type DefaultBookingFlowService struct {
	API          backend.BookingAPI
	Availability *AvailabilityCache
	Types        *ConsultationTypeCache
	Ledger       credit.LedgerService
	Journal      journal.JournalRepository
	Flows        FlowRepository
}
