// Package journal persists client-generated credit transactions and booking
// history. Entries are written before the corresponding network call so a
// crash mid-operation leaves an auditable trail to reconcile against the
// backend, which stays the source of truth.
package journal

import (
	"context"

	"astraguru/models"
)

// JournalRepository defines the persistence contract for the client journal.
type JournalRepository interface {
	RecordTransaction(ctx context.Context, tx models.CreditTransaction) error
	SetTransactionStatus(ctx context.Context, transactionID, status string) error
	ListTransactions(ctx context.Context, userID string) ([]models.CreditTransaction, error)
	RecordBooking(ctx context.Context, booking models.Booking) error
	SetBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) error
	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
}
