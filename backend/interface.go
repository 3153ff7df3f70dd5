package backend

import (
	"context"

	"astraguru/models"
)

// CreditAPI covers the ledger endpoints.
type CreditAPI interface {
	GetCredits(ctx context.Context, userID string) (models.Balance, error)
	Deduct(ctx context.Context, userID string, amount int, reason string) (models.BalanceChange, error)
	Add(ctx context.Context, userID string, amount int, reason string, pkg *models.PackageInfo) (models.BalanceChange, error)
}

// PurchaseAPI covers the credit-package purchase endpoints.
type PurchaseAPI interface {
	Purchase(ctx context.Context, req PurchaseRequest) (PurchaseConfirmation, error)
	ListPackages(ctx context.Context) ([]models.CreditPackage, error)
}

// AvailabilityAPI covers slot availability.
type AvailabilityAPI interface {
	GetAvailability(ctx context.Context, guruID, date string) ([]models.TimeSlot, error)
}

// BookingAPI covers booking creation and cancellation.
type BookingAPI interface {
	CreateBooking(ctx context.Context, req BookingRequest) (models.Booking, int, error)
	CancelBooking(ctx context.Context, bookingID, userID, reason string) (models.Booking, int, error)
}

// GuruAPI covers the guru catalogue.
type GuruAPI interface {
	ListGurus(ctx context.Context) ([]models.Guru, error)
	GetConsultationTypes(ctx context.Context, guruID string) ([]models.ConsultationType, error)
}

// SettingsAPI covers user preferences.
type SettingsAPI interface {
	GetSettings(ctx context.Context, userID string) (models.UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, settings models.UserSettings) error
}
