package handlers

import (
	"astraguru/backend"
	"astraguru/database/repository/journal"
	"astraguru/services/booking"
	"astraguru/services/chat"
	"astraguru/services/credit"
	"astraguru/services/purchase"
	"astraguru/services/settings"
	"astraguru/session"
)

// HandlerBundle wires every HTTP handler to its coordinator.
type HandlerBundle struct {
	Sessions  *session.Store
	Ledger    credit.LedgerService
	Grants    *credit.GrantService
	Chat      chat.ChatService
	Booking   booking.BookingFlowService
	Purchases purchase.PurchaseService
	Settings  settings.SettingsService
	Gurus     backend.GuruAPI
	Journal   journal.JournalRepository
}
