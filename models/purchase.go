// models/purchase.go
package models

// CreditPackage is a purchasable bundle of credits.
type CreditPackage struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	BaseCredits  int     `json:"baseCredits"`
	BonusCredits int     `json:"bonusCredits"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
}

// PurchaseLimit carries the backend-reported purchase-cap numbers.
type PurchaseLimit struct {
	Limit     int `json:"limit"`
	Used      int `json:"used"`
	Requested int `json:"requested"`
}

// PurchaseOutcome is the client-facing result of a purchase attempt.
// Duplicate marks the idempotent-retry case: the backend had already
// processed the transaction, which the user sees as a plain success.
type PurchaseOutcome struct {
	Success        bool   `json:"success"`
	Duplicate      bool   `json:"duplicate,omitempty"`
	TransactionID  string `json:"transactionId"`
	BaseCredits    int    `json:"baseCredits,omitempty"`
	BonusCredits   int    `json:"bonusCredits,omitempty"`
	TotalCredits   int    `json:"totalCredits,omitempty"`
	CurrentCredits int    `json:"currentCredits"`
}
