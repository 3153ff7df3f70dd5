// models/chat.go
package models

import "time"

// ChatMessage is one entry of the local consultation transcript. Pending
// marks an optimistic append that has not been confirmed by a successful
// credit deduction yet.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Pending   bool      `json:"pending,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatSendResult reports the outcome of a gated chat send.
type ChatSendResult struct {
	Message        ChatMessage `json:"message"`
	ChargedCredits int         `json:"chargedCredits"`
	CurrentCredits int         `json:"currentCredits"`
	FirstQuestion  bool        `json:"firstQuestion,omitempty"`
}
