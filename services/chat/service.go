// Package chat drives the credit-gated consultation chat flow: the user's
// question is appended to the local transcript optimistically, the spend is
// authorized against the ledger, and on failure the transcript and draft are
// rolled back so nothing the user typed is lost.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"astraguru/models"
	"astraguru/services/credit"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const TranscriptPrefix = "transcript:"

// SessionState is the slice of the session store the chat flow needs.
type SessionState interface {
	Get(ctx context.Context, userID string) (*models.UserSession, error)
	Draft(ctx context.Context, userID string) (string, error)
	SetDraft(ctx context.Context, userID, text string) error
	ClearDraft(ctx context.Context, userID string) error
	FirstQuestionUsed(ctx context.Context, userID string) (bool, error)
	MarkFirstQuestionUsed(ctx context.Context, userID string) error
}

// ChatService gates and records consultation questions.
type ChatService interface {
	Send(ctx context.Context, userID, text string) (*models.ChatSendResult, error)
	History(ctx context.Context, userID string) ([]models.ChatMessage, error)
}

// DefaultChatService implements ChatService.
type DefaultChatService struct {
	Authorizer *credit.SpendAuthorizer
	Sessions   SessionState
	Cache      *redis.Client

	now   func() time.Time
	newID func() string
}

// NewChatService builds the chat service.
func NewChatService(authorizer *credit.SpendAuthorizer, sessions SessionState, cache *redis.Client) *DefaultChatService {
	return &DefaultChatService{
		Authorizer: authorizer,
		Sessions:   sessions,
		Cache:      cache,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// EmptyMessageError is raised before any network call when the question text
// is missing.
type EmptyMessageError struct{}

func (e *EmptyMessageError) Error() string { return "message text is required" }

// Send charges the user for a question and appends it to the transcript.
// The first question of an account is free and bypasses the ledger entirely.
func (s *DefaultChatService) Send(ctx context.Context, userID, text string) (*models.ChatSendResult, error) {
	if text == "" {
		return nil, &EmptyMessageError{}
	}

	msg := models.ChatMessage{
		ID:        s.newID(),
		UserID:    userID,
		Text:      text,
		CreatedAt: s.now(),
	}

	used, err := s.Sessions.FirstQuestionUsed(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !used {
		if err := s.appendConfirmed(ctx, userID, msg); err != nil {
			return nil, err
		}
		if err := s.Sessions.MarkFirstQuestionUsed(ctx, userID); err != nil {
			return nil, err
		}
		if err := s.Sessions.ClearDraft(ctx, userID); err != nil {
			return nil, err
		}
		sess, err := s.Sessions.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		result := &models.ChatSendResult{
			Message:        msg,
			ChargedCredits: 0,
			FirstQuestion:  true,
		}
		if sess != nil {
			result.CurrentCredits = sess.CreditBalance
		}
		return result, nil
	}

	cmd := &transcriptCommand{svc: s, userID: userID, message: msg}
	change, err := s.Authorizer.AuthorizeSpend(ctx, userID, "chat_message", cmd)
	if err != nil {
		return nil, err
	}

	msg.Pending = false
	return &models.ChatSendResult{
		Message:        msg,
		ChargedCredits: change.DeductedAmount,
		CurrentCredits: change.CurrentCredits,
	}, nil
}

// History returns the local transcript, oldest first.
func (s *DefaultChatService) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	entries, err := s.Cache.LRange(ctx, TranscriptPrefix+userID, 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to load transcript for %s: %w", userID, err)
	}

	messages := make([]models.ChatMessage, 0, len(entries))
	for _, entry := range entries {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("corrupt transcript entry for %s: %w", userID, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *DefaultChatService) appendConfirmed(ctx context.Context, userID string, msg models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.Cache.RPush(ctx, TranscriptPrefix+userID, string(data)).Err()
}

// transcriptCommand is the optimistic command for a charged question: Apply
// appends the pending message and clears the draft, Confirm seals the entry,
// Rollback removes it and restores the draft text.
type transcriptCommand struct {
	svc     *DefaultChatService
	userID  string
	message models.ChatMessage

	priorDraft string
}

func (c *transcriptCommand) Apply(ctx context.Context) error {
	draft, err := c.svc.Sessions.Draft(ctx, c.userID)
	if err != nil {
		return err
	}
	c.priorDraft = draft

	pending := c.message
	pending.Pending = true
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	if err := c.svc.Cache.RPush(ctx, TranscriptPrefix+c.userID, string(data)).Err(); err != nil {
		return err
	}
	return c.svc.Sessions.ClearDraft(ctx, c.userID)
}

func (c *transcriptCommand) Confirm(ctx context.Context, change models.BalanceChange) error {
	confirmed := c.message
	confirmed.Pending = false
	data, err := json.Marshal(confirmed)
	if err != nil {
		return err
	}
	return c.svc.Cache.LSet(ctx, TranscriptPrefix+c.userID, -1, string(data)).Err()
}

func (c *transcriptCommand) Rollback(ctx context.Context) error {
	if err := c.svc.Cache.RPop(ctx, TranscriptPrefix+c.userID).Err(); err != nil && err != redis.Nil {
		return err
	}
	if c.priorDraft == "" {
		return nil
	}
	return c.svc.Sessions.SetDraft(ctx, c.userID, c.priorDraft)
}
