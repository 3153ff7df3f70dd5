// Package session owns the device-local user record and the small pieces of
// per-user persisted state (draft text, one-shot flags). Handlers read from
// it; only the credit, booking, purchase and settings coordinators write.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"astraguru/models"

	"github.com/go-redis/redis/v8"
)

const (
	SessionPrefix       = "userSession:"
	DraftPrefix         = "draft:"
	FirstQuestionPrefix = "firstQuestion:"
	FreeHoroscopePrefix = "freeHoroscope:"
)

// Store keeps the current user sessions in memory and persists every
// mutation to Redis so they survive restarts.
type Store struct {
	client *redis.Client

	mu      sync.RWMutex
	current map[string]*models.UserSession

	now func() time.Time
}

// NewStore builds a session store backed by the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client:  client,
		current: make(map[string]*models.UserSession),
		now:     time.Now,
	}
}

// Get returns the session for a user, reading through to Redis on a cold
// start. A missing session returns nil without error.
func (s *Store) Get(ctx context.Context, userID string) (*models.UserSession, error) {
	s.mu.RLock()
	if sess, ok := s.current[userID]; ok {
		s.mu.RUnlock()
		copied := *sess
		return &copied, nil
	}
	s.mu.RUnlock()

	data, err := s.client.Get(ctx, SessionPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session for %s: %w", userID, err)
	}

	var sess models.UserSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session for %s: %w", userID, err)
	}

	s.mu.Lock()
	s.current[userID] = &sess
	s.mu.Unlock()
	copied := sess
	return &copied, nil
}

// Put stores the full session record and persists it.
func (s *Store) Put(ctx context.Context, sess models.UserSession) error {
	sess.UpdatedAt = s.now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session for %s: %w", sess.UserID, err)
	}
	if err := s.client.Set(ctx, SessionPrefix+sess.UserID, string(data), 0).Err(); err != nil {
		return fmt.Errorf("failed to persist session for %s: %w", sess.UserID, err)
	}
	s.mu.Lock()
	stored := sess
	s.current[sess.UserID] = &stored
	s.mu.Unlock()
	return nil
}

// SetBalance overwrites the stored balance with a backend-reported value.
// The local balance is never advanced by client arithmetic.
func (s *Store) SetBalance(ctx context.Context, userID string, currentCredits int) error {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("no session for user %s", userID)
	}
	sess.CreditBalance = currentCredits
	return s.Put(ctx, *sess)
}

// Balance returns the last confirmed balance for pre-flight gating.
func (s *Store) Balance(ctx context.Context, userID string) (int, error) {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if sess == nil {
		return 0, fmt.Errorf("no session for user %s", userID)
	}
	return sess.CreditBalance, nil
}

// SetSettings overwrites the stored preferences.
func (s *Store) SetSettings(ctx context.Context, userID string, settings models.UserSettings) error {
	sess, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("no session for user %s", userID)
	}
	sess.Settings = settings
	return s.Put(ctx, *sess)
}

// Draft returns the persisted draft-message text, empty when none.
func (s *Store) Draft(ctx context.Context, userID string) (string, error) {
	text, err := s.client.Get(ctx, DraftPrefix+userID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load draft for %s: %w", userID, err)
	}
	return text, nil
}

// SetDraft persists the draft-message text.
func (s *Store) SetDraft(ctx context.Context, userID, text string) error {
	return s.client.Set(ctx, DraftPrefix+userID, text, 0).Err()
}

// ClearDraft removes the persisted draft.
func (s *Store) ClearDraft(ctx context.Context, userID string) error {
	return s.client.Del(ctx, DraftPrefix+userID).Err()
}

// FirstQuestionUsed reports whether the free first question was consumed.
func (s *Store) FirstQuestionUsed(ctx context.Context, userID string) (bool, error) {
	return s.flag(ctx, FirstQuestionPrefix+userID)
}

// MarkFirstQuestionUsed consumes the free first question.
func (s *Store) MarkFirstQuestionUsed(ctx context.Context, userID string) error {
	return s.client.Set(ctx, FirstQuestionPrefix+userID, "1", 0).Err()
}

// FreeHoroscopeGranted reports whether the one-time horoscope credit grant
// was already applied.
func (s *Store) FreeHoroscopeGranted(ctx context.Context, userID string) (bool, error) {
	return s.flag(ctx, FreeHoroscopePrefix+userID)
}

// MarkFreeHoroscopeGranted records the one-time grant.
func (s *Store) MarkFreeHoroscopeGranted(ctx context.Context, userID string) error {
	return s.client.Set(ctx, FreeHoroscopePrefix+userID, "1", 0).Err()
}

func (s *Store) flag(ctx context.Context, key string) (bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load flag %s: %w", key, err)
	}
	return val == "1", nil
}

// Logout destroys every per-user key and forgets the in-memory record.
func (s *Store) Logout(ctx context.Context, userID string) error {
	s.mu.Lock()
	delete(s.current, userID)
	s.mu.Unlock()

	return s.client.Del(ctx,
		SessionPrefix+userID,
		DraftPrefix+userID,
		FirstQuestionPrefix+userID,
		FreeHoroscopePrefix+userID,
	).Err()
}
