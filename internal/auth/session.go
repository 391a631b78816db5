package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/clinicore/clinic-backend/internal/staff"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind an access token. Deleting
// it revokes the token regardless of the JWT expiry.
type Session struct {
	TokenID   uuid.UUID  `json:"token_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Role      staff.Role `json:"role"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Store keeps sessions in redis keyed by token id.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func sessionKey(tokenID uuid.UUID) string {
	return "session:" + tokenID.String()
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.TokenID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, tokenID uuid.UUID) (*Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, tokenID uuid.UUID) error {
	if err := s.client.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
