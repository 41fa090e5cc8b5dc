package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChoiceSession holds the ranked choices offered for one query until the user picks one
type ChoiceSession struct {
	ID          string      `json:"session_id"`
	Query       string      `json:"query"`
	Ingredients []string    `json:"ingredients,omitempty"`
	Choices     []Candidate `json:"choices"`
	CreatedAt   time.Time   `json:"created_at"`
}

// RedisChoiceStore keeps choice sessions in Redis with a TTL
type RedisChoiceStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisChoiceStore creates a new RedisChoiceStore instance
func NewRedisChoiceStore(client *redis.Client, ttl time.Duration) *RedisChoiceStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisChoiceStore{redis: client, ttl: ttl}
}

func choiceKey(id string) string {
	return fmt.Sprintf("recipe:choices:%s", id)
}

// SaveChoices stores a session, assigning its id when empty
func (s *RedisChoiceStore) SaveChoices(ctx context.Context, session *ChoiceSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal choices: %w", err)
	}

	if err := s.redis.Set(ctx, choiceKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save choices to Redis: %w", err)
	}
	return nil
}

// GetChoices loads a session. ErrSessionNotFound is returned when it expired or never existed.
func (s *RedisChoiceStore) GetChoices(ctx context.Context, id string) (*ChoiceSession, error) {
	data, err := s.redis.Get(ctx, choiceKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get choices from Redis: %w", err)
	}

	var session ChoiceSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal choices: %w", err)
	}
	return &session, nil
}

// DeleteChoices removes a session
func (s *RedisChoiceStore) DeleteChoices(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, choiceKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete choices from Redis: %w", err)
	}
	return nil
}
