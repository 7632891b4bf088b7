package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps issued session tokens in redis so logout can revoke
// them before their JWT expiry.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) CacheToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return s.client.Set(ctx, "session:"+userID, token, ttl).Err()
}

// GetToken returns an empty string when no token is cached for the user.
func (s *TokenStore) GetToken(ctx context.Context, userID string) (string, error) {
	token, err := s.client.Get(ctx, "session:"+userID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

func (s *TokenStore) InvalidateToken(ctx context.Context, userID string) error {
	return s.client.Del(ctx, "session:"+userID).Err()
}
