package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"refrescobot/domain"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found or expired")

// TokenRepository keeps issued admin tokens so they can be revoked before
// the JWT itself expires.
type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func tokenKey(subject string) string { return fmt.Sprintf("token:subject:%s", subject) }

func lookupKey(token string) string { return fmt.Sprintf("token:lookup:%s", token) }

func (r *TokenRepository) StoreToken(ctx context.Context, data domain.AdminToken, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(data.Subject), jsonData, ttl)
		// reverse lookup token -> subject for validation
		pipe.Set(ctx, lookupKey(data.Token), data.Subject, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	return nil
}

// GetToken returns the latest token issued to subject.
func (r *TokenRepository) GetToken(ctx context.Context, subject string) (*domain.AdminToken, error) {
	val, err := r.client.Get(ctx, tokenKey(subject)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var tokenData domain.AdminToken
	if err := json.Unmarshal([]byte(val), &tokenData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &tokenData, nil
}

// ValidateTokenFromRedis returns the subject a live token was issued to.
func (r *TokenRepository) ValidateTokenFromRedis(ctx context.Context, token string) (string, error) {
	subject, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return subject, nil
}

// RevokeToken deletes token and, if it is still the subject's latest, the
// subject entry too.
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	subject, err := r.ValidateTokenFromRedis(ctx, token)
	if err != nil {
		return err
	}

	keys := []string{lookupKey(token)}
	if data, err := r.GetToken(ctx, subject); err == nil && data.Token == token {
		keys = append(keys, tokenKey(subject))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}
