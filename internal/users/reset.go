package users

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
	"github.com/habuli/go-shop-backend.git/internal/redisx"
)

// ResetTokens hands out password-reset tokens. Only the SHA-256 of a token is
// stored (in redis, with a 15 minute TTL); the plain token travels by email.
type ResetTokens struct {
	Redis *redis.Client
}

func (t *ResetTokens) Issue(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	key := fmt.Sprintf(redisx.KeyPasswordReset, hashToken(token))
	if err := t.Redis.Set(ctx, key, userID, redisx.TTLPasswordReset).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume resolves a token to its user and invalidates it in one step.
func (t *ResetTokens) Consume(ctx context.Context, token string) (string, error) {
	key := fmt.Sprintf(redisx.KeyPasswordReset, hashToken(token))
	userID, err := t.Redis.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.New(apperr.Conflict, "Token is invalid or has expired!")
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// Clear drops a half-issued token, e.g. when the reset email cannot be sent.
func (t *ResetTokens) Clear(ctx context.Context, token string) {
	key := fmt.Sprintf(redisx.KeyPasswordReset, hashToken(token))
	_ = t.Redis.Del(ctx, key).Err()
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
