package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/consulting-service/internal/domain"
)

const (
	sessionKeyPrefix     = "refresh:"
	userSessionKeyPrefix = "refresh:user:"
)

type redisSessionStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisSessionStore keeps refresh sessions in Redis with a TTL per token.
func NewRedisSessionStore(client redis.UniversalClient) SessionStore {
	return &redisSessionStore{client: client, now: time.Now}
}

func (s *redisSessionStore) Save(ctx context.Context, session domain.RefreshSession) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("refresh session already expired")
	}
	userKey := userSessionKeyPrefix + session.UserID

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKeyPrefix+session.TokenHash, session.UserID, ttl)
		pipe.SAdd(ctx, userKey, session.TokenHash)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	return err
}

func (s *redisSessionStore) Consume(ctx context.Context, tokenHash string) (*domain.RefreshSession, error) {
	key := sessionKeyPrefix + tokenHash
	// Read the TTL first; GETDEL removes it along with the value.
	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	userID, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.client.SRem(ctx, userSessionKeyPrefix+userID, tokenHash)

	expiresAt := s.now()
	if ttl > 0 {
		expiresAt = expiresAt.Add(ttl)
	}
	return &domain.RefreshSession{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}, nil
}

func (s *redisSessionStore) RevokeUser(ctx context.Context, userID string) error {
	userKey := userSessionKeyPrefix + userID
	hashes, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(hashes)+1)
	for _, h := range hashes {
		keys = append(keys, sessionKeyPrefix+h)
	}
	keys = append(keys, userKey)
	return s.client.Del(ctx, keys...).Err()
}
