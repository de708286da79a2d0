package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// incrWithTTLScript counts a login failure and starts the window on the first one,
// so the counter never outlives its window even if the client dies between calls.
var incrWithTTLScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return count
`)

const (
	accessKeyPrefix  = "access_token"
	refreshKeyPrefix = "refresh_token"
	loginFailPrefix  = "login_fail"
	tokenValid       = "valid"
	revokeScanCount  = 100
)

// SessionService keeps the whitelist of issued token ids and the login failure counters.
type SessionService interface {
	Store(ctx context.Context, userID, accessID, refreshID string, accessTTL, refreshTTL time.Duration) error
	IsAccessValid(ctx context.Context, userID, tokenID string) (bool, error)
	// ConsumeRefresh deletes the refresh token id and reports whether it was still valid.
	ConsumeRefresh(ctx context.Context, userID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID, accessID, refreshID string) error
	RevokeAll(ctx context.Context, userID string) error

	LoginBlocked(ctx context.Context, email string) (bool, error)
	RecordLoginFailure(ctx context.Context, email string) (int64, error)
	ResetLoginFailures(ctx context.Context, email string) error
}

type sessionService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	maxAttempts int64
	window      time.Duration
}

func NewSessionService(redisClient *redis.Client, log *logrus.Logger, maxAttempts int, window time.Duration) SessionService {
	return &sessionService{
		redisClient: redisClient,
		log:         log,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func accessKey(userID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", accessKeyPrefix, userID, tokenID)
}

func refreshKey(userID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", refreshKeyPrefix, userID, tokenID)
}

func loginFailKey(email string) string {
	return fmt.Sprintf("%s:%s", loginFailPrefix, email)
}

func (s *sessionService) Store(ctx context.Context, userID, accessID, refreshID string, accessTTL, refreshTTL time.Duration) error {
	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, accessKey(userID, accessID), tokenValid, accessTTL)
	pipe.Set(ctx, refreshKey(userID, refreshID), tokenValid, refreshTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *sessionService) IsAccessValid(ctx context.Context, userID, tokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, accessKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *sessionService) ConsumeRefresh(ctx context.Context, userID, tokenID string) (bool, error) {
	deleted, err := s.redisClient.Del(ctx, refreshKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to delete refresh token: %+v", err)
		return false, err
	}
	return deleted > 0, nil
}

func (s *sessionService) Revoke(ctx context.Context, userID, accessID, refreshID string) error {
	keys := []string{accessKey(userID, accessID)}
	if refreshID != "" {
		keys = append(keys, refreshKey(userID, refreshID))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		s.log.Warnf("Failed to delete tokens: %+v", err)
		return err
	}
	return nil
}

// RevokeAll removes every token of the user. Register uses it when the account
// transaction fails after the session was stored.
func (s *sessionService) RevokeAll(ctx context.Context, userID string) error {
	for _, prefix := range []string{accessKeyPrefix, refreshKeyPrefix} {
		pattern := fmt.Sprintf("%s:%s:*", prefix, userID)
		iter := s.redisClient.Scan(ctx, 0, pattern, revokeScanCount).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			s.log.Warnf("Failed to scan token keys: %+v", err)
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			s.log.Warnf("Failed to delete tokens: %+v", err)
			return err
		}
	}
	return nil
}

func (s *sessionService) LoginBlocked(ctx context.Context, email string) (bool, error) {
	if s.maxAttempts <= 0 {
		return false, nil
	}
	count, err := s.redisClient.Get(ctx, loginFailKey(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		s.log.Warnf("Failed to read login failures: %+v", err)
		return false, err
	}
	return count >= s.maxAttempts, nil
}

func (s *sessionService) RecordLoginFailure(ctx context.Context, email string) (int64, error) {
	count, err := incrWithTTLScript.Run(ctx, s.redisClient, []string{loginFailKey(email)}, s.window.Milliseconds()).Int64()
	if err != nil {
		s.log.Warnf("Failed to record login failure: %+v", err)
		return 0, err
	}
	return count, nil
}

func (s *sessionService) ResetLoginFailures(ctx context.Context, email string) error {
	return s.redisClient.Del(ctx, loginFailKey(email)).Err()
}
