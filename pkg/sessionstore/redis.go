package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/anvil/pkg/session"
)

const (
	tokenKeyPrefix = "anvil:session:token:"
	userKeyPrefix  = "anvil:session:user:"
	idKeyPrefix    = "anvil:session:id:"
)

// Redis keeps sessions in Redis with per-key TTLs, so expiry needs no
// sweeping. Three keyspaces are maintained: token → record, id → token
// and user → set of ids.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis creates a session store over the given client.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

type redisRecord struct {
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	UserID       *int64         `json:"user_id,omitempty"`
	Values       map[string]any `json:"values"`
	IP           string         `json:"ip"`
	UserAgent    string         `json:"user_agent"`
	Fingerprint  string         `json:"fingerprint"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
}

func (s *Redis) Create(ctx context.Context, sess *session.Session) error {
	return s.write(ctx, sess)
}

func (s *Redis) Update(ctx context.Context, sess *session.Session) error {
	return s.write(ctx, sess)
}

func (s *Redis) write(ctx context.Context, sess *session.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return session.ErrExpired
	}
	rec := redisRecord{
		ID:           sess.ID,
		Token:        sess.Token,
		UserID:       sess.UserID,
		Values:       sess.Values,
		IP:           sess.IP,
		UserAgent:    sess.UserAgent,
		Fingerprint:  sess.Fingerprint,
		CreatedAt:    sess.CreatedAt,
		LastActiveAt: sess.LastActiveAt,
		ExpiresAt:    sess.ExpiresAt,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+sess.Token, data, ttl)
	pipe.Set(ctx, idKeyPrefix+sess.ID, sess.Token, ttl)
	if sess.UserID != nil {
		userKey := userKeyPrefix + strconv.FormatInt(*sess.UserID, 10)
		pipe.SAdd(ctx, userKey, sess.ID)
		pipe.Expire(ctx, userKey, ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Redis) Get(ctx context.Context, token string) (*session.Session, error) {
	data, err := s.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	var rec redisRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	sess := &session.Session{
		ID:           rec.ID,
		Token:        rec.Token,
		UserID:       rec.UserID,
		Values:       rec.Values,
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Fingerprint:  rec.Fingerprint,
		CreatedAt:    rec.CreatedAt,
		LastActiveAt: rec.LastActiveAt,
		ExpiresAt:    rec.ExpiresAt,
	}
	if sess.IsExpired() {
		return nil, session.ErrExpired
	}
	return sess, nil
}

func (s *Redis) Delete(ctx context.Context, id string) error {
	token, err := s.client.Get(ctx, idKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, tokenKeyPrefix+token)
		pipe.Del(ctx, idKeyPrefix+id)
		return nil
	})
	return err
}

func (s *Redis) DeleteByUserID(ctx context.Context, userID int64) error {
	userKey := userKeyPrefix + strconv.FormatInt(userID, 10)
	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, userKey).Err()
}

func (s *Redis) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	token, err := s.client.Get(ctx, idKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.ErrNotFound
		}
		return err
	}
	sess, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	sess.LastActiveAt = lastActiveAt
	return s.write(ctx, sess)
}

// DeleteExpired is a no-op: Redis drops expired keys itself.
func (s *Redis) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

var _ session.Store = (*Redis)(nil)
