package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/anvil/pkg/session"
)

// Memory is a non-persistent store for development and tests. Sessions
// disappear on restart.
type Memory struct {
	mu       sync.Mutex
	byToken  map[string]*session.Session
	tokenFor map[string]string // id → token
}

// NewMemory creates an empty in-process session store.
func NewMemory() *Memory {
	return &Memory{
		byToken:  make(map[string]*session.Session),
		tokenFor: make(map[string]string),
	}
}

func (s *Memory) Create(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.byToken[sess.Token] = &cp
	s.tokenFor[sess.ID] = sess.Token
	return nil
}

func (s *Memory) Get(_ context.Context, token string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	if sess.IsExpired() {
		return nil, session.ErrExpired
	}
	cp := *sess
	return &cp, nil
}

func (s *Memory) Update(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.tokenFor[sess.ID]; ok && old != sess.Token {
		delete(s.byToken, old)
	}
	cp := *sess
	s.byToken[sess.Token] = &cp
	s.tokenFor[sess.ID] = sess.Token
	return nil
}

func (s *Memory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token, ok := s.tokenFor[id]; ok {
		delete(s.byToken, token)
		delete(s.tokenFor, id)
	}
	return nil
}

func (s *Memory) DeleteByUserID(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.byToken {
		if sess.UserID != nil && *sess.UserID == userID {
			delete(s.byToken, token)
			delete(s.tokenFor, sess.ID)
		}
	}
	return nil
}

func (s *Memory) Touch(_ context.Context, id string, lastActiveAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokenFor[id]
	if !ok {
		return session.ErrNotFound
	}
	s.byToken[token].LastActiveAt = lastActiveAt
	return nil
}

func (s *Memory) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.byToken {
		if sess.IsExpired() {
			delete(s.byToken, token)
			delete(s.tokenFor, sess.ID)
			n++
		}
	}
	return n, nil
}

var _ session.Store = (*Memory)(nil)
