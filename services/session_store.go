package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"law_office_app_go/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionTokenLength is the length of the session token in bytes (64 chars hex)
const SessionTokenLength = 32

// SessionStore persists sessions keyed by the digest of their cookie token
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionManager owns the session lifecycle: start on login, lookup per request, destroy on logout
type SessionManager struct {
	store    SessionStore
	secret   []byte
	duration time.Duration
}

// NewSessionManager wraps a store with the token signing secret and session lifetime
func NewSessionManager(store SessionStore, secret string, duration time.Duration) *SessionManager {
	return &SessionManager{store: store, secret: []byte(secret), duration: duration}
}

// Start creates a session for the user and returns the opaque cookie token
func (m *SessionManager) Start(ctx context.Context, userID, ipAddress, userAgent string) (string, *models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:        m.digest(token),
		CreatedAt: now,
		UserID:    userID,
		ExpiresAt: now.Add(m.duration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := m.store.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}
	return token, session, nil
}

// Lookup returns the live session for a cookie token, removing it if expired
func (m *SessionManager) Lookup(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	id := m.digest(token)
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		_ = m.store.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Destroy removes the session for a cookie token
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, m.digest(token))
}

// DestroyUser removes every session of a user
func (m *SessionManager) DestroyUser(ctx context.Context, userID string) error {
	return m.store.DeleteByUser(ctx, userID)
}

// Cleanup purges expired sessions
func (m *SessionManager) Cleanup(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

func (m *SessionManager) digest(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// MemorySessionStore keeps sessions in process memory. Sessions are lost on restart
// and are not shared between instances.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]models.Session)}
}

func (s *MemorySessionStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *MemorySessionStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	now := time.Now()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// DBSessionStore keeps sessions in the sessions table
type DBSessionStore struct {
	db *gorm.DB
}

func NewDBSessionStore(db *gorm.DB) *DBSessionStore {
	return &DBSessionStore{db: db}
}

func (s *DBSessionStore) Create(ctx context.Context, session *models.Session) error {
	return contextDB(ctx, s.db).Create(session).Error
}

func (s *DBSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := contextDB(ctx, s.db).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

func (s *DBSessionStore) Delete(ctx context.Context, id string) error {
	if err := contextDB(ctx, s.db).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *DBSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	if err := contextDB(ctx, s.db).Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

func (s *DBSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	result := contextDB(ctx, s.db).Where("expires_at < ?", time.Now().UTC()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// RedisSessionStore keeps sessions in redis with a TTL per key, plus a set per user
// so every session of a user can be revoked at once
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: "law_office:"}
}

func (s *RedisSessionStore) sessionKey(id string) string {
	return s.prefix + "session:" + id
}

func (s *RedisSessionStore) userKey(userID string) string {
	return s.prefix + "user_sessions:" + userID
}

func (s *RedisSessionStore) Create(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	// json:"-" hides the id from API output, so it travels in the key only
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(session.ID), payload, ttl)
	pipe.SAdd(ctx, s.userKey(session.UserID), session.ID)
	pipe.Expire(ctx, s.userKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	payload, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	session.ID = id
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(id))
	pipe.SRem(ctx, s.userKey(session.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.sessionKey(id))
	}
	keys = append(keys, s.userKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: redis expires keys on its own
func (s *RedisSessionStore) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
