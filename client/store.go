package client

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Store keys shared across the client.
const (
	KeyToken          = "token"
	KeyCart           = "cart"
	KeyOTPDestination = "otp_destination"
	KeyLoginRedirect  = "login_redirect"
)

// Store is a narrow key-value surface. The client keeps two of them: a
// session store that dies with the process and a durable store that
// survives restarts.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// SessionStore is the in-memory scope.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string]string)}
}

func (s *SessionStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *SessionStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *SessionStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// DurableStore is the restart-surviving scope, a single sqlite table.
type DurableStore struct {
	db *sql.DB
}

// OpenDurableStore opens (and if needed creates) the store at path. Use
// ":memory:" for throwaway stores in tests.
func OpenDurableStore(path string) (*DurableStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return &DurableStore{db: db}, nil
}

func (s *DurableStore) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *DurableStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

func (s *DurableStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (s *DurableStore) Close() error {
	return s.db.Close()
}
