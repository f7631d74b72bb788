// Package session persists the signed-in user's token and profile.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/golang-jwt/jwt/v5"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/echoes/internal/api"
)

const (
	appName    = "echoes"
	dbFileName = "session.db"
)

// ErrClosed is returned by a Store after Close.
var ErrClosed = errors.New("session closed")

// Store is the session lifecycle: Open, then active until Close.
// It implements api.TokenSource.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
	now    func() time.Time
}

// Open opens the session store at path, or at the default XDG data
// location when path is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// DefaultPath returns the XDG location of the session database.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Token returns the stored bearer token. Tokens that parse as a JWT whose
// exp has passed are treated as absent.
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	var token sql.NullString
	err := s.db.QueryRow(`SELECT token FROM session WHERE id = 1`).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !token.Valid || expired(token.String, s.now()) {
		return "", nil
	}
	return token.String, nil
}

// SetToken stores a new token and drops the cached profile.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO session (id, token, profile, updated_at)
		VALUES (1, ?, NULL, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			profile = NULL,
			updated_at = excluded.updated_at
	`, token, s.now().Unix())
	return err
}

// Profile returns the cached profile, or nil if none is cached.
func (s *Store) Profile() (*api.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	var raw sql.NullString
	err := s.db.QueryRow(`SELECT profile FROM session WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !raw.Valid) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p api.Profile
	if err := json.Unmarshal([]byte(raw.String), &p); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &p, nil
}

// SetProfile caches the signed-in user's profile.
func (s *Store) SetProfile(p api.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	_, err = s.db.Exec(`
		INSERT INTO session (id, token, profile, updated_at)
		VALUES (1, NULL, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			profile = excluded.profile,
			updated_at = excluded.updated_at
	`, string(data), s.now().Unix())
	return err
}

// SignOut clears the token and the cached profile.
func (s *Store) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}

// expired reports whether token is a JWT with an exp claim in the past.
// The signature is not checked; the server does that.
func expired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time)
}
