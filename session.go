package via

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session provides access to the user's session data.
// Session data persists across page views for the same browser.
type Session struct {
	ctx     context.Context
	manager *scs.SessionManager
}

func (s *Session) ok() bool {
	return s.manager != nil && s.ctx != nil
}

// GetInt retrieves an int value from the session.
func (s *Session) GetInt(key string) int {
	if !s.ok() {
		return 0
	}
	return s.manager.GetInt(s.ctx, key)
}

// Incr adds delta to the int stored under key and returns the new value.
func (s *Session) Incr(key string, delta int) int {
	if !s.ok() {
		return 0
	}
	n := s.manager.GetInt(s.ctx, key) + delta
	s.manager.Put(s.ctx, key, n)
	return n
}

const sqliteSessionSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

// NewSQLiteSessionManager creates the sessions table in db if needed and
// returns a session manager backed by it. Expired sessions are purged every
// cleanupInterval; zero disables the background cleanup.
func NewSQLiteSessionManager(db *sql.DB, cleanupInterval time.Duration) (*scs.SessionManager, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite session manager: nil db")
	}
	if _, err := db.Exec(sqliteSessionSchema); err != nil {
		return nil, fmt.Errorf("sqlite session manager: create schema: %w", err)
	}
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, cleanupInterval)
	return sm, nil
}
