package session

import (
	"log/slog"
	"sync"

	"github.com/podscout/podscout/internal/domain"
)

// Store is the subset of the local store the session manager needs.
type Store interface {
	GetSession() (*domain.Session, bool)
	SaveSession(s *domain.Session) error
	ClearSession() error
	ClearLibrarySnapshot() error
}

// Manager owns the current session. Every component that needs credentials
// receives a *Manager at construction instead of reading process-wide state,
// so the logged-out initial state and the logout reset are explicit.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu      sync.RWMutex
	current *domain.Session
}

// NewManager creates a session manager, restoring any persisted session.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{store: store, logger: logger}
	if sess, ok := store.GetSession(); ok {
		m.current = sess
		logger.Debug("restored session", "user", sess.UserID)
	}
	return m
}

// Current returns the active session, or nil when logged out.
func (m *Manager) Current() *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.AccessToken
}

// UserID returns the signed-in user's id, or "" when logged out.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.UserID
}

// Authenticated reports whether a session with an access token is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Authenticated()
}

// LogIn installs and persists a new session.
func (m *Manager) LogIn(sess *domain.Session) error {
	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	if err := m.store.SaveSession(sess); err != nil {
		m.logger.Error("failed to persist session", "error", err)
		return err
	}
	m.logger.Info("logged in", "user", sess.UserID)
	return nil
}

// LogOut clears the session and any per-user local state.
func (m *Manager) LogOut() error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.ClearSession(); err != nil {
		return err
	}
	if err := m.store.ClearLibrarySnapshot(); err != nil {
		return err
	}
	m.logger.Info("logged out")
	return nil
}
