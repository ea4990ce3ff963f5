package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tripmate/console/internal/models"
)

// Admin is the authenticated operator plus the backend-minted token the
// console replays on every platform call. The token is opaque here; the
// backend owns validation and expiry.
type Admin struct {
	models.User
	Token string `json:"token"`
}

// Persister stores the session across console restarts.
type Persister interface {
	Save(ctx context.Context, a Admin) error
	Load(ctx context.Context) (Admin, bool, error)
	Clear(ctx context.Context) error
}

// Manager holds the one admin session. Login and Logout are the only
// mutation surface; every change is fanned out to subscribers so views
// never read ambient global state.
type Manager struct {
	mu      sync.RWMutex
	admin   *Admin
	persist Persister
	subs    []func(Admin, bool)
	logger  *slog.Logger
}

// NewManager builds a session manager. persist may be nil, in which case
// the session lives only as long as the process.
func NewManager(persist Persister, logger *slog.Logger) *Manager {
	return &Manager{persist: persist, logger: logger}
}

// Restore loads any persisted session at startup.
func (m *Manager) Restore(ctx context.Context) {
	if m.persist == nil {
		return
	}
	a, ok, err := m.persist.Load(ctx)
	if err != nil {
		m.logger.Warn("session restore failed", "error", err)
		return
	}
	if !ok {
		return
	}
	m.mu.Lock()
	m.admin = &a
	m.mu.Unlock()
	m.notify(a, true)
}

// Login installs the authenticated admin and persists it.
func (m *Manager) Login(ctx context.Context, a Admin) {
	m.mu.Lock()
	m.admin = &a
	m.mu.Unlock()
	if m.persist != nil {
		if err := m.persist.Save(ctx, a); err != nil {
			m.logger.Warn("session persist failed", "error", err)
		}
	}
	m.notify(a, true)
}

// Logout clears the session and all persisted state.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.admin = nil
	m.mu.Unlock()
	if m.persist != nil {
		if err := m.persist.Clear(ctx); err != nil {
			m.logger.Warn("session clear failed", "error", err)
		}
	}
	m.notify(Admin{}, false)
}

// Current returns the signed-in admin, if any.
func (m *Manager) Current() (Admin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.admin == nil {
		return Admin{}, false
	}
	return *m.admin, true
}

// Token returns the bearer token for outbound platform calls, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.admin == nil {
		return ""
	}
	return m.admin.Token
}

// Subscribe registers a login/logout listener. Listeners run synchronously
// on the mutating call.
func (m *Manager) Subscribe(fn func(a Admin, loggedIn bool)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

func (m *Manager) notify(a Admin, loggedIn bool) {
	m.mu.RLock()
	subs := make([]func(Admin, bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()
	for _, fn := range subs {
		fn(a, loggedIn)
	}
}
