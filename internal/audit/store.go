package audit

import (
	"sync"
	"time"
)

// Action is the kind of admin mutation being recorded.
type Action string

const (
	ActionLogin       Action = "login"
	ActionLogout      Action = "logout"
	ActionDeleteUser  Action = "delete_user"
	ActionKYCApproved Action = "kyc_approved"
	ActionKYCRejected Action = "kyc_rejected"
)

// Entry is one admin action in the trail.
type Entry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"` // admin email
	Action    Action    `json:"action"`
	TargetID  string    `json:"target_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines persistence for the admin action trail.
type Store interface {
	Append(e Entry) error
	Recent(limit int) ([]Entry, error)
}

// MemoryStore keeps the trail in process, newest first. Used when no
// Postgres DSN is configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Append(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry{e}, m.entries...)
	return nil
}

func (m *MemoryStore) Recent(limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]Entry, limit)
	copy(out, m.entries[:limit])
	return out, nil
}
