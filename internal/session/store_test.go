package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tripmate/console/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memPersister struct {
	admin   *Admin
	saveErr error
}

func (m *memPersister) Save(_ context.Context, a Admin) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.admin = &a
	return nil
}

func (m *memPersister) Load(context.Context) (Admin, bool, error) {
	if m.admin == nil {
		return Admin{}, false, nil
	}
	return *m.admin, true, nil
}

func (m *memPersister) Clear(context.Context) error {
	m.admin = nil
	return nil
}

func TestLoginLogoutCycle(t *testing.T) {
	p := &memPersister{}
	m := NewManager(p, testLogger())

	var events []bool
	m.Subscribe(func(_ Admin, in bool) { events = append(events, in) })

	admin := Admin{User: models.User{ID: "a1", Role: "admin"}, Token: "tok"}
	m.Login(context.Background(), admin)

	if got, ok := m.Current(); !ok || got.ID != "a1" {
		t.Fatalf("current after login: %+v %v", got, ok)
	}
	if m.Token() != "tok" {
		t.Fatalf("token after login: %q", m.Token())
	}
	if p.admin == nil {
		t.Fatal("login must persist the session")
	}

	m.Logout(context.Background())
	if _, ok := m.Current(); ok {
		t.Fatal("current after logout must be empty")
	}
	if m.Token() != "" {
		t.Fatal("token after logout must be empty")
	}
	if p.admin != nil {
		t.Fatal("logout must clear persisted state")
	}

	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("subscribers saw %v", events)
	}
}

func TestRestore(t *testing.T) {
	p := &memPersister{admin: &Admin{User: models.User{ID: "a2"}, Token: "saved"}}
	m := NewManager(p, testLogger())
	m.Restore(context.Background())

	if m.Token() != "saved" {
		t.Fatalf("restore must install the persisted token, got %q", m.Token())
	}
}

func TestPersistFailureKeepsSession(t *testing.T) {
	p := &memPersister{saveErr: errors.New("redis down")}
	m := NewManager(p, testLogger())
	m.Login(context.Background(), Admin{User: models.User{ID: "a3"}, Token: "tok"})

	// a broken persister must not cost the operator their session
	if m.Token() != "tok" {
		t.Fatal("in-memory session must survive a persist failure")
	}
}

func TestNilPersister(t *testing.T) {
	m := NewManager(nil, testLogger())
	m.Restore(context.Background())
	m.Login(context.Background(), Admin{Token: "t"})
	m.Logout(context.Background())
	if _, ok := m.Current(); ok {
		t.Fatal("logout without persister must still clear the session")
	}
}
