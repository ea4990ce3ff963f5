package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tripmate/console/internal/audit"
	"github.com/tripmate/console/internal/kyc"
	"github.com/tripmate/console/internal/models"
	"github.com/tripmate/console/internal/platform"
	"github.com/tripmate/console/internal/session"
)

type lineResolver struct{}

func (lineResolver) Route(_ context.Context, from, to models.LatLng) []models.LatLng {
	return []models.LatLng{from, to}
}

// newTestServer wires a console server against a fake platform backend.
func newTestServer(t *testing.T, backend http.Handler) (*Server, *httptest.Server) {
	t.Helper()
	bs := httptest.NewServer(backend)
	t.Cleanup(bs.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewManager(nil, logger)
	client := platform.NewClient(bs.URL, time.Second)
	client.TokenFunc = sessions.Token

	srv := NewServer(Deps{
		Platform: client,
		Sessions: sessions,
		KYC:      kyc.NewService(client),
		Resolver: lineResolver{},
		Audit:    audit.NewMemoryStore(),
		Logger:   logger,
	})
	return srv, bs
}

func signIn(srv *Server) {
	srv.Sessions.Login(context.Background(), session.Admin{
		User:  models.User{ID: "a1", Email: "admin@example.com", Role: "admin"},
		Token: "tok",
	})
}

func doReq(srv *Server, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestLoginNonAdminForbidden(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"_id": "u1", "role": "passenger", "token": "t"})
	}))

	rec := doReq(srv, http.MethodPost, "/api/login", "", strings.NewReader(`{"email":"u","password":"p"}`))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin login must be forbidden, got %d", rec.Code)
	}
	if _, ok := srv.Sessions.Current(); ok {
		t.Fatal("no session after a refused login")
	}
}

func TestLoginInstallsSessionAndAudits(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"_id": "a1", "email": "admin@example.com", "role": "admin", "token": "tok9"})
	}))

	rec := doReq(srv, http.MethodPost, "/api/login", "", strings.NewReader(`{"email":"admin@example.com","password":"p"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	if srv.Sessions.Token() != "tok9" {
		t.Fatalf("session token not installed, got %q", srv.Sessions.Token())
	}

	entries, _ := srv.Audit.Recent(10)
	if len(entries) != 1 || entries[0].Action != audit.ActionLogin || entries[0].Actor != "admin@example.com" {
		t.Fatalf("login must leave an audit entry, got %+v", entries)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	if rec := doReq(srv, http.MethodGet, "/api/users", "tok", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no session must be 401, got %d", rec.Code)
	}

	signIn(srv)
	if rec := doReq(srv, http.MethodGet, "/api/users", "wrong", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token must be 401, got %d", rec.Code)
	}
	if rec := doReq(srv, http.MethodGet, "/api/users", "tok", nil); rec.Code != http.StatusOK {
		t.Fatalf("valid token must pass, got %d", rec.Code)
	}

	// websocket clients carry the token as a query parameter
	req := httptest.NewRequest(http.MethodGet, "/api/users?token=tok", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query token must pass, got %d", rec.Code)
	}
}

func ridesBackend() http.Handler {
	rides := []models.Ride{
		{ID: "r1", Status: models.StatusBooked, FromLocation: "Baneshwor", Rider: &models.User{FullName: "Hari"}},
		{ID: "r2", Status: models.StatusOngoing, FromLocation: "Patan"},
		{ID: "r3", Status: models.StatusCompleted, FromLocation: "Thamel", Rider: &models.User{FullName: "Gita"}},
		{ID: "r4", Status: models.StatusActive, FromLocation: "Kalanki"},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rides)
	})
}

func decodeRides(t *testing.T, rec *httptest.ResponseRecorder) []models.Ride {
	t.Helper()
	var out []models.Ride
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode rides: %v", err)
	}
	return out
}

func TestRidesStatusFilter(t *testing.T) {
	srv, _ := newTestServer(t, ridesBackend())
	signIn(srv)

	rec := doReq(srv, http.MethodGet, "/api/rides?status=pending", "tok", nil)
	got := decodeRides(t, rec)
	if len(got) != 2 {
		t.Fatalf("pending covers searching through pickup, got %+v", got)
	}
	for _, ride := range got {
		if ride.ID != "r1" && ride.ID != "r4" {
			t.Fatalf("unexpected ride in pending: %s", ride.ID)
		}
	}

	rec = doReq(srv, http.MethodGet, "/api/rides?status=completed", "tok", nil)
	if got = decodeRides(t, rec); len(got) != 1 || got[0].ID != "r3" {
		t.Fatalf("completed filter wrong: %+v", got)
	}
}

func TestRidesSearch(t *testing.T) {
	srv, _ := newTestServer(t, ridesBackend())
	signIn(srv)

	rec := doReq(srv, http.MethodGet, "/api/rides?q=hari", "tok", nil)
	if got := decodeRides(t, rec); len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("rider name search wrong: %+v", got)
	}

	rec = doReq(srv, http.MethodGet, "/api/rides?q=patan", "tok", nil)
	if got := decodeRides(t, rec); len(got) != 1 || got[0].ID != "r2" {
		t.Fatalf("origin search wrong: %+v", got)
	}
}

func TestVerifyRiderRejectNeedsReason(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	signIn(srv)

	rec := doReq(srv, http.MethodPut, "/api/pending-riders/r1/verify", "tok",
		strings.NewReader(`{"status":"rejected"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reasonless rejection must be 400, got %d", rec.Code)
	}

	rec = doReq(srv, http.MethodPut, "/api/pending-riders/r1/verify", "tok",
		strings.NewReader(`{"status":"rejected","reason":"fake billbook"}`))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("valid rejection failed: %d %s", rec.Code, rec.Body.String())
	}

	entries, _ := srv.Audit.Recent(10)
	if len(entries) != 1 || entries[0].Action != audit.ActionKYCRejected || entries[0].Detail != "fake billbook" {
		t.Fatalf("rejection must be audited with its reason, got %+v", entries)
	}
}

func TestVerifyRiderBadStatus(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	signIn(srv)

	rec := doReq(srv, http.MethodPut, "/api/pending-riders/r1/verify", "tok",
		strings.NewReader(`{"status":"maybe"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status must be 400, got %d", rec.Code)
	}
}

func usersBackend(deleted *[]string) http.Handler {
	users := []models.User{
		{ID: "u7", FullName: "Ram", Role: "passenger"},
		{ID: "a1", FullName: "Admin", Role: "admin"},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/users":
			json.NewEncoder(w).Encode(users)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/admin/user/"):
			*deleted = append(*deleted, strings.TrimPrefix(r.URL.Path, "/admin/user/"))
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	})
}

func TestDeleteUserAudited(t *testing.T) {
	var deleted []string
	srv, _ := newTestServer(t, usersBackend(&deleted))
	signIn(srv)

	rec := doReq(srv, http.MethodDelete, "/api/users/u7", "tok", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d %s", rec.Code, rec.Body.String())
	}
	if len(deleted) != 1 || deleted[0] != "u7" {
		t.Fatalf("delete not forwarded, got %v", deleted)
	}

	entries, _ := srv.Audit.Recent(10)
	if len(entries) != 1 || entries[0].Action != audit.ActionDeleteUser || entries[0].TargetID != "u7" {
		t.Fatalf("delete must be audited, got %+v", entries)
	}
}

func TestDeleteAdminRefused(t *testing.T) {
	var deleted []string
	srv, _ := newTestServer(t, usersBackend(&deleted))
	signIn(srv)

	rec := doReq(srv, http.MethodDelete, "/api/users/a1", "tok", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin delete must be forbidden, got %d", rec.Code)
	}
	if len(deleted) != 0 {
		t.Fatal("refused delete must not reach the backend")
	}
	if entries, _ := srv.Audit.Recent(10); len(entries) != 0 {
		t.Fatal("refused delete must not be audited")
	}
}

func TestDashboardAggregates(t *testing.T) {
	srv, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/analytics":
			json.NewEncoder(w).Encode(models.Analytics{DailyStats: []models.DailyStat{{Date: "2026-08-27", Revenue: 420}}})
		case "/admin/stats":
			json.NewEncoder(w).Encode(models.Stats{TotalRides: 7})
		default:
			http.NotFound(w, r)
		}
	}))
	signIn(srv)

	rec := doReq(srv, http.MethodGet, "/api/dashboard", "tok", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d", rec.Code)
	}
	var out struct {
		Analytics models.Analytics `json:"analytics"`
		Stats     models.Stats     `json:"stats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Analytics.DailyStats) != 1 || out.Stats.TotalRides != 7 {
		t.Fatalf("dashboard payload wrong: %+v", out)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, http.NotFoundHandler())
	rec := doReq(srv, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz must be open, got %d", rec.Code)
	}
}
