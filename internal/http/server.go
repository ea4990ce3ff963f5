package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripmate/console/internal/audit"
	"github.com/tripmate/console/internal/events"
	"github.com/tripmate/console/internal/kyc"
	"github.com/tripmate/console/internal/payments"
	"github.com/tripmate/console/internal/platform"
	"github.com/tripmate/console/internal/routing"
	"github.com/tripmate/console/internal/session"
)

// Server is the console API: it owns the admin session, proxies the
// platform REST surface, and streams derived tracking views to the client.
type Server struct {
	Platform *platform.Client
	Sessions *session.Manager
	KYC      *kyc.Service
	Resolver routing.Resolver
	Audit    audit.Store
	Events   *events.Publisher      // optional
	Payments *payments.StripeClient // optional
	WSURL    string                 // platform realtime endpoint

	logger *slog.Logger
	mux    *mux.Router
}

// Deps carries everything the server needs; optional fields may be nil.
type Deps struct {
	Platform *platform.Client
	Sessions *session.Manager
	KYC      *kyc.Service
	Resolver routing.Resolver
	Audit    audit.Store
	Events   *events.Publisher
	Payments *payments.StripeClient
	WSURL    string
	Logger   *slog.Logger
}

func NewServer(d Deps) *Server {
	s := &Server{
		Platform: d.Platform,
		Sessions: d.Sessions,
		KYC:      d.KYC,
		Resolver: d.Resolver,
		Audit:    d.Audit,
		Events:   d.Events,
		Payments: d.Payments,
		WSURL:    d.WSURL,
		logger:   d.Logger,
		mux:      mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/login", s.handleLogin).Methods("POST")

	api := s.mux.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/logout", s.handleLogout).Methods("POST")
	api.HandleFunc("/dashboard", s.handleDashboard).Methods("GET")
	api.HandleFunc("/users", s.handleUsers).Methods("GET")
	api.HandleFunc("/users/{id}", s.handleDeleteUser).Methods("DELETE")
	api.HandleFunc("/rides", s.handleRides).Methods("GET")
	api.HandleFunc("/rides/{id}/payment", s.handleRidePayment).Methods("GET")
	api.HandleFunc("/pending-riders", s.handlePendingRiders).Methods("GET")
	api.HandleFunc("/pending-riders/{id}/verify", s.handleVerifyRider).Methods("PUT")
	api.HandleFunc("/audit", s.handleAudit).Methods("GET")

	ws := s.mux.PathPrefix("/ws").Subrouter()
	ws.Use(s.authMiddleware)
	ws.HandleFunc("/rides/{id}/track", s.handleTrack)

	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
