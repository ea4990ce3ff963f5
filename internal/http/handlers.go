package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tripmate/console/internal/audit"
	"github.com/tripmate/console/internal/kyc"
	"github.com/tripmate/console/internal/models"
	"github.com/tripmate/console/internal/platform"
	"github.com/tripmate/console/internal/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := s.Platform.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, platform.ErrNotAdmin):
		writeError(w, http.StatusForbidden, "access denied: admins only")
		return
	case errors.Is(err, platform.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		s.logger.Error("login failed", "error", err)
		writeError(w, http.StatusBadGateway, "login unavailable")
		return
	}
	s.Sessions.Login(r.Context(), session.Admin{User: res.User, Token: res.Token})
	s.record(audit.Entry{Actor: res.Email, Action: audit.ActionLogin})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	admin, _ := s.Sessions.Current()
	s.Sessions.Logout(r.Context())
	s.record(audit.Entry{Actor: admin.Email, Action: audit.ActionLogout})
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard aggregates the two analytics fetches the dashboard view
// renders from.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	analytics, err := s.Platform.Analytics(r.Context())
	if err != nil {
		s.logger.Error("analytics fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "analytics unavailable")
		return
	}
	stats, err := s.Platform.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"analytics": analytics,
		"stats":     stats,
	})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Platform.Users(r.Context())
	if err != nil {
		s.logger.Error("users fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "users unavailable")
		return
	}
	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		filtered := users[:0]
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.FullName), q) || strings.Contains(strings.ToLower(u.Email), q) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	users, err := s.Platform.Users(r.Context())
	if err != nil {
		s.logger.Error("users fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "users unavailable")
		return
	}
	for _, u := range users {
		if u.ID == id && u.Role == "admin" {
			writeError(w, http.StatusForbidden, "admin accounts cannot be deleted")
			return
		}
	}
	if err := s.Platform.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error("user delete failed", "user_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "delete failed")
		return
	}
	admin, _ := s.Sessions.Current()
	s.record(audit.Entry{Actor: admin.Email, Action: audit.ActionDeleteUser, TargetID: id})
	w.WriteHeader(http.StatusNoContent)
}

// rideCategories maps the list filter chips onto status sets. "Pending"
// covers everything between searching and pickup.
var rideCategories = map[string][]models.RideStatus{
	"pending":   {models.StatusActive, models.StatusBooked, models.StatusHeadingToPickup, models.StatusArrived},
	"ongoing":   {models.StatusOngoing},
	"completed": {models.StatusCompleted},
	"cancelled": {models.StatusCancelled},
}

func (s *Server) handleRides(w http.ResponseWriter, r *http.Request) {
	rides, err := s.Platform.Rides(r.Context())
	if err != nil {
		s.logger.Error("rides fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "rides unavailable")
		return
	}
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	statuses := rideCategories[category]

	filtered := rides[:0]
	for _, ride := range rides {
		if q != "" && !rideMatches(ride, q) {
			continue
		}
		if len(statuses) > 0 && !statusIn(ride.Status, statuses) {
			continue
		}
		filtered = append(filtered, ride)
	}
	writeJSON(w, http.StatusOK, filtered)
}

func rideMatches(ride models.Ride, q string) bool {
	if strings.Contains(strings.ToLower(ride.FromLocation), q) {
		return true
	}
	return ride.Rider != nil && strings.Contains(strings.ToLower(ride.Rider.FullName), q)
}

func statusIn(s models.RideStatus, set []models.RideStatus) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

// handleRidePayment enriches a digitally settled ride with the gateway
// record its payment reference points at.
func (s *Server) handleRidePayment(w http.ResponseWriter, r *http.Request) {
	if s.Payments == nil {
		writeError(w, http.StatusNotFound, "payment lookup not configured")
		return
	}
	id := mux.Vars(r)["id"]
	rides, err := s.Platform.Rides(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "rides unavailable")
		return
	}
	for _, ride := range rides {
		if ride.ID != id {
			continue
		}
		if ride.PaymentRef == "" {
			writeError(w, http.StatusNotFound, "ride has no gateway payment")
			return
		}
		detail, err := s.Payments.Lookup(r.Context(), ride.PaymentRef)
		if err != nil {
			s.logger.Error("payment lookup failed", "ride_id", id, "error", err)
			writeError(w, http.StatusBadGateway, "payment lookup failed")
			return
		}
		writeJSON(w, http.StatusOK, detail)
		return
	}
	writeError(w, http.StatusNotFound, "ride not found")
}

func (s *Server) handlePendingRiders(w http.ResponseWriter, r *http.Request) {
	if err := s.KYC.Refresh(r.Context()); err != nil {
		s.logger.Error("pending riders fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "pending riders unavailable")
		return
	}
	writeJSON(w, http.StatusOK, s.KYC.Pending())
}

func (s *Server) handleVerifyRider(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Status models.RiderStatus `json:"status"`
		Reason string             `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var err error
	var action audit.Action
	switch req.Status {
	case models.RiderApproved:
		err = s.KYC.Approve(r.Context(), id)
		action = audit.ActionKYCApproved
	case models.RiderRejected:
		err = s.KYC.Reject(r.Context(), id, req.Reason)
		action = audit.ActionKYCRejected
	default:
		writeError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}
	if errors.Is(err, kyc.ErrReasonRequired) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("kyc decision failed", "rider_id", id, "error", err)
		writeError(w, http.StatusBadGateway, "decision failed")
		return
	}
	admin, _ := s.Sessions.Current()
	s.record(audit.Entry{Actor: admin.Email, Action: action, TargetID: id, Detail: req.Reason})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Audit.Recent(50)
	if err != nil {
		s.logger.Error("audit read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "audit unavailable")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// record appends to the audit trail and publishes to the event bus, both
// best-effort; a lost audit line never fails the operator's action.
func (s *Server) record(e audit.Entry) {
	e.ID = newID()
	e.CreatedAt = time.Now().UTC()
	if err := s.Audit.Append(e); err != nil {
		s.logger.Warn("audit append failed", "action", e.Action, "error", err)
	}
	if s.Events != nil {
		if err := s.Events.PublishAction(e); err != nil {
			s.logger.Warn("audit publish failed", "action", e.Action, "error", err)
		}
	}
}
