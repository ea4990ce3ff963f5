// Package kyc drives the rider verification queue: list pending riders,
// submit a one-shot approve/reject decision, and keep the local working
// set in step with what succeeded. A failed submission changes nothing
// locally; the operator retries by hand.
package kyc

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tripmate/console/internal/models"
	"github.com/tripmate/console/internal/observability"
)

// ErrReasonRequired is returned when a rejection carries no reason.
var ErrReasonRequired = errors.New("kyc: rejection requires a reason")

// Backend is the slice of the platform client this service needs.
type Backend interface {
	PendingRiders(ctx context.Context) ([]models.User, error)
	VerifyRider(ctx context.Context, id string, status models.RiderStatus, reason string) error
}

type Service struct {
	backend Backend

	mu      sync.RWMutex
	pending []models.User
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Refresh reloads the pending working set from the backend.
func (s *Service) Refresh(ctx context.Context) error {
	riders, err := s.backend.PendingRiders(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.pending = riders
	s.mu.Unlock()
	return nil
}

// Pending returns the current working set.
func (s *Service) Pending() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.pending))
	copy(out, s.pending)
	return out
}

// Approve marks the rider verified and drops them from the working set.
func (s *Service) Approve(ctx context.Context, id string) error {
	return s.decide(ctx, id, models.RiderApproved, "")
}

// Reject declines the application. The reason is mandatory and is passed
// through to the rider.
func (s *Service) Reject(ctx context.Context, id, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return s.decide(ctx, id, models.RiderRejected, reason)
}

func (s *Service) decide(ctx context.Context, id string, status models.RiderStatus, reason string) error {
	if err := s.backend.VerifyRider(ctx, id, status, reason); err != nil {
		return err
	}
	observability.KYCDecisionsTotal.WithLabelValues(string(status)).Inc()
	s.mu.Lock()
	kept := s.pending[:0]
	for _, r := range s.pending {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.pending = kept
	s.mu.Unlock()
	return nil
}
