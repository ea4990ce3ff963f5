package kyc

import (
	"context"
	"errors"
	"testing"

	"github.com/tripmate/console/internal/models"
)

type fakeBackend struct {
	riders    []models.User
	verifyErr error

	gotID     string
	gotStatus models.RiderStatus
	gotReason string
}

func (f *fakeBackend) PendingRiders(context.Context) ([]models.User, error) {
	return f.riders, nil
}

func (f *fakeBackend) VerifyRider(_ context.Context, id string, status models.RiderStatus, reason string) error {
	f.gotID, f.gotStatus, f.gotReason = id, status, reason
	return f.verifyErr
}

func twoPending() []models.User {
	return []models.User{
		{ID: "r1", FullName: "Hari", RiderStatus: models.RiderPending},
		{ID: "r2", FullName: "Gita", RiderStatus: models.RiderPending},
	}
}

func TestApproveRemovesFromWorkingSet(t *testing.T) {
	b := &fakeBackend{riders: twoPending()}
	s := NewService(b)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := s.Approve(context.Background(), "r1"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if b.gotID != "r1" || b.gotStatus != models.RiderApproved {
		t.Fatalf("decision not forwarded: %s %s", b.gotID, b.gotStatus)
	}

	left := s.Pending()
	if len(left) != 1 || left[0].ID != "r2" {
		t.Fatalf("approved rider must leave the set, got %+v", left)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	b := &fakeBackend{riders: twoPending()}
	s := NewService(b)
	s.Refresh(context.Background())

	if err := s.Reject(context.Background(), "r1", "  "); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
	if b.gotID != "" {
		t.Fatal("no backend call without a reason")
	}
	if len(s.Pending()) != 2 {
		t.Fatal("refused rejection must not touch the set")
	}

	if err := s.Reject(context.Background(), "r1", "expired license"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if b.gotStatus != models.RiderRejected || b.gotReason != "expired license" {
		t.Fatalf("rejection not forwarded: %s %q", b.gotStatus, b.gotReason)
	}
}

func TestFailedDecisionKeepsRider(t *testing.T) {
	b := &fakeBackend{riders: twoPending(), verifyErr: errors.New("backend down")}
	s := NewService(b)
	s.Refresh(context.Background())

	if err := s.Approve(context.Background(), "r1"); err == nil {
		t.Fatal("backend error must propagate")
	}
	if len(s.Pending()) != 2 {
		t.Fatal("failed decision must leave the working set untouched")
	}
}

func TestPendingReturnsCopy(t *testing.T) {
	b := &fakeBackend{riders: twoPending()}
	s := NewService(b)
	s.Refresh(context.Background())

	got := s.Pending()
	got[0].ID = "mutated"
	if s.Pending()[0].ID != "r1" {
		t.Fatal("callers must not reach the internal slice")
	}
}
