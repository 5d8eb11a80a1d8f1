package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"profile-hub/internal/domain"
)

func newTestVerification(claims []domain.IdentityClaim) (*VerificationService, *mockProfileRepo, *mockSender) {
	repo := newMockProfileRepo()
	repo.profiles["alice"] = domain.Profile{ID: "alice", FullName: "Alice"}
	identities := &mockIdentityRepo{claims: map[string][]domain.IdentityClaim{"alice": claims}}
	sender := &mockSender{}
	return NewVerificationService(zap.NewNop(), identities, repo, sender, "linkedin_oidc", nil), repo, sender
}

func TestVerificationService_RejectsUntrustedProvider(t *testing.T) {
	svc, repo, _ := newTestVerification([]domain.IdentityClaim{{UserID: "alice", Provider: "google"}})

	err := svc.Verify(context.Background(), domain.Principal{ID: "alice"})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if domain.PublicMessage(err) != "no qualifying identity claim" {
		t.Fatalf("unexpected message: %q", domain.PublicMessage(err))
	}
	if repo.profiles["alice"].IsVerified {
		t.Fatalf("expected profile to stay unverified")
	}
}

func TestVerificationService_VerifiesTrustedProvider(t *testing.T) {
	svc, repo, sender := newTestVerification([]domain.IdentityClaim{
		{UserID: "alice", Provider: "google"},
		{UserID: "alice", Provider: "linkedin_oidc"},
	})

	if err := svc.Verify(context.Background(), domain.Principal{ID: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.profiles["alice"].IsVerified {
		t.Fatalf("expected profile verified")
	}
	if sender.calls != 1 || sender.lastTo != "alice@example.com" || sender.lastName != "Alice" {
		t.Fatalf("expected one notification to alice, got %+v", sender)
	}
}

func TestVerificationService_IsIdempotent(t *testing.T) {
	svc, repo, sender := newTestVerification([]domain.IdentityClaim{{UserID: "alice", Provider: "linkedin_oidc"}})
	alice := domain.Principal{ID: "alice", Email: "alice@example.com"}

	if err := svc.Verify(context.Background(), alice); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if err := svc.Verify(context.Background(), alice); err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if repo.verifiedCalls != 1 {
		t.Fatalf("expected a single write, got %d", repo.verifiedCalls)
	}
	if sender.calls != 1 {
		t.Fatalf("expected a single notification, got %d", sender.calls)
	}
}

func TestVerificationService_EmailFailureDoesNotFail(t *testing.T) {
	svc, repo, sender := newTestVerification([]domain.IdentityClaim{{UserID: "alice", Provider: "linkedin_oidc"}})
	sender.err = errors.New("smtp down")

	if err := svc.Verify(context.Background(), domain.Principal{ID: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.profiles["alice"].IsVerified {
		t.Fatalf("expected profile verified")
	}
}

func TestVerificationService_Errors(t *testing.T) {
	svc, _, _ := newTestVerification(nil)
	if err := svc.Verify(context.Background(), domain.Principal{}); domain.KindOf(err) != domain.KindNotAuthenticated {
		t.Fatalf("expected not authenticated, got %v", err)
	}

	svc.identities = &mockIdentityRepo{err: errors.New("identity store down")}
	if err := svc.Verify(context.Background(), domain.Principal{ID: "alice"}); domain.KindOf(err) != domain.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}

	svc.identities = &mockIdentityRepo{claims: map[string][]domain.IdentityClaim{"bob": {{Provider: "linkedin_oidc"}}}}
	if err := svc.Verify(context.Background(), domain.Principal{ID: "bob"}); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
