package services

import (
	"errors"
	"testing"

	"github.com/Leiracamera/clarityPMDD/internal/models"
)

func TestParseAccessMode(t *testing.T) {
	mode, err := ParseAccessMode(" Owner ")
	if err != nil {
		t.Fatalf("ParseAccessMode() unexpected error: %v", err)
	}
	if mode != AccessModeOwner {
		t.Fatalf("expected owner mode, got %q", mode)
	}

	if _, err := ParseAccessMode("public"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestAccessPolicyOpenModeIgnoresIdentity(t *testing.T) {
	policy := NewAccessPolicy(AccessModeOpen)
	if policy.RequiresIdentity() {
		t.Fatal("open mode must not require identity")
	}

	for _, identity := range []*models.User{nil, {ID: 4}} {
		scope, err := policy.Resolve(identity)
		if err != nil {
			t.Fatalf("Resolve() unexpected error: %v", err)
		}
		if scope.Owned() {
			t.Fatalf("expected unscoped filter, got owner %v", scope.Owner())
		}
	}
}

func TestAccessPolicyOwnerModeScopesToIdentity(t *testing.T) {
	policy := NewAccessPolicy(AccessModeOwner)

	scope, err := policy.Resolve(&models.User{ID: 12})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if owner := scope.Owner(); owner == nil || *owner != 12 {
		t.Fatalf("expected scope owned by 12, got %v", owner)
	}

	if _, err := policy.Resolve(nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := policy.Resolve(&models.User{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for zero id, got %v", err)
	}
}
