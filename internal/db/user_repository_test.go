package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/models"
	"gorm.io/gorm"
)

func TestUserRepositoryLookups(t *testing.T) {
	t.Parallel()

	database := newEntryRepositoryTestDB(t)
	repo := NewUserRepository(database)
	ctx := context.Background()

	user := createEntryRepositoryTestUser(t, database, "person@example.com")

	exists, err := repo.ExistsByNormalizedEmail(ctx, "person@example.com")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected email to exist")
	}

	if err := repo.LinkGoogleID(ctx, user.ID, "google-123"); err != nil {
		t.Fatalf("link google id: %v", err)
	}
	linked, found, err := repo.FindByGoogleID(ctx, "google-123")
	if err != nil || !found {
		t.Fatalf("find by google id: found=%v err=%v", found, err)
	}
	if linked.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, linked.ID)
	}

	if err := repo.UpdatePassword(ctx, user.ID, "new-hash"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	reloaded, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if reloaded.PasswordHash == nil || *reloaded.PasswordHash != "new-hash" {
		t.Fatalf("expected password hash to be updated, got %v", reloaded.PasswordHash)
	}

	if _, found, err := repo.FindByNormalizedEmail(ctx, "missing@example.com"); err != nil || found {
		t.Fatalf("expected missing email lookup to miss, found=%v err=%v", found, err)
	}
	if _, err := repo.FindByID(ctx, 9999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	database := newEntryRepositoryTestDB(t)
	createEntryRepositoryTestUser(t, database, "dup@example.com")

	duplicate := models.User{Email: "dup@example.com", CreatedAt: time.Now().UTC()}
	if err := NewUserRepository(database).Create(context.Background(), &duplicate); err == nil {
		t.Fatal("expected unique email violation")
	}
}
