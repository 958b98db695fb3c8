package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedpulse/internal/ports"
)

func testApplication(slug string, hash string) ports.Application {
	return ports.Application{
		Name:           "Test App",
		Slug:           slug,
		CredentialHash: hash,
		CredentialHint: "cdef",
		IsActive:       true,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func TestCreateAndGetApplication(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	created, err := repo.CreateApplication(ctx, testApplication("demo-app", "hash-1"))
	if err != nil {
		t.Fatalf("CreateApplication() error = %v", err)
	}
	if created.AppID == 0 {
		t.Fatal("CreateApplication() app_id = 0")
	}

	got, err := repo.GetApplication(ctx, created.AppID)
	if err != nil {
		t.Fatalf("GetApplication() error = %v", err)
	}
	if got.Slug != "demo-app" || got.CredentialHash != "hash-1" || !got.IsActive {
		t.Fatalf("GetApplication() = %+v", got)
	}

	if _, err := repo.GetApplication(ctx, created.AppID+100); !errors.Is(err, ports.ErrApplicationNotFound) {
		t.Fatalf("GetApplication(missing) error = %v", err)
	}
}

func TestCreateApplicationDuplicateSlug(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	if _, err := repo.CreateApplication(ctx, testApplication("demo-app", "hash-1")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := repo.CreateApplication(ctx, testApplication("demo-app", "hash-2"))
	if !errors.Is(err, ports.ErrDuplicateSlug) {
		t.Fatalf("duplicate slug error = %v, want ErrDuplicateSlug", err)
	}
}

func TestCreateApplicationDuplicateCredential(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	if _, err := repo.CreateApplication(ctx, testApplication("app-one", "hash-1")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := repo.CreateApplication(ctx, testApplication("app-two", "hash-1"))
	if !errors.Is(err, ports.ErrDuplicateCredential) {
		t.Fatalf("duplicate credential error = %v, want ErrDuplicateCredential", err)
	}
}

func TestFindActiveByCredentialHash(t *testing.T) {
	db := setupDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	created, err := repo.CreateApplication(ctx, testApplication("demo-app", "hash-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindActiveByCredentialHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("FindActiveByCredentialHash() error = %v", err)
	}
	if got.AppID != created.AppID {
		t.Fatalf("resolved app_id = %d, want %d", got.AppID, created.AppID)
	}

	if _, err := repo.FindActiveByCredentialHash(ctx, "hash-unknown"); !errors.Is(err, ports.ErrApplicationNotFound) {
		t.Fatalf("unknown hash error = %v", err)
	}

	// Deactivated applications no longer authenticate.
	if err := db.Exec("UPDATE applications SET is_active = 0 WHERE app_id = ?", created.AppID).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := repo.FindActiveByCredentialHash(ctx, "hash-1"); !errors.Is(err, ports.ErrApplicationNotFound) {
		t.Fatalf("inactive app error = %v, want ErrApplicationNotFound", err)
	}
}

func TestUpdateCredential(t *testing.T) {
	repo := NewApplicationRepository(setupDB(t))
	ctx := context.Background()

	created, err := repo.CreateApplication(ctx, testApplication("demo-app", "hash-old"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rotatedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if err := repo.UpdateCredential(ctx, created.AppID, "hash-new", "wxyz", rotatedAt); err != nil {
		t.Fatalf("UpdateCredential() error = %v", err)
	}

	// Old digest stops resolving the moment the swap lands.
	if _, err := repo.FindActiveByCredentialHash(ctx, "hash-old"); !errors.Is(err, ports.ErrApplicationNotFound) {
		t.Fatalf("old hash error = %v, want ErrApplicationNotFound", err)
	}
	got, err := repo.FindActiveByCredentialHash(ctx, "hash-new")
	if err != nil {
		t.Fatalf("new hash error = %v", err)
	}
	if got.RotatedAt == nil || *got.RotatedAt != rotatedAt {
		t.Fatalf("rotated_at = %v", got.RotatedAt)
	}

	if err := repo.UpdateCredential(ctx, created.AppID+100, "h", "x", rotatedAt); !errors.Is(err, ports.ErrApplicationNotFound) {
		t.Fatalf("missing app error = %v", err)
	}
}
