package ports

import (
	"context"
	"errors"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrDuplicateSlug       = errors.New("application slug already exists")
	ErrDuplicateCredential = errors.New("credential hash already exists")
)

type Application struct {
	AppID          uint64
	Name           string
	Slug           string
	CredentialHash string
	CredentialHint string
	OwnerEmail     *string
	IsActive       bool
	CreatedAt      string
	RotatedAt      *string
}

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app Application) (Application, error)
	ListApplications(ctx context.Context) ([]Application, error)
	GetApplication(ctx context.Context, appID uint64) (Application, error)
	// FindActiveByCredentialHash resolves a presented credential digest to
	// the single active application owning it.
	FindActiveByCredentialHash(ctx context.Context, hash string) (Application, error)
	// UpdateCredential swaps the stored digest in one statement; the old
	// credential is invalid from that moment (no grace overlap).
	UpdateCredential(ctx context.Context, appID uint64, hash string, hint string, rotatedAt string) error
}
