package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"feedpulse/internal/errs"
	"feedpulse/internal/infrastructure/persistence/sqlite/model"
	"feedpulse/internal/ports"
)

type ApplicationRepository struct {
	db *gorm.DB
}

var _ ports.ApplicationRepository = (*ApplicationRepository)(nil)

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, app ports.Application) (ports.Application, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Application{}, err
	}

	row := model.Application{
		Name:           app.Name,
		Slug:           app.Slug,
		CredentialHash: app.CredentialHash,
		CredentialHint: app.CredentialHint,
		OwnerEmail:     app.OwnerEmail,
		IsActive:       app.IsActive,
		CreatedAt:      app.CreatedAt,
		RotatedAt:      app.RotatedAt,
	}

	if err := db.Create(&row).Error; err != nil {
		if dupErr := mapUniqueViolation(err); dupErr != nil {
			return ports.Application{}, dupErr
		}
		return ports.Application{}, errs.Wrap(err, "insert application")
	}
	return mapApplication(row), nil
}

func (r *ApplicationRepository) ListApplications(ctx context.Context) ([]ports.Application, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Application
	if err := db.Order("app_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query applications")
	}

	items := make([]ports.Application, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapApplication(row))
	}
	return items, nil
}

func (r *ApplicationRepository) GetApplication(ctx context.Context, appID uint64) (ports.Application, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Application{}, err
	}

	var row model.Application
	if err := db.Where("app_id = ?", appID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Application{}, ports.ErrApplicationNotFound
		}
		return ports.Application{}, errs.Wrap(err, "query application by id")
	}
	return mapApplication(row), nil
}

func (r *ApplicationRepository) FindActiveByCredentialHash(ctx context.Context, hash string) (ports.Application, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Application{}, err
	}

	// Exact equality on the indexed digest column; the same shape of
	// query regardless of how close the presented key is to a real one.
	var row model.Application
	if err := db.Where("credential_hash = ? AND is_active = ?", hash, true).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Application{}, ports.ErrApplicationNotFound
		}
		return ports.Application{}, errs.Wrap(err, "query application by credential")
	}
	return mapApplication(row), nil
}

func (r *ApplicationRepository) UpdateCredential(ctx context.Context, appID uint64, hash string, hint string, rotatedAt string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	res := db.Model(&model.Application{}).
		Where("app_id = ?", appID).
		Updates(map[string]any{
			"credential_hash": hash,
			"credential_hint": hint,
			"rotated_at":      rotatedAt,
		})
	if res.Error != nil {
		if dupErr := mapUniqueViolation(res.Error); dupErr != nil {
			return dupErr
		}
		return errs.Wrap(res.Error, "update application credential")
	}
	if res.RowsAffected == 0 {
		return ports.ErrApplicationNotFound
	}
	return nil
}

func mapApplication(row model.Application) ports.Application {
	return ports.Application{
		AppID:          row.AppID,
		Name:           row.Name,
		Slug:           row.Slug,
		CredentialHash: row.CredentialHash,
		CredentialHint: row.CredentialHint,
		OwnerEmail:     row.OwnerEmail,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt,
		RotatedAt:      row.RotatedAt,
	}
}

// mapUniqueViolation translates sqlite unique-index failures into the
// ports sentinels; nil means the error was something else.
func mapUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if strings.Contains(msg, "credential_hash") {
		return ports.ErrDuplicateCredential
	}
	return ports.ErrDuplicateSlug
}
