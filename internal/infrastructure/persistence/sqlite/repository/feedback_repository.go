package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"feedpulse/internal/errs"
	"feedpulse/internal/infrastructure/persistence/sqlite/model"
	"feedpulse/internal/ports"
)

type FeedbackRepository struct {
	db *gorm.DB
}

var _ ports.FeedbackRepository = (*FeedbackRepository)(nil)

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
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

func (r *FeedbackRepository) CreateFeedback(ctx context.Context, input ports.FeedbackCreate) (ports.FeedbackRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.FeedbackRecord{}, err
	}

	row := model.FeedbackRecord{
		AppID:      input.AppID,
		EndUserID:  input.EndUserID,
		Rating:     input.Rating,
		Category:   input.Category,
		Content:    input.Content,
		DeviceJSON: input.DeviceJSON,
		MetaJSON:   input.MetaJSON,
		AppVersion: input.AppVersion,
		OSName:     input.OSName,
		Status:     input.Status,
		CreatedAt:  input.CreatedAt,
	}

	if err := db.Omit("Application").Create(&row).Error; err != nil {
		return ports.FeedbackRecord{}, errs.Wrap(err, "insert feedback record")
	}
	return mapFeedback(row), nil
}

func (r *FeedbackRepository) ListFeedback(ctx context.Context, filter ports.FeedbackFilter) ([]ports.FeedbackRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.FeedbackRecord{})
	if filter.AppID != 0 {
		query = query.Where("app_id = ?", filter.AppID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}
	if filter.AppVersion != "" {
		query = query.Where("app_version = ?", filter.AppVersion)
	}
	if filter.OSName != "" {
		query = query.Where("os_name = ?", filter.OSName)
	}

	if filter.NewestFirst {
		query = query.Order("feedback_id desc")
	} else {
		query = query.Order("feedback_id asc")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []model.FeedbackRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query feedback records")
	}

	items := make([]ports.FeedbackRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapFeedback(row))
	}
	return items, nil
}

func (r *FeedbackRepository) GetFeedback(ctx context.Context, feedbackID uint64) (ports.FeedbackRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.FeedbackRecord{}, err
	}

	var row model.FeedbackRecord
	if err := db.Where("feedback_id = ?", feedbackID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.FeedbackRecord{}, ports.ErrFeedbackNotFound
		}
		return ports.FeedbackRecord{}, errs.Wrap(err, "query feedback by id")
	}
	return mapFeedback(row), nil
}

func (r *FeedbackRepository) UpdateFeedbackStatus(ctx context.Context, feedbackID uint64, fromStatuses []string, to string) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}
	if len(fromStatuses) == 0 {
		return false, nil
	}

	res := db.Model(&model.FeedbackRecord{}).
		Where("feedback_id = ? AND status IN ?", feedbackID, fromStatuses).
		Update("status", to)
	if res.Error != nil {
		return false, errs.Wrap(res.Error, "update feedback status")
	}
	return res.RowsAffected > 0, nil
}

func (r *FeedbackRepository) DeleteFeedback(ctx context.Context, feedbackID uint64) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	res := db.Where("feedback_id = ?", feedbackID).Delete(&model.FeedbackRecord{})
	if res.Error != nil {
		return false, errs.Wrap(res.Error, "delete feedback record")
	}
	return res.RowsAffected > 0, nil
}

func mapFeedback(row model.FeedbackRecord) ports.FeedbackRecord {
	return ports.FeedbackRecord{
		FeedbackID: row.FeedbackID,
		AppID:      row.AppID,
		EndUserID:  row.EndUserID,
		Rating:     row.Rating,
		Category:   row.Category,
		Content:    row.Content,
		DeviceJSON: row.DeviceJSON,
		MetaJSON:   row.MetaJSON,
		AppVersion: row.AppVersion,
		OSName:     row.OSName,
		Status:     row.Status,
		CreatedAt:  row.CreatedAt,
	}
}
