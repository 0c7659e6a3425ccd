package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type AlertRepo interface {
	Create(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) (*types.Alert, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.Alert, error)
	GetActive(ctx context.Context, tx *gorm.DB) ([]types.Alert, error)
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	repoLog := baseLog.With("repo", "AlertRepo")
	return &alertRepo{db: db, log: repoLog}
}

func (ar *alertRepo) Create(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (ar *alertRepo) Update(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	var result types.Alert
	if err := transaction.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *alertRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Delete(&types.Alert{}, id).Error
}

func (ar *alertRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []types.Alert
	if err := transaction.WithContext(ctx).
		Order("sort_order ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *alertRepo) GetActive(ctx context.Context, tx *gorm.DB) ([]types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []types.Alert
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
