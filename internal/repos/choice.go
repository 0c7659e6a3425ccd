package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type ChoiceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, choice *types.Choice) (*types.Choice, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) (*types.Choice, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Choice, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]types.Choice, error)
}

type choiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChoiceRepo(db *gorm.DB, baseLog *logger.Logger) ChoiceRepo {
	repoLog := baseLog.With("repo", "ChoiceRepo")
	return &choiceRepo{db: db, log: repoLog}
}

func (cr *choiceRepo) Create(ctx context.Context, tx *gorm.DB, choice *types.Choice) (*types.Choice, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(choice).Error; err != nil {
		return nil, err
	}
	return choice, nil
}

func (cr *choiceRepo) Update(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) (*types.Choice, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	delete(fields, "key")
	if err := transaction.WithContext(ctx).
		Model(&types.Choice{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	return cr.GetByID(ctx, transaction, id)
}

// Delete removes the choice, its children, and every rule where it (or
// a child) is the target or the dependency.
func (cr *choiceRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	ids := []uint{id}
	var childIDs []uint
	if err := transaction.WithContext(ctx).
		Model(&types.Choice{}).
		Where("parent_id = ?", id).
		Pluck("id", &childIDs).Error; err != nil {
		return err
	}
	ids = append(ids, childIDs...)

	if err := transaction.WithContext(ctx).
		Where("target_id IN ? OR depends_on_id IN ?", ids, ids).
		Delete(&types.Rule{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Choice{}).Error
}

func (cr *choiceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Choice, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Choice
	if err := transaction.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *choiceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]types.Choice, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []types.Choice
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
