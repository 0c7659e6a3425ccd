package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type SectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, section *types.Section) (*types.Section, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) (*types.Section, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Section, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.Section, error)
	GetActiveWithChoices(ctx context.Context, tx *gorm.DB) ([]types.Section, error)
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	repoLog := baseLog.With("repo", "SectionRepo")
	return &sectionRepo{db: db, log: repoLog}
}

func (sr *sectionRepo) Create(ctx context.Context, tx *gorm.DB, section *types.Section) (*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(section).Error; err != nil {
		return nil, err
	}
	return section, nil
}

// Update applies a partial field map. The section key is the stable
// contract business rules hang off, so it is never updatable.
func (sr *sectionRepo) Update(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) (*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	delete(fields, "key")
	if err := transaction.WithContext(ctx).
		Model(&types.Section{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	return sr.GetByID(ctx, transaction, id)
}

// Delete removes the section, its choices and every rule referencing
// those choices, in one transaction when tx is provided.
func (sr *sectionRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var choiceIDs []uint
	if err := transaction.WithContext(ctx).
		Model(&types.Choice{}).
		Where("section_id = ?", id).
		Pluck("id", &choiceIDs).Error; err != nil {
		return err
	}
	if len(choiceIDs) > 0 {
		if err := transaction.WithContext(ctx).
			Where("target_id IN ? OR depends_on_id IN ?", choiceIDs, choiceIDs).
			Delete(&types.Rule{}).Error; err != nil {
			return err
		}
		if err := transaction.WithContext(ctx).
			Where("section_id = ?", id).
			Delete(&types.Choice{}).Error; err != nil {
			return err
		}
	}
	return transaction.WithContext(ctx).Delete(&types.Section{}, id).Error
}

func (sr *sectionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Section
	if err := transaction.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *sectionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []types.Section
	if err := transaction.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Order("sort_order ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetActiveWithChoices loads the runtime catalog: active sections with
// their active choices. Root/child nesting is the snapshot builder's
// job; rows come back flat with parent_id set.
func (sr *sectionRepo) GetActiveWithChoices(ctx context.Context, tx *gorm.DB) ([]types.Section, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []types.Section
	if err := transaction.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("sort_order ASC, id ASC")
		}).
		Where("active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
