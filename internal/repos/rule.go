package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type RuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rule *types.Rule) (*types.Rule, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.Rule, error)
}

type ruleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRuleRepo(db *gorm.DB, baseLog *logger.Logger) RuleRepo {
	repoLog := baseLog.With("repo", "RuleRepo")
	return &ruleRepo{db: db, log: repoLog}
}

func (rr *ruleRepo) Create(ctx context.Context, tx *gorm.DB, rule *types.Rule) (*types.Rule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if rule.Type == "" {
		rule.Type = types.RuleShowIf
	}
	if err := transaction.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (rr *ruleRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).Delete(&types.Rule{}, id).Error
}

func (rr *ruleRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.Rule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []types.Rule
	if err := transaction.WithContext(ctx).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
