package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type QuoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quote *types.Quote) (*types.Quote, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quote, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]types.Quote, error)
	GetByAgentID(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) ([]types.Quote, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
}

type quoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	repoLog := baseLog.With("repo", "QuoteRepo")
	return &quoteRepo{db: db, log: repoLog}
}

// Create persists the quote with its selections in one insert; the
// selection rows ride the association.
func (qr *quoteRepo) Create(ctx context.Context, tx *gorm.DB, quote *types.Quote) (*types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	if err := transaction.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (qr *quoteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var result types.Quote
	if err := transaction.WithContext(ctx).
		Preload("Selections").
		Preload("Selections.Choice").
		Preload("Selections.Choice.Section").
		Preload("Selections.Choice.Parent").
		Preload("Agent").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (qr *quoteRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []types.Quote
	if err := transaction.WithContext(ctx).
		Preload("Selections").
		Preload("Agent").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *quoteRepo) GetByAgentID(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) ([]types.Quote, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []types.Quote
	if err := transaction.WithContext(ctx).
		Preload("Selections").
		Where("agent_id = ?", agentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *quoteRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Quote{}).
		Where("id = ?", id).
		Update("status", status).Error
}
