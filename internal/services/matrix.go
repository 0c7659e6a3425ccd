package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/cache"
	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/matrix"
	"github.com/eol-ict/onlyoo-backend/internal/platform/apierr"
	"github.com/eol-ict/onlyoo-backend/internal/repos"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type MatrixService interface {
	RuntimeSnapshot(ctx context.Context) (*matrix.Snapshot, error)

	ListSections(ctx context.Context) ([]types.Section, error)
	CreateSection(ctx context.Context, section *types.Section) (*types.Section, error)
	UpdateSection(ctx context.Context, id uint, fields map[string]interface{}) (*types.Section, error)
	DeleteSection(ctx context.Context, id uint) error

	CreateChoice(ctx context.Context, choice *types.Choice) (*types.Choice, error)
	UpdateChoice(ctx context.Context, id uint, fields map[string]interface{}) (*types.Choice, error)
	DeleteChoice(ctx context.Context, id uint) error

	ListRules(ctx context.Context) ([]types.Rule, error)
	CreateRule(ctx context.Context, rule *types.Rule) (*types.Rule, error)
	DeleteRule(ctx context.Context, id uint) error

	ListAlerts(ctx context.Context) ([]types.Alert, error)
	CreateAlert(ctx context.Context, alert *types.Alert) (*types.Alert, error)
	UpdateAlert(ctx context.Context, id uint, fields map[string]interface{}) (*types.Alert, error)
	DeleteAlert(ctx context.Context, id uint) error
}

type matrixService struct {
	db          *gorm.DB
	log         *logger.Logger
	sectionRepo repos.SectionRepo
	choiceRepo  repos.ChoiceRepo
	ruleRepo    repos.RuleRepo
	alertRepo   repos.AlertRepo
	snapCache   cache.SnapshotCache
}

// NewMatrixService wires the catalog CRUD and the runtime snapshot
// loader. snapCache may be nil; the service then always reads Postgres.
func NewMatrixService(
	db *gorm.DB,
	log *logger.Logger,
	sectionRepo repos.SectionRepo,
	choiceRepo repos.ChoiceRepo,
	ruleRepo repos.RuleRepo,
	alertRepo repos.AlertRepo,
	snapCache cache.SnapshotCache,
) MatrixService {
	serviceLog := log.With("service", "MatrixService")
	return &matrixService{
		db:          db,
		log:         serviceLog,
		sectionRepo: sectionRepo,
		choiceRepo:  choiceRepo,
		ruleRepo:    ruleRepo,
		alertRepo:   alertRepo,
		snapCache:   snapCache,
	}
}

// RuntimeSnapshot returns the active catalog as an engine snapshot.
// Cache hit skips Postgres entirely; on a miss the three row families
// load concurrently and the payload is written back best-effort.
func (ms *matrixService) RuntimeSnapshot(ctx context.Context) (*matrix.Snapshot, error) {
	if ms.snapCache != nil {
		if payload, ok := ms.snapCache.Get(ctx); ok {
			return matrix.NewSnapshot(payload.Sections, payload.Rules, payload.Alerts), nil
		}
	}

	var (
		sections []types.Section
		rules    []types.Rule
		alerts   []types.Alert
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sections, err = ms.sectionRepo.GetActiveWithChoices(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		rules, err = ms.ruleRepo.GetAll(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = ms.alertRepo.GetActive(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load runtime catalog: %w", err)
	}

	if ms.snapCache != nil {
		ms.snapCache.Set(ctx, &cache.CatalogPayload{Sections: sections, Rules: rules, Alerts: alerts})
	}
	return matrix.NewSnapshot(sections, rules, alerts), nil
}

func (ms *matrixService) invalidate(ctx context.Context) {
	if ms.snapCache != nil {
		ms.snapCache.Invalidate(ctx)
	}
}

func (ms *matrixService) ListSections(ctx context.Context) ([]types.Section, error) {
	return ms.sectionRepo.GetAll(ctx, nil)
}

func (ms *matrixService) CreateSection(ctx context.Context, section *types.Section) (*types.Section, error) {
	if section.Key == "" || section.Title == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_fields", errors.New("key et title requis"))
	}
	if section.Type == "" {
		section.Type = types.SectionSingle
	}
	created, err := ms.sectionRepo.Create(ctx, nil, section)
	if err != nil {
		return nil, err
	}
	ms.invalidate(ctx)
	return created, nil
}

func (ms *matrixService) UpdateSection(ctx context.Context, id uint, fields map[string]interface{}) (*types.Section, error) {
	updated, err := ms.sectionRepo.Update(ctx, nil, id, fields)
	if err != nil {
		return nil, notFoundOr(err)
	}
	ms.invalidate(ctx)
	return updated, nil
}

func (ms *matrixService) DeleteSection(ctx context.Context, id uint) error {
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ms.sectionRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	ms.invalidate(ctx)
	return nil
}

func (ms *matrixService) CreateChoice(ctx context.Context, choice *types.Choice) (*types.Choice, error) {
	if choice.SectionID == 0 || choice.Key == "" || choice.Label == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_fields", errors.New("sectionId, key et label requis"))
	}
	if choice.ParentID != nil {
		parent, err := ms.choiceRepo.GetByID(ctx, nil, *choice.ParentID)
		if err != nil {
			return nil, apierr.New(http.StatusBadRequest, "parent_not_found", err)
		}
		// One level of nesting only.
		if parent.ParentID != nil {
			return nil, apierr.New(http.StatusBadRequest, "nested_parent", errors.New("un choix enfant ne peut pas avoir d'enfants"))
		}
	}
	created, err := ms.choiceRepo.Create(ctx, nil, choice)
	if err != nil {
		return nil, err
	}
	ms.invalidate(ctx)
	return created, nil
}

func (ms *matrixService) UpdateChoice(ctx context.Context, id uint, fields map[string]interface{}) (*types.Choice, error) {
	updated, err := ms.choiceRepo.Update(ctx, nil, id, fields)
	if err != nil {
		return nil, notFoundOr(err)
	}
	ms.invalidate(ctx)
	return updated, nil
}

func (ms *matrixService) DeleteChoice(ctx context.Context, id uint) error {
	err := ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ms.choiceRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	ms.invalidate(ctx)
	return nil
}

func (ms *matrixService) ListRules(ctx context.Context) ([]types.Rule, error) {
	return ms.ruleRepo.GetAll(ctx, nil)
}

func (ms *matrixService) CreateRule(ctx context.Context, rule *types.Rule) (*types.Rule, error) {
	if rule.TargetID == 0 || rule.DependsOnID == 0 {
		return nil, apierr.New(http.StatusBadRequest, "missing_fields", errors.New("targetId et dependsOnId requis"))
	}
	if rule.TargetID == rule.DependsOnID {
		return nil, apierr.New(http.StatusBadRequest, "self_rule", errors.New("un choix ne peut pas dépendre de lui-même"))
	}
	if _, err := ms.choiceRepo.GetByIDs(ctx, nil, []uint{rule.TargetID, rule.DependsOnID}); err != nil {
		return nil, err
	}
	created, err := ms.ruleRepo.Create(ctx, nil, rule)
	if err != nil {
		return nil, err
	}
	ms.invalidate(ctx)
	return created, nil
}

func (ms *matrixService) DeleteRule(ctx context.Context, id uint) error {
	if err := ms.ruleRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	ms.invalidate(ctx)
	return nil
}

func (ms *matrixService) ListAlerts(ctx context.Context) ([]types.Alert, error) {
	return ms.alertRepo.GetAll(ctx, nil)
}

func (ms *matrixService) CreateAlert(ctx context.Context, alert *types.Alert) (*types.Alert, error) {
	if alert.Name == "" || alert.Message == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_fields", errors.New("name et message requis"))
	}
	created, err := ms.alertRepo.Create(ctx, nil, alert)
	if err != nil {
		return nil, err
	}
	ms.invalidate(ctx)
	return created, nil
}

func (ms *matrixService) UpdateAlert(ctx context.Context, id uint, fields map[string]interface{}) (*types.Alert, error) {
	updated, err := ms.alertRepo.Update(ctx, nil, id, fields)
	if err != nil {
		return nil, notFoundOr(err)
	}
	ms.invalidate(ctx)
	return updated, nil
}

func (ms *matrixService) DeleteAlert(ctx context.Context, id uint) error {
	if err := ms.alertRepo.Delete(ctx, nil, id); err != nil {
		return err
	}
	ms.invalidate(ctx)
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.New(http.StatusNotFound, "not_found", err)
	}
	return err
}
