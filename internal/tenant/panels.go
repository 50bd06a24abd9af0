package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Psychotichub/panel/internal/apperr"
	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/prometheus"
)

// PanelStore exposes panel operations pre-scoped to one tenant. The
// duplicate pre-checks exist for error quality only; the per-tenant
// unique index is the arbiter under races, with the store's constraint
// violation mapped to the same duplicate error.
type PanelStore struct {
	db  *gorm.DB
	key Key
	log *zap.Logger
}

// scoped narrows every query to the bound tenant.
func (s *PanelStore) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("site = ? AND company = ?", s.key.Site, s.key.Company)
}

// List returns all panels for the tenant. Ordering is left to the
// caller.
func (s *PanelStore) List(ctx context.Context) ([]model.Panel, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var panels []model.Panel
	if err := s.scoped(ctx).Find(&panels).Error; err != nil {
		return nil, fmt.Errorf("tenant %s: list panels: %w", s.key, err)
	}
	return panels, nil
}

// Create inserts a panel after validating the tuple is unique within
// the tenant.
func (s *PanelStore) Create(ctx context.Context, panelName, circuit, createdBy string) (*model.Panel, error) {
	panelName = strings.TrimSpace(panelName)
	circuit = strings.TrimSpace(circuit)
	if panelName == "" {
		return nil, apperr.Validation("panelName", "must not be empty")
	}
	if circuit == "" {
		return nil, apperr.Validation("circuit", "must not be empty")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	// Pre-check for a clear message; a lost race falls through to the
	// unique index below.
	var count int64
	if err := s.scoped(ctx).Model(&model.Panel{}).
		Where("panel_name = ? AND circuit = ?", panelName, circuit).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("tenant %s: check panel: %w", s.key, err)
	}
	if count > 0 {
		return nil, apperr.Duplicate("panel", panelName+"/"+circuit)
	}

	panel := model.Panel{
		PanelName: panelName,
		Circuit:   circuit,
		Site:      s.key.Site,
		Company:   s.key.Company,
		CreatedBy: createdBy,
	}
	if err := s.db.WithContext(ctx).Create(&panel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("panel", panelName+"/"+circuit)
		}
		return nil, fmt.Errorf("tenant %s: create panel: %w", s.key, err)
	}

	s.log.Info("panel created",
		zap.String("panel", panelName),
		zap.String("circuit", circuit))
	return &panel, nil
}

// Update renames a panel and/or its circuit. The new tuple is
// re-validated within the tenant before committing; records never move
// between tenants.
func (s *PanelStore) Update(ctx context.Context, originalPanelName, panelName, circuit string) (*model.Panel, error) {
	originalPanelName = strings.TrimSpace(originalPanelName)
	panelName = strings.TrimSpace(panelName)
	circuit = strings.TrimSpace(circuit)
	if originalPanelName == "" {
		return nil, apperr.Validation("originalPanelName", "must not be empty")
	}
	if panelName == "" {
		return nil, apperr.Validation("panelName", "must not be empty")
	}
	if circuit == "" {
		return nil, apperr.Validation("circuit", "must not be empty")
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	var panel model.Panel
	err := s.scoped(ctx).Where("panel_name = ?", originalPanelName).First(&panel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("panel", originalPanelName)
		}
		return nil, fmt.Errorf("tenant %s: find panel: %w", s.key, err)
	}

	if panel.PanelName != panelName || panel.Circuit != circuit {
		var count int64
		if err := s.scoped(ctx).Model(&model.Panel{}).
			Where("panel_name = ? AND circuit = ? AND id <> ?", panelName, circuit, panel.ID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("tenant %s: check panel: %w", s.key, err)
		}
		if count > 0 {
			return nil, apperr.Duplicate("panel", panelName+"/"+circuit)
		}
	}

	panel.PanelName = panelName
	panel.Circuit = circuit
	if err := s.db.WithContext(ctx).Save(&panel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("panel", panelName+"/"+circuit)
		}
		return nil, fmt.Errorf("tenant %s: update panel: %w", s.key, err)
	}

	s.log.Info("panel updated",
		zap.String("from", originalPanelName),
		zap.String("panel", panelName),
		zap.String("circuit", circuit))
	return &panel, nil
}

// Delete removes all circuits recorded under the panel name. Deleting
// a name that does not exist is not an error.
func (s *PanelStore) Delete(ctx context.Context, panelName string) error {
	panelName = strings.TrimSpace(panelName)
	if panelName == "" {
		return apperr.Validation("panelName", "must not be empty")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	res := s.scoped(ctx).Where("panel_name = ?", panelName).Delete(&model.Panel{})
	if res.Error != nil {
		return fmt.Errorf("tenant %s: delete panel: %w", s.key, res.Error)
	}
	s.log.Info("panel deleted",
		zap.String("panel", panelName),
		zap.Int64("rows", res.RowsAffected))
	return nil
}

// FindByName returns the first panel recorded under the name.
func (s *PanelStore) FindByName(ctx context.Context, panelName string) (*model.Panel, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var panel model.Panel
	err := s.scoped(ctx).Where("panel_name = ?", strings.TrimSpace(panelName)).First(&panel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("panel", panelName)
		}
		return nil, fmt.Errorf("tenant %s: find panel: %w", s.key, err)
	}
	return &panel, nil
}

// Exists reports whether any circuit is recorded under the panel name.
func (s *PanelStore) Exists(ctx context.Context, panelName string) (bool, error) {
	var count int64
	err := s.scoped(ctx).Model(&model.Panel{}).
		Where("panel_name = ?", strings.TrimSpace(panelName)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("tenant %s: check panel: %w", s.key, err)
	}
	return count > 0, nil
}
