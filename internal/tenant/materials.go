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

// MaterialStore exposes material operations pre-scoped to one tenant.
// Material names are unique per tenant.
type MaterialStore struct {
	db  *gorm.DB
	key Key
	log *zap.Logger
}

func (s *MaterialStore) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("site = ? AND company = ?", s.key.Site, s.key.Company)
}

// List returns all materials for the tenant.
func (s *MaterialStore) List(ctx context.Context) ([]model.Material, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var materials []model.Material
	if err := s.scoped(ctx).Find(&materials).Error; err != nil {
		return nil, fmt.Errorf("tenant %s: list materials: %w", s.key, err)
	}
	return materials, nil
}

// Create inserts a material with a tenant-unique name.
func (s *MaterialStore) Create(ctx context.Context, materialName, unit string, price float64, createdBy string) (*model.Material, error) {
	materialName = strings.TrimSpace(materialName)
	if materialName == "" {
		return nil, apperr.Validation("materialName", "must not be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, apperr.Validation("unit", "must not be empty")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	if err := s.scoped(ctx).Model(&model.Material{}).
		Where("material_name = ?", materialName).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("tenant %s: check material: %w", s.key, err)
	}
	if count > 0 {
		return nil, apperr.Duplicate("material", materialName)
	}

	material := model.Material{
		MaterialName: materialName,
		Unit:         strings.TrimSpace(unit),
		Price:        price,
		Site:         s.key.Site,
		Company:      s.key.Company,
		CreatedBy:    createdBy,
	}
	if err := s.db.WithContext(ctx).Create(&material).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("material", materialName)
		}
		return nil, fmt.Errorf("tenant %s: create material: %w", s.key, err)
	}

	s.log.Info("material created", zap.String("material", materialName))
	return &material, nil
}

// FindByName returns the material recorded under the name.
func (s *MaterialStore) FindByName(ctx context.Context, materialName string) (*model.Material, error) {
	var material model.Material
	err := s.scoped(ctx).Where("material_name = ?", strings.TrimSpace(materialName)).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("material", materialName)
		}
		return nil, fmt.Errorf("tenant %s: find material: %w", s.key, err)
	}
	return &material, nil
}

// Delete removes a material by name. Idempotent.
func (s *MaterialStore) Delete(ctx context.Context, materialName string) error {
	materialName = strings.TrimSpace(materialName)
	if materialName == "" {
		return apperr.Validation("materialName", "must not be empty")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	res := s.scoped(ctx).Where("material_name = ?", materialName).Delete(&model.Material{})
	if res.Error != nil {
		return fmt.Errorf("tenant %s: delete material: %w", s.key, res.Error)
	}
	return nil
}
