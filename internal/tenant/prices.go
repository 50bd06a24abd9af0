package tenant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Psychotichub/panel/internal/apperr"
	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/prometheus"
)

// PriceStore exposes saved price aggregates pre-scoped to one tenant.
// The aggregation arithmetic itself happens client-side; this layer
// only stores and lists the results.
type PriceStore struct {
	db  *gorm.DB
	key Key
	log *zap.Logger
}

func (s *PriceStore) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("site = ? AND company = ?", s.key.Site, s.key.Company)
}

// ListRange returns saved aggregates whose range overlaps [start, end].
func (s *PriceStore) ListRange(ctx context.Context, start, end time.Time) ([]model.TotalPrice, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var prices []model.TotalPrice
	err := s.scoped(ctx).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("tenant %s: list total prices: %w", s.key, err)
	}
	return prices, nil
}

// Save inserts one aggregate row.
func (s *PriceStore) Save(ctx context.Context, price model.TotalPrice) (*model.TotalPrice, error) {
	if strings.TrimSpace(price.MaterialName) == "" {
		return nil, apperr.Validation("materialName", "must not be empty")
	}
	if price.StartDate.IsZero() || price.EndDate.IsZero() {
		return nil, apperr.Validation("dateRange", "must not be empty")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	price.ID = 0
	price.Site = s.key.Site
	price.Company = s.key.Company
	if err := s.db.WithContext(ctx).Create(&price).Error; err != nil {
		return nil, fmt.Errorf("tenant %s: save total price: %w", s.key, err)
	}

	s.log.Info("total price saved", zap.String("material", price.MaterialName))
	return &price, nil
}
