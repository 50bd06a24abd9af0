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

// ReportStore exposes daily report operations pre-scoped to one tenant.
type ReportStore struct {
	db  *gorm.DB
	key Key
	log *zap.Logger
}

func (s *ReportStore) scoped(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("site = ? AND company = ?", s.key.Site, s.key.Company)
}

// ListByDate returns the tenant's report rows for one day.
func (s *ReportStore) ListByDate(ctx context.Context, date time.Time) ([]model.DailyReport, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	day := date.Truncate(24 * time.Hour)
	var reports []model.DailyReport
	err := s.scoped(ctx).
		Where("date >= ? AND date < ?", day, day.Add(24*time.Hour)).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("tenant %s: list reports: %w", s.key, err)
	}
	return reports, nil
}

// ListRange returns report rows between start and end inclusive, for
// the aggregation page.
func (s *ReportStore) ListRange(ctx context.Context, start, end time.Time) ([]model.DailyReport, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var reports []model.DailyReport
	err := s.scoped(ctx).
		Where("date >= ? AND date < ?", start.Truncate(24*time.Hour), end.Truncate(24*time.Hour).Add(24*time.Hour)).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("tenant %s: list reports: %w", s.key, err)
	}
	return reports, nil
}

// Create inserts one usage row. Reports carry no uniqueness rule.
func (s *ReportStore) Create(ctx context.Context, report model.DailyReport) (*model.DailyReport, error) {
	if strings.TrimSpace(report.MaterialName) == "" {
		return nil, apperr.Validation("materialName", "must not be empty")
	}
	if report.Date.IsZero() {
		return nil, apperr.Validation("date", "must not be empty")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	report.ID = 0
	report.Site = s.key.Site
	report.Company = s.key.Company
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("tenant %s: create report: %w", s.key, err)
	}

	s.log.Info("daily report saved",
		zap.String("material", report.MaterialName),
		zap.Time("date", report.Date))
	return &report, nil
}

// Delete removes one report row by id within the tenant. Idempotent.
func (s *ReportStore) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	res := s.scoped(ctx).Where("id = ?", id).Delete(&model.DailyReport{})
	if res.Error != nil {
		return fmt.Errorf("tenant %s: delete report: %w", s.key, res.Error)
	}
	return nil
}
