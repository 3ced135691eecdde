package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/pricing"
)

const catalogAuditJob = "pricing_catalog_audit"

// CatalogAuditor reports the court slots no active price rule covers.
type CatalogAuditor interface {
	CatalogGaps(ctx context.Context) ([]pricing.Gap, error)
}

// AuditCatalog logs every uncovered slot at error level so an operator fixes
// the catalog before a booker hits the gap.
func AuditCatalog(ctx context.Context, auditor CatalogAuditor) (int, error) {
	gaps, err := auditor.CatalogGaps(ctx)
	if err != nil {
		return 0, fmt.Errorf("check catalog coverage: %w", err)
	}

	logger := log.Ctx(ctx)
	if len(gaps) == 0 {
		logger.Info().Msg("Pricing catalog covers every court slot")
		return 0, nil
	}
	for _, gap := range gaps {
		logger.Error().
			Str("court_id", gap.CourtID).
			Str("weekday", gap.Weekday.String()).
			Str("start_time", gap.Start).
			Msg("Pricing catalog gap")
	}
	logger.Error().Int("gap_count", len(gaps)).Msg("Pricing catalog is incomplete")
	return len(gaps), nil
}

// RegisterCatalogAuditJob schedules AuditCatalog.
func RegisterCatalogAuditJob(auditor CatalogAuditor, cronExpr string) error {
	if auditor == nil {
		return fmt.Errorf("catalog audit job requires an auditor")
	}
	return Register(Job{
		Name:    catalogAuditJob,
		Cron:    cronExpr,
		Timeout: time.Minute,
		Overlap: gocron.LimitModeReschedule,
		Run: func(ctx context.Context) error {
			_, err := AuditCatalog(ctx, auditor)
			return err
		},
	})
}
