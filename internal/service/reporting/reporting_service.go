package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/domain/models"
	"github.com/mamefall/recipecost/internal/repository/mongodb"
)

const dateLayout = "2006-01-02"

// Service exposes lightweight production analytics over persisted batches.
type Service struct {
	gateway mongodb.Gateway
	logger  *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(gateway mongodb.Gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, logger: logger}
}

// Summary aggregates finalized production batches for a period and attaches
// the current low-stock ingredient list.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (models.ProductionSummary, error) {
	batches, err := s.gateway.ListBatches(ctx, from, to)
	if err != nil {
		return models.ProductionSummary{}, fmt.Errorf("load batches: %w", err)
	}

	summary := models.ProductionSummary{
		From:       from,
		To:         to,
		DishTotals: make(map[string]float64),
	}

	for _, batch := range batches {
		summary.BatchCount++
		summary.TotalCost += batch.TotalCost
		summary.DishTotals[batch.DishID] += batch.TotalCost
	}

	lowStock, err := s.gateway.ListIngredientsBelowReorder(ctx)
	if err != nil {
		s.logger.Debug("low-stock lookup failed, summary sent without it", zap.Error(err))
	} else {
		summary.LowStock = lowStock
	}

	return summary, nil
}

// DailySummary covers the calendar day containing t.
func (s *Service) DailySummary(ctx context.Context, t time.Time) (models.ProductionSummary, error) {
	day := t.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return s.Summary(ctx, start, start.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// FormatSummary renders a summary as a short human-readable notification.
func FormatSummary(summary models.ProductionSummary) string {
	if summary.BatchCount == 0 {
		return fmt.Sprintf("Production (%s-%s): no batches finalized.",
			summary.From.Format(dateLayout), summary.To.Format(dateLayout))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Production (%s-%s): %d batches, total cost %.2f.",
		summary.From.Format(dateLayout), summary.To.Format(dateLayout), summary.BatchCount, summary.TotalCost)

	if len(summary.LowStock) > 0 {
		fmt.Fprintf(&b, " %d ingredients at or below reorder level.", len(summary.LowStock))
	}

	return b.String()
}
