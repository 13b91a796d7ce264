package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamefall/recipecost/internal/config"
	"github.com/mamefall/recipecost/internal/domain/models"
)

// Client exposes the back-office notification operations used by the engine.
type Client interface {
	BatchFinalized(ctx context.Context, batch models.ProductionBatch, dishName string) error
	LowStockAlert(ctx context.Context, ingredients []models.Ingredient) error
	DailySummary(ctx context.Context, message string, summary models.ProductionSummary) error
}

// Event is the envelope posted to the back-office webhook.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Payload interface{} `json:"payload,omitempty"`
}

// WebhookClient is a resty-backed implementation of Client.
type WebhookClient struct {
	httpClient *resty.Client
}

// NewClient builds a webhook notification client from configuration values.
func NewClient(cfg config.NotifyConfig) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.WebhookURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.AuthToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AuthToken))
	}

	return &WebhookClient{httpClient: restyClient}
}

// BatchFinalized announces a newly costed production batch.
func (c *WebhookClient) BatchFinalized(ctx context.Context, batch models.ProductionBatch, dishName string) error {
	message := fmt.Sprintf("Batch %s finalized: %s x%.2f at %.2f per unit (total %.2f).",
		batch.BatchID, dishName, batch.ProducedQty, batch.CostPerUnit, batch.TotalCost)

	return c.postEvent(ctx, Event{
		Type:    "batch_finalized",
		Message: message,
		Payload: batch,
	})
}

// LowStockAlert reports ingredients at or below their reorder level.
func (c *WebhookClient) LowStockAlert(ctx context.Context, ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}

	lines := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		lines = append(lines, fmt.Sprintf("%s: %.2f %s left (reorder at %.2f)",
			ingredient.Name, ingredient.CurrentStock, ingredient.BaseUnit, ingredient.ReorderLevel))
	}

	return c.postEvent(ctx, Event{
		Type:    "low_stock",
		Message: strings.Join(lines, "\n"),
		Payload: ingredients,
	})
}

// DailySummary posts the end-of-day production digest.
func (c *WebhookClient) DailySummary(ctx context.Context, message string, summary models.ProductionSummary) error {
	return c.postEvent(ctx, Event{
		Type:    "daily_summary",
		Message: message,
		Payload: summary,
	})
}

func (c *WebhookClient) postEvent(ctx context.Context, event Event) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		Post("")
	if err != nil {
		return fmt.Errorf("post %s event: %w", event.Type, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook rejected %s event: status=%d body=%s", event.Type, resp.StatusCode(), resp.String())
	}

	return nil
}
