package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mamefall/recipecost/internal/config"
	"github.com/mamefall/recipecost/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*WebhookClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.NotifyConfig{WebhookURL: server.URL, AuthToken: "secret"})
	return client, server
}

func TestDailySummaryPostsEvent(t *testing.T) {
	var got Event
	var auth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode event: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	summary := models.ProductionSummary{
		From:       time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		BatchCount: 3,
		TotalCost:  720,
	}
	if err := client.DailySummary(context.Background(), "Production: 3 batches, total cost 720.00.", summary); err != nil {
		t.Fatalf("DailySummary: %v", err)
	}

	if got.Type != "daily_summary" {
		t.Fatalf("event type = %q, want daily_summary", got.Type)
	}
	if !strings.Contains(got.Message, "3 batches") {
		t.Fatalf("message missing batch count: %q", got.Message)
	}
	if auth != "Bearer secret" {
		t.Fatalf("authorization header = %q, want bearer token", auth)
	}

	payload, err := json.Marshal(got.Payload)
	if err != nil {
		t.Fatalf("re-encode payload: %v", err)
	}
	var sent models.ProductionSummary
	if err := json.Unmarshal(payload, &sent); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if sent.BatchCount != 3 || sent.TotalCost != 720 {
		t.Fatalf("payload = %+v, want batch count 3 and total cost 720", sent)
	}
}

func TestBatchFinalizedPostsEvent(t *testing.T) {
	var got Event
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode event: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	batch := models.ProductionBatch{BatchID: "BATCH-20250314-092653-dish-chips", ProducedQty: 40, TotalCost: 310, CostPerUnit: 7.75}
	if err := client.BatchFinalized(context.Background(), batch, "Chips"); err != nil {
		t.Fatalf("BatchFinalized: %v", err)
	}

	if got.Type != "batch_finalized" {
		t.Fatalf("event type = %q, want batch_finalized", got.Type)
	}
	if !strings.Contains(got.Message, "Chips") || !strings.Contains(got.Message, "7.75") {
		t.Fatalf("message missing batch figures: %q", got.Message)
	}
}

func TestLowStockAlertSkipsEmptyList(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	if err := client.LowStockAlert(context.Background(), nil); err != nil {
		t.Fatalf("LowStockAlert: %v", err)
	}
	if called {
		t.Fatal("empty low-stock list must not hit the webhook")
	}
}

func TestPostEventRejectedByWebhook(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := client.DailySummary(context.Background(), "msg", models.ProductionSummary{})
	if err == nil {
		t.Fatal("expected error on 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("error must carry the status code, got %v", err)
	}
}
