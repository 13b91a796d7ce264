package sheets

import (
	"testing"
	"time"

	"github.com/mamefall/recipecost/internal/domain/models"
)

func TestBatchRow(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	recipe := models.Recipe{ID: "rec-1", DishID: "dish-chips", BatchID: "BATCH-20250314-092653-dish-chips"}
	batch := models.ProductionBatch{
		BatchID:      "BATCH-20250314-092653-dish-chips",
		DishID:       "dish-chips",
		RecipeID:     "rec-1",
		ProducedQty:  40,
		TotalCost:    310,
		CostPerUnit:  7.75,
		SellingPrice: 12,
		CreatedAt:    created,
	}

	row := batchRow(recipe, batch, "Chips")
	want := []interface{}{
		"2025-03-14 09:26:53",
		"BATCH-20250314-092653-dish-chips",
		"dish-chips",
		"Chips",
		"rec-1",
		40.0,
		310.0,
		7.75,
		12.0,
	}

	if len(row) != len(want) {
		t.Fatalf("row has %d columns, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %d = %v, want %v", i, row[i], want[i])
		}
	}
}
