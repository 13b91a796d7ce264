package models

import "time"

// SessionState tracks where a recipe session sits in its lifecycle.
type SessionState string

const (
	SessionEmpty              SessionState = "empty"
	SessionAccumulating       SessionState = "accumulating"
	SessionAwaitingProduction SessionState = "awaiting_production"
	SessionFinalizable        SessionState = "finalizable"
	SessionFinalized          SessionState = "finalized"
	SessionAbandoned          SessionState = "abandoned"
)

// RecipeLineItem is one ingredient issuance inside a recipe session. It is
// immutable once added; the stock figures are a snapshot taken at add time and
// advisory only until finalize re-validates against live stock.
type RecipeLineItem struct {
	ID             string          `bson:"_id" json:"id"`
	RecipeID       string          `bson:"recipe_id,omitempty" json:"recipe_id,omitempty"`
	IngredientID   string          `bson:"ingredient_id" json:"ingredient_id"`
	IngredientName string          `bson:"ingredient_name" json:"ingredient_name"`
	IssuedQty      float64         `bson:"issued_qty" json:"issued_qty"`
	IssuedUnit     string          `bson:"issued_unit" json:"issued_unit"`
	QtyInBase      float64         `bson:"qty_in_base" json:"qty_in_base"`
	BaseUnit       CanonicalUnit   `bson:"base_unit" json:"base_unit"`
	Cost           float64         `bson:"cost" json:"cost"`
	StockBefore    float64         `bson:"stock_before" json:"stock_before"`
	StockAfter     float64         `bson:"stock_after" json:"stock_after"`
	CostPerDish    float64         `bson:"cost_per_dish" json:"cost_per_dish"`
	Trace          ConversionTrace `bson:"trace" json:"trace"`
}

// Recipe is the persisted master record of a finalized session.
type Recipe struct {
	ID          string    `bson:"_id" json:"id"`
	DishID      string    `bson:"dish_id" json:"dish_id"`
	BatchID     string    `bson:"batch_id" json:"batch_id"`
	ProducedQty float64   `bson:"produced_qty" json:"produced_qty"`
	TotalCost   float64   `bson:"total_cost" json:"total_cost"`
	CostPerUnit float64   `bson:"cost_per_unit" json:"cost_per_unit"`
	RecipeDate  time.Time `bson:"recipe_date" json:"recipe_date"`
}

// BatchStatus enumerates production batch lifecycle states.
type BatchStatus string

const (
	BatchInStock  BatchStatus = "in_stock"
	BatchDepleted BatchStatus = "depleted"
)

// ProductionBatch is the immutable costed output of a finalized session.
// Downstream sales/spoilage processes own its depletion.
type ProductionBatch struct {
	BatchID      string      `bson:"_id" json:"batch_id"`
	DishID       string      `bson:"dish_id" json:"dish_id"`
	RecipeID     string      `bson:"recipe_id" json:"recipe_id"`
	ProducedQty  float64     `bson:"produced_qty" json:"produced_qty"`
	QtyRemaining float64     `bson:"qty_remaining" json:"qty_remaining"`
	QtySold      float64     `bson:"qty_sold" json:"qty_sold"`
	TotalCost    float64     `bson:"total_cost" json:"total_cost"`
	CostPerUnit  float64     `bson:"cost_per_unit" json:"cost_per_unit"`
	SellingPrice float64     `bson:"selling_price" json:"selling_price"`
	Status       BatchStatus `bson:"status" json:"status"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
}

// ProductionSummary aggregates finalized batches for reporting.
type ProductionSummary struct {
	From       time.Time          `json:"from"`
	To         time.Time          `json:"to"`
	BatchCount int                `json:"batch_count"`
	TotalCost  float64            `json:"total_cost"`
	DishTotals map[string]float64 `json:"dish_totals"`
	LowStock   []Ingredient       `json:"low_stock,omitempty"`
}
