package models

import "time"

// Ingredient is a stocked raw material. Stock and cost are denominated in the
// base unit, which is normalized once at registration so its factor to the
// family base is always 1.
type Ingredient struct {
	ID              string        `bson:"_id" json:"id"`
	Code            string        `bson:"code" json:"code"`
	Name            string        `bson:"name" json:"name"`
	BaseUnit        CanonicalUnit `bson:"base_unit" json:"base_unit"`
	CostPerBaseUnit float64       `bson:"cost_per_base_unit" json:"cost_per_base_unit"`
	CurrentStock    float64       `bson:"current_stock" json:"current_stock"`
	ReorderLevel    float64       `bson:"reorder_level" json:"reorder_level"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updated_at"`
}

// Dish is the read-only product reference a batch is labelled with.
type Dish struct {
	ID           string  `bson:"_id" json:"id"`
	Name         string  `bson:"name" json:"name"`
	SalesCost    float64 `bson:"sales_cost" json:"sales_cost"`
	PurchaseCost float64 `bson:"purchase_cost" json:"purchase_cost"`
}
