package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/repository/mongodb"
	"github.com/mamefall/recipecost/internal/service/catalog"
	"github.com/mamefall/recipecost/internal/service/reporting"
)

// CatalogHandler exposes ingredient and dish registration, stock receipts and
// production reports.
type CatalogHandler struct {
	catalogSvc   *catalog.Service
	reportingSvc *reporting.Service
	logger       *zap.Logger
}

// NewCatalogHandler constructs the catalog HTTP adapter.
func NewCatalogHandler(catalogSvc *catalog.Service, reportingSvc *reporting.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{catalogSvc: catalogSvc, reportingSvc: reportingSvc, logger: logger}
}

type registerIngredientRequest struct {
	Code            string  `json:"code" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	BaseUnit        string  `json:"base_unit" binding:"required"`
	CostPerBaseUnit float64 `json:"cost_per_base_unit"`
	InitialStock    float64 `json:"initial_stock"`
	ReorderLevel    float64 `json:"reorder_level"`
}

// RegisterIngredient creates a new ingredient.
func (h *CatalogHandler) RegisterIngredient(c *gin.Context) {
	var req registerIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ingredient, err := h.catalogSvc.RegisterIngredient(c.Request.Context(), req.Code, req.Name, req.BaseUnit,
		req.CostPerBaseUnit, req.InitialStock, req.ReorderLevel)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ingredient)
}

// GetIngredient returns one ingredient by id.
func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	ingredient, err := h.catalogSvc.GetIngredient(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

type registerDishRequest struct {
	Name         string  `json:"name" binding:"required"`
	SalesCost    float64 `json:"sales_cost"`
	PurchaseCost float64 `json:"purchase_cost"`
}

// RegisterDish creates a new dish.
func (h *CatalogHandler) RegisterDish(c *gin.Context) {
	var req registerDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dish, err := h.catalogSvc.RegisterDish(c.Request.Context(), req.Name, req.SalesCost, req.PurchaseCost)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dish)
}

// GetDish returns one dish by id.
func (h *CatalogHandler) GetDish(c *gin.Context) {
	dish, err := h.catalogSvc.GetDish(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

type receiveStockRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Unit     string  `json:"unit"`
}

// ReceiveStock records a purchase receipt against an ingredient.
func (h *CatalogHandler) ReceiveStock(c *gin.Context) {
	var req receiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.catalogSvc.ReceiveStock(c.Request.Context(), c.Param("id"), req.Quantity, req.Unit); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// LowStock lists ingredients at or below their reorder level.
func (h *CatalogHandler) LowStock(c *gin.Context) {
	ingredients, err := h.catalogSvc.LowStock(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// ProductionSummary aggregates finalized batches over an optional date range.
// Defaults to the current UTC day when no range is given.
func (h *CatalogHandler) ProductionSummary(c *gin.Context) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	summary, err := h.reportingSvc.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *CatalogHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrUnknownBaseUnit),
		errors.Is(err, catalog.ErrInvalidCost),
		errors.Is(err, catalog.ErrInvalidStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("catalog operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
