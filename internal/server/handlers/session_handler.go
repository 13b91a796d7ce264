package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/repository/mongodb"
	"github.com/mamefall/recipecost/internal/service/costing"
	"github.com/mamefall/recipecost/internal/service/recipe"
)

// SessionHandler exposes the recipe session workflow over HTTP.
type SessionHandler struct {
	svc    *recipe.Service
	logger *zap.Logger
}

// NewSessionHandler constructs the HTTP handler adapter.
func NewSessionHandler(svc *recipe.Service, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{svc: svc, logger: logger}
}

type startSessionRequest struct {
	DishID          string `json:"dish_id" binding:"required"`
	IngredientCount int    `json:"ingredient_count" binding:"required,gte=1"`
}

// Start opens a new recipe session for a dish.
func (h *SessionHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.svc.StartSession(c.Request.Context(), req.DishID, req.IngredientCount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// Get returns the current state of a live session.
func (h *SessionHandler) Get(c *gin.Context) {
	view, err := h.svc.GetSession(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type addLineItemRequest struct {
	IngredientID string  `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	Unit         string  `json:"unit"`
	ProducedQty  float64 `json:"produced_qty"`
}

// AddItem prices and appends one ingredient issuance.
func (h *SessionHandler) AddItem(c *gin.Context) {
	var req addLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.svc.AddLineItem(c.Request.Context(), c.Param("id"), req.IngredientID, req.Quantity, req.Unit, req.ProducedQty)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// RemoveItem drops a line item by index.
func (h *SessionHandler) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line item index"})
		return
	}

	view, err := h.svc.RemoveLineItem(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Finalize commits the session into a production batch.
func (h *SessionHandler) Finalize(c *gin.Context) {
	batch, err := h.svc.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, batch)
}

// Reset clears a session back to empty.
func (h *SessionHandler) Reset(c *gin.Context) {
	view, err := h.svc.Reset(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Abandon discards a session entirely.
func (h *SessionHandler) Abandon(c *gin.Context) {
	if err := h.svc.Abandon(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, recipe.ErrSessionNotFound), errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, recipe.ErrNoDishSelected),
		errors.Is(err, recipe.ErrIngredientCountNotSet),
		errors.Is(err, recipe.ErrInvalidQuantity),
		errors.Is(err, recipe.ErrInvalidIngredientCount),
		errors.Is(err, recipe.ErrMissingProducedQuantity),
		errors.Is(err, recipe.ErrUnexpectedProducedQuantity),
		errors.Is(err, recipe.ErrSessionComplete),
		errors.Is(err, recipe.ErrSessionFinalized),
		errors.Is(err, recipe.ErrSessionNotFinalizable),
		errors.Is(err, recipe.ErrSessionAbandoned),
		errors.Is(err, recipe.ErrLineItemIndex),
		errors.Is(err, recipe.ErrNotEmpty),
		errors.Is(err, costing.ErrUnknownUnit),
		errors.Is(err, costing.ErrIncompatibleUnits):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("session operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
