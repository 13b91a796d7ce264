package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/domain/models"
	"github.com/mamefall/recipecost/internal/repository/mongodb"
	"github.com/mamefall/recipecost/internal/repository/rediscache"
)

// ErrUnknownBaseUnit indicates an ingredient was registered with a unit
// outside the conversion table.
var ErrUnknownBaseUnit = errors.New("base unit is not a known canonical unit")

// ErrInvalidCost indicates a negative per-base-unit cost.
var ErrInvalidCost = errors.New("cost per base unit must not be negative")

// ErrInvalidStock indicates a negative stock figure.
var ErrInvalidStock = errors.New("stock must not be negative")

// Service owns ingredient and dish registration plus cached catalog reads.
type Service struct {
	gateway mongodb.Gateway
	cache   rediscache.Cache
	logger  *zap.Logger
}

// NewService wires a catalog service.
func NewService(gateway mongodb.Gateway, cache rediscache.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gateway: gateway, cache: cache, logger: logger}
}

// RegisterIngredient normalizes the declared base unit once, so every later
// conversion can assume the ingredient's factor to its family base is 1, and
// persists the ingredient.
func (s *Service) RegisterIngredient(ctx context.Context, code, name, baseUnit string, costPerBaseUnit, initialStock, reorderLevel float64) (*models.Ingredient, error) {
	canonical, ok := models.NormalizeUnit(baseUnit)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBaseUnit, baseUnit)
	}
	// Base units must be family bases (KG not G, L not ML) so issued
	// quantities need a single factor application.
	if _, factor, known := models.UnitFactor(canonical); !known || factor != 1 {
		return nil, fmt.Errorf("%w: %q is not a family base", ErrUnknownBaseUnit, baseUnit)
	}
	if costPerBaseUnit < 0 {
		return nil, ErrInvalidCost
	}
	if initialStock < 0 {
		return nil, ErrInvalidStock
	}

	ingredient := models.Ingredient{
		ID:              uuid.New().String(),
		Code:            code,
		Name:            name,
		BaseUnit:        canonical,
		CostPerBaseUnit: costPerBaseUnit,
		CurrentStock:    initialStock,
		ReorderLevel:    reorderLevel,
		UpdatedAt:       time.Now().UTC(),
	}

	if err := s.gateway.CreateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}

	s.logger.Info("ingredient registered",
		zap.String("id", ingredient.ID),
		zap.String("code", code),
		zap.String("base_unit", string(canonical)))
	return &ingredient, nil
}

// RegisterDish persists a new dish reference.
func (s *Service) RegisterDish(ctx context.Context, name string, salesCost, purchaseCost float64) (*models.Dish, error) {
	if salesCost < 0 || purchaseCost < 0 {
		return nil, ErrInvalidCost
	}

	dish := models.Dish{
		ID:           uuid.New().String(),
		Name:         name,
		SalesCost:    salesCost,
		PurchaseCost: purchaseCost,
	}
	if err := s.gateway.CreateDish(ctx, dish); err != nil {
		return nil, err
	}
	return &dish, nil
}

// GetIngredient reads an ingredient through the cache.
func (s *Service) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	var cached models.Ingredient
	if err := s.cache.Get(ctx, "ingredient", id, &cached); err == nil {
		return &cached, nil
	}

	ingredient, err := s.gateway.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, "ingredient", id, ingredient); err != nil {
		s.logger.Warn("failed caching ingredient", zap.String("id", id), zap.Error(err))
	}
	return ingredient, nil
}

// GetDish reads a dish through the cache.
func (s *Service) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	var cached models.Dish
	if err := s.cache.Get(ctx, "dish", id, &cached); err == nil {
		return &cached, nil
	}

	dish, err := s.gateway.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, "dish", id, dish); err != nil {
		s.logger.Warn("failed caching dish", zap.String("id", id), zap.Error(err))
	}
	return dish, nil
}

// InvalidateIngredient drops an ingredient's cache entry after its stock moved.
func (s *Service) InvalidateIngredient(ctx context.Context, id string) {
	s.cache.Invalidate(ctx, "ingredient", id)
}

// ReceiveStock tops up stock from a purchase receipt, the only legal stock
// mutation outside batch finalization.
func (s *Service) ReceiveStock(ctx context.Context, id string, amount float64, issuedUnit string) error {
	if amount <= 0 {
		return ErrInvalidStock
	}

	ingredient, err := s.gateway.GetIngredient(ctx, id)
	if err != nil {
		return err
	}

	inBase := amount
	unit, ok := models.NormalizeUnit(issuedUnit)
	switch {
	case strings.TrimSpace(issuedUnit) == "" || unit == ingredient.BaseUnit:
		// already denominated in the base unit
	case !ok:
		return fmt.Errorf("%w: cannot receive %q into %q stock", ErrUnknownBaseUnit, issuedUnit, ingredient.BaseUnit)
	default:
		family, factor, known := models.UnitFactor(unit)
		baseFamily, _, _ := models.UnitFactor(ingredient.BaseUnit)
		if !known || family != baseFamily {
			return fmt.Errorf("%w: cannot receive %q into %q stock", ErrUnknownBaseUnit, issuedUnit, ingredient.BaseUnit)
		}
		inBase = amount * factor
	}

	if err := s.gateway.ReceiveStock(ctx, id, inBase); err != nil {
		return err
	}
	s.InvalidateIngredient(ctx, id)
	return nil
}

// LowStock lists ingredients at or below their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]models.Ingredient, error) {
	return s.gateway.ListIngredientsBelowReorder(ctx)
}
