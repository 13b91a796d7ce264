package recipe

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mamefall/recipecost/internal/domain/models"
	"github.com/mamefall/recipecost/internal/repository/mongodb"
	"github.com/mamefall/recipecost/internal/service/costing"
)

// CatalogReader supplies the ingredient and dish lookups the session workflow
// needs. The catalog service satisfies it with a cached read path.
type CatalogReader interface {
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	GetDish(ctx context.Context, id string) (*models.Dish, error)
	InvalidateIngredient(ctx context.Context, id string)
}

// BatchNotifier publishes batch lifecycle events to the back office. Optional.
type BatchNotifier interface {
	BatchFinalized(ctx context.Context, batch models.ProductionBatch, dishName string) error
}

// BatchLedger mirrors finalized batches into an external audit ledger. Optional.
type BatchLedger interface {
	AppendBatch(ctx context.Context, recipe models.Recipe, batch models.ProductionBatch, dishName string) error
}

// SessionView is the read model handed to the HTTP layer.
type SessionView struct {
	ID              string                  `json:"id"`
	State           models.SessionState     `json:"state"`
	Dish            *models.Dish            `json:"dish,omitempty"`
	IngredientCount int                     `json:"ingredient_count"`
	BatchID         string                  `json:"batch_id,omitempty"`
	Items           []models.RecipeLineItem `json:"items"`
}

// Service orchestrates recipe sessions against the catalog, the cost
// calculator and the persistence gateway.
type Service struct {
	sessions *SessionManager
	catalog  CatalogReader
	gateway  mongodb.Gateway
	calc     *costing.Calculator
	notifier BatchNotifier
	ledger   BatchLedger
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the recipe workflow service.
func NewService(sessions *SessionManager, catalog CatalogReader, gateway mongodb.Gateway, calc *costing.Calculator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions: sessions,
		catalog:  catalog,
		gateway:  gateway,
		calc:     calc,
		logger:   logger,
		now:      time.Now,
	}
}

// WithNotifier attaches an optional batch event notifier.
func (s *Service) WithNotifier(n BatchNotifier) *Service {
	s.notifier = n
	return s
}

// WithLedger attaches an optional external costing ledger.
func (s *Service) WithLedger(l BatchLedger) *Service {
	s.ledger = l
	return s
}

// StartSession creates a session bound to a dish and a declared number of
// ingredient entries.
func (s *Service) StartSession(ctx context.Context, dishID string, ingredientCount int) (SessionView, error) {
	dish, err := s.catalog.GetDish(ctx, dishID)
	if err != nil {
		return SessionView{}, err
	}

	session := s.sessions.Create()
	if err := session.SelectDish(*dish); err != nil {
		s.sessions.Remove(session.ID())
		return SessionView{}, err
	}
	if err := session.SetIngredientCount(ingredientCount); err != nil {
		s.sessions.Remove(session.ID())
		return SessionView{}, err
	}

	s.logger.Info("session started",
		zap.String("session_id", session.ID()),
		zap.String("dish_id", dishID),
		zap.Int("ingredient_count", ingredientCount))

	return s.view(session), nil
}

// AddLineItem prices one ingredient issuance against live catalog data and
// appends it to the session. The returned view carries the conversion trace
// so degraded conversions are surfaced to the operator, never trusted
// silently.
func (s *Service) AddLineItem(ctx context.Context, sessionID, ingredientID string, qty float64, issuedUnit string, producedQty float64) (SessionView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if qty <= 0 {
		return SessionView{}, ErrInvalidQuantity
	}

	ingredient, err := s.catalog.GetIngredient(ctx, ingredientID)
	if err != nil {
		return SessionView{}, err
	}

	inBase, trace, err := s.calc.Convert(qty, issuedUnit, ingredient.BaseUnit)
	if err != nil {
		return SessionView{}, err
	}
	cost, _, err := s.calc.Cost(qty, issuedUnit, ingredient.CostPerBaseUnit, ingredient.BaseUnit)
	if err != nil {
		return SessionView{}, err
	}
	remaining, err := s.calc.Remaining(ingredient.CurrentStock, qty, issuedUnit, ingredient.BaseUnit)
	if err != nil {
		return SessionView{}, err
	}

	item := models.RecipeLineItem{
		IngredientID:   ingredient.ID,
		IngredientName: ingredient.Name,
		IssuedQty:      qty,
		IssuedUnit:     issuedUnit,
		QtyInBase:      inBase,
		BaseUnit:       ingredient.BaseUnit,
		Cost:           cost,
		StockBefore:    ingredient.CurrentStock,
		StockAfter:     remaining,
		Trace:          trace,
	}

	if err := session.AddLineItem(item, producedQty); err != nil {
		return SessionView{}, err
	}

	if trace.Outcome == models.ConversionUnknownUnit || trace.Outcome == models.ConversionIncompatible {
		s.logger.Warn("line item added with degraded conversion",
			zap.String("session_id", sessionID),
			zap.String("ingredient_id", ingredientID),
			zap.String("issued_unit", issuedUnit),
			zap.String("outcome", string(trace.Outcome)))
	}

	return s.view(session), nil
}

// RemoveLineItem drops one item from a not-yet-finalized session.
func (s *Service) RemoveLineItem(ctx context.Context, sessionID string, index int) (SessionView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.RemoveLineItem(index); err != nil {
		return SessionView{}, err
	}
	return s.view(session), nil
}

// Finalize commits the session's recipe, line items, production batch and
// stock decrements as one atomic unit. On persistence failure the session
// stays finalizable so the operator can retry without re-entering
// ingredients.
func (s *Service) Finalize(ctx context.Context, sessionID string) (models.ProductionBatch, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return models.ProductionBatch{}, err
	}

	recipe, items, batch, err := session.BuildFinalization()
	if err != nil {
		return models.ProductionBatch{}, err
	}

	if err := s.gateway.CommitBatch(ctx, recipe, items, batch); err != nil {
		s.logger.Error("batch commit failed, session left finalizable",
			zap.String("session_id", sessionID),
			zap.String("batch_id", batch.BatchID),
			zap.Error(err))
		return models.ProductionBatch{}, err
	}

	session.MarkFinalized()
	for _, item := range items {
		s.catalog.InvalidateIngredient(ctx, item.IngredientID)
	}
	s.sessions.Remove(sessionID)

	dishName := ""
	if session.Dish() != nil {
		dishName = session.Dish().Name
	}

	// Ledger and notification failures are logged, never rolled into the
	// already-committed batch.
	if s.ledger != nil {
		if err := s.ledger.AppendBatch(ctx, recipe, batch, dishName); err != nil {
			s.logger.Error("failed mirroring batch to ledger", zap.String("batch_id", batch.BatchID), zap.Error(err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.BatchFinalized(ctx, batch, dishName); err != nil {
			s.logger.Error("failed notifying batch completion", zap.String("batch_id", batch.BatchID), zap.Error(err))
		}
	}

	s.logger.Info("batch finalized",
		zap.String("batch_id", batch.BatchID),
		zap.String("dish_id", batch.DishID),
		zap.Float64("total_cost", batch.TotalCost),
		zap.Float64("cost_per_unit", batch.CostPerUnit))

	return batch, nil
}

// Reset clears a session back to empty without touching persisted data.
func (s *Service) Reset(sessionID string) (SessionView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	if err := session.Reset(); err != nil {
		return SessionView{}, err
	}
	return s.view(session), nil
}

// Abandon terminally discards a non-finalized session.
func (s *Service) Abandon(sessionID string) error {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if err := session.Abandon(); err != nil {
		return err
	}
	s.sessions.Remove(sessionID)
	return nil
}

// GetSession returns the current view of a live session.
func (s *Service) GetSession(sessionID string) (SessionView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(session), nil
}

func (s *Service) view(session *Session) SessionView {
	return SessionView{
		ID:              session.ID(),
		State:           session.State(),
		Dish:            session.Dish(),
		IngredientCount: session.IngredientCount(),
		BatchID:         session.BatchID(),
		Items:           session.Items(),
	}
}
