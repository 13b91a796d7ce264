package recipe

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mamefall/recipecost/internal/domain/models"
)

// ErrNoDishSelected indicates a line item was added before choosing a dish.
var ErrNoDishSelected = errors.New("no dish selected for session")

// ErrIngredientCountNotSet indicates the session's ingredient count was never declared.
var ErrIngredientCountNotSet = errors.New("ingredient count not set")

// ErrInvalidQuantity indicates a zero or negative quantity.
var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

// ErrInvalidIngredientCount indicates a declared ingredient count below one.
var ErrInvalidIngredientCount = errors.New("ingredient count must be at least one")

// ErrMissingProducedQuantity indicates the last line item arrived without a
// produced quantity greater than zero.
var ErrMissingProducedQuantity = errors.New("last line item requires a produced quantity")

// ErrUnexpectedProducedQuantity indicates a produced quantity was supplied on
// an item other than the last one.
var ErrUnexpectedProducedQuantity = errors.New("produced quantity only allowed on the last line item")

// ErrSessionComplete indicates the session already holds its declared number of items.
var ErrSessionComplete = errors.New("session already holds all declared line items")

// ErrSessionFinalized indicates an operation on a finalized session.
var ErrSessionFinalized = errors.New("session is finalized")

// ErrSessionNotFinalizable indicates finalize was called before the session
// collected all items and a produced quantity.
var ErrSessionNotFinalizable = errors.New("session is not finalizable")

// ErrSessionAbandoned indicates an operation on a terminally discarded session.
var ErrSessionAbandoned = errors.New("session is abandoned")

// ErrLineItemIndex indicates a removal index outside the current item range.
var ErrLineItemIndex = errors.New("line item index out of range")

// ErrNotEmpty indicates a setup operation on a session that already holds items.
var ErrNotEmpty = errors.New("operation only allowed on an empty session")

// Session accumulates the line items of one dish batch. A session is owned by
// a single operator and is not safe for concurrent use; the SessionManager
// serializes access.
type Session struct {
	id              string
	dish            *models.Dish
	ingredientCount int
	items           []models.RecipeLineItem
	producedQty     float64
	batchID         string
	recipeDate      time.Time
	finalized       bool
	abandoned       bool
	now             func() time.Time
}

// NewSession creates an empty session with an injected clock.
func NewSession(id string, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{id: id, now: now}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Dish returns the selected dish, or nil before selection.
func (s *Session) Dish() *models.Dish { return s.dish }

// BatchID returns the batch identifier, empty until the first line item.
func (s *Session) BatchID() string { return s.batchID }

// Items returns a copy of the accumulated line items.
func (s *Session) Items() []models.RecipeLineItem {
	out := make([]models.RecipeLineItem, len(s.items))
	copy(out, s.items)
	return out
}

// IngredientCount returns the declared number of line items N.
func (s *Session) IngredientCount() int { return s.ingredientCount }

// State derives the session's lifecycle state from its contents.
func (s *Session) State() models.SessionState {
	switch {
	case s.abandoned:
		return models.SessionAbandoned
	case s.finalized:
		return models.SessionFinalized
	case len(s.items) == 0:
		return models.SessionEmpty
	case s.ingredientCount > 0 && len(s.items) == s.ingredientCount && s.producedQty > 0:
		return models.SessionFinalizable
	case s.ingredientCount > 0 && len(s.items) == s.ingredientCount-1:
		return models.SessionAwaitingProduction
	default:
		return models.SessionAccumulating
	}
}

// SelectDish fixes the dish for the session and clears any stale batch id.
// Allowed only while the session is empty.
func (s *Session) SelectDish(dish models.Dish) error {
	if err := s.requireEmpty(); err != nil {
		return err
	}
	d := dish
	s.dish = &d
	s.batchID = ""
	return nil
}

// SetIngredientCount declares how many line items the session will collect.
// Allowed only while the session is empty.
func (s *Session) SetIngredientCount(n int) error {
	if err := s.requireEmpty(); err != nil {
		return err
	}
	if n < 1 {
		return ErrInvalidIngredientCount
	}
	s.ingredientCount = n
	return nil
}

func (s *Session) requireEmpty() error {
	if err := s.requireLive(); err != nil {
		return err
	}
	if len(s.items) > 0 {
		return ErrNotEmpty
	}
	return nil
}

// requireLive rejects operations on terminal sessions.
func (s *Session) requireLive() error {
	if s.finalized {
		return ErrSessionFinalized
	}
	if s.abandoned {
		return ErrSessionAbandoned
	}
	return nil
}

// AddLineItem appends a fully costed line item. The caller computes the cost
// and stock snapshot beforehand; this method owns every state-dependent
// precondition, the lazy batch id, and the cost-per-dish bookkeeping on the
// last item. No field is mutated when a precondition fails.
func (s *Session) AddLineItem(item models.RecipeLineItem, producedQty float64) error {
	if err := s.requireLive(); err != nil {
		return err
	}
	if s.dish == nil {
		return ErrNoDishSelected
	}
	if s.ingredientCount < 1 {
		return ErrIngredientCountNotSet
	}
	if len(s.items) >= s.ingredientCount {
		return ErrSessionComplete
	}
	if item.IssuedQty <= 0 {
		return ErrInvalidQuantity
	}

	isLast := len(s.items) == s.ingredientCount-1
	if isLast && producedQty <= 0 {
		return ErrMissingProducedQuantity
	}
	if !isLast && producedQty > 0 {
		return ErrUnexpectedProducedQuantity
	}

	if s.batchID == "" {
		s.batchID = GenerateBatchID(s.dish.ID, s.now())
		s.recipeDate = s.now()
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	if isLast {
		total := item.Cost
		for _, existing := range s.items {
			total += existing.Cost
		}
		// Only the last item carries the cost-per-dish figure; earlier items
		// keep zero. An audit convenience, not a per-item truth.
		item.CostPerDish = total / producedQty
		s.producedQty = producedQty
	} else {
		item.CostPerDish = 0
	}

	s.items = append(s.items, item)
	return nil
}

// RemoveLineItem drops one accumulated item. Allowed any time before
// finalization; the batch id is retained, never regenerated. Dropping below
// the declared count clears the produced quantity and the cost-per-dish
// figure so the next final item recomputes them.
func (s *Session) RemoveLineItem(index int) error {
	if err := s.requireLive(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.items) {
		return ErrLineItemIndex
	}

	s.items = append(s.items[:index], s.items[index+1:]...)
	if len(s.items) < s.ingredientCount {
		s.producedQty = 0
		for i := range s.items {
			s.items[i].CostPerDish = 0
		}
	}
	return nil
}

// BuildFinalization assembles the recipe master record, its line items and
// the production batch from a finalizable session. The session stays
// finalizable until MarkFinalized is called after a successful commit, so a
// persistence failure leaves it intact for retry.
func (s *Session) BuildFinalization() (models.Recipe, []models.RecipeLineItem, models.ProductionBatch, error) {
	if err := s.requireLive(); err != nil {
		return models.Recipe{}, nil, models.ProductionBatch{}, err
	}
	if s.State() != models.SessionFinalizable {
		return models.Recipe{}, nil, models.ProductionBatch{}, ErrSessionNotFinalizable
	}

	var totalCost float64
	for _, item := range s.items {
		totalCost += item.Cost
	}
	costPerUnit := totalCost / s.producedQty

	recipe := models.Recipe{
		ID:          uuid.New().String(),
		DishID:      s.dish.ID,
		BatchID:     s.batchID,
		ProducedQty: s.producedQty,
		TotalCost:   totalCost,
		CostPerUnit: costPerUnit,
		RecipeDate:  s.recipeDate,
	}

	batch := models.ProductionBatch{
		BatchID:      s.batchID,
		DishID:       s.dish.ID,
		RecipeID:     recipe.ID,
		ProducedQty:  s.producedQty,
		QtyRemaining: s.producedQty,
		QtySold:      0,
		TotalCost:    totalCost,
		CostPerUnit:  costPerUnit,
		SellingPrice: s.dish.SalesCost,
		Status:       models.BatchInStock,
		CreatedAt:    s.now().UTC(),
	}

	return recipe, s.Items(), batch, nil
}

// MarkFinalized transitions the session to its terminal state. Call only
// after the persistence gateway committed the batch.
func (s *Session) MarkFinalized() {
	s.finalized = true
}

// Reset clears all in-progress state back to empty. Persisted data is not
// touched. Terminal sessions cannot be reset.
func (s *Session) Reset() error {
	if err := s.requireLive(); err != nil {
		return err
	}
	s.dish = nil
	s.ingredientCount = 0
	s.items = nil
	s.producedQty = 0
	s.batchID = ""
	s.recipeDate = time.Time{}
	return nil
}

// Abandon marks a non-finalized session as terminally discarded.
func (s *Session) Abandon() error {
	if s.finalized {
		return ErrSessionFinalized
	}
	s.abandoned = true
	return nil
}
