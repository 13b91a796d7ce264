package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/mamefall/recipecost/internal/domain/models"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrInsufficientStock indicates a conditional stock decrement matched no
// document, i.e. live stock was below the requested amount.
var ErrInsufficientStock = errors.New("insufficient ingredient stock")

// Gateway defines the persistence operations the costing engine depends on.
type Gateway interface {
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	GetDish(ctx context.Context, id string) (*models.Dish, error)
	CreateIngredient(ctx context.Context, ingredient models.Ingredient) error
	CreateDish(ctx context.Context, dish models.Dish) error
	ReceiveStock(ctx context.Context, ingredientID string, amountInBase float64) error
	DecrementStock(ctx context.Context, ingredientID string, amountInBase float64) error
	CommitBatch(ctx context.Context, recipe models.Recipe, items []models.RecipeLineItem, batch models.ProductionBatch) error
	ListBatches(ctx context.Context, from, to time.Time) ([]models.ProductionBatch, error)
	ListIngredientsBelowReorder(ctx context.Context) ([]models.Ingredient, error)
}

// MongoDBGateway implements Gateway on top of MongoDB.
type MongoDBGateway struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBGateway connects to MongoDB and verifies the connection.
func NewMongoDBGateway(ctx context.Context, uri string, dbName string) (*MongoDBGateway, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBGateway{client: client, dbName: dbName}, nil
}

func (g *MongoDBGateway) collection(name string) *mongo.Collection {
	return g.client.Database(g.dbName).Collection(name)
}

// GetIngredient loads one ingredient with its live stock figure.
func (g *MongoDBGateway) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := g.collection("ingredients").FindOne(ctx, bson.M{"_id": id}).Decode(&ingredient)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load ingredient %s: %w", id, err)
	}
	return &ingredient, nil
}

// GetDish loads one dish reference.
func (g *MongoDBGateway) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	var dish models.Dish
	err := g.collection("dishes").FindOne(ctx, bson.M{"_id": id}).Decode(&dish)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("dish %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load dish %s: %w", id, err)
	}
	return &dish, nil
}

// CreateIngredient inserts a new ingredient document.
func (g *MongoDBGateway) CreateIngredient(ctx context.Context, ingredient models.Ingredient) error {
	if _, err := g.collection("ingredients").InsertOne(ctx, ingredient); err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// CreateDish inserts a new dish document.
func (g *MongoDBGateway) CreateDish(ctx context.Context, dish models.Dish) error {
	if _, err := g.collection("dishes").InsertOne(ctx, dish); err != nil {
		return fmt.Errorf("insert dish: %w", err)
	}
	return nil
}

// ReceiveStock tops up an ingredient's stock by a purchase receipt amount.
func (g *MongoDBGateway) ReceiveStock(ctx context.Context, ingredientID string, amountInBase float64) error {
	result, err := g.collection("ingredients").UpdateOne(ctx,
		bson.M{"_id": ingredientID},
		bson.M{
			"$inc": bson.M{"current_stock": amountInBase},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("receive stock for %s: %w", ingredientID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ingredient %s: %w", ingredientID, ErrNotFound)
	}
	return nil
}

// DecrementStock performs a single atomic conditional decrement: the update
// only matches while current_stock covers the requested amount, so concurrent
// finalizations can never drive stock negative.
func (g *MongoDBGateway) DecrementStock(ctx context.Context, ingredientID string, amountInBase float64) error {
	return g.decrementStock(ctx, ingredientID, amountInBase)
}

func (g *MongoDBGateway) decrementStock(ctx context.Context, ingredientID string, amountInBase float64) error {
	result, err := g.collection("ingredients").UpdateOne(ctx,
		bson.M{
			"_id":           ingredientID,
			"current_stock": bson.M{"$gte": amountInBase},
		},
		bson.M{
			"$inc": bson.M{"current_stock": -amountInBase},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("decrement stock for %s: %w", ingredientID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ingredient %s needs %.4f in base unit: %w", ingredientID, amountInBase, ErrInsufficientStock)
	}
	return nil
}

// CommitBatch persists the recipe master record, its line items and the
// production batch, and decrements every referenced ingredient's stock, all
// inside one transaction. Any failure, including an insufficient-stock
// condition on any single ingredient, aborts the whole commit.
func (g *MongoDBGateway) CommitBatch(ctx context.Context, recipe models.Recipe, items []models.RecipeLineItem, batch models.ProductionBatch) error {
	session, err := g.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOptions := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := g.collection("recipes").InsertOne(sc, recipe); err != nil {
			return nil, fmt.Errorf("insert recipe: %w", err)
		}

		docs := make([]interface{}, 0, len(items))
		for _, item := range items {
			item.RecipeID = recipe.ID
			docs = append(docs, item)
		}
		if _, err := g.collection("recipe_line_items").InsertMany(sc, docs); err != nil {
			return nil, fmt.Errorf("insert line items: %w", err)
		}

		if _, err := g.collection("production_batches").InsertOne(sc, batch); err != nil {
			return nil, fmt.Errorf("insert production batch: %w", err)
		}

		for _, item := range items {
			if err := g.decrementStock(sc, item.IngredientID, item.QtyInBase); err != nil {
				return nil, err
			}
		}

		return nil, nil
	}, txnOptions)
	if err != nil {
		return fmt.Errorf("commit batch %s: %w", batch.BatchID, err)
	}
	return nil
}

// ListBatches returns production batches created inside [from, to].
func (g *MongoDBGateway) ListBatches(ctx context.Context, from, to time.Time) ([]models.ProductionBatch, error) {
	cursor, err := g.collection("production_batches").Find(ctx, bson.M{
		"created_at": bson.M{"$gte": from, "$lte": to},
	})
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer cursor.Close(ctx)

	var batches []models.ProductionBatch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("decode batches: %w", err)
	}
	return batches, nil
}

// ListIngredientsBelowReorder returns ingredients whose live stock fell at or
// below their reorder level.
func (g *MongoDBGateway) ListIngredientsBelowReorder(ctx context.Context) ([]models.Ingredient, error) {
	cursor, err := g.collection("ingredients").Find(ctx, bson.M{
		"reorder_level": bson.M{"$gt": 0},
		"$expr":         bson.M{"$lte": bson.A{"$current_stock", "$reorder_level"}},
	})
	if err != nil {
		return nil, fmt.Errorf("list low-stock ingredients: %w", err)
	}
	defer cursor.Close(ctx)

	var ingredients []models.Ingredient
	if err := cursor.All(ctx, &ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return ingredients, nil
}

// Close closes the MongoDB connection.
func (g *MongoDBGateway) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}
