package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SweetRepository defines the catalog and stock operations.
// DecrementStock and IncrementStock must be atomic in the backing store.
type SweetRepository interface {
	Create(ctx context.Context, sweet *models.Sweet) error
	FindByID(ctx context.Context, id string) (*models.Sweet, error)
	Search(ctx context.Context, q models.SweetSearch) ([]*models.Sweet, error)
	Update(ctx context.Context, id string, req *models.UpdateSweetRequest) (*models.Sweet, error)
	Delete(ctx context.Context, id string) (*models.Sweet, error)
	DecrementStock(ctx context.Context, id string, quantity int) (*models.Sweet, error)
	IncrementStock(ctx context.Context, id string, quantity int) (*models.Sweet, error)
	Count(ctx context.Context) (int64, error)
}

type MongoSweetRepository struct {
	collection *mongo.Collection
}

func NewMongoSweetRepository(db *mongo.Database) *MongoSweetRepository {
	return &MongoSweetRepository{collection: db.Collection("sweets")}
}

// EnsureIndexes creates the indexes used by listing and search.
func (r *MongoSweetRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	})
	return err
}

func (r *MongoSweetRepository) Create(ctx context.Context, sweet *models.Sweet) error {
	now := time.Now().UTC()
	if sweet.CreatedAt.IsZero() {
		sweet.CreatedAt = now
	}
	sweet.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, sweet)
	return err
}

func (r *MongoSweetRepository) FindByID(ctx context.Context, id string) (*models.Sweet, error) {
	var sweet models.Sweet
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sweet, nil
}

// Search treats name and category as literal case-insensitive substrings.
func (r *MongoSweetRepository) Search(ctx context.Context, q models.SweetSearch) ([]*models.Sweet, error) {
	filter := bson.M{}
	if q.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Name), Options: "i"}
	}
	if q.Category != "" {
		filter["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Category), Options: "i"}
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sweets := []*models.Sweet{}
	if err = cursor.All(ctx, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

func (r *MongoSweetRepository) Update(ctx context.Context, id string, req *models.UpdateSweetRequest) (*models.Sweet, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Quantity != nil {
		set["quantity"] = *req.Quantity
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *MongoSweetRepository) Delete(ctx context.Context, id string) (*models.Sweet, error) {
	var sweet models.Sweet
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&sweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sweet, nil
}

// DecrementStock removes quantity from stock in a single conditional update.
// The filter only matches while stock covers the request, so concurrent
// purchases can never drive quantity below zero.
func (r *MongoSweetRepository) DecrementStock(ctx context.Context, id string, quantity int) (*models.Sweet, error) {
	filter := bson.M{"_id": id, "quantity": bson.M{"$gte": quantity}}
	update := bson.M{
		"$inc": bson.M{"quantity": -quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	sweet, err := r.findOneAndUpdate(ctx, filter, update)
	if !errors.Is(err, ErrNotFound) {
		return sweet, err
	}

	n, cerr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return nil, fmt.Errorf("check sweet existence: %w", cerr)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrInsufficientStock
}

func (r *MongoSweetRepository) IncrementStock(ctx context.Context, id string, quantity int) (*models.Sweet, error) {
	update := bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (r *MongoSweetRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoSweetRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Sweet, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sweet models.Sweet
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&sweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sweet, nil
}
