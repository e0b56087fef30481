package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository defines order persistence. Status writes are compare-and-set
// on the status the caller read, and fail with ErrStatusConflict when it moved.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindAll(ctx context.Context) ([]*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error)
	MarkPaid(ctx context.Context, id, paymentID string) (*models.Order, error)
	MarkPaymentFailed(ctx context.Context, id string) error
}

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

func (r *MongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, order)
	return err
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindAll(ctx context.Context) ([]*models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoOrderRepository) FindByUserID(ctx context.Context, userID string) ([]*models.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	filter := bson.M{"_id": id, "order_status": from}
	update := bson.M{"$set": bson.M{"order_status": to, "updated_at": time.Now().UTC()}}
	return r.compareAndSet(ctx, id, filter, update)
}

// MarkPaid records a verified payment and confirms the order. It only applies
// to an order that is still placed.
func (r *MongoOrderRepository) MarkPaid(ctx context.Context, id, paymentID string) (*models.Order, error) {
	filter := bson.M{"_id": id, "order_status": models.OrderStatusPlaced}
	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentStatusCompleted,
		"payment_id":     paymentID,
		"order_status":   models.OrderStatusConfirmed,
		"updated_at":     time.Now().UTC(),
	}}
	return r.compareAndSet(ctx, id, filter, update)
}

// MarkPaymentFailed flags a pending payment as failed. Completed payments are left alone.
func (r *MongoOrderRepository) MarkPaymentFailed(ctx context.Context, id string) error {
	filter := bson.M{"_id": id, "payment_status": bson.M{"$ne": models.PaymentStatusCompleted}}
	update := bson.M{"$set": bson.M{
		"payment_status": models.PaymentStatusFailed,
		"updated_at":     time.Now().UTC(),
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]*models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []*models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) compareAndSet(ctx context.Context, id string, filter, update bson.M) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	n, cerr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if cerr != nil {
		return nil, fmt.Errorf("check order existence: %w", cerr)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStatusConflict
}
