package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-store/internal/products"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionName     = "products"
	healthCheckTimeout = 2 * time.Second
)

type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongo(client *mongo.Client, database string) *MongoRepository {
	return &MongoRepository{
		client:     client,
		collection: client.Database(database).Collection(collectionName),
	}
}

func (r *MongoRepository) Create(ctx context.Context, c products.Canonical) (products.Product, error) {
	now := time.Now().UTC()
	p := products.Product{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		Price:     c.Price,
		Image:     c.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return products.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (products.Product, error) {
	var p products.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return products.Product{}, products.ErrNotFound
	}
	if err != nil {
		return products.Product{}, fmt.Errorf("find product %s: %w", id.Hex(), err)
	}
	return p, nil
}

func (r *MongoRepository) Update(ctx context.Context, id primitive.ObjectID, c products.Canonical) (products.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":       c.Name,
		"price":      c.Price,
		"image":      c.Image,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p products.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return products.Product{}, products.ErrNotFound
	}
	if err != nil {
		return products.Product{}, fmt.Errorf("update product %s: %w", id.Hex(), err)
	}
	return p, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	if result.DeletedCount == 0 {
		return products.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context) ([]products.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer cursor.Close(ctx)

	list := make([]products.Product, 0)
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return list, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

func (r *MongoRepository) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return r.client.Ping(ctx, nil)
}
