package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/dineware-service/internal/domain"
)

type mongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository returns a MongoDB-backed implementation.
func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{coll: db.Collection(OrdersCollection)}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	order.ID = ""
	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = hexID(res.InsertedID)
	return nil
}

func (r *mongoOrderRepository) ListByBuyer(ctx context.Context, email string) ([]domain.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{domain.FieldBuyerEmail: email})
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrderRepository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
