package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/dineware-service/internal/domain"
	apperrors "github.com/spec-kit/dineware-service/pkg/util"
)

const (
	FoodsCollection  = "foods"
	OrdersCollection = "orders"
)

type mongoFoodRepository struct {
	coll *mongo.Collection
}

// NewMongoFoodRepository returns a MongoDB-backed implementation.
func NewMongoFoodRepository(db *mongo.Database) FoodRepository {
	return &mongoFoodRepository{coll: db.Collection(FoodsCollection)}
}

func (r *mongoFoodRepository) Find(ctx context.Context, query FoodQuery) ([]domain.Food, error) {
	filter, opts := mongoFoodQuery(query)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	foods := []domain.Food{}
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

func (r *mongoFoodRepository) GetByID(ctx context.Context, id string) (*domain.Food, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var food domain.Food
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&food); err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *mongoFoodRepository) Create(ctx context.Context, food *domain.Food) error {
	food.ID = ""
	res, err := r.coll.InsertOne(ctx, food)
	if err != nil {
		return err
	}
	food.ID = hexID(res.InsertedID)
	return nil
}

func (r *mongoFoodRepository) Upsert(ctx context.Context, id string, food domain.Food) (UpsertResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return UpsertResult{}, err
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": food.UpdateFields()},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return UpsertResult{}, err
	}
	return UpsertResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedID:    hexID(res.UpsertedID),
	}, nil
}

func (r *mongoFoodRepository) IncrementPurchaseCount(ctx context.Context, id string, by int) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{domain.FieldPurchaseCount: by}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// mongoFoodQuery translates a FoodQuery into a filter document and find options.
func mongoFoodQuery(query FoodQuery) (bson.M, *options.FindOptions) {
	filter := bson.M{}
	if query.NameContains != "" {
		filter[domain.FieldFoodName] = bson.M{
			"$regex":   regexp.QuoteMeta(query.NameContains),
			"$options": "i",
		}
	}
	if query.Origin != nil {
		filter[domain.FieldFoodOrigin] = *query.Origin
	}
	if query.OwnerEmail != nil {
		filter[domain.FieldOwnerEmail] = *query.OwnerEmail
	}

	opts := options.Find()
	if query.SortField != "" {
		switch query.Sort {
		case domain.SortAscending:
			opts.SetSort(bson.D{{Key: query.SortField, Value: 1}})
		case domain.SortDescending:
			opts.SetSort(bson.D{{Key: query.SortField, Value: -1}})
		}
	}
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}
	return filter, opts
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewValidationError("invalid id", map[string]any{"id": id})
	}
	return oid, nil
}

func hexID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}
