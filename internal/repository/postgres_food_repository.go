package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dineware-service/internal/domain"
)

// sortableFields are the numeric document fields a listing may order by.
var sortableFields = map[string]struct{}{
	domain.FieldPrice:         {},
	domain.FieldPurchaseCount: {},
}

type postgresFoodRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFoodRepository returns a Postgres JSONB-backed implementation.
func NewPostgresFoodRepository(pool *pgxpool.Pool) FoodRepository {
	return &postgresFoodRepository{pool: pool}
}

func (r *postgresFoodRepository) Find(ctx context.Context, query FoodQuery) ([]domain.Food, error) {
	sql, args := postgresFoodQuery(query)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFoods(rows)
}

func (r *postgresFoodRepository) GetByID(ctx context.Context, id string) (*domain.Food, error) {
	const query = `SELECT id, doc FROM foods WHERE id=$1`

	var (
		foodID string
		doc    []byte
	)
	if err := r.pool.QueryRow(ctx, query, id).Scan(&foodID, &doc); err != nil {
		return nil, err
	}
	return decodeFood(foodID, doc)
}

func (r *postgresFoodRepository) Create(ctx context.Context, food *domain.Food) error {
	const query = `INSERT INTO foods (id, doc) VALUES ($1, $2::jsonb)`

	food.ID = ""
	doc, err := json.Marshal(food)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, query, id, string(doc)); err != nil {
		return err
	}
	food.ID = id
	return nil
}

func (r *postgresFoodRepository) Upsert(ctx context.Context, id string, food domain.Food) (UpsertResult, error) {
	const query = `
        INSERT INTO foods (id, doc) VALUES ($1, $2::jsonb)
        ON CONFLICT (id) DO UPDATE SET doc = foods.doc || EXCLUDED.doc, updated_at = NOW()
        WHERE foods.doc IS DISTINCT FROM foods.doc || EXCLUDED.doc
        RETURNING (xmax = 0) AS inserted`

	doc, err := json.Marshal(food.UpdateFields())
	if err != nil {
		return UpsertResult{}, err
	}
	var inserted bool
	err = r.pool.QueryRow(ctx, query, id, string(doc)).Scan(&inserted)
	return postgresUpsertResult(id, inserted, err)
}

// postgresUpsertResult interprets the upsert RETURNING row. No row means the
// conflict WHERE filtered the update: the document matched but was unchanged.
func postgresUpsertResult(id string, inserted bool, err error) (UpsertResult, error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return UpsertResult{MatchedCount: 1}, nil
	case err != nil:
		return UpsertResult{}, err
	case inserted:
		return UpsertResult{UpsertedID: id}, nil
	default:
		return UpsertResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
}

func (r *postgresFoodRepository) IncrementPurchaseCount(ctx context.Context, id string, by int) error {
	const query = `
        UPDATE foods
        SET doc = jsonb_set(doc, '{purchase_count}', to_jsonb(COALESCE((doc->>'purchase_count')::numeric, 0) + $2::int)),
            updated_at = NOW()
        WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id, by)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// postgresFoodQuery translates a FoodQuery into SQL over the JSONB documents.
func postgresFoodQuery(query FoodQuery) (string, []any) {
	base := `SELECT id, doc FROM foods`
	clauses := []string{"1=1"}
	args := []any{}

	if query.NameContains != "" {
		args = append(args, "%"+escapeLike(query.NameContains)+"%")
		clauses = append(clauses, fmt.Sprintf("doc->>'%s' ILIKE $%d", domain.FieldFoodName, len(args)))
	}
	if query.Origin != nil {
		args = append(args, *query.Origin)
		clauses = append(clauses, fmt.Sprintf("doc->>'%s' = $%d", domain.FieldFoodOrigin, len(args)))
	}
	if query.OwnerEmail != nil {
		args = append(args, *query.OwnerEmail)
		clauses = append(clauses, fmt.Sprintf("doc->>'%s' = $%d", domain.FieldOwnerEmail, len(args)))
	}

	sql := fmt.Sprintf("%s WHERE %s", base, strings.Join(clauses, " AND "))

	if _, ok := sortableFields[query.SortField]; ok {
		column := fmt.Sprintf("COALESCE((doc->>'%s')::numeric, 0)", query.SortField)
		switch query.Sort {
		case domain.SortAscending:
			sql += " ORDER BY " + column + " ASC"
		case domain.SortDescending:
			sql += " ORDER BY " + column + " DESC"
		}
	}
	if query.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", query.Limit)
	}
	return sql, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanFoods(rows pgx.Rows) ([]domain.Food, error) {
	result := []domain.Food{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		food, err := decodeFood(id, doc)
		if err != nil {
			return nil, err
		}
		result = append(result, *food)
	}
	return result, rows.Err()
}

func decodeFood(id string, doc []byte) (*domain.Food, error) {
	var food domain.Food
	if err := json.Unmarshal(doc, &food); err != nil {
		return nil, fmt.Errorf("decode food %s: %w", id, err)
	}
	food.ID = id
	return &food, nil
}
