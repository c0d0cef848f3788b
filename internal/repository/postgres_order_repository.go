package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dineware-service/internal/domain"
)

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderRepository returns a Postgres JSONB-backed implementation.
func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{pool: pool}
}

func (r *postgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `INSERT INTO orders (id, doc) VALUES ($1, $2::jsonb)`

	order.ID = ""
	doc, err := json.Marshal(order)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, query, id, string(doc)); err != nil {
		return err
	}
	order.ID = id
	return nil
}

func (r *postgresOrderRepository) ListByBuyer(ctx context.Context, email string) ([]domain.Order, error) {
	const query = `SELECT id, doc FROM orders WHERE doc->>'buyerEmail' = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var order domain.Order
		if err := json.Unmarshal(doc, &order); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", id, err)
		}
		order.ID = id
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *postgresOrderRepository) Delete(ctx context.Context, id string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
