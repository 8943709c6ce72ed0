package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/buyitnow/backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository handles database operations for orders and the
// webhook-event dedup set. Both live here because order materialization
// writes them in a single transaction.
type OrderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

// SeenEvent reports whether a webhook event ID has already been fully
// processed. This is the cheap fast path that skips provider calls on
// replay; correctness does not depend on it — the unique constraints in
// CreateFromEvent resolve any race between concurrent deliveries.
func (r *OrderRepository) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM webhook_events WHERE id = $1)`
	var seen bool
	if err := r.db.QueryRow(ctx, query, eventID).Scan(&seen); err != nil {
		return false, fmt.Errorf("failed to check webhook event: %w", err)
	}
	return seen, nil
}

// CreateFromEvent records a webhook event and materializes its order in one
// transaction. Both inserts are ON CONFLICT DO NOTHING: replaying the same
// event ID, or a second event for a session that already has an order, is a
// no-op rather than an error. Returns false when the order already existed.
// If the transaction fails, neither row is kept, so a later redelivery
// starts from scratch.
func (r *OrderRepository) CreateFromEvent(ctx context.Context, ev *domain.WebhookEvent, o *domain.Order) (bool, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return false, fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO webhook_events (id, event_type, session_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, ev.ID, ev.Type, ev.SessionID)
	if err != nil {
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO orders (id, session_id, user_id, shipping_info, payment_intent_id, payment_status, amount_paid_cents, tax_paid_cents, items, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (session_id) DO NOTHING
	`, o.ID, o.SessionID, o.UserID, o.ShippingInfo,
		o.Payment.TransactionID, o.Payment.Status, o.Payment.AmountPaidCents, o.Payment.TaxPaidCents,
		itemsJSON, o.Status, o.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

const orderColumns = `id, session_id, user_id, shipping_info, payment_intent_id, payment_status, amount_paid_cents, tax_paid_cents, items, status, created_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var itemsJSON []byte
	err := row.Scan(
		&o.ID, &o.SessionID, &o.UserID, &o.ShippingInfo,
		&o.Payment.TransactionID, &o.Payment.Status, &o.Payment.AmountPaidCents, &o.Payment.TaxPaidCents,
		&itemsJSON, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	return &o, nil
}

// FindByID returns an order by ID, or nil if none exists.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return o, nil
}

// FindBySessionID returns the order materialized for a checkout session,
// or nil if none exists.
func (r *OrderRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE session_id = $1`, sessionID)
	o, err := scanOrder(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by session: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) list(ctx context.Context, where string, args []interface{}, perPage, page int) ([]*domain.Order, error) {
	if page < 1 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// List returns a page of all orders plus the total count.
func (r *OrderRepository) List(ctx context.Context, perPage, page int) ([]*domain.Order, int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	orders, err := r.list(ctx, "", nil, perPage, page)
	return orders, count, err
}

// ListByUserID returns a page of one buyer's orders plus their total count.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string, perPage, page int) ([]*domain.Order, int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	orders, err := r.list(ctx, " WHERE user_id = $1", []interface{}{userID}, perPage, page)
	return orders, count, err
}

// UpdateStatus sets an order's status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// Delete removes an order by ID.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// HasUserPurchased reports whether any of the buyer's orders contain the
// given product.
func (r *OrderRepository) HasUserPurchased(ctx context.Context, userID, productID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM orders
			WHERE user_id = $1 AND items @> $2::jsonb
		)
	`
	match, err := json.Marshal([]map[string]string{{"product": productID}})
	if err != nil {
		return false, fmt.Errorf("failed to build purchase query: %w", err)
	}
	var purchased bool
	if err := r.db.QueryRow(ctx, query, userID, string(match)).Scan(&purchased); err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return purchased, nil
}
