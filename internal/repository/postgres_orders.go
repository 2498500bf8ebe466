package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront/internal/models"
	"storefront/internal/order"
)

const orderColumns = `id, user_id, total, status, created_at, delivery_method, payment_method,
	first_name, last_name, email, street, house_number, postal_code, city`

// PostgresOrderRepository keeps orders in the tables created by the
// migrations directory. Items cascade with their order.
type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func (r *PostgresOrderRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx order.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, postgresTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

type postgresTx struct {
	tx *sql.Tx
}

func (t postgresTx) NextOrderID(ctx context.Context) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `SELECT nextval(pg_get_serial_sequence('orders', 'id'))`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("next order id: %w", err)
	}
	return id, nil
}

func (t postgresTx) InsertOrder(ctx context.Context, o *models.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := t.tx.ExecContext(ctx, query,
		o.ID,
		o.UserID,
		o.Total,
		o.Status,
		o.CreatedAt,
		o.DeliveryMethod,
		o.PaymentMethod,
		o.FirstName,
		o.LastName,
		o.Email,
		o.Street,
		o.HouseNumber,
		o.PostalCode,
		o.City)
	if err != nil {
		return fmt.Errorf("insert order %d: %w", o.ID, err)
	}
	return nil
}

func (t postgresTx) InsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, quantity, price)
	          VALUES ($1, $2, $3, $4) RETURNING id`

	err := t.tx.QueryRowContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert order item for product %d: %w", item.ProductID, err)
	}
	return nil
}

func (r *PostgresOrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return o, nil
}

func (r *PostgresOrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID)
}

func (r *PostgresOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query)
}

func (r *PostgresOrderRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderItem, error) {
	query := `SELECT id, order_id, product_id, quantity, price
	          FROM order_items WHERE order_id = ANY($1) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[int64][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("item iteration error: %w", err)
	}
	return byOrder, nil
}

// Delete removes an order; its items go with it through ON DELETE CASCADE.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		o      models.Order
		userID sql.NullInt64
	)
	err := row.Scan(
		&o.ID,
		&userID,
		&o.Total,
		&o.Status,
		&o.CreatedAt,
		&o.DeliveryMethod,
		&o.PaymentMethod,
		&o.FirstName,
		&o.LastName,
		&o.Email,
		&o.Street,
		&o.HouseNumber,
		&o.PostalCode,
		&o.City,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		id := userID.Int64
		o.UserID = &id
	}
	return &o, nil
}
