// Package repository provides data persistence implementations for orders.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

const postgresOrderColumns = `o.id, o.buyer_id, o.order_number, o.total_payment_amount, o.recipient_name,
	o.recipient_phone, o.zip_code, o.address, o.detail_address, o.delivery_memo, o.status,
	o.created_at, o.updated_at`

// PostgreSQLOrderRepository handles order persistence for PostgreSQL
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrderRepository creates a new PostgreSQLOrderRepository
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{
		db: db,
	}
}

// Create inserts the order and its items.
func (r *PostgreSQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO orders (id, buyer_id, order_number, total_payment_amount, recipient_name,
			  recipient_phone, zip_code, address, detail_address, delivery_memo, status, created_at,
			  updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := querier.ExecContext(ctx, query, order.ID, order.BuyerID, order.OrderNumber,
		order.TotalPaymentAmount, order.Shipping.RecipientName, order.Shipping.RecipientPhone,
		order.Shipping.ZipCode, order.Shipping.Address, order.Shipping.DetailAddress,
		order.Shipping.DeliveryMemo, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return err
	}

	itemQuery := `INSERT INTO order_items (id, order_id, product_id, variant_id, owner_id, product_title,
				  quantity, unit_price)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, item := range order.Items {
		_, err := querier.ExecContext(ctx, itemQuery, item.ID, item.OrderID, item.ProductID,
			item.VariantID, item.OwnerID, item.ProductTitle, item.Quantity, item.UnitPrice)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an order with its items.
func (r *PostgreSQLOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.get(ctx, `SELECT `+postgresOrderColumns+` FROM orders o WHERE o.id = $1`, id)
}

// GetByIDForUpdate retrieves an order and locks its row until the caller's transaction ends.
// Concurrent reactors handling events of the same order are serialized here.
func (r *PostgreSQLOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.get(ctx, `SELECT `+postgresOrderColumns+` FROM orders o WHERE o.id = $1 FOR UPDATE`, id)
}

// Update persists the order status. The shipping snapshot and total are never rewritten.
func (r *PostgreSQLOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, order.Status, order.UpdatedAt, order.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// ListByBuyer retrieves a buyer's orders, newest first.
func (r *PostgreSQLOrderRepository) ListByBuyer(
	ctx context.Context,
	buyerID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	query := `SELECT ` + postgresOrderColumns + `
			  FROM orders o
			  WHERE o.buyer_id = $1
			  ORDER BY o.created_at DESC
			  LIMIT $2 OFFSET $3`

	return r.list(ctx, query, buyerID, limit, offset)
}

// ListByProduct retrieves the orders containing the given product, newest first.
func (r *PostgreSQLOrderRepository) ListByProduct(
	ctx context.Context,
	productID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	query := `SELECT ` + postgresOrderColumns + `
			  FROM orders o
			  WHERE EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.product_id = $1)
			  ORDER BY o.created_at DESC
			  LIMIT $2 OFFSET $3`

	return r.list(ctx, query, productID, limit, offset)
}

func (r *PostgreSQLOrderRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	order, err := scanPostgresOrder(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *PostgreSQLOrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanPostgresOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *PostgreSQLOrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, product_id, variant_id, owner_id, product_title, quantity, unit_price
			  FROM order_items
			  WHERE order_id = $1
			  ORDER BY id ASC`

	rows, err := querier.QueryContext(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close() //nolint:errcheck

	order.Items = make([]*domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		var variantID uuid.NullUUID

		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &variantID, &item.OwnerID,
			&item.ProductTitle, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return err
		}
		if variantID.Valid {
			item.VariantID = &variantID.UUID
		}

		order.Items = append(order.Items, &item)
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order

	err := row.Scan(&order.ID, &order.BuyerID, &order.OrderNumber, &order.TotalPaymentAmount,
		&order.Shipping.RecipientName, &order.Shipping.RecipientPhone, &order.Shipping.ZipCode,
		&order.Shipping.Address, &order.Shipping.DetailAddress, &order.Shipping.DeliveryMemo,
		&order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &order, nil
}
