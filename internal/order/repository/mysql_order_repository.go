package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

const mysqlOrderColumns = `o.id, o.buyer_id, o.order_number, o.total_payment_amount, o.recipient_name,
	o.recipient_phone, o.zip_code, o.address, o.detail_address, o.delivery_memo, o.status,
	o.created_at, o.updated_at`

// MySQLOrderRepository handles order persistence for MySQL. UUIDs are stored as BINARY(16).
type MySQLOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a new MySQLOrderRepository
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{
		db: db,
	}
}

// Create inserts the order and its items.
func (r *MySQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO orders (id, buyer_id, order_number, total_payment_amount, recipient_name,
			  recipient_phone, zip_code, address, detail_address, delivery_memo, status, created_at,
			  updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := order.ID.MarshalBinary()
	if err != nil {
		return err
	}
	buyerID, err := order.BuyerID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, id, buyerID, order.OrderNumber,
		order.TotalPaymentAmount, order.Shipping.RecipientName, order.Shipping.RecipientPhone,
		order.Shipping.ZipCode, order.Shipping.Address, order.Shipping.DetailAddress,
		order.Shipping.DeliveryMemo, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return err
	}

	itemQuery := `INSERT INTO order_items (id, order_id, product_id, variant_id, owner_id, product_title,
				  quantity, unit_price)
				  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, item := range order.Items {
		args, err := marshalUUIDs(item.ID, item.OrderID, item.ProductID, item.OwnerID)
		if err != nil {
			return err
		}

		var variantID []byte
		if item.VariantID != nil {
			if variantID, err = item.VariantID.MarshalBinary(); err != nil {
				return err
			}
		}

		_, err = querier.ExecContext(ctx, itemQuery, args[0], args[1], args[2], variantID, args[3],
			item.ProductTitle, item.Quantity, item.UnitPrice)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an order with its items.
func (r *MySQLOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.get(ctx, `SELECT `+mysqlOrderColumns+` FROM orders o WHERE o.id = ?`, id)
}

// GetByIDForUpdate retrieves an order and locks its row until the caller's transaction ends.
func (r *MySQLOrderRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.get(ctx, `SELECT `+mysqlOrderColumns+` FROM orders o WHERE o.id = ? FOR UPDATE`, id)
}

// Update persists the order status.
func (r *MySQLOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	id, err := order.ID.MarshalBinary()
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, order.Status, order.UpdatedAt, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when nothing changed, so check existence before
	// reporting not found.
	if rows == 0 {
		var exists int
		err := querier.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return err
	}

	return nil
}

// ListByBuyer retrieves a buyer's orders, newest first.
func (r *MySQLOrderRepository) ListByBuyer(
	ctx context.Context,
	buyerID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	query := `SELECT ` + mysqlOrderColumns + `
			  FROM orders o
			  WHERE o.buyer_id = ?
			  ORDER BY o.created_at DESC
			  LIMIT ? OFFSET ?`

	id, err := buyerID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return r.list(ctx, query, id, limit, offset)
}

// ListByProduct retrieves the orders containing the given product, newest first.
func (r *MySQLOrderRepository) ListByProduct(
	ctx context.Context,
	productID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	query := `SELECT ` + mysqlOrderColumns + `
			  FROM orders o
			  WHERE EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id AND i.product_id = ?)
			  ORDER BY o.created_at DESC
			  LIMIT ? OFFSET ?`

	id, err := productID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return r.list(ctx, query, id, limit, offset)
}

func (r *MySQLOrderRepository) get(ctx context.Context, query string, id uuid.UUID) (*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, err
	}

	order, err := scanMySQLOrder(querier.QueryRowContext(ctx, query, idBytes))
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

func (r *MySQLOrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanMySQLOrder(rows)
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

func (r *MySQLOrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, order_id, product_id, variant_id, owner_id, product_title, quantity, unit_price
			  FROM order_items
			  WHERE order_id = ?
			  ORDER BY id ASC`

	orderID, err := order.ID.MarshalBinary()
	if err != nil {
		return err
	}

	rows, err := querier.QueryContext(ctx, query, orderID)
	if err != nil {
		return err
	}
	defer rows.Close() //nolint:errcheck

	order.Items = make([]*domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		var id, itemOrderID, productID, variantID, ownerID []byte

		err := rows.Scan(&id, &itemOrderID, &productID, &variantID, &ownerID, &item.ProductTitle,
			&item.Quantity, &item.UnitPrice)
		if err != nil {
			return err
		}

		if err := unmarshalUUIDs(
			[]*uuid.UUID{&item.ID, &item.OrderID, &item.ProductID, &item.OwnerID},
			[][]byte{id, itemOrderID, productID, ownerID},
		); err != nil {
			return err
		}
		if variantID != nil {
			var v uuid.UUID
			if err := v.UnmarshalBinary(variantID); err != nil {
				return err
			}
			item.VariantID = &v
		}

		order.Items = append(order.Items, &item)
	}

	return rows.Err()
}

func scanMySQLOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var id, buyerID []byte

	err := row.Scan(&id, &buyerID, &order.OrderNumber, &order.TotalPaymentAmount,
		&order.Shipping.RecipientName, &order.Shipping.RecipientPhone, &order.Shipping.ZipCode,
		&order.Shipping.Address, &order.Shipping.DetailAddress, &order.Shipping.DeliveryMemo,
		&order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := unmarshalUUIDs([]*uuid.UUID{&order.ID, &order.BuyerID}, [][]byte{id, buyerID}); err != nil {
		return nil, err
	}

	return &order, nil
}

func marshalUUIDs(ids ...uuid.UUID) ([][]byte, error) {
	out := make([][]byte, len(ids))
	for i, id := range ids {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

func unmarshalUUIDs(dst []*uuid.UUID, src [][]byte) error {
	for i := range dst {
		if err := dst[i].UnmarshalBinary(src[i]); err != nil {
			return err
		}
	}
	return nil
}
