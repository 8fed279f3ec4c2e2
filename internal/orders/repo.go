package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id, user_id, address, city, state, country, pin_code, phone_no,
	payment_id, payment_status, items_price, tax_price, shipping_price, total_price,
	status, paid_at, delivered_at, created_at`

// Create persists the order with its line items and price breakdown.
func (r *Repo) Create(ctx context.Context, o Order) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o.ID = uuid.NewString()
	o.Status = StatusProcessing
	o.PaidAt = time.Now().UTC()
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, address, city, state, country, pin_code, phone_no,
			payment_id, payment_status, items_price, tax_price, shipping_price, total_price,
			status, paid_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING created_at`,
		o.ID, o.UserID,
		o.ShippingInfo.Address, o.ShippingInfo.City, o.ShippingInfo.State,
		o.ShippingInfo.Country, o.ShippingInfo.PinCode, o.ShippingInfo.PhoneNo,
		o.PaymentInfo.PaymentID, o.PaymentInfo.Status,
		o.ItemsPrice, o.TaxPrice, o.ShippingPrice, o.TotalPrice,
		o.Status, o.PaidAt,
	).Scan(&o.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, name, price, quantity, image_url)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, it.ProductID, it.Name, it.Price, it.Quantity, it.Image,
		); err != nil {
			return Order{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.New(apperr.NotFound, "Order not found!")
	}
	if err != nil {
		return Order{}, err
	}
	if o.Items, err = r.itemsOf(ctx, id); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderCols+` FROM orders ORDER BY created_at DESC`)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "Order not found!")
	}
	return nil
}

// Transition advances the order to target. The status write and every stock
// decrement share one transaction: either all of it commits or none does, and
// the status commit is ordered after the item updates.
func (r *Repo) Transition(ctx context.Context, orderID string, target Status) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.New(apperr.NotFound, "Order not found with this Id")
	}
	if err != nil {
		return Order{}, err
	}

	items, err := itemsOfTx(ctx, tx, orderID)
	if err != nil {
		return Order{}, err
	}
	plan, err := PlanTransition(current, target, items)
	if err != nil {
		return Order{}, err
	}

	for _, d := range plan.Decrements {
		var stock int
		err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1 FOR UPDATE`, d.ProductID).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, apperr.New(apperr.NotFound, "Product not found with included id of order item")
		}
		if err != nil {
			return Order{}, err
		}
		if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id=$1`,
			d.ProductID, d.Quantity); err != nil {
			return Order{}, stockConflict(err, d.ProductID)
		}
	}

	if plan.SetDeliveredAt {
		_, err = tx.Exec(ctx, `UPDATE orders SET status=$2, delivered_at=now() WHERE id=$1`,
			orderID, plan.To)
	} else {
		_, err = tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, plan.To)
	}
	if err != nil {
		return Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return r.Get(ctx, orderID)
}

// stockConflict classifies a stock CHECK violation: a decrement below zero
// means the order asks for more units than remain.
func stockConflict(err error, productID string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		return apperr.Newf(apperr.Conflict, "insufficient stock for product %s", productID)
	}
	return err
}

func (r *Repo) list(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items, err = r.itemsOf(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repo) itemsOf(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, name, price, quantity, image_url
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

func itemsOfTx(ctx context.Context, tx pgx.Tx, orderID string) ([]OrderItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT product_id, name, price, quantity, image_url
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

func scanItems(rows pgx.Rows) ([]OrderItem, error) {
	defer rows.Close()
	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Quantity, &it.Image); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID,
		&o.ShippingInfo.Address, &o.ShippingInfo.City, &o.ShippingInfo.State,
		&o.ShippingInfo.Country, &o.ShippingInfo.PinCode, &o.ShippingInfo.PhoneNo,
		&o.PaymentInfo.PaymentID, &o.PaymentInfo.Status,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.Status, &o.PaidAt, &o.DeliveredAt, &o.CreatedAt)
	return o, err
}
