package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

// Review writes recompute the product aggregate (mean rating + count) inside
// the same transaction, so a concurrent reader of the product row never sees
// the list and the aggregate out of step.

func (r *Repo) Reviews(ctx context.Context, productID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT user_id, user_name, rating, comment
		FROM reviews WHERE product_id=$1 ORDER BY created_at`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.UserID, &rev.UserName, &rev.Rating, &rev.Comment); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// UpsertReview adds the user's review or overwrites their previous one.
// A product keeps at most one review per author.
func (r *Repo) UpsertReview(ctx context.Context, productID string, rev Review) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockProduct(ctx, tx, productID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO reviews(product_id, user_id, user_name, rating, comment)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET user_name=EXCLUDED.user_name, rating=EXCLUDED.rating, comment=EXCLUDED.comment`,
		productID, rev.UserID, rev.UserName, rev.Rating, rev.Comment,
	); err != nil {
		return err
	}
	if err := recomputeRatings(ctx, tx, productID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteReview removes the user's own review, if any, and recomputes the
// aggregate over the reduced list.
func (r *Repo) DeleteReview(ctx context.Context, productID, userID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockProduct(ctx, tx, productID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM reviews WHERE product_id=$1 AND user_id=$2`, productID, userID,
	); err != nil {
		return err
	}
	if err := recomputeRatings(ctx, tx, productID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockProduct(ctx context.Context, tx pgx.Tx, productID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	return err
}

func recomputeRatings(ctx context.Context, tx pgx.Tx, productID string) error {
	rows, err := tx.Query(ctx, `SELECT rating FROM reviews WHERE product_id=$1`, productID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return err
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	avg, n := AggregateRatings(ratings)
	_, err = tx.Exec(ctx, `UPDATE products SET ratings=$2, num_of_reviews=$3 WHERE id=$1`,
		productID, avg, n)
	return err
}
