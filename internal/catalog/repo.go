package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, name, description, price, category, stock, ratings, num_of_reviews, created_by, created_at`

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

// List runs the composed catalog query and attaches images.
func (r *Repo) List(ctx context.Context, q *ProductQuery) ([]Product, error) {
	sql, args := q.SelectSQL(`SELECT ` + productCols + ` FROM products`)
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	ids := []string{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, out, ids); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return Product{}, err
	}
	ps := []Product{p}
	if err := r.attachImages(ctx, ps, []string{p.ID}); err != nil {
		return Product{}, err
	}
	p = ps[0]
	if p.Reviews, err = r.Reviews(ctx, id); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) ByIDs(ctx context.Context, ids []string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Stock       int
	Images      []Image
	CreatedBy   string
}

func (r *Repo) Create(ctx context.Context, np NewProduct) (Product, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Product{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p := Product{
		ID:          uuid.NewString(),
		Name:        np.Name,
		Description: np.Description,
		Price:       np.Price,
		Category:    np.Category,
		Stock:       np.Stock,
		Images:      np.Images,
		CreatedBy:   np.CreatedBy,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO products(id, name, description, price, category, stock, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.CreatedBy,
	).Scan(&p.CreatedAt)
	if err != nil {
		return Product{}, err
	}
	for i, img := range np.Images {
		if _, err := tx.Exec(ctx, `
			INSERT INTO product_images(product_id, position, public_id, url)
			VALUES ($1,$2,$3,$4)`,
			p.ID, i, img.PublicID, img.URL,
		); err != nil {
			return Product{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ProductPatch carries the admin-editable fields; nil means leave unchanged.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
}

func (r *Repo) Update(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			price       = COALESCE($4, price),
			category    = COALESCE($5, category),
			stock       = COALESCE($6, stock)
		WHERE id=$1`,
		id, patch.Name, patch.Description, patch.Price, patch.Category, patch.Stock)
	if err != nil {
		return Product{}, err
	}
	if ct.RowsAffected() == 0 {
		return Product{}, apperr.New(apperr.NotFound, "Product not found")
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	return nil
}

func (r *Repo) attachImages(ctx context.Context, ps []Product, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.DB.Query(ctx, `
		SELECT product_id, public_id, url FROM product_images
		WHERE product_id = ANY($1) ORDER BY product_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[string][]Image, len(ps))
	for rows.Next() {
		var pid string
		var img Image
		if err := rows.Scan(&pid, &img.PublicID, &img.URL); err != nil {
			return err
		}
		byID[pid] = append(byID[pid], img)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range ps {
		ps[i].Images = byID[ps[i].ID]
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		&p.Stock, &p.Ratings, &p.NumOfReviews, &p.CreatedBy, &p.CreatedAt)
	return p, err
}
