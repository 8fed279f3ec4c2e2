package shipping

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Add(ctx context.Context, info Info) (Info, error) {
	info.ID = uuid.NewString()
	err := r.DB.QueryRow(ctx, `
		INSERT INTO shipping_info(id, user_id, address, city, state, country, pin_code, phone_no, alternate_phone_no)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		info.ID, info.UserID, info.Address, info.City, info.State,
		info.Country, info.PinCode, info.PhoneNo, info.AlternatePhoneNo,
	).Scan(&info.CreatedAt)
	if err != nil {
		return Info{}, err
	}
	return info, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Info, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, address, city, state, country, pin_code, phone_no, alternate_phone_no, created_at
		FROM shipping_info WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var i Info
		if err := rows.Scan(&i.ID, &i.UserID, &i.Address, &i.City, &i.State,
			&i.Country, &i.PinCode, &i.PhoneNo, &i.AlternatePhoneNo, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Delete removes the address only when it belongs to userID.
func (r *Repo) Delete(ctx context.Context, id, userID string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM shipping_info WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "Not found!")
	}
	return nil
}
