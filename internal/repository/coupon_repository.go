package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gurupratap-matharu/falcon-sub000/internal/model"
)

// ErrCouponNotFound indicates that no coupon matches the given code or id.
var ErrCouponNotFound = errors.New("coupon not found")

// ErrCouponNotRedeemable indicates a redemption attempt on a coupon
// that is inactive or outside its validity window.  Redemption is
// deliberately not idempotent: a second redeem of the same coupon is
// a bug signal, not a benign retry.
var ErrCouponNotRedeemable = errors.New("coupon not redeemable")

// CouponRepo manages persistence for one-time-use discount coupons.
type CouponRepo struct {
	db *sql.DB
}

// NewCouponRepo returns a new CouponRepo bound to the given database.
func NewCouponRepo(db *sql.DB) *CouponRepo { return &CouponRepo{db: db} }

const couponColumns = `id, code, discount_pct, valid_from, valid_to, active, created_at`

func scanCoupon(row *sql.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPct, &c.ValidFrom, &c.ValidTo, &c.Active, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByCode retrieves a coupon by its unique code.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons WHERE code = ?`
	return scanCoupon(r.db.QueryRowContext(ctx, q, code))
}

// Create inserts a new coupon (administrative path).
func (r *CouponRepo) Create(ctx context.Context, c *model.Coupon) error {
	const q = `INSERT INTO coupons (code, discount_pct, valid_from, valid_to, active)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Code, c.DiscountPct, c.ValidFrom, c.ValidTo, c.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// RedeemTx irreversibly deactivates a coupon within an existing
// transaction.  The update is conditional on the coupon being active
// and inside its validity window at call time, so a concurrent or
// repeated redemption affects zero rows.  A zero-row result is
// reported as ErrCouponNotRedeemable when the coupon exists and as
// ErrCouponNotFound when it does not.
func (r *CouponRepo) RedeemTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE coupons SET active = FALSE
	           WHERE id = ? AND active = TRUE AND valid_from < UTC_TIMESTAMP() AND valid_to > UTC_TIMESTAMP()`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	const sel = `SELECT id FROM coupons WHERE id = ?`
	var got uint64
	if err := tx.QueryRowContext(ctx, sel, id).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCouponNotFound
		}
		return err
	}
	return ErrCouponNotRedeemable
}
