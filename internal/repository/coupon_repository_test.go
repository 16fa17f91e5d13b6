package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRedeemTxSucceedsOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewCouponRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE coupons SET active = FALSE").
		WithArgs(uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, _ := db.Begin()
	if err := repo.RedeemTx(context.Background(), tx, 12); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRedeemTxSecondCallFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewCouponRepo(db)

	// The coupon row exists but active is already FALSE, so the
	// conditional update matches nothing and the existence probe
	// classifies the failure.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE coupons SET active = FALSE").
		WithArgs(uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id FROM coupons WHERE id").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	tx, _ := db.Begin()
	err = repo.RedeemTx(context.Background(), tx, 12)
	if !errors.Is(err, ErrCouponNotRedeemable) {
		t.Fatalf("err = %v, want ErrCouponNotRedeemable", err)
	}
}

func TestRedeemTxUnknownCoupon(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := NewCouponRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE coupons SET active = FALSE").
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id FROM coupons WHERE id").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tx, _ := db.Begin()
	err = repo.RedeemTx(context.Background(), tx, 99)
	if !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("err = %v, want ErrCouponNotFound", err)
	}
}
