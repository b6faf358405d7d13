package repos_test

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"supermarket/internal/domain"
	"supermarket/internal/repos"
)

func mockdb(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	db := sqlx.NewDb(raw, "sqlite")
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var pendingCols = []string{"id", "item_id", "user_id", "seller_id", "quantity", "price_at_purchase", "status", "created_at"}

// A failed conditional decrement must roll the transaction back; no status
// flip may be issued.
func TestCheckoutRollsBackOnFailedDecrement(t *testing.T) {
	db, mock := mockdb(t)
	repo := repos.NewPurchaseRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, item_id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(pendingCols).
			AddRow(41, 9, 7, 2, 3, 500, "pending", "2026-01-01"))
	mock.ExpectExec("UPDATE items SET quantity").
		WithArgs(3, int64(9), 3).
		WillReturnResult(sqlmock.NewResult(0, 0)) // stock check fails
	mock.ExpectQuery("SELECT title, quantity FROM items").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"title", "quantity"}).AddRow("Pocket radio", 2))
	mock.ExpectRollback()

	err := repo.Checkout(7)
	var se *domain.StockError
	if !errors.As(err, &se) {
		t.Fatalf("want StockError, got %v", err)
	}
	if se.PurchaseID != 41 || se.ItemID != 9 || se.Requested != 3 || se.Available != 2 || se.Title != "Pocket radio" {
		t.Fatalf("bad failing line report: %+v", se)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckoutEmptyCartCommitsWithoutWrites(t *testing.T) {
	db, mock := mockdb(t)
	repo := repos.NewPurchaseRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, item_id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(pendingCols))
	mock.ExpectCommit()

	if err := repo.Checkout(7); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckoutFlipsStatusAfterAllDecrements(t *testing.T) {
	db, mock := mockdb(t)
	repo := repos.NewPurchaseRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, item_id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(pendingCols).
			AddRow(41, 9, 7, 2, 1, 500, "pending", "2026-01-01").
			AddRow(42, 10, 7, 3, 2, 250, "pending", "2026-01-01"))
	mock.ExpectExec("UPDATE items SET quantity").
		WithArgs(1, int64(9), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE items SET quantity").
		WithArgs(2, int64(10), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE purchases SET status").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := repo.Checkout(7); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
