package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"supermarket/internal/domain"
	"supermarket/internal/repos"
	"supermarket/internal/services"
)

// memdb opens a fresh in-memory database with the full schema and seed data:
// users alice(1)/bob(2)/cecilia(3); items 1 (alice, qty 20, price 1250),
// 2 (bob, qty 5, price 890), 3 (bob, qty 1, price 450).
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newBasket(db *sqlx.DB) *services.BasketService {
	return services.NewBasketService(repos.NewPurchaseRepo(db), repos.NewItemRepo(db))
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	db := memdb(t)
	basket := newBasket(db)
	items := repos.NewItemRepo(db)

	const alice, bob = int64(1), int64(2)
	pid, err := basket.AddToCart(alice, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if pid == 0 {
		t.Fatal("no purchase id")
	}

	// Seller price change after add must not leak into the snapshot.
	it, err := items.Get(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := items.Update(2, it.Title, it.Description, 9999, it.Quantity, nil, nil); err != nil {
		t.Fatal(err)
	}

	cv, err := basket.View(alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Lines) != 1 {
		t.Fatalf("want 1 line, got %d", len(cv.Lines))
	}
	line := cv.Lines[0]
	if line.PriceAtPurchase != 890 || line.TotalPrice != 2670 {
		t.Fatalf("snapshot price drifted: %+v", line)
	}
	if cv.Total != 2670 {
		t.Fatalf("want total 2670, got %d", cv.Total)
	}
	if cv.Stock[2] != 5 {
		t.Fatalf("want stock 5 for item 2, got %d", cv.Stock[2])
	}

	// Seller id was denormalized from the item owner at add time.
	var sellerID int64
	if err := db.Get(&sellerID, `SELECT seller_id FROM purchases WHERE id=?`, pid); err != nil {
		t.Fatal(err)
	}
	if sellerID != bob {
		t.Fatalf("want seller %d, got %d", bob, sellerID)
	}
}

func TestAddToCartRejectsOverstockAndMissingItem(t *testing.T) {
	db := memdb(t)
	basket := newBasket(db)

	if _, err := basket.AddToCart(1, 999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	_, err := basket.AddToCart(1, 3, 2) // item 3 has one unit
	var se *domain.StockError
	if !errors.As(err, &se) {
		t.Fatalf("want StockError, got %v", err)
	}
	if se.ItemID != 3 || se.Requested != 2 || se.Available != 1 {
		t.Fatalf("bad stock error: %+v", se)
	}

	cv, err := basket.View(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Lines) != 0 {
		t.Fatalf("rejected add must not create a line: %+v", cv.Lines)
	}
}

func TestCartContainsOnlyOwnPendingLines(t *testing.T) {
	db := memdb(t)
	basket := newBasket(db)

	if _, err := basket.AddToCart(1, 2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := basket.AddToCart(3, 2, 2); err != nil {
		t.Fatal(err)
	}
	if err := basket.Checkout(3); err != nil {
		t.Fatal(err)
	}

	cv, err := basket.View(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Lines) != 1 || cv.Lines[0].Quantity != 1 {
		t.Fatalf("cart leaked foreign or paid lines: %+v", cv.Lines)
	}
	cv3, err := basket.View(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv3.Lines) != 0 {
		t.Fatalf("paid lines must leave the cart: %+v", cv3.Lines)
	}
}

func TestUpdateQuantityClampsToStock(t *testing.T) {
	db := memdb(t)
	basket := newBasket(db)

	pid, err := basket.AddToCart(1, 2, 3) // stock is 5
	if err != nil {
		t.Fatal(err)
	}
	if err := basket.UpdateQuantities(1, map[int64]int{pid: 10}); err != nil {
		t.Fatal(err)
	}

	cv, err := basket.View(1)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Lines[0].Quantity != 5 {
		t.Fatalf("want quantity clamped to 5, got %d", cv.Lines[0].Quantity)
	}
}

func TestUpdateQuantityForeignLineUnchanged(t *testing.T) {
	db := memdb(t)
	basket := newBasket(db)

	pid, err := basket.AddToCart(1, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Buyer 3 names buyer 1's line; the scoped update affects zero rows.
	if err := basket.Purchases.UpdateQuantity(pid, 3, 1); err != nil {
		t.Fatal(err)
	}

	cv, err := basket.View(1)
	if err != nil {
		t.Fatal(err)
	}
	if cv.Lines[0].Quantity != 3 {
		t.Fatalf("foreign update must be a no-op, got quantity %d", cv.Lines[0].Quantity)
	}
}

func TestRemoveLineIdempotent(t *testing.T) {
	db := memdb(t)
	basket := newBasket(db)

	pid, err := basket.AddToCart(1, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Foreign removal is a no-op.
	if err := basket.Remove(3, pid); err != nil {
		t.Fatal(err)
	}
	cv, _ := basket.View(1)
	if len(cv.Lines) != 1 {
		t.Fatal("foreign remove deleted the line")
	}

	if err := basket.Remove(1, pid); err != nil {
		t.Fatal(err)
	}
	cv, _ = basket.View(1)
	if len(cv.Lines) != 0 {
		t.Fatal("line still present after remove")
	}
	// Second removal of the same line is fine.
	if err := basket.Remove(1, pid); err != nil {
		t.Fatal(err)
	}
}

func TestQuantitiesEmptyInputShortCircuits(t *testing.T) {
	db := memdb(t)
	items := repos.NewItemRepo(db)

	out, err := items.Quantities(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("want empty map, got %v", out)
	}

	out, err = items.Quantities([]int64{1, 3, 999})
	if err != nil {
		t.Fatal(err)
	}
	if out[1] != 20 || out[3] != 1 {
		t.Fatalf("bad quantities: %v", out)
	}
	if _, ok := out[999]; ok {
		t.Fatal("unknown id must be absent from the result")
	}
}
