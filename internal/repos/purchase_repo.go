package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"supermarket/internal/domain"
)

type PurchaseRepo struct{ db *sqlx.DB }

func NewPurchaseRepo(db *sqlx.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

// CartLine is a pending purchase joined with its item for display. Title is
// empty when the item has been deleted since the line was added.
type CartLine struct {
	PurchaseID      int64  `db:"purchase_id" json:"purchase_id"`
	ItemID          int64  `db:"item_id" json:"item_id"`
	Title           string `db:"title" json:"title"`
	Quantity        int    `db:"quantity" json:"quantity"`
	PriceAtPurchase int64  `db:"price_at_purchase" json:"price_at_purchase"`
	TotalPrice      int64  `db:"total_price" json:"total_price"`
}

// Add inserts a new pending line with a point-in-time price snapshot. Each add
// creates a new row; duplicate lines for the same item are not merged.
func (r *PurchaseRepo) Add(itemID, buyerID, sellerID int64, price int64, quantity int) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO purchases(item_id, user_id, seller_id, quantity, price_at_purchase, status)
	  VALUES(?, ?, ?, ?, ?, 'pending')
	`, itemID, buyerID, sellerID, quantity, price)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Cart returns the buyer's pending lines in insertion order.
func (r *PurchaseRepo) Cart(buyerID int64) ([]CartLine, error) {
	rows := []CartLine{}
	err := r.db.Select(&rows, `
	  SELECT p.id AS purchase_id, p.item_id, COALESCE(i.title,'') AS title,
	         p.quantity, p.price_at_purchase,
	         (p.quantity * p.price_at_purchase) AS total_price
	  FROM purchases p
	  LEFT JOIN items i ON i.id = p.item_id
	  WHERE p.user_id = ? AND p.status = 'pending'
	  ORDER BY p.id
	`, buyerID)
	return rows, err
}

// UpdateQuantity overwrites the quantity on a pending line scoped to the owning
// buyer. A row that does not belong to the buyer is left untouched (zero rows
// affected, no error).
func (r *PurchaseRepo) UpdateQuantity(purchaseID, buyerID int64, quantity int) error {
	_, err := r.db.Exec(`
	  UPDATE purchases SET quantity = ?
	  WHERE id = ? AND user_id = ? AND status = 'pending'
	`, quantity, purchaseID, buyerID)
	return err
}

// Remove deletes a pending line scoped to the buyer; no-op if absent or not owned.
func (r *PurchaseRepo) Remove(purchaseID, buyerID int64) error {
	_, err := r.db.Exec(`
	  DELETE FROM purchases WHERE id = ? AND user_id = ? AND status = 'pending'
	`, purchaseID, buyerID)
	return err
}

// Checkout finalizes the buyer's cart in one transaction: every pending line is
// re-verified against current stock, stock is decremented, and all lines flip
// to paid. The first line that fails the stock check aborts the whole
// transaction and is reported as a *domain.StockError. An empty cart succeeds
// with no effect.
func (r *PurchaseRepo) Checkout(buyerID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var lines []domain.Purchase
	if err := tx.Select(&lines, `
	  SELECT id, item_id, user_id, seller_id, quantity, price_at_purchase, status,
	         COALESCE(created_at,'') AS created_at
	  FROM purchases
	  WHERE user_id = ? AND status = 'pending'
	  ORDER BY id
	`, buyerID); err != nil {
		return err
	}
	if len(lines) == 0 {
		return tx.Commit()
	}

	for _, line := range lines {
		res, err := tx.Exec(`
		  UPDATE items SET quantity = quantity - ?
		  WHERE id = ? AND quantity >= ?
		`, line.Quantity, line.ItemID, line.Quantity)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return r.stockError(tx, line)
		}
	}

	if _, err := tx.Exec(`
	  UPDATE purchases SET status = 'paid' WHERE user_id = ? AND status = 'pending'
	`, buyerID); err != nil {
		return err
	}
	return tx.Commit()
}

// stockError builds the per-line failure report inside the aborting transaction.
func (r *PurchaseRepo) stockError(tx *sqlx.Tx, line domain.Purchase) error {
	se := &domain.StockError{
		PurchaseID: line.ID,
		ItemID:     line.ItemID,
		Requested:  line.Quantity,
	}
	var row struct {
		Title    string `db:"title"`
		Quantity int    `db:"quantity"`
	}
	// A vanished item counts as zero stock.
	if err := tx.Get(&row, `SELECT title, quantity FROM items WHERE id = ?`, line.ItemID); err != nil {
		if err != sql.ErrNoRows {
			return err
		}
	} else {
		se.Title = row.Title
		se.Available = row.Quantity
	}
	return se
}

// History returns the buyer's finalized lines, newest first.
func (r *PurchaseRepo) History(buyerID int64) ([]CartLine, error) {
	rows := []CartLine{}
	err := r.db.Select(&rows, `
	  SELECT p.id AS purchase_id, p.item_id, COALESCE(i.title,'') AS title,
	         p.quantity, p.price_at_purchase,
	         (p.quantity * p.price_at_purchase) AS total_price
	  FROM purchases p
	  LEFT JOIN items i ON i.id = p.item_id
	  WHERE p.user_id = ? AND p.status = 'paid'
	  ORDER BY p.id DESC
	`, buyerID)
	return rows, err
}
