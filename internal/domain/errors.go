package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrBadCreds  = errors.New("invalid username or password")
	ErrTaken     = errors.New("username already taken")
)

// StockError reports the first cart line that failed the stock check during
// checkout. The whole checkout aborts; nothing is decremented or flipped.
type StockError struct {
	PurchaseID int64
	ItemID     int64
	Title      string
	Requested  int
	Available  int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d %q (need %d, have %d)",
		e.ItemID, e.Title, e.Requested, e.Available)
}
