package services

import (
	"database/sql"

	"supermarket/internal/domain"
	"supermarket/internal/repos"
)

// BasketService owns the stock checks and clamps the purchase store itself
// does not perform. The buyer id is always the explicit authenticated
// principal handed in by the handler.
type BasketService struct {
	Purchases *repos.PurchaseRepo
	Items     *repos.ItemRepo
}

func NewBasketService(purchases *repos.PurchaseRepo, items *repos.ItemRepo) *BasketService {
	return &BasketService{Purchases: purchases, Items: items}
}

// AddToCart inserts a new pending line after verifying the item exists and the
// requested quantity fits current stock. The price snapshot is read from the
// item row server-side; the seller id is denormalized from the owner.
func (s *BasketService) AddToCart(buyerID, itemID int64, quantity int) (int64, error) {
	it, err := s.Items.Get(itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	if quantity > it.Quantity {
		return 0, &domain.StockError{
			ItemID:    itemID,
			Title:     it.Title,
			Requested: quantity,
			Available: it.Quantity,
		}
	}
	return s.Purchases.Add(itemID, buyerID, it.UserID, it.Price, quantity)
}

type CartView struct {
	Lines []repos.CartLine
	Total int64
	// Stock maps item id to current on-hand quantity for the lines above.
	Stock map[int64]int
}

func (s *BasketService) View(buyerID int64) (CartView, error) {
	lines, err := s.Purchases.Cart(buyerID)
	if err != nil {
		return CartView{}, err
	}
	ids := make([]int64, 0, len(lines))
	var total int64
	for _, line := range lines {
		ids = append(ids, line.ItemID)
		total += line.TotalPrice
	}
	stock, err := s.Items.Quantities(ids)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Lines: lines, Total: total, Stock: stock}, nil
}

// UpdateQuantities overwrites line quantities, clamping each request to the
// item's current stock. Requests for lines the buyer does not own fall through
// to the store's scoped update and affect nothing. Lines whose item has
// vanished are left unchanged.
func (s *BasketService) UpdateQuantities(buyerID int64, requested map[int64]int) error {
	lines, err := s.Purchases.Cart(buyerID)
	if err != nil {
		return err
	}
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	stock, err := s.Items.Quantities(ids)
	if err != nil {
		return err
	}
	for _, line := range lines {
		quantity, ok := requested[line.PurchaseID]
		if !ok || quantity < 1 {
			continue
		}
		max, ok := stock[line.ItemID]
		if !ok || max < 1 {
			continue
		}
		if quantity > max {
			quantity = max
		}
		if err := s.Purchases.UpdateQuantity(line.PurchaseID, buyerID, quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *BasketService) Remove(buyerID, purchaseID int64) error {
	return s.Purchases.Remove(purchaseID, buyerID)
}

// Checkout finalizes the buyer's cart atomically; see PurchaseRepo.Checkout.
func (s *BasketService) Checkout(buyerID int64) error {
	return s.Purchases.Checkout(buyerID)
}

func (s *BasketService) History(buyerID int64) ([]repos.CartLine, error) {
	return s.Purchases.History(buyerID)
}
