package domain

// Purchase statuses. Checkout moves pending -> paid; shipped and delivered
// exist in the schema as future states with no transition into them yet.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
)

type Item struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Price       int64  `db:"price" json:"price"` // minor currency units
	Quantity    int    `db:"quantity" json:"quantity"`
	UserID      int64  `db:"user_id" json:"user_id"`
	Seller      string `db:"seller" json:"seller"` // owner username, joined on read
	HasImage    bool   `db:"has_image" json:"has_image"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

// ItemClass is one classification tag attached to an item.
type ItemClass struct {
	Title string `db:"title" json:"title"`
	Value string `db:"value" json:"value"`
}

// Purchase is one cart/order line. ItemID is a weak reference: the item may be
// edited or deleted afterwards, which is why the price is snapshotted here.
type Purchase struct {
	ID              int64  `db:"id" json:"id"`
	ItemID          int64  `db:"item_id" json:"item_id"`
	UserID          int64  `db:"user_id" json:"user_id"`     // buyer
	SellerID        int64  `db:"seller_id" json:"seller_id"` // item owner at add time
	Quantity        int    `db:"quantity" json:"quantity"`
	PriceAtPurchase int64  `db:"price_at_purchase" json:"price_at_purchase"`
	Status          string `db:"status" json:"status"`
	CreatedAt       string `db:"created_at" json:"created_at"`
}

type Comment struct {
	ID        int64  `db:"id" json:"id"`
	ItemID    int64  `db:"item_id" json:"item_id"`
	Username  string `db:"username" json:"username"`
	Content   string `db:"content" json:"content"`
	Rating    int    `db:"rating" json:"rating"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Message struct {
	ID       int64  `db:"id" json:"id"`
	Content  string `db:"content" json:"content"`
	SenderID int64  `db:"sender_id" json:"sender_id"`
	SentAt   string `db:"sent_at" json:"sent_at"`
}

// Conversation groups a user's messages with one partner.
type Conversation struct {
	PartnerID   int64     `json:"partner_id"`
	PartnerName string    `json:"partner_name"`
	Messages    []Message `json:"messages"`
}
