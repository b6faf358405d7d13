package repos

import (
	"github.com/jmoiron/sqlx"

	"supermarket/internal/domain"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemCols = `
  i.id, i.title, i.description, i.price, i.quantity, i.user_id,
  u.username AS seller, i.image IS NOT NULL AS has_image, i.created_at`

func (r *ItemRepo) Get(id int64) (domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, `
	  SELECT `+itemCols+`
	  FROM items i JOIN users u ON u.id = i.user_id
	  WHERE i.id = ?
	`, id)
	return it, err
}

func (r *ItemRepo) List(limit, offset int) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+`
	  FROM items i JOIN users u ON u.id = i.user_id
	  ORDER BY i.id DESC
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *ItemRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM items`)
	return n, err
}

func (r *ItemRepo) Search(q string, limit, offset int) ([]domain.Item, error) {
	like := "%" + q + "%"
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+`
	  FROM items i JOIN users u ON u.id = i.user_id
	  WHERE i.title LIKE ? OR i.description LIKE ?
	  ORDER BY i.id DESC
	  LIMIT ? OFFSET ?
	`, like, like, limit, offset)
	return out, err
}

func (r *ItemRepo) SearchCount(q string) (int, error) {
	like := "%" + q + "%"
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM items
	  WHERE title LIKE ? OR description LIKE ?
	`, like, like)
	return n, err
}

func (r *ItemRepo) ByUser(userID int64) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT `+itemCols+`
	  FROM items i JOIN users u ON u.id = i.user_id
	  WHERE i.user_id = ?
	  ORDER BY i.id DESC
	`, userID)
	return out, err
}

// Create inserts the item plus its class tags in one transaction and returns
// the new item id.
func (r *ItemRepo) Create(title, description string, price int64, quantity int, userID int64, classes []domain.ItemClass, image []byte) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  INSERT INTO items(title, description, price, quantity, user_id, image)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, title, description, price, quantity, userID, image)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, cl := range classes {
		if _, err := tx.Exec(`INSERT INTO item_classes(item_id,title,value) VALUES(?,?,?)`,
			id, cl.Title, cl.Value); err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

// Update overwrites item fields and replaces its class tags. A nil image keeps
// the stored one; an empty non-nil slice clears it.
func (r *ItemRepo) Update(id int64, title, description string, price int64, quantity int, classes []domain.ItemClass, image []byte) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if image == nil {
		_, err = tx.Exec(`UPDATE items SET title=?, description=?, price=?, quantity=? WHERE id=?`,
			title, description, price, quantity, id)
	} else {
		var img any
		if len(image) > 0 {
			img = image
		}
		_, err = tx.Exec(`UPDATE items SET title=?, description=?, price=?, quantity=?, image=? WHERE id=?`,
			title, description, price, quantity, img, id)
	}
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM item_classes WHERE item_id=?`, id); err != nil {
		return err
	}
	for _, cl := range classes {
		if _, err := tx.Exec(`INSERT INTO item_classes(item_id,title,value) VALUES(?,?,?)`,
			id, cl.Title, cl.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ItemRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM items WHERE id=?`, id)
	return err
}

func (r *ItemRepo) Classes(itemID int64) ([]domain.ItemClass, error) {
	var out []domain.ItemClass
	err := r.db.Select(&out, `SELECT title, value FROM item_classes WHERE item_id=?`, itemID)
	return out, err
}

// AllClasses returns the tag vocabulary grouped by tag title.
func (r *ItemRepo) AllClasses() (map[string][]string, error) {
	var rows []domain.ItemClass
	if err := r.db.Select(&rows, `SELECT title, value FROM classes ORDER BY id`); err != nil {
		return nil, err
	}
	all := map[string][]string{}
	for _, row := range rows {
		all[row.Title] = append(all[row.Title], row.Value)
	}
	return all, nil
}

func (r *ItemRepo) Image(itemID int64) ([]byte, error) {
	var img []byte
	err := r.db.Get(&img, `SELECT image FROM items WHERE id=?`, itemID)
	return img, err
}

// Quantities returns current stock for a batch of item ids. An empty input
// short-circuits without touching the database.
func (r *ItemRepo) Quantities(ids []int64) (map[int64]int, error) {
	if len(ids) == 0 {
		return map[int64]int{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, quantity FROM items WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID       int64 `db:"id"`
		Quantity int   `db:"quantity"`
	}
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Quantity
	}
	return out, nil
}
