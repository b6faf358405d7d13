package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"supermarket/internal/domain"
)

type CommentRepo struct{ db *sqlx.DB }

func NewCommentRepo(db *sqlx.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Add(itemID, userID int64, content string, rating int) error {
	_, err := r.db.Exec(`
	  INSERT INTO comments(item_id, user_id, content, rating) VALUES(?, ?, ?, ?)
	`, itemID, userID, content, rating)
	return err
}

func (r *CommentRepo) ByItem(itemID int64) ([]domain.Comment, error) {
	var out []domain.Comment
	err := r.db.Select(&out, `
	  SELECT c.id, c.item_id,
	         CASE WHEN c.user_id IS NULL THEN 'Deleted user' ELSE u.username END AS username,
	         c.content, c.rating, c.created_at
	  FROM comments c
	  LEFT JOIN users u ON u.id = c.user_id
	  WHERE c.item_id = ?
	  ORDER BY c.created_at DESC
	`, itemID)
	return out, err
}

// AverageRating returns 0 and false when the item has no comments.
func (r *CommentRepo) AverageRating(itemID int64) (float64, bool, error) {
	var avg sql.NullFloat64
	if err := r.db.Get(&avg, `SELECT AVG(rating) FROM comments WHERE item_id = ?`, itemID); err != nil {
		return 0, false, err
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}
