package repos

import (
	"github.com/jmoiron/sqlx"

	"supermarket/internal/domain"
)

type MessageRepo struct{ db *sqlx.DB }

func NewMessageRepo(db *sqlx.DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) Send(senderID, recipientID int64, content string) error {
	_, err := r.db.Exec(`
	  INSERT INTO messages(content, sender_id, recipient_id) VALUES(?, ?, ?)
	`, content, senderID, recipientID)
	return err
}

// Conversations groups the user's messages by partner, most recently active
// conversation first, messages oldest first within each.
func (r *MessageRepo) Conversations(userID int64) ([]domain.Conversation, error) {
	var rows []struct {
		PartnerID   int64  `db:"partner_id"`
		PartnerName string `db:"partner_name"`
		MessageID   int64  `db:"message_id"`
		Content     string `db:"content"`
		SentAt      string `db:"sent_at"`
		SenderID    int64  `db:"sender_id"`
	}
	err := r.db.Select(&rows, `
	  WITH conversation_partners AS (
	    SELECT
	      CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS partner_id,
	      MAX(sent_at) AS last_message_time
	    FROM messages
	    WHERE sender_id = ? OR recipient_id = ?
	    GROUP BY partner_id
	  )
	  SELECT
	    u.id AS partner_id,
	    u.username AS partner_name,
	    m.id AS message_id,
	    m.content,
	    datetime(m.sent_at) AS sent_at,
	    m.sender_id
	  FROM conversation_partners cp
	  JOIN users u ON cp.partner_id = u.id
	  JOIN messages m ON (
	    (m.sender_id = ? AND m.recipient_id = cp.partner_id) OR
	    (m.sender_id = cp.partner_id AND m.recipient_id = ?)
	  )
	  ORDER BY cp.last_message_time DESC, m.sent_at ASC
	`, userID, userID, userID, userID, userID)
	if err != nil {
		return nil, err
	}

	var out []domain.Conversation
	index := map[int64]int{}
	for _, row := range rows {
		i, ok := index[row.PartnerID]
		if !ok {
			out = append(out, domain.Conversation{PartnerID: row.PartnerID, PartnerName: row.PartnerName})
			i = len(out) - 1
			index[row.PartnerID] = i
		}
		out[i].Messages = append(out[i].Messages, domain.Message{
			ID: row.MessageID, Content: row.Content, SenderID: row.SenderID, SentAt: row.SentAt,
		})
	}
	return out, nil
}

// DeleteConversation removes both directions of a thread with one partner.
func (r *MessageRepo) DeleteConversation(userID, partnerID int64) error {
	_, err := r.db.Exec(`
	  DELETE FROM messages
	  WHERE (sender_id = ? AND recipient_id = ?)
	     OR (sender_id = ? AND recipient_id = ?)
	`, userID, partnerID, partnerID, userID)
	return err
}
