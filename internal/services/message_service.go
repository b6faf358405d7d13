package services

import (
	"database/sql"

	"supermarket/internal/domain"
	"supermarket/internal/repos"
)

type MessageService struct {
	Messages *repos.MessageRepo
	Users    *repos.UserRepo
}

func NewMessageService(messages *repos.MessageRepo, users *repos.UserRepo) *MessageService {
	return &MessageService{Messages: messages, Users: users}
}

func (s *MessageService) Send(senderID, recipientID int64, content string) error {
	if _, err := s.Users.ByID(recipientID); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}
	return s.Messages.Send(senderID, recipientID, content)
}

func (s *MessageService) Conversations(userID int64) ([]domain.Conversation, error) {
	return s.Messages.Conversations(userID)
}

func (s *MessageService) DeleteConversation(userID, partnerID int64) error {
	return s.Messages.DeleteConversation(userID, partnerID)
}
