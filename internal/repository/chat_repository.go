package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"habit-tracker/internal/model"
)

// ChatRepository keeps the chats that receive daily reports.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Register finds or creates a chat by its Telegram id and refreshes the
// profile fields.
func (r *ChatRepository) Register(ctx context.Context, chatID int64, firstName, username string) (*model.Chat, error) {
	var chat model.Chat
	db := r.db.WithContext(ctx)
	err := db.Where("chat_id = ?", chatID).First(&chat).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"username":   username,
		}
		if err := db.Model(&chat).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update chat: %w", err)
		}
		return &chat, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		chat = model.Chat{ChatID: chatID, FirstName: firstName, Username: username}
		if err := db.Create(&chat).Error; err != nil {
			return nil, fmt.Errorf("create chat: %w", err)
		}
		return &chat, nil
	default:
		return nil, fmt.Errorf("find chat: %w", err)
	}
}

func (r *ChatRepository) ListAll(ctx context.Context) ([]model.Chat, error) {
	var chats []model.Chat
	if err := r.db.WithContext(ctx).Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return chats, nil
}
