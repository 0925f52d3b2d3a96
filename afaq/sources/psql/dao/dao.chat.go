package dao

import (
	"context"
	"errors"

	"afaq/afaq/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrChatNotFound = errors.New("chat not found")

type ChatDAO struct {
	DB *gorm.DB
}

func NewChatDAO(db *gorm.DB) *ChatDAO {
	return &ChatDAO{DB: db}
}

func (dao *ChatDAO) NewChatID() string {
	return uuid.New().String()
}

func (dao *ChatDAO) CreateChat(ctx context.Context, sessionID, chatID, title string) (*models.Chat, error) {
	chat := models.Chat{ChatID: chatID, SessionID: sessionID, Title: title}
	if err := dao.DB.WithContext(ctx).Create(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChat returns ErrChatNotFound when chatID does not belong to sessionID.
func (dao *ChatDAO) GetChat(ctx context.Context, sessionID, chatID string) (*models.Chat, error) {
	var chat models.Chat
	err := dao.DB.WithContext(ctx).
		Where("session_id = ? AND chat_id = ?", sessionID, chatID).
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListChats returns the session's chats, newest first.
func (dao *ChatDAO) ListChats(ctx context.Context, sessionID string) ([]models.Chat, error) {
	chats := []models.Chat{}
	err := dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Order("chat_id").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (dao *ChatDAO) UpdateChatTitle(ctx context.Context, chatID, title string) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Chat{}).
		Where("chat_id = ?", chatID).
		Update("title", title).Error
}

func (dao *ChatDAO) SaveMessage(ctx context.Context, sessionID, chatID, role, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{SessionID: sessionID, ChatID: chatID, Role: role, Content: content}
	if err := dao.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetChatHistory returns the messages of one chat in insertion order.
func (dao *ChatDAO) GetChatHistory(ctx context.Context, sessionID, chatID string) ([]models.ChatMessage, error) {
	msgs := []models.ChatMessage{}
	err := dao.DB.WithContext(ctx).
		Where("session_id = ? AND chat_id = ?", sessionID, chatID).
		Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetSessionHistory returns every message of the session across chats.
func (dao *ChatDAO) GetSessionHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	msgs := []models.ChatMessage{}
	err := dao.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteChat removes a chat and its messages. It returns ErrChatNotFound if
// the session had no such chat.
func (dao *ChatDAO) DeleteChat(ctx context.Context, sessionID, chatID string) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ? AND chat_id = ?", sessionID, chatID).
			Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		res := tx.Where("session_id = ? AND chat_id = ?", sessionID, chatID).Delete(&models.Chat{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrChatNotFound
		}
		return nil
	})
}

// ClearSession deletes every chat and message of the session.
func (dao *ChatDAO) ClearSession(ctx context.Context, sessionID string) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("session_id = ?", sessionID).Delete(&models.Chat{}).Error
	})
}
