package models

import (
	"time"
)

type Chat struct {
	ChatID    string    `json:"chat_id" gorm:"type:varchar(64);primaryKey"`
	SessionID string    `json:"-" gorm:"type:varchar(64);not null;index"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Chat) TableName() string {
	return "chats"
}

// ChatMessage ids are auto-incremented so insertion order is chronological.
type ChatMessage struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	SessionID string    `json:"-" gorm:"type:varchar(64);not null;index:idx_messages_session_chat"`
	ChatID    string    `json:"-" gorm:"type:varchar(64);not null;index:idx_messages_session_chat"`
	Role      string    `json:"role" gorm:"type:varchar(50);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "messages"
}
