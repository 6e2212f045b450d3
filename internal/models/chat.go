package models

import "time"

// ChatSessionStatus is the state of an assistant conversation.
type ChatSessionStatus string

const (
	ChatActive    ChatSessionStatus = "active"
	ChatClosed    ChatSessionStatus = "closed"
	ChatEscalated ChatSessionStatus = "escalated"
)

// ChatSession tracks one assistant conversation for a user.
type ChatSession struct {
	ID        int64             `json:"id" db:"id"`
	UserID    int64             `json:"user_id" db:"user_id"`
	SessionID string            `json:"session_id" db:"session_id"`
	Language  Language          `json:"language" db:"language"`
	Status    ChatSessionStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// ChatReply is the assistant's answer to one message.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Language  string `json:"language"`
}
