package model

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	TelegramID   *int64    `json:"telegram_id,omitempty"` // nil для пользователей HTTP API
	Username     string    `json:"username,omitempty"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"` // nil для пользователей только из Telegram
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName возвращает имя для показа другим пользователям
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "—"
}

// EmailValue возвращает email или пустую строку
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// NormalizeEmail приводит email к виду, в котором он хранится
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
