package models

import "time"

type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
	Parent  Role = "parent"
	Admin   Role = "admin"
)

type User struct {
	ID                 int64     `db:"id" json:"id"`
	Username           string    `db:"username" json:"username"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	FullName           string    `db:"full_name" json:"full_name"`
	Role               Role      `db:"role" json:"role"`
	RegistrationNumber *string   `db:"registration_number" json:"registration_number"`
	TelegramChatID     *int64    `db:"telegram_chat_id" json:"-"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// StudentProfile — строка students вместе со связанным пользователем.
type StudentProfile struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ClassName string    `db:"class_name" json:"class_name"`
	Points    int       `db:"points" json:"points"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Username           string  `db:"username" json:"username"`
	FullName           string  `db:"full_name" json:"full_name"`
	RegistrationNumber *string `db:"registration_number" json:"registration_number"`
}
