package models

import (
	"time"
)

const (
	UserStatusActive = "active"
	UserStatusBanned = "banned"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	Login        string
	PasswordHash string
	FullName     string
	Phone        string
	Email        string
	Role         string // "user" or "admin"
	Status       string // "active" or "banned"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}

// UserWithCardCount is a user row as listed on the admin users page.
type UserWithCardCount struct {
	User
	CardCount int64
}
