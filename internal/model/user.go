package model

import (
	"time"

	"gorm.io/gorm"
)

// User carries the credential record plus the current session's refresh
// token. RefreshToken empty means no active session; a new login overwrites
// it, which invalidates the previous session (single-session model).
type User struct {
	gorm.Model
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;unique;not null"`
	Password     string    `gorm:"column:password;not null"`
	Role         string    `gorm:"column:role;default:user;not null"`
	Age          int       `gorm:"column:age;default:18"`
	LastLogin    time.Time `gorm:"column:last_login"`
	RefreshToken string    `gorm:"column:refresh_token;default:null;index:idx_users_refresh_token,where:refresh_token IS NOT NULL"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
