package models

import (
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleCoworker = "coworker"
	RoleUser     = "user"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is the platform account as returned by /api/users.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status,omitempty"`
	Points    int64     `json:"points"`
	Level     string    `json:"level,omitempty"`
	ReferCode string    `json:"refer_code,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsCoworker() bool {
	return u != nil && u.Role == RoleCoworker
}

// FlippedStatus returns the status a toggle would move the user to.
func (u *User) FlippedStatus() string {
	if u.Status == StatusActive {
		return StatusInactive
	}
	return StatusActive
}
