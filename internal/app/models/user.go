package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a role-tagged person: head, teacher, parent or student account.
type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	FullName  string     `json:"fullName" db:"full_name" example:"Jane Doe"`
	Gender    string     `json:"gender,omitempty" db:"gender" example:"FEMALE"`
	Email     *string    `json:"email,omitempty" db:"email" example:"jane@example.com"`
	Phone     string     `json:"phone" db:"phone" example:"0781234567"`
	Address   string     `json:"address,omitempty" db:"address"`
	Password  string     `json:"-" db:"password_hash"`
	Enabled   bool       `json:"enabled" db:"enabled"`
	Active    bool       `json:"active" db:"active"`
	Roles     []RoleType `json:"roles"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role RoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
