package model

import (
	"time"
)

// Role is the closed set of principal roles. Anything outside these three
// values is rejected at the boundary, never stored.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt digest, never serialized
	Role      Role      `json:"role"`
	ManagerID string    `json:"managerId,omitempty"` // meaningful only when Role == RoleUser
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUser(name, email, passwordDigest string, role Role) *User {
	now := time.Now()
	return &User{
		ID:        GenerateID(),
		Name:      name,
		Email:     email,
		Password:  passwordDigest,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
