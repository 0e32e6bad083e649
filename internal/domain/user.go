package domain

import "time"

// Role is the authorization role carried by users and tokens.
type Role string

const (
	RoleOwner Role = "owner"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleUser
}

// User represents an account able to sign in.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsOwner reports whether the user holds the owner role.
func (u User) IsOwner() bool {
	return u.Role == RoleOwner
}
