package auth

import "time"

// Role is a user's privilege level. Admins may bypass ownership checks on
// posts; user self-service operations are never cross-user, regardless of
// role.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "USER"
	// RoleAdmin is the elevated role permitted to edit or delete any post.
	RoleAdmin Role = "ADMIN"
)

// User represents a user account. The password is held only as a bcrypt
// hash and is excluded from JSON serialization.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}
