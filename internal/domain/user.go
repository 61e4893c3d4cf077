package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for an account holder. The reset token and its
// expiry live on the user row; at most one reset token is active per user.
type User struct {
	ID                  int64
	Name                string
	Email               string
	PasswordHash        string
	Status              UserStatus
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// SecToken carries the most recently issued session token for this
	// user within a single request; it is never persisted.
	SecToken string
}

// Active reports whether the account may sign in.
func (u *User) Active() bool {
	return u != nil && u.Status == UserStatusActive
}
