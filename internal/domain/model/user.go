package model

import "time"

// Role gates which order operations a user may perform.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User represents a registered storefront account.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Actor identifies who performs an order mutation.
type Actor struct {
	UserID int64
	Login  string
	Role   Role
}

// Actor returns the acting identity of u.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Login: u.Login, Role: u.Role}
}
