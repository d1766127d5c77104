package dto

import "github.com/polkiloo/storefront/internal/domain/model"

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login" binding:"required,max=64"`
	Password string `json:"password" binding:"required,min=4,max=72"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Role  string `json:"role"`
}

// NewUserResponse converts a domain user.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Login: u.Login, Role: string(u.Role)}
}
