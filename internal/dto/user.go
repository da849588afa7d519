package dto

import (
	"time"

	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a local user.
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=64"`
	Password    string `json:"password" binding:"required,min=8"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName" binding:"required"`
	Role        string `json:"role" binding:"omitempty,oneof=super_admin employee"`
	Department  string `json:"department"`
	JobTitle    string `json:"jobTitle"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateUserRequest defines the profile fields a user may change.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,min=1"`
	Department  *string `json:"department"`
	JobTitle    *string `json:"jobTitle"`
	PhoneNumber *string `json:"phoneNumber"`
}

// UpdateUserRoleRequest changes a user's role.
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=super_admin employee"`
}

// SetUserActiveRequest enables or disables a user.
type SetUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// LoginRequest holds local credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID       string     `json:"userID"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	Department   string     `json:"department,omitempty"`
	JobTitle     string     `json:"jobTitle,omitempty"`
	PhoneNumber  string     `json:"phoneNumber,omitempty"`
	PhotoURL     string     `json:"photoURL,omitempty"`
	AuthProvider string     `json:"authProvider"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:       u.UserID,
		Username:     u.Username,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Role:         string(u.Role),
		Active:       u.Active,
		Department:   u.Department,
		JobTitle:     u.JobTitle,
		PhoneNumber:  u.PhoneNumber,
		PhotoURL:     u.PhotoURL,
		AuthProvider: string(u.AuthProvider),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}
