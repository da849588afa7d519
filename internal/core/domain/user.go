package domain

import "time"

// Role is the application-wide permission level of a user.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleEmployee   Role = "employee"
)

func (r Role) IsValid() bool {
	return r == RoleSuperAdmin || r == RoleEmployee
}

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// User represents an operator of the application.
type User struct {
	UserID         string       `json:"userID"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	DisplayName    string       `json:"displayName"`
	Role           Role         `json:"role"`
	Active         bool         `json:"active"`
	Department     string       `json:"department,omitempty"`
	JobTitle       string       `json:"jobTitle,omitempty"`
	PhoneNumber    string       `json:"phoneNumber,omitempty"`
	PhotoURL       string       `json:"photoURL,omitempty"`
	PasswordHash   *string      `json:"-"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID *string      `json:"-"`
	LastLoginAt    *time.Time   `json:"lastLoginAt,omitempty"`
	AuditFields
}

func (u User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// GoogleUserInfo is the profile returned by Google's userinfo endpoint.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
