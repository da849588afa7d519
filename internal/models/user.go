package models

import "time"

// User is a row of the users table.
type User struct {
	UserID         string     `db:"user_id"`
	Username       string     `db:"username"`
	Email          string     `db:"email"`
	DisplayName    string     `db:"display_name"`
	Role           string     `db:"role"`
	IsActive       bool       `db:"is_active"`
	Department     string     `db:"department"`
	JobTitle       string     `db:"job_title"`
	PhoneNumber    string     `db:"phone_number"`
	PhotoURL       string     `db:"photo_url"`
	PasswordHash   *string    `db:"password_hash"`
	AuthProvider   string     `db:"auth_provider"`
	ProviderUserID *string    `db:"provider_user_id"`
	LastLoginAt    *time.Time `db:"last_login_at"`
	AuditFields
}
