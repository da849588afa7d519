package mapping

import (
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
	"github.com/SscSPs/fieldops_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:         d.UserID,
		Username:       d.Username,
		Email:          d.Email,
		DisplayName:    d.DisplayName,
		Role:           string(d.Role),
		IsActive:       d.Active,
		Department:     d.Department,
		JobTitle:       d.JobTitle,
		PhoneNumber:    d.PhoneNumber,
		PhotoURL:       d.PhotoURL,
		PasswordHash:   d.PasswordHash,
		AuthProvider:   string(d.AuthProvider),
		ProviderUserID: d.ProviderUserID,
		LastLoginAt:    d.LastLoginAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Username:       m.Username,
		Email:          m.Email,
		DisplayName:    m.DisplayName,
		Role:           domain.Role(m.Role),
		Active:         m.IsActive,
		Department:     m.Department,
		JobTitle:       m.JobTitle,
		PhoneNumber:    m.PhoneNumber,
		PhotoURL:       m.PhotoURL,
		PasswordHash:   m.PasswordHash,
		AuthProvider:   domain.AuthProvider(m.AuthProvider),
		ProviderUserID: m.ProviderUserID,
		LastLoginAt:    m.LastLoginAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}
