package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"updatedAt"`
	LastUpdatedBy string    `json:"updatedBy"` // UserID Reference
}

// ListParams carries cursor pagination for listings ordered by creation time, newest first.
type ListParams struct {
	Limit int
	// After is the (createdAt, id) of the last item of the previous page.
	AfterCreatedAt *time.Time
	AfterID        string
}

// DefaultListLimit applies when a caller passes no or an invalid limit.
const DefaultListLimit = 20

// MaxListLimit caps page sizes.
const MaxListLimit = 100

// Normalize clamps Limit into [1, MaxListLimit].
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}
	return p
}
