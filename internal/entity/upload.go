package entity

import (
	"time"

	"github.com/google/uuid"
)

// Entity kinds used in storage path prefixes.
const (
	KindCompanies  = "companies"
	KindFacilities = "facilities"
)

// ProvisionalUpload tracks a pre-account temp object so abandoned
// registrations can be swept instead of orphaning blobs.
type ProvisionalUpload struct {
	ID          uuid.UUID `json:"id"`
	EntityKind  string    `json:"entity_kind"`
	StoragePath string    `json:"storage_path"`
	PublicURL   string    `json:"public_url"`
	Claimed     bool      `json:"claimed"`
	CreatedAt   time.Time `json:"created_at"`
}
