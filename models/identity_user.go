package models

import (
	"time"

	"gorm.io/gorm"
)

// IdentityUser is a local snapshot of the auth service's user record.
// Owned and managed solely by this service; populated via the auth sync
// worker from the auth service's public profile feed. The EmailVerified flag
// is what the auto-provisioning routine watches for a false→true transition.
type IdentityUser struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string     `gorm:"uniqueIndex;not null" json:"external_user_id"` // the auth service's UUID
	Email          string     `gorm:"index;not null" json:"email"`
	EmailVerified  bool       `gorm:"default:false" json:"email_verified"`
	ProvisionedAt  *time.Time `json:"provisioned_at,omitempty"` // set once the Smart Wallet bootstrap ran
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
