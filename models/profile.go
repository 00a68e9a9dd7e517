package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile holds the user-editable identity card shown on the dashboard.
// Existence of a row is the evidence for the "Basic Identity" step.
type Profile struct {
	ID          string            `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	OwnerID     string            `gorm:"type:uuid;uniqueIndex;not null" json:"owner_id"`
	DisplayName string            `gorm:"type:varchar(128)" json:"display_name"`
	Bio         string            `gorm:"type:text" json:"bio"`
	SocialLinks datatypes.JSONMap `gorm:"type:jsonb" json:"social_links"` // e.g. {"twitter": "https://..."}
	AvatarURL   string            `gorm:"type:text" json:"avatar_url"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Complete reports whether the profile satisfies the "Complete Profile" step:
// display name, bio and at least one social link, all required jointly.
func (p *Profile) Complete() bool {
	return p.DisplayName != "" && p.Bio != "" && len(p.SocialLinks) > 0
}
