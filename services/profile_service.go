// services/profile_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"

	"digital-id-system/models"
	"digital-id-system/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// GetProfile returns the owner's profile. found is false when no row exists;
// that is not an error (a missing profile just means step 0 is not done).
func (s *ProfileService) GetProfile(ownerID string) (*models.Profile, bool, error) {
	var profile models.Profile
	if err := s.DB.Where("owner_id = ?", ownerID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, transientError("get profile", err)
	}
	return &profile, true, nil
}

// EnsureProfile creates an empty profile row if none exists (idempotent).
// Creating the row is what marks "Basic Identity" as evidenced.
func (s *ProfileService) EnsureProfile(ownerID string) (*models.Profile, error) {
	profile, found, err := s.GetProfile(ownerID)
	if err != nil {
		return nil, err
	}
	if found {
		return profile, nil
	}
	profile = &models.Profile{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		SocialLinks: datatypes.JSONMap{},
	}
	if err := s.DB.Create(profile).Error; err != nil {
		return nil, transientError("create profile", err)
	}
	return profile, nil
}

// ProfileUpdate carries the user-editable fields. Nil means "leave as is".
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	SocialLinks map[string]interface{}
}

// UpdateProfile applies the update to the owner's profile, creating the row
// first if needed.
func (s *ProfileService) UpdateProfile(ownerID string, update ProfileUpdate) (*models.Profile, error) {
	profile, err := s.EnsureProfile(ownerID)
	if err != nil {
		return nil, err
	}

	if update.DisplayName != nil {
		profile.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.SocialLinks != nil {
		profile.SocialLinks = datatypes.JSONMap(update.SocialLinks)
	}

	if err := s.DB.Save(profile).Error; err != nil {
		return nil, transientError("update profile", err)
	}
	return profile, nil
}

// SaveAvatar stores the uploaded image and records its URL on the profile.
// Uploads go to R2 when configured, otherwise to the local uploads dir.
func (s *ProfileService) SaveAvatar(ownerID string, fileHeader *multipart.FileHeader) (*models.Profile, error) {
	profile, err := s.EnsureProfile(ownerID)
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(fileHeader.Filename)
	key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), ext)

	var url string
	if utils.R2Enabled() {
		url, err = utils.UploadFileToR2(fileHeader, key)
		if err != nil {
			return nil, transientError("upload avatar", err)
		}
	} else {
		destPath := utils.GetUploadPath(key)
		if err := utils.SaveFile(fileHeader, destPath); err != nil {
			return nil, transientError("save avatar", err)
		}
		url = "/uploads/" + key
	}

	profile.AvatarURL = url
	if err := s.DB.Save(profile).Error; err != nil {
		return nil, transientError("update avatar url", err)
	}

	log.Printf("🖼️ Avatar updated for %s → %s", ownerID, url)
	return profile, nil
}
