// services/reward_service.go
package services

import (
	"log"

	"digital-id-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// Append writes one ledger entry. The ledger is append-only: there is no
// update or debit path anywhere in this service.
func (s *RewardService) Append(ownerID string, rewardType models.RewardType, amount int64, description string) (*models.RewardEvent, error) {
	return s.appendTx(s.DB, ownerID, rewardType, amount, description)
}

// appendTx is the transaction-aware variant used by the verification engine,
// which treats reward issuance and step completion as a single unit.
func (s *RewardService) appendTx(tx *gorm.DB, ownerID string, rewardType models.RewardType, amount int64, description string) (*models.RewardEvent, error) {
	if amount <= 0 {
		return nil, validationErrorf("reward amount must be positive, got %d", amount)
	}
	event := &models.RewardEvent{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		RewardType:  rewardType,
		Amount:      amount,
		Description: description,
	}
	if err := tx.Create(event).Error; err != nil {
		log.Printf("[REWARDS] ❌ Failed to append %s reward for %s: %v", rewardType, ownerID, err)
		return nil, transientError("append reward", err)
	}
	log.Printf("🎁 Reward appended: %s → +%d (%s)", ownerID, amount, rewardType)
	return event, nil
}

// Sum returns the owner's balance: SUM(amount) over all of their events.
func (s *RewardService) Sum(ownerID string) (int64, error) {
	var total int64
	err := s.DB.Model(&models.RewardEvent{}).
		Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, transientError("sum rewards", err)
	}
	return total, nil
}

// List returns the owner's events newest-first, optionally limited.
func (s *RewardService) List(ownerID string, limit int) ([]models.RewardEvent, error) {
	query := s.DB.Where("owner_id = ?", ownerID).Order("earned_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var events []models.RewardEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, transientError("list rewards", err)
	}
	return events, nil
}

// CountByType returns how many events of a given type the owner has. Used by
// the provisioning sweep and tests to confirm single-shot behaviour.
func (s *RewardService) CountByType(ownerID string, rewardType models.RewardType) (int64, error) {
	var count int64
	err := s.DB.Model(&models.RewardEvent{}).
		Where("owner_id = ? AND reward_type = ?", ownerID, rewardType).
		Count(&count).Error
	if err != nil {
		return 0, transientError("count rewards", err)
	}
	return count, nil
}
