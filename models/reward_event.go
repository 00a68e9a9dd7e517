package models

import (
	"time"
)

// RewardType tags the origin of a reward event.
type RewardType string

const (
	RewardWalletConnect       RewardType = "wallet_connect"
	RewardProfileCompletion   RewardType = "profile_completion"
	RewardAccountVerification RewardType = "account_verification"
)

// RewardEvent is one append-only ledger entry granting token credit to a user.
// There is no debit or reversal event type; balance = SUM(amount) per owner.
type RewardEvent struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	OwnerID     string     `gorm:"type:uuid;not null;index" json:"owner_id"`
	RewardType  RewardType `gorm:"type:varchar(64);not null;index" json:"reward_type"`
	Amount      int64      `gorm:"not null" json:"amount"`
	Description string     `gorm:"type:text" json:"description"`
	EarnedAt    time.Time  `json:"earned_at" gorm:"autoCreateTime;index"`
}
