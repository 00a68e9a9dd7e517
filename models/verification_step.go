package models

import (
	"time"
)

// VerificationStep is one stage of the fixed identity-verification sequence.
// Static configuration — never persisted per-user.
type VerificationStep struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Canonical step indices. Order is significant: it drives the default
// "next active step" advancement.
const (
	StepBasicIdentity = iota
	StepConnectWallet
	StepCompleteProfile
	StepDAORegistration

	TotalVerificationSteps = 4
)

// VerificationSteps is the canonical ordered sequence.
var VerificationSteps = []VerificationStep{
	{
		Index:       StepBasicIdentity,
		Title:       "Basic Identity",
		Description: "Verify your email and establish your digital identity",
	},
	{
		Index:       StepConnectWallet,
		Title:       "Connect Primary Wallet",
		Description: "Link a blockchain wallet to your identity",
	},
	{
		Index:       StepCompleteProfile,
		Title:       "Complete Profile",
		Description: "Add a display name, bio and social links",
	},
	{
		Index:       StepDAORegistration,
		Title:       "DAO Registration",
		Description: "Register to participate in community governance",
	},
}

// StepCompletion is an explicit per-step completion record. The unique
// (owner_id, step_index) index is what makes completion idempotent — duplicate
// detection by reward tag+amount alone is unreliable because several steps
// share the profile_completion tag.
type StepCompletion struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	OwnerID     string    `gorm:"type:uuid;not null;index:idx_owner_step,unique" json:"owner_id"`
	StepIndex   int       `gorm:"not null;index:idx_owner_step,unique" json:"step_index"`
	CompletedAt time.Time `json:"completed_at" gorm:"autoCreateTime"`
}

// UserVerificationState is the per-user view the dashboard renders. It is
// recomputed from profile, wallet and completion rows on every load — it has
// no explicit creation or deletion of its own.
type UserVerificationState struct {
	UserID          string `json:"user_id"`
	CompletedSteps  []int  `json:"completed_steps"`
	ActiveStep      int    `json:"active_step"`
	DisplayName     string `json:"display_name"`
	ProgressPercent int    `json:"progress_percent"`
	RewardBalance   int64  `json:"reward_balance"`
}

// StepCompleted reports whether index is in CompletedSteps.
func (s *UserVerificationState) StepCompleted(index int) bool {
	for _, c := range s.CompletedSteps {
		if c == index {
			return true
		}
	}
	return false
}
