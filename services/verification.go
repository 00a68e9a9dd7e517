// services/verification.go
package services

import (
	"errors"
	"log"
	"math"

	"digital-id-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VerificationService is the step engine behind the dashboard's identity
// checklist. Per-user state is never stored as an aggregate: it is recomputed
// from the profile, wallet and step-completion rows on every load.
type VerificationService struct {
	DB       *gorm.DB
	Profiles *ProfileService
	Wallets  *WalletService
	Rewards  *RewardService
}

func NewVerificationService(db *gorm.DB, profiles *ProfileService, wallets *WalletService, rewards *RewardService) *VerificationService {
	return &VerificationService{DB: db, Profiles: profiles, Wallets: wallets, Rewards: rewards}
}

// GetStepDefinitions returns the fixed ordered step sequence. Pure, no I/O.
func (s *VerificationService) GetStepDefinitions() []models.VerificationStep {
	steps := make([]models.VerificationStep, len(models.VerificationSteps))
	copy(steps, models.VerificationSteps)
	return steps
}

// CompleteStepPayload carries the per-step input for CompleteStep. Only the
// Complete Profile step uses it.
type CompleteStepPayload struct {
	DisplayName string `json:"display_name"`
}

// GetVerificationState recomputes the user's verification state from the
// underlying rows. Each read either succeeds, finds nothing, or fails; any
// failure surfaces as a TransientError and no step is reported completed from
// a failed read.
func (s *VerificationService) GetVerificationState(userID string) (*models.UserVerificationState, error) {
	profile, profileFound, err := s.Profiles.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	wallets, err := s.Wallets.ListWallets(userID)
	if err != nil {
		return nil, err
	}
	balance, err := s.Rewards.Sum(userID)
	if err != nil {
		return nil, err
	}
	recorded, err := s.completedRecords(userID)
	if err != nil {
		return nil, err
	}

	state := &models.UserVerificationState{
		UserID:        userID,
		RewardBalance: balance,
	}
	if profileFound {
		state.DisplayName = profile.DisplayName
	}

	// Evidence per step, merged with explicit completion records.
	completed := map[int]bool{
		models.StepBasicIdentity:   profileFound,
		models.StepConnectWallet:   len(wallets) > 0,
		models.StepCompleteProfile: profileFound && profile.Complete(),
		models.StepDAORegistration: false, // no derivable evidence, record only
	}
	for index := range recorded {
		completed[index] = true
	}

	for _, step := range models.VerificationSteps {
		if completed[step.Index] {
			state.CompletedSteps = append(state.CompletedSteps, step.Index)
		}
	}
	state.ActiveStep = activeStep(completed)
	state.ProgressPercent = progressPercent(len(state.CompletedSteps))
	return state, nil
}

// CompleteStep applies the side effects of the given step and records it as
// done. Completing an already-completed step is an idempotent no-op. Reward
// issuance and the completion record are one transaction: if either write
// fails, the step is not marked complete and no reward is kept.
func (s *VerificationService) CompleteStep(userID string, index int, payload *CompleteStepPayload) (*models.UserVerificationState, error) {
	if index < 0 || index >= models.TotalVerificationSteps {
		return nil, validationErrorf("unknown step index %d", index)
	}

	state, err := s.GetVerificationState(userID)
	if err != nil {
		return nil, err
	}
	if state.StepCompleted(index) {
		return state, nil
	}

	switch index {
	case models.StepBasicIdentity:
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.recordCompletion(tx, userID, index); err != nil {
				return err
			}
			_, err := s.Rewards.appendTx(tx, userID, models.RewardProfileCompletion, 10, "Basic identity verified")
			return err
		})

	case models.StepConnectWallet:
		// Never completed directly: only the wallet-connect callback may
		// advance this step.
		return nil, validationErrorf("step must be completed via wallet connection")

	case models.StepCompleteProfile:
		if payload == nil || payload.DisplayName == "" {
			return nil, validationErrorf("display name required")
		}
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			txProfiles := &ProfileService{DB: tx}
			profile, err := txProfiles.EnsureProfile(userID)
			if err != nil {
				return err
			}
			profile.DisplayName = payload.DisplayName
			if err := tx.Save(profile).Error; err != nil {
				return transientError("update profile", err)
			}
			if err := s.recordCompletion(tx, userID, index); err != nil {
				return err
			}
			_, err = s.Rewards.appendTx(tx, userID, models.RewardProfileCompletion, 10, "Profile completed")
			return err
		})

	case models.StepDAORegistration:
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.recordCompletion(tx, userID, index); err != nil {
				return err
			}
			_, err := s.Rewards.appendTx(tx, userID, models.RewardProfileCompletion, 15, "Registered for DAO governance")
			return err
		})
	}

	if err != nil {
		// A concurrent duplicate rolls the whole transaction back; report the
		// current state instead of a spurious failure.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.GetVerificationState(userID)
		}
		return nil, err
	}

	log.Printf("✅ Step %d completed for %s", index, userID)

	final, err := s.GetVerificationState(userID)
	if err != nil {
		return nil, err
	}
	// Postcondition: a successful completion always advances the active step
	// to index+1 (capped at the last step), regardless of earlier gaps. A
	// fresh load recomputes the lowest incomplete step as usual.
	if index < models.TotalVerificationSteps-1 {
		final.ActiveStep = index + 1
	}
	return final, nil
}

// OnWalletConnected is the callback the wallet collaborators invoke after a
// link is registered. Idempotent; issues no reward (that is the wallet
// collaborator's job).
func (s *VerificationService) OnWalletConnected(userID string) error {
	completion := models.StepCompletion{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		StepIndex: models.StepConnectWallet,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "step_index"}},
		DoNothing: true,
	}).Create(&completion).Error
	if err != nil {
		return transientError("record wallet step", err)
	}
	return nil
}

func (s *VerificationService) recordCompletion(tx *gorm.DB, userID string, index int) error {
	completion := models.StepCompletion{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		StepIndex: index,
	}
	if err := tx.Create(&completion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return transientError("record step completion", err)
	}
	return nil
}

func (s *VerificationService) completedRecords(userID string) (map[int]bool, error) {
	var completions []models.StepCompletion
	if err := s.DB.Where("owner_id = ?", userID).Find(&completions).Error; err != nil {
		return nil, transientError("list step completions", err)
	}
	recorded := make(map[int]bool, len(completions))
	for _, c := range completions {
		recorded[c.StepIndex] = true
	}
	return recorded, nil
}

// activeStep returns the lowest-indexed incomplete step, or the last step
// when everything is done.
func activeStep(completed map[int]bool) int {
	for _, step := range models.VerificationSteps {
		if !completed[step.Index] {
			return step.Index
		}
	}
	return models.TotalVerificationSteps - 1
}

func progressPercent(completedCount int) int {
	return int(math.Round(100 * float64(completedCount) / float64(models.TotalVerificationSteps)))
}
