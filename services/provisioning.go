// services/provisioning.go
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"digital-id-system/models"

	"gorm.io/gorm"
)

// ProvisioningService bootstraps a placeholder "Smart Wallet" for a user the
// first time their email-verification flag is observed true. The routine is
// idempotent and its failures are non-fatal: login must never block on it.
type ProvisioningService struct {
	DB           *gorm.DB
	Wallets      *WalletService
	Rewards      *RewardService
	Verification *VerificationService
}

func NewProvisioningService(db *gorm.DB, wallets *WalletService, rewards *RewardService, verification *VerificationService) *ProvisioningService {
	return &ProvisioningService{DB: db, Wallets: wallets, Rewards: rewards, Verification: verification}
}

// DeriveSmartWalletAddress deterministically derives the placeholder address
// from the user's stable identifier: SHA-256 hex digest, formatted as the
// first two 8-char groups joined by a dash. Simulated — not a real key.
func DeriveSmartWalletAddress(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	digest := hex.EncodeToString(sum[:])
	return fmt.Sprintf("%s-%s", digest[0:8], digest[8:16])
}

// ProvisionSmartWallet runs the one-shot bootstrap for the user: derive the
// address, register the icp link and issue the welcome reward as one unit,
// then notify the verification engine. A user who already has an icp wallet
// is a pure no-op, which makes retries (repeated logins, the sweep job) safe.
//
// provisioned is true only when this call created the wallet.
func (s *ProvisioningService) ProvisionSmartWallet(user *models.IdentityUser) (provisioned bool, err error) {
	if !user.EmailVerified {
		return false, nil
	}

	has, err := s.Wallets.HasWalletOfChain(user.ExternalUserID, models.ChainICP)
	if err != nil {
		return false, err
	}
	if has {
		// Wallet arrived some other way (user connected icp themselves).
		// Still stamp, or the sweep re-scans this user every interval.
		if user.ProvisionedAt == nil {
			s.stampProvisioned(user.ExternalUserID)
		}
		return false, nil
	}

	identifier := user.Email
	if identifier == "" {
		identifier = user.ExternalUserID
	}
	address := DeriveSmartWalletAddress(identifier)

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Wallets.registerTx(tx, user.ExternalUserID, address, models.ChainICP, "Smart Wallet"); err != nil {
			return err
		}
		_, err := s.Rewards.appendTx(tx, user.ExternalUserID, models.RewardWalletConnect, 10, "Smart Wallet created and connected")
		return err
	})
	if err != nil {
		// Lost a race with another login/sweep: the wallet exists, nothing to do.
		if errors.Is(err, ErrWalletExists) {
			return false, nil
		}
		return false, err
	}

	if err := s.Verification.OnWalletConnected(user.ExternalUserID); err != nil {
		// The wallet and reward are committed; the engine derives step 1 from
		// the wallet row anyway, so only log.
		log.Printf("[PROVISION] ⚠️ Wallet step callback failed for %s: %v", user.ExternalUserID, err)
	}

	s.stampProvisioned(user.ExternalUserID)

	log.Printf("🪪 Smart Wallet provisioned: %s → %s", user.ExternalUserID, address)
	return true, nil
}

func (s *ProvisioningService) stampProvisioned(externalUserID string) {
	now := time.Now()
	if err := s.DB.Model(&models.IdentityUser{}).
		Where("external_user_id = ?", externalUserID).
		Update("provisioned_at", &now).Error; err != nil {
		log.Printf("[PROVISION] ⚠️ Failed to stamp provisioned_at for %s: %v", externalUserID, err)
	}
}

// ProvisionOnLogin is the login-flow entry point. Any failure is caught and
// logged here so authentication is never blocked by provisioning.
func (s *ProvisioningService) ProvisionOnLogin(user *models.IdentityUser) {
	if _, err := s.ProvisionSmartWallet(user); err != nil {
		log.Printf("[PROVISION] ⚠️ Non-fatal: provisioning failed for %s: %v", user.ExternalUserID, err)
	}
}

// SweepUnprovisioned retries provisioning for every verified user still
// lacking an icp wallet. Run periodically by the scheduler; safe because
// ProvisionSmartWallet is idempotent.
func (s *ProvisioningService) SweepUnprovisioned() (int, error) {
	var users []models.IdentityUser
	err := s.DB.
		Where("email_verified = ? AND provisioned_at IS NULL", true).
		Find(&users).Error
	if err != nil {
		return 0, transientError("list unprovisioned users", err)
	}

	var done int
	for i := range users {
		created, err := s.ProvisionSmartWallet(&users[i])
		if err != nil {
			log.Printf("[PROVISION] ⚠️ Sweep failed for %s: %v", users[i].ExternalUserID, err)
			continue
		}
		if created {
			done++
		}
	}
	return done, nil
}
