// services/wallet_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"digital-id-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type WalletService struct {
	DB      *gorm.DB
	Rewards *RewardService
}

func NewWalletService(db *gorm.DB, rewards *RewardService) *WalletService {
	return &WalletService{DB: db, Rewards: rewards}
}

var chainTitle = cases.Title(language.English)

// ChainDisplayName renders a chain tag for user-facing copy ("solana" → "Solana").
func ChainDisplayName(chain models.ChainType) string {
	switch chain {
	case models.ChainICP:
		return "ICP"
	case models.ChainEVM:
		return "EVM"
	default:
		return chainTitle.String(string(chain))
	}
}

// ListWallets returns every wallet link recorded for the owner.
func (s *WalletService) ListWallets(ownerID string) ([]models.WalletLink, error) {
	var wallets []models.WalletLink
	if err := s.DB.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&wallets).Error; err != nil {
		return nil, transientError("list wallets", err)
	}
	return wallets, nil
}

// HasWalletOfChain reports whether the owner has at least one link of the
// given chain. Read logic assumes first-match semantics: the oldest link of a
// chain is "the" wallet for that chain.
func (s *WalletService) HasWalletOfChain(ownerID string, chain models.ChainType) (bool, error) {
	var count int64
	err := s.DB.Model(&models.WalletLink{}).
		Where("owner_id = ? AND chain_type = ?", ownerID, chain).
		Count(&count).Error
	if err != nil {
		return false, transientError("count wallets", err)
	}
	return count > 0, nil
}

// RegisterWallet records a new (owner, chain, address) link. Returns
// ErrWalletExists when the same link is already recorded. Registration alone
// issues no reward — callers decide that (see ConnectWallet and the
// provisioning routine).
func (s *WalletService) RegisterWallet(ownerID, address string, chain models.ChainType, walletType string) (*models.WalletLink, error) {
	return s.registerTx(s.DB, ownerID, address, chain, walletType)
}

func (s *WalletService) registerTx(tx *gorm.DB, ownerID, address string, chain models.ChainType, walletType string) (*models.WalletLink, error) {
	if !chain.Valid() {
		return nil, validationErrorf("unsupported chain type %q", chain)
	}
	if address == "" {
		return nil, validationErrorf("wallet address required")
	}

	var count int64
	err := tx.Model(&models.WalletLink{}).
		Where("owner_id = ? AND chain_type = ? AND address = ?", ownerID, chain, address).
		Count(&count).Error
	if err != nil {
		return nil, transientError("check wallet", err)
	}
	if count > 0 {
		return nil, ErrWalletExists
	}

	link := &models.WalletLink{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		ChainType:  chain,
		Address:    address,
		WalletType: walletType,
	}
	if err := tx.Create(link).Error; err != nil {
		return nil, transientError("register wallet", err)
	}
	return link, nil
}

// ConnectWallet is the user-facing connect flow: register the link and issue
// the wallet_connect reward as one transaction. The caller is expected to
// notify the verification engine afterwards.
func (s *WalletService) ConnectWallet(ownerID, address string, chain models.ChainType, walletType string) (*models.WalletLink, error) {
	var link *models.WalletLink
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		link, err = s.registerTx(tx, ownerID, address, chain, walletType)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("%s wallet connected", ChainDisplayName(chain))
		_, err = s.Rewards.appendTx(tx, ownerID, models.RewardWalletConnect, 10, desc)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🔗 Wallet connected: %s → %s (%s)", ownerID, link.Address, link.ChainType)
	return link, nil
}

// RemoveWallet deletes a link owned by ownerID.
func (s *WalletService) RemoveWallet(ownerID, walletID string) error {
	var link models.WalletLink
	if err := s.DB.Where("id = ? AND owner_id = ?", walletID, ownerID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationErrorf("wallet not found")
		}
		return transientError("get wallet", err)
	}
	if err := s.DB.Delete(&link).Error; err != nil {
		return transientError("remove wallet", err)
	}
	return nil
}
