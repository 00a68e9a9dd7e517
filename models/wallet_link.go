// models/wallet_link.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// ChainType identifies the blockchain a linked wallet lives on.
type ChainType string

const (
	ChainICP       ChainType = "icp"
	ChainEVM       ChainType = "evm"
	ChainSolana    ChainType = "solana"
	ChainBitcoin   ChainType = "bitcoin"
	ChainHolochain ChainType = "holochain"
)

// KnownChains lists every chain the dashboard can link, in display order.
var KnownChains = []ChainType{ChainICP, ChainEVM, ChainSolana, ChainBitcoin, ChainHolochain}

// Valid reports whether c is one of the supported chain types.
func (c ChainType) Valid() bool {
	for _, k := range KnownChains {
		if c == k {
			return true
		}
	}
	return false
}

// WalletLink records an association between a user and a blockchain address.
// Table name: wallet_links
type WalletLink struct {
	ID         string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	OwnerID    string    `gorm:"type:uuid;not null;index:idx_owner_chain" json:"owner_id"` // External user ID from auth service
	ChainType  ChainType `gorm:"type:varchar(32);not null;index:idx_owner_chain" json:"chain_type"`
	Address    string    `gorm:"type:varchar(128);not null;index" json:"address"`
	WalletType string    `gorm:"type:varchar(64)" json:"wallet_type"` // e.g. "Smart Wallet", "External"
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
