package services

import (
	"testing"

	"digital-id-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectWalletIssuesReward(t *testing.T) {
	env := newTestEnv(t)

	link, err := env.wallets.ConnectWallet(testUserID, "7sPjVa9k", models.ChainSolana, "External")
	require.NoError(t, err)
	assert.Equal(t, models.ChainSolana, link.ChainType)

	events, err := env.rewards.List(testUserID, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.RewardWalletConnect, events[0].RewardType)
	assert.EqualValues(t, 10, events[0].Amount)
	assert.Equal(t, "Solana wallet connected", events[0].Description)
}

func TestConnectWalletDuplicateRejectedWithoutReward(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallets.ConnectWallet(testUserID, "0xabc", models.ChainEVM, "External")
	require.NoError(t, err)

	_, err = env.wallets.ConnectWallet(testUserID, "0xabc", models.ChainEVM, "External")
	assert.ErrorIs(t, err, ErrWalletExists)

	// The failed connect must not append a second reward.
	count, err := env.rewards.CountByType(testUserID, models.RewardWalletConnect)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestConnectWalletValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallets.ConnectWallet(testUserID, "", models.ChainEVM, "External")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = env.wallets.ConnectWallet(testUserID, "0xabc", models.ChainType("dogecoin"), "External")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestHasWalletOfChain(t *testing.T) {
	env := newTestEnv(t)

	has, err := env.wallets.HasWalletOfChain(testUserID, models.ChainICP)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = env.wallets.RegisterWallet(testUserID, "aaaa-bbbb", models.ChainICP, "Smart Wallet")
	require.NoError(t, err)

	has, err = env.wallets.HasWalletOfChain(testUserID, models.ChainICP)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = env.wallets.HasWalletOfChain(testUserID, models.ChainBitcoin)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRemoveWallet(t *testing.T) {
	env := newTestEnv(t)

	link, err := env.wallets.RegisterWallet(testUserID, "0xabc", models.ChainEVM, "External")
	require.NoError(t, err)

	require.NoError(t, env.wallets.RemoveWallet(testUserID, link.ID))

	wallets, err := env.wallets.ListWallets(testUserID)
	require.NoError(t, err)
	assert.Empty(t, wallets)

	// Removing an unknown or foreign wallet is a validation error.
	err = env.wallets.RemoveWallet(testUserID, link.ID)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestChainDisplayName(t *testing.T) {
	assert.Equal(t, "ICP", ChainDisplayName(models.ChainICP))
	assert.Equal(t, "EVM", ChainDisplayName(models.ChainEVM))
	assert.Equal(t, "Solana", ChainDisplayName(models.ChainSolana))
	assert.Equal(t, "Bitcoin", ChainDisplayName(models.ChainBitcoin))
	assert.Equal(t, "Holochain", ChainDisplayName(models.ChainHolochain))
}
