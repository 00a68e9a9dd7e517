package services

import (
	"testing"

	"digital-id-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSmartWalletAddressDeterministic(t *testing.T) {
	// SHA-256("alice@example.com") = ff8d9819fc0e12bf...
	addr := DeriveSmartWalletAddress("alice@example.com")
	assert.Equal(t, "ff8d9819-fc0e12bf", addr)

	// Stable across repeated calls, distinct per identifier.
	assert.Equal(t, addr, DeriveSmartWalletAddress("alice@example.com"))
	assert.NotEqual(t, addr, DeriveSmartWalletAddress("bob@example.com"))
}

func TestProvisionSmartWallet(t *testing.T) {
	env := newTestEnv(t)
	user := &models.IdentityUser{
		ExternalUserID: testUserID,
		Email:          "alice@example.com",
		EmailVerified:  true,
	}
	require.NoError(t, env.db.Create(user).Error)

	created, err := env.provisioning.ProvisionSmartWallet(user)
	require.NoError(t, err)
	assert.True(t, created)

	wallets, err := env.wallets.ListWallets(testUserID)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, models.ChainICP, wallets[0].ChainType)
	assert.Equal(t, "ff8d9819-fc0e12bf", wallets[0].Address)
	assert.Equal(t, "Smart Wallet", wallets[0].WalletType)

	events, err := env.rewards.List(testUserID, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.RewardWalletConnect, events[0].RewardType)
	assert.EqualValues(t, 10, events[0].Amount)
	assert.Equal(t, "Smart Wallet created and connected", events[0].Description)

	// Wallet step advanced without an engine reward.
	state, err := env.verification.GetVerificationState(testUserID)
	require.NoError(t, err)
	assert.True(t, state.StepCompleted(models.StepConnectWallet))
}

func TestProvisionSmartWalletIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := &models.IdentityUser{
		ExternalUserID: testUserID,
		Email:          "alice@example.com",
		EmailVerified:  true,
	}
	require.NoError(t, env.db.Create(user).Error)

	created, err := env.provisioning.ProvisionSmartWallet(user)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.provisioning.ProvisionSmartWallet(user)
	require.NoError(t, err)
	assert.False(t, created)

	// Exactly one icp wallet and one wallet_connect reward of 10.
	wallets, err := env.wallets.ListWallets(testUserID)
	require.NoError(t, err)
	assert.Len(t, wallets, 1)

	count, err := env.rewards.CountByType(testUserID, models.RewardWalletConnect)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	balance, err := env.rewards.Sum(testUserID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, balance)
}

func TestProvisionSkipsUnverifiedUser(t *testing.T) {
	env := newTestEnv(t)
	user := &models.IdentityUser{
		ExternalUserID: testUserID,
		Email:          "alice@example.com",
		EmailVerified:  false,
	}
	require.NoError(t, env.db.Create(user).Error)

	created, err := env.provisioning.ProvisionSmartWallet(user)
	require.NoError(t, err)
	assert.False(t, created)

	wallets, err := env.wallets.ListWallets(testUserID)
	require.NoError(t, err)
	assert.Empty(t, wallets)
}

func TestProvisionFallsBackToUserIDWithoutEmail(t *testing.T) {
	env := newTestEnv(t)
	user := &models.IdentityUser{
		ExternalUserID: testUserID,
		EmailVerified:  true,
	}
	require.NoError(t, env.db.Create(user).Error)

	created, err := env.provisioning.ProvisionSmartWallet(user)
	require.NoError(t, err)
	assert.True(t, created)

	wallets, err := env.wallets.ListWallets(testUserID)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, DeriveSmartWalletAddress(testUserID), wallets[0].Address)
}

func TestSweepUnprovisioned(t *testing.T) {
	env := newTestEnv(t)
	verified := &models.IdentityUser{
		ExternalUserID: testUserID,
		Email:          "alice@example.com",
		EmailVerified:  true,
	}
	unverified := &models.IdentityUser{
		ExternalUserID: "6a1e3b4c-1d2f-4a5b-8c9d-0e1f2a3b4c5d",
		Email:          "bob@example.com",
		EmailVerified:  false,
	}
	require.NoError(t, env.db.Create(verified).Error)
	require.NoError(t, env.db.Create(unverified).Error)

	done, err := env.provisioning.SweepUnprovisioned()
	require.NoError(t, err)
	assert.Equal(t, 1, done)

	// A second sweep finds nothing to do.
	done, err = env.provisioning.SweepUnprovisioned()
	require.NoError(t, err)
	assert.Equal(t, 0, done)
}

func TestSweepStampsUserWhoConnectedICPThemselves(t *testing.T) {
	env := newTestEnv(t)
	user := &models.IdentityUser{
		ExternalUserID: testUserID,
		Email:          "alice@example.com",
		EmailVerified:  true,
	}
	require.NoError(t, env.db.Create(user).Error)

	// User links their own icp wallet before provisioning ever runs.
	_, err := env.wallets.ConnectWallet(testUserID, "rdmx6-jaaaa-aaaaa-aaadq-cai", models.ChainICP, "External")
	require.NoError(t, err)

	done, err := env.provisioning.SweepUnprovisioned()
	require.NoError(t, err)
	assert.Equal(t, 0, done)

	// The no-op still marks the user done so the next sweep skips them.
	var refreshed models.IdentityUser
	require.NoError(t, env.db.Where("external_user_id = ?", testUserID).First(&refreshed).Error)
	assert.NotNil(t, refreshed.ProvisionedAt)

	// And the user keeps their own wallet, no Smart Wallet added.
	wallets, err := env.wallets.ListWallets(testUserID)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, "External", wallets[0].WalletType)
}
