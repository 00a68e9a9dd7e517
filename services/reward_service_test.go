package services

import (
	"testing"

	"digital-id-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardLedgerSum(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.rewards.Append(testUserID, models.RewardWalletConnect, 10, "Smart Wallet created and connected")
	require.NoError(t, err)
	_, err = env.rewards.Append(testUserID, models.RewardProfileCompletion, 15, "Registered for DAO governance")
	require.NoError(t, err)

	balance, err := env.rewards.Sum(testUserID)
	require.NoError(t, err)
	assert.EqualValues(t, 25, balance)

	// Other owners are unaffected.
	other, err := env.rewards.Sum("2b8c1d9e-0f1a-4b2c-8d3e-4f5a6b7c8d9e")
	require.NoError(t, err)
	assert.EqualValues(t, 0, other)
}

func TestRewardAppendRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)

	for _, amount := range []int64{0, -5} {
		_, err := env.rewards.Append(testUserID, models.RewardWalletConnect, amount, "bad")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	}

	events, err := env.rewards.List(testUserID, 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRewardListNewestFirstWithLimit(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		_, err := env.rewards.Append(testUserID, models.RewardProfileCompletion, 10, "step")
		require.NoError(t, err)
	}

	events, err := env.rewards.List(testUserID, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
