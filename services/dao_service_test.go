package services

import (
	"testing"

	"digital-id-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedProposalsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	dao := NewDaoService(env.db)

	require.NoError(t, dao.SeedProposals())
	first, err := dao.ListProposals("")
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Re-seeding must not duplicate rows.
	require.NoError(t, dao.SeedProposals())
	second, err := dao.ListProposals("")
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}

func TestGetProposalBySlug(t *testing.T) {
	env := newTestEnv(t)
	dao := NewDaoService(env.db)
	require.NoError(t, dao.SeedProposals())

	proposal, found, err := dao.GetProposalBySlug("adopt-quadratic-voting-for-treasury-grants")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.ProposalStatusActive, proposal.Status)

	_, found, err = dao.GetProposalBySlug("no-such-proposal")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListProposalsByStatus(t *testing.T) {
	env := newTestEnv(t)
	dao := NewDaoService(env.db)
	require.NoError(t, dao.SeedProposals())

	passed, err := dao.ListProposals(models.ProposalStatusPassed)
	require.NoError(t, err)
	require.Len(t, passed, 1)
	assert.Equal(t, "fund-multi-chain-wallet-adapter-audit", passed[0].Slug)
}

func TestProposalPercentFor(t *testing.T) {
	p := &models.DaoProposal{VotesFor: 1240, VotesAgainst: 310}
	assert.Equal(t, 80, p.PercentFor())

	empty := &models.DaoProposal{}
	assert.Equal(t, 0, empty.PercentFor())

	split := &models.DaoProposal{VotesFor: 1, VotesAgainst: 1}
	assert.Equal(t, 50, split.PercentFor())
}
