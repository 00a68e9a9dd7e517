// services/dao_service.go
package services

import (
	"errors"
	"log"
	"time"

	"digital-id-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DaoService struct {
	DB *gorm.DB
}

func NewDaoService(db *gorm.DB) *DaoService {
	return &DaoService{DB: db}
}

// ListProposals returns proposals newest-first, optionally filtered by status.
func (s *DaoService) ListProposals(status models.ProposalStatus) ([]models.DaoProposal, error) {
	query := s.DB.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var proposals []models.DaoProposal
	if err := query.Find(&proposals).Error; err != nil {
		return nil, transientError("list proposals", err)
	}
	return proposals, nil
}

// GetProposalBySlug returns one proposal. found is false when the slug is unknown.
func (s *DaoService) GetProposalBySlug(proposalSlug string) (*models.DaoProposal, bool, error) {
	var proposal models.DaoProposal
	if err := s.DB.Where("slug = ?", proposalSlug).First(&proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, transientError("get proposal", err)
	}
	return &proposal, true, nil
}

// SeedProposals upserts the launch proposal set so a fresh deployment has
// something to browse. Keyed by slug; re-running is harmless.
func (s *DaoService) SeedProposals() error {
	closesSoon := time.Now().AddDate(0, 0, 14)
	seed := []models.DaoProposal{
		{
			Title:        "Adopt quadratic voting for treasury grants",
			Summary:      "Switch treasury grant decisions from simple majority to quadratic voting to dampen whale influence.",
			ProposerName: "governance-wg",
			VotesFor:     1240,
			VotesAgainst: 310,
			Status:       models.ProposalStatusActive,
			ClosesAt:     &closesSoon,
		},
		{
			Title:        "Fund multi-chain wallet adapter audit",
			Summary:      "Commission an external audit of the Solana, EVM and Bitcoin wallet adapters before mainnet linking goes live.",
			ProposerName: "security-council",
			VotesFor:     2105,
			VotesAgainst: 145,
			Status:       models.ProposalStatusPassed,
		},
		{
			Title:        "Reduce welcome reward to 5 tokens",
			Summary:      "Lower the Smart Wallet welcome reward from 10 to 5 tokens to extend the incentive pool.",
			ProposerName: "treasury-wg",
			VotesFor:     420,
			VotesAgainst: 980,
			Status:       models.ProposalStatusFailed,
		},
	}

	for i := range seed {
		seed[i].ID = uuid.NewString()
		seed[i].Slug = slug.Make(seed[i].Title)
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "summary", "proposer_name", "votes_for", "votes_against", "status", "closes_at", "updated_at",
		}),
	}).Create(&seed).Error
	if err != nil {
		return transientError("seed proposals", err)
	}

	log.Printf("🏛️ Seeded %d DAO proposal(s)", len(seed))
	return nil
}
