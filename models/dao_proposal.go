package models

import (
	"time"

	"gorm.io/gorm"
)

// ProposalStatus indicates where a DAO proposal is in its life.
type ProposalStatus string

const (
	ProposalStatusActive ProposalStatus = "active"
	ProposalStatusPassed ProposalStatus = "passed"
	ProposalStatusFailed ProposalStatus = "failed"
)

// DaoProposal is a governance proposal shown on the dashboard. Browse-only:
// this service renders proposals and a percent-for figure, it does not tally
// or accept votes.
type DaoProposal struct {
	ID           string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title        string         `gorm:"not null" json:"title"`
	Summary      string         `gorm:"type:text" json:"summary"`
	ProposerName string         `gorm:"type:varchar(128)" json:"proposer_name"`
	VotesFor     int64          `gorm:"default:0" json:"votes_for"`
	VotesAgainst int64          `gorm:"default:0" json:"votes_against"`
	Status       ProposalStatus `gorm:"type:varchar(16);default:'active'" json:"status"`
	ClosesAt     *time.Time     `json:"closes_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PercentFor returns the share of "for" votes as a whole percentage, 0 when
// no votes have been cast.
func (p *DaoProposal) PercentFor() int {
	total := p.VotesFor + p.VotesAgainst
	if total == 0 {
		return 0
	}
	return int((p.VotesFor*100 + total/2) / total)
}
