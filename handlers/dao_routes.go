// handlers/dao_routes.go
package handlers

import (
	"digital-id-system/models"
	"digital-id-system/services"

	"github.com/gofiber/fiber/v2"
)

// Proposal browsing is read-only and public: the dashboard shows proposals
// before DAO registration is completed.
func SetupDaoRoutes(app *fiber.App, daoService *services.DaoService) {
	app.Get("/dao/proposals", func(c *fiber.Ctx) error {
		status := models.ProposalStatus(c.Query("status"))

		proposals, err := daoService.ListProposals(status)
		if err != nil {
			return errorResponse(c, err)
		}

		res := make([]fiber.Map, len(proposals))
		for i, p := range proposals {
			res[i] = proposalResponse(&p)
		}
		return c.JSON(res)
	})

	app.Get("/dao/proposals/:slug", func(c *fiber.Ctx) error {
		proposal, found, err := daoService.GetProposalBySlug(c.Params("slug"))
		if err != nil {
			return errorResponse(c, err)
		}
		if !found {
			return notFound(c, "proposal not found")
		}
		return c.JSON(proposalResponse(proposal))
	})
}

func proposalResponse(p *models.DaoProposal) fiber.Map {
	return fiber.Map{
		"id":            p.ID,
		"slug":          p.Slug,
		"title":         p.Title,
		"summary":       p.Summary,
		"proposer_name": p.ProposerName,
		"votes_for":     p.VotesFor,
		"votes_against": p.VotesAgainst,
		"percent_for":   p.PercentFor(),
		"status":        p.Status,
		"closes_at":     p.ClosesAt,
		"created_at":    p.CreatedAt,
	}
}
