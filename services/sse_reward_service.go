package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"digital-id-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StreamUserRewardsSSE streams newly appended reward events for the
// authenticated user, driving the dashboard's reward toast.
func (s *RewardService) StreamUserRewardsSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	// Use fasthttp stream writer (THIS replaces Flush)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastEarnedAt time.Time

		// Initialize cursor at the newest existing event
		var latest models.RewardEvent
		if err := s.DB.
			Where("owner_id = ?", userID).
			Order("earned_at DESC").
			First(&latest).Error; err == nil {
			lastEarnedAt = latest.EarnedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("SSE init error for user %s: %v", userID, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var newEvents []models.RewardEvent

				err := s.DB.
					Where("owner_id = ? AND earned_at > ?", userID, lastEarnedAt).
					Order("earned_at ASC").
					Find(&newEvents).Error

				if err != nil {
					log.Printf("SSE query error for user %s: %v", userID, err)
					continue
				}

				if len(newEvents) == 0 {
					continue
				}

				lastEarnedAt = newEvents[len(newEvents)-1].EarnedAt

				for _, e := range newEvents {
					payload, _ := json.Marshal(e)

					fmt.Fprintf(w,
						"event: reward\ndata: %s\n\n",
						payload,
					)
				}

				// This is the REAL "flush"
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
