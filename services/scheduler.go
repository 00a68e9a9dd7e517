// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartProvisioningSweep schedules the periodic retry of Smart Wallet
// provisioning for verified users that still lack one. Failures inside the
// sweep are logged per-user and never stop the job.
func (s *ProvisioningService) StartProvisioningSweep(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			done, err := s.SweepUnprovisioned()
			if err != nil {
				log.Printf("[Scheduler] Provisioning sweep error: %v", err)
				return
			}
			if done > 0 {
				log.Printf("✅ Provisioning sweep created %d Smart Wallet(s)", done)
			}
		}),
	)
}
