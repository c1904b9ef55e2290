package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

const digestTimeout = 30 * time.Second

// CronService runs scheduled jobs. Currently the moderation digest, which
// logs what is waiting for an admin.
type CronService struct {
	admin *AdminService
	cron  *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(admin *AdminService) *CronService {
	return &CronService{
		admin: admin,
		cron:  cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
}

// Start registers the digest under schedule (standard 5-field cron syntax)
// and starts the scheduler.
func (s *CronService) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runDigest); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🚀 CronService started [digest: %s]", schedule)
	return nil
}

// Stop waits for a running job to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if _, err := s.Digest(ctx); err != nil {
		log.Printf("❌ Moderation digest failed: %v", err)
	}
}

// Digest collects and logs the moderation counters
func (s *CronService) Digest(ctx context.Context) (*Stats, error) {
	stats, err := s.admin.Stats(ctx)
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Moderation digest: %d pending users, %d pending products, %d unread inquiries (%d farmers, %d buyers)",
		stats.PendingUsers,
		stats.PendingProducts,
		stats.UnreadMessages,
		stats.Farmers,
		stats.Buyers,
	)
	return stats, nil
}
