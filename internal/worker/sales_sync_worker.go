package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/service"
)

// SalesSyncWorker periodically pulls recent orders for every user with a
// connected marketplace account.
type SalesSyncWorker struct {
	syncSvc  *service.SalesSyncService
	credRepo *repository.CredentialRepository
	interval time.Duration
}

// NewSalesSyncWorker constructs a SalesSyncWorker.
func NewSalesSyncWorker(syncSvc *service.SalesSyncService, credRepo *repository.CredentialRepository, interval time.Duration) *SalesSyncWorker {
	return &SalesSyncWorker{
		syncSvc:  syncSvc,
		credRepo: credRepo,
		interval: interval,
	}
}

// Start begins the periodic sync loop until context is canceled. A first
// pass runs shortly after startup so a fresh deployment does not wait a full
// interval for its sales.
func (w *SalesSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting sales sync worker")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Sales sync worker stopped")
			return
		}
	}
}

func (w *SalesSyncWorker) run(ctx context.Context) {
	creds, err := w.credRepo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list marketplace credentials")
		return
	}

	// A user appears once per connected marketplace; sync each user once.
	seen := make(map[int]bool)
	for i := range creds {
		userID := creds[i].UserID
		if seen[userID] {
			continue
		}
		seen[userID] = true

		select {
		case <-ctx.Done():
			return
		default:
		}

		result, err := w.syncSvc.SyncUser(ctx, userID)
		if err != nil {
			log.Error().Err(err).Int("user_id", userID).Msg("Sales sync failed")
			continue
		}
		for _, e := range result.Errors {
			log.Warn().Int("user_id", userID).Str("error", e).Msg("Sales sync partial failure")
		}
	}
}
