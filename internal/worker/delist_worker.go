package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/repository"
	"github.com/KickLedger/kickledger_api/internal/service"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

// DelistWorker periodically runs the delist pipeline for every user with
// unprocessed sales. Users are handled one at a time; the per-user lock
// inside the pipeline keeps overlapping ticks (or extra instances) from
// double-processing anyone.
type DelistWorker struct {
	delistSvc *service.DelistService
	saleRepo  *repository.SaleRepository
	interval  time.Duration
}

// NewDelistWorker constructs a DelistWorker.
func NewDelistWorker(delistSvc *service.DelistService, saleRepo *repository.SaleRepository, interval time.Duration) *DelistWorker {
	return &DelistWorker{
		delistSvc: delistSvc,
		saleRepo:  saleRepo,
		interval:  interval,
	}
}

// Start begins the periodic delist loop until context is canceled.
func (w *DelistWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting delist worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Delist worker stopped")
			return
		}
	}
}

func (w *DelistWorker) run(ctx context.Context) {
	userIDs, err := w.saleRepo.ListUserIDsWithUnprocessed(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users with unprocessed sales")
		return
	}
	if len(userIDs) == 0 {
		return
	}
	log.Info().Int("users", len(userIDs)).Msg("Processing unprocessed sales")

	for _, userID := range userIDs {
		// Respect cancellation between users
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := w.delistSvc.RunForUser(ctx, userID); err != nil {
			if errors.Is(err, utils.ErrRunInProgress) {
				log.Debug().Int("user_id", userID).Msg("Delist run already in progress, skipping")
				continue
			}
			log.Error().Err(err).Int("user_id", userID).Msg("Delist run failed")
		}
	}
}
