package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// reportComputer is the slice of AnalyticsService the notifier needs.
type reportComputer interface {
	Compute(profileID uuid.UUID, req domain.AnalyticsRequest) (*domain.AnalyticsReport, error)
}

// AnalyticsNotifier recomputes a wallet's analytics in the background after
// a mutation and broadcasts the fresh report to the wallet's connected
// clients. Fetches for the same wallet may complete out of order; each
// request is tagged with a per-wallet generation number and a result is
// only published while its generation is still the newest, so a slow stale
// fetch can never overwrite a newer one.
type AnalyticsNotifier struct {
	analytics reportComputer
	publisher websocket.EventPublisher

	mu  sync.Mutex
	gen map[uuid.UUID]uint64
	wg  sync.WaitGroup
}

// NewAnalyticsNotifier creates a new AnalyticsNotifier
func NewAnalyticsNotifier(analytics reportComputer, publisher websocket.EventPublisher) *AnalyticsNotifier {
	return &AnalyticsNotifier{
		analytics: analytics,
		publisher: publisher,
		gen:       make(map[uuid.UUID]uint64),
	}
}

// Invalidate schedules a recompute of the request's report on behalf of the
// mutating profile. Returns immediately; the fetch and broadcast happen in
// the background. Fetch failures are logged and not retried; no stale
// report is published in their place.
func (n *AnalyticsNotifier) Invalidate(profileID uuid.UUID, req domain.AnalyticsRequest) {
	n.mu.Lock()
	n.gen[req.WalletID]++
	issued := n.gen[req.WalletID]
	n.mu.Unlock()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		report, err := n.analytics.Compute(profileID, req)

		// The generation check and the publish must happen under the same
		// lock: checking first and publishing later leaves a window where a
		// newer generation publishes in between and the older report still
		// reaches clients last.
		n.mu.Lock()
		defer n.mu.Unlock()

		if n.gen[req.WalletID] != issued {
			log.Debug().
				Str("wallet_id", req.WalletID.String()).
				Uint64("generation", issued).
				Msg("Discarding stale analytics result")
			return
		}

		if err != nil {
			log.Error().
				Err(err).
				Str("wallet_id", req.WalletID.String()).
				Msg("Analytics recompute failed")
			return
		}

		n.publisher.Publish(req.WalletID, websocket.AnalyticsUpdated(report))
	}()
}

// Wait blocks until all in-flight recomputes have finished. Used on
// shutdown and in tests.
func (n *AnalyticsNotifier) Wait() {
	n.wg.Wait()
}
