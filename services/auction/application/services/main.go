package services

import (
	"fmt"
	"time"

	"github.com/ghuser/livebid/pkg/app"
	"github.com/ghuser/livebid/pkg/cache"
	"github.com/ghuser/livebid/pkg/keyqueue"
	"github.com/ghuser/livebid/services/auction/domain/repositories"
	domainsvc "github.com/ghuser/livebid/services/auction/domain/services"
	"github.com/ghuser/livebid/services/auction/infrastructure/memory"
	"github.com/ghuser/livebid/services/auction/infrastructure/persistence/postgres"
	redisrepo "github.com/ghuser/livebid/services/auction/infrastructure/persistence/redis"
)

// Services is the application-layer service container for the auction
// bounded context. It wires domain services with their infrastructure.
type Services struct {
	Bids *BidService
	// History serves recent bids; nil when neither Redis nor Postgres is
	// configured.
	History      repositories.BidReader
	HistoryLimit int
}

// New seeds the in-memory catalogue and wires the bid path. hooks run for
// every accepted bid in application order.
func New(a *app.Application, hooks ...AcceptHook) (*Services, error) {
	store := memory.NewStore()
	lots := domainsvc.DefaultLots(time.Now(), a.Config.SeedAuctionDuration, a.Config.SeedStagger)
	if err := store.Seed(lots...); err != nil {
		return nil, fmt.Errorf("seed auction: %w", err)
	}

	queue := keyqueue.New()
	if err := a.Metrics.ObserveActiveKeys(queue.Len); err != nil {
		return nil, fmt.Errorf("register serializer gauge: %w", err)
	}

	opts := []Option{WithMetrics(a.Metrics)}
	for _, h := range hooks {
		opts = append(opts, WithAcceptHook(h))
	}

	return &Services{
		Bids:         NewBidService(store, queue, a.Logger, opts...),
		History:      historyReader(a),
		HistoryLimit: a.Config.BidHistorySize,
	}, nil
}

// NewWorker wires the event projection used by cmd/worker.
func NewWorker(a *app.Application) (*BidRecorder, error) {
	var (
		archive repositories.BidArchive
		history repositories.BidHistory
	)
	if a.Db != nil {
		archive = postgres.NewBidArchive(a.Db)
	}
	if a.Redis != nil {
		history = redisrepo.NewBidHistory(cache.NewBidHistoryCache(a.Redis, a.Config.BidHistorySize))
	}
	rec := NewBidRecorder(archive, history, a.Logger)
	if !rec.Enabled() {
		return nil, errNoSinks
	}
	return rec, nil
}

// historyReader prefers the Redis read model and falls back to the archive.
func historyReader(a *app.Application) repositories.BidReader {
	switch {
	case a.Redis != nil:
		return redisrepo.NewBidHistory(cache.NewBidHistoryCache(a.Redis, a.Config.BidHistorySize))
	case a.Db != nil:
		return postgres.NewBidArchive(a.Db)
	default:
		return nil
	}
}
