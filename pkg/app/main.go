package app

import (
	"github.com/ghuser/livebid/pkg/cache"
	"github.com/ghuser/livebid/pkg/config"
	"github.com/ghuser/livebid/pkg/database"
	"github.com/ghuser/livebid/pkg/events"
	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/pkg/telemetry"
)

// Application holds shared infrastructure for all services. Pass it to each
// service's route function during server initialization.
//
// Db, EventBus and Redis are optional backends and nil when not configured;
// the bid path never depends on them.
//
// app.Logger is trace-aware: use the context methods and trace_id, span_id,
// request_id and conn_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "bid accepted", "item_id", id)
type Application struct {
	Config   *config.Config
	Logger   logger.Logger
	Metrics  *telemetry.AuctionMetrics
	Db       *database.Database
	EventBus *events.EventBus
	Redis    *cache.RedisClient
}
