package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/paylist/internal/app/api/server"
	"github.com/fatflowers/paylist/internal/app/service/creator"
	"github.com/fatflowers/paylist/internal/app/service/dedup"
	eventhandler "github.com/fatflowers/paylist/internal/app/service/event_handler"
	eventlog "github.com/fatflowers/paylist/internal/app/service/event_log"
	"github.com/fatflowers/paylist/internal/app/service/statistics"
	"github.com/fatflowers/paylist/internal/app/service/subscriber"
	"github.com/fatflowers/paylist/internal/app/service/tagsync"
	"github.com/fatflowers/paylist/internal/platform/db"
	"github.com/fatflowers/paylist/internal/platform/redis"
	"github.com/fatflowers/paylist/pkg/config"
	"github.com/fatflowers/paylist/pkg/logger"
	"github.com/fatflowers/paylist/pkg/metrics"
	"github.com/fatflowers/paylist/pkg/secretbox"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

// services holds the domain modules. Their OnStop hooks drain background log writes.
var services = fx.Options(
	dedup.Module,
	subscriber.Module,
	creator.Module,
	tagsync.Module,
	eventlog.Module,
	eventhandler.Module,
	statistics.Module,
)

// compose assembles the application around storage, which provides *gorm.DB.
// fx stops hooks in reverse order, so server.Module stays after services: the
// HTTP server finishes in-flight deliveries before the drains run.
func compose(storage fx.Option) fx.Option {
	return fx.Options(
		logger.Module,
		config.Module,
		metrics.Module,
		storage,
		redis.Module,
		secretbox.Module,
		services,
		server.Module,
	)
}

var Module = compose(db.Module)
