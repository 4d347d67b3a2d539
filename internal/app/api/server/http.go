package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/paylist/docs"
	"github.com/fatflowers/paylist/internal/app/api/handlers"
	mw "github.com/fatflowers/paylist/internal/app/api/middleware"
	eh "github.com/fatflowers/paylist/internal/app/service/event_handler"
	cfgpkg "github.com/fatflowers/paylist/pkg/config"
	"github.com/fatflowers/paylist/pkg/metrics"
)

func newEngine(cfg *cfgpkg.Config, collector *metrics.HTTPCollector) *gin.Engine {
	if cfg.Env == cfgpkg.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	r.Use(collector.Middleware(nil))
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, cfg *cfgpkg.Config, db *gorm.DB, webhook *eh.Handler, admin handlers.AdminDeps) {
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub, db)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	if !webhook.Configured() {
		log.Warnw("paystack secret key is not set, webhook deliveries will be answered with 503")
	}
	handlers.RegisterWebhookRoutes(apiV1.Group("/webhook"), webhook, cfg, log)

	// Admin APIs are only mounted when a signing secret exists.
	if cfg.Admin.JWTSecret == "" {
		log.Warnw("admin.jwt_secret is not set, admin APIs are disabled")
		return
	}
	adminGroup := apiV1.Group("/admin")
	adminGroup.Use(mw.AdminAuth([]byte(cfg.Admin.JWTSecret), log))
	handlers.RegisterAdminRoutes(adminGroup, &admin)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

func runMetricsServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, g prometheus.Gatherer) {
	if cfg.MetricsAddr == "" {
		return
	}
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.NewMetricsEngine(g), ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("metrics started", "addr", cfg.MetricsAddr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("metrics server error", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
	fx.Invoke(runMetricsServer),
)
