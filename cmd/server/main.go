// main wires the delivery-point administration backend: config, stores,
// the status workflow, the notification queue, and the gated HTTP router.
// Business logic lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "github.com/PuntoEntrega/PDE-sub002/internal/account/handler"
	accountservice "github.com/PuntoEntrega/PDE-sub002/internal/account/service"
	accountstore "github.com/PuntoEntrega/PDE-sub002/internal/account/store"
	"github.com/PuntoEntrega/PDE-sub002/internal/catalog"
	companyhandler "github.com/PuntoEntrega/PDE-sub002/internal/company/handler"
	companyservice "github.com/PuntoEntrega/PDE-sub002/internal/company/service"
	companystore "github.com/PuntoEntrega/PDE-sub002/internal/company/store"
	pointhandler "github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/handler"
	pointservice "github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/service"
	pointstore "github.com/PuntoEntrega/PDE-sub002/internal/deliverypoint/store"
	"github.com/PuntoEntrega/PDE-sub002/internal/gate"
	"github.com/PuntoEntrega/PDE-sub002/internal/gate/access"
	invitehandler "github.com/PuntoEntrega/PDE-sub002/internal/invite/handler"
	inviteservice "github.com/PuntoEntrega/PDE-sub002/internal/invite/service"
	invitestore "github.com/PuntoEntrega/PDE-sub002/internal/invite/store"
	"github.com/PuntoEntrega/PDE-sub002/internal/notify"
	"github.com/PuntoEntrega/PDE-sub002/internal/platform/config"
	"github.com/PuntoEntrega/PDE-sub002/internal/platform/httpserver"
	"github.com/PuntoEntrega/PDE-sub002/internal/platform/logger"
	platformmetrics "github.com/PuntoEntrega/PDE-sub002/internal/platform/metrics"
	platformredis "github.com/PuntoEntrega/PDE-sub002/internal/platform/redis"
	reviewhandler "github.com/PuntoEntrega/PDE-sub002/internal/review/handler"
	reviewmetrics "github.com/PuntoEntrega/PDE-sub002/internal/review/metrics"
	reviewservice "github.com/PuntoEntrega/PDE-sub002/internal/review/service"
	reviewmemory "github.com/PuntoEntrega/PDE-sub002/internal/review/store/memory"
	reviewpostgres "github.com/PuntoEntrega/PDE-sub002/internal/review/store/postgres"
	"github.com/PuntoEntrega/PDE-sub002/internal/session"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/middleware/metadata"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/middleware/requestid"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/middleware/requesttime"
	"github.com/PuntoEntrega/PDE-sub002/pkg/platform/tx"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		// Most likely a missing signing key. Refusing to start beats
		// serving with forgeable sessions.
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	codec, err := session.NewCodec(cfg.SessionSigningKey)
	if err != nil {
		log.Error("failed to build session codec", "error", err)
		os.Exit(1)
	}

	gateMetrics := platformmetrics.New()
	workflowMetrics := reviewmetrics.New()

	// Storage: PostgreSQL when a DSN is configured, in-memory otherwise.
	var txRunner tx.Runner = tx.NopRunner{}
	var (
		db          *sql.DB
		entities    reviewservice.EntityStore
		history     reviewservice.HistoryStore
		registrar   accountservice.Registrar
		accounts    accountstore.Store
		companies   companystore.Store
		points      pointstore.Store
		invitations invitestore.Store
	)
	if cfg.PostgresDSN != "" {
		db, err = sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}

		txRunner = tx.NewSQLRunner(db)
		reviewStore := reviewpostgres.New(db)
		entities = reviewStore
		history = reviewStore
		// The SQL review store reads the entity tables directly.
		registrar = accountservice.NopRegistrar{}
		accounts = accountstore.NewPostgresStore(db)
		companies = companystore.NewPostgresStore(db)
		points = pointstore.NewPostgresStore(db)
		invitations = invitestore.NewPostgresStore(db)
	} else {
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
		registry := reviewmemory.NewEntityStore()
		entities = registry
		history = reviewmemory.NewHistoryStore()
		registrar = registry
		accounts = accountstore.NewMemoryStore()
		companies = companystore.NewMemoryStore()
		points = pointstore.NewMemoryStore()
		invitations = invitestore.NewMemoryStore()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Services.
	accountSvc := accountservice.New(accounts, registrar, log)

	var companyOpts []companyservice.Option
	companyOpts = append(companyOpts, companyservice.WithLogger(log), companyservice.WithRegistrar(registrar))
	if redisClient != nil {
		companyOpts = append(companyOpts, companyservice.WithCache(redisClient, config.ProgressCacheTTL))
	}
	companySvc := companyservice.New(companies, points, invitations, companyOpts...)

	pointSvc := pointservice.New(points, companySvc, registrar, log)

	// Notification pipeline: queue -> dispatcher -> channels.
	var emailChannel notify.Channel
	if cfg.SMTPAddr != "" {
		emailChannel = notify.NewSMTPEmailChannel(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		log.Warn("SMTP_ADDR not set, emails will be logged instead of sent")
		emailChannel = &notify.LogEmailChannel{Logger: log}
	}
	smsChannel := &notify.LogSMSChannel{Logger: log}
	dispatcher := notify.NewDispatcher(emailChannel, smsChannel, accountSvc, cfg.AdminNotifyLevel, log)
	queue := notify.NewQueue(dispatcher, 0, log)

	workflowSvc := reviewservice.New(entities, history,
		reviewservice.WithTx(txRunner),
		reviewservice.WithNotifier(queue),
		reviewservice.WithMetrics(workflowMetrics),
		reviewservice.WithLogger(log),
	)

	inviteSvc := inviteservice.New(invitations, accountSvc, emailChannel, log)

	// Handlers.
	accountH := accounthandler.New(accountSvc, codec, log)
	companyH := companyhandler.New(companySvc, log)
	pointH := pointhandler.New(pointSvc, log)
	inviteH := invitehandler.New(inviteSvc, log)
	reviewH := reviewhandler.New(workflowSvc, log)

	requestGate := gate.New(codec, access.Default(), log, gateMetrics)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(requestGate.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	accountH.RegisterPublic(r)
	inviteH.RegisterPublic(r)
	catalog.New().RegisterPublic(r)
	accountH.Register(r)
	companyH.Register(r)
	pointH.Register(r)
	inviteH.Register(r)
	reviewH.Register(r)

	srv := httpserver.New(cfg.Addr, r)

	// Notification worker lives for the whole process.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go func() {
		if err := queue.Run(workerCtx); err != nil && workerCtx.Err() == nil {
			log.Error("notification worker stopped", "error", err)
		}
	}()

	go func() {
		log.Info("starting pde-admin", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	stopWorker()
}
