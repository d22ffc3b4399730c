package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/youth-cup/internal/config"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	"github.com/riskibarqy/youth-cup/internal/infrastructure/notify"
	repocache "github.com/riskibarqy/youth-cup/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/youth-cup/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/youth-cup/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/youth-cup/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/youth-cup/internal/platform/cache"
	idgen "github.com/riskibarqy/youth-cup/internal/platform/id"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
	"github.com/riskibarqy/youth-cup/internal/platform/resilience"
	"github.com/riskibarqy/youth-cup/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// NewHTTPServer wires the tournament service. The returned cleanup stops the live hub and
// closes the database handle; call it after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheEnabled {
		store = repocache.NewStore(store, basecache.NewStore[tournament.Snapshot](cfg.CacheTTL))
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := notify.NewHub(cfg.CORSAllowedOrigins, logger)
	go hub.Run(hubCtx)

	publisher, err := newPublisher(cfg, hub, logger)
	if err != nil {
		stopHub()
		_ = closeStore()
		return nil, nil, err
	}

	services := newServices(cfg, store, publisher, logger)
	handler := httpapi.NewHandler(services, http.HandlerFunc(hub.ServeWS), logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func(context.Context) error {
		stopHub()
		return closeStore()
	}
	return server, cleanup, nil
}

func newServices(cfg config.Config, store tournament.Store, publisher usecase.EventPublisher, logger *logging.Logger) httpapi.Services {
	ids := idgen.NewUUIDGenerator("")
	scheduleCfg := cfg.Schedule()
	rules := cfg.QualificationRules()

	return httpapi.Services{
		Teams:         usecase.NewTeamService(store, ids, publisher, logger),
		Pools:         usecase.NewPoolService(store, ids, logger),
		Games:         usecase.NewGameService(store, scheduleCfg, ids, publisher, logger),
		Standings:     usecase.NewStandingsService(store, logger),
		Qualification: usecase.NewQualificationService(store, rules, logger),
		Bracket:       usecase.NewBracketService(store, rules, ids, publisher, logger),
		Schedule:      usecase.NewScheduleService(store, scheduleCfg, cfg.AuditWorkers, publisher, logger),
	}
}

func newPublisher(cfg config.Config, hub *notify.Hub, logger *logging.Logger) (usecase.EventPublisher, error) {
	if !cfg.QStashEnabled {
		return notify.NewFanout(hub), nil
	}

	qstash, err := notify.NewQStashPublisher(notify.QStashPublisherConfig{
		BaseURL:    cfg.QStashBaseURL,
		Token:      cfg.QStashToken,
		WebhookURL: cfg.QStashWebhookURL,
		Retries:    cfg.QStashRetries,
		Timeout:    cfg.QStashTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.QStashCircuitEnabled,
			FailureThreshold: cfg.QStashCircuitFailureCount,
			OpenTimeout:      cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build qstash publisher: %w", err)
	}
	return notify.NewFanout(hub, qstash), nil
}

func newStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (tournament.Store, func() error, error) {
	if cfg.StoreDriver != config.StorePostgres {
		logger.Info("using in-memory tournament store", "pools", len(memory.SeedPools()), "teams", len(memory.SeedTeams()))
		store := memory.NewStore(memory.SeedPools(), memory.SeedTeams(), memory.SeedGames())
		return store, func() error { return nil }, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.DBSeedOnStart {
		if err := postgres.BootstrapSeed(ctx, db, memory.SeedPools(), memory.SeedTeams(), memory.SeedGames()); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("seed database: %w", err)
		}
		logger.Info("database seed checked")
	}

	logger.Info("using postgres tournament store", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewStore(db, postgres.DefaultLockKey), db.Close, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres",
		normalizeDBURL(cfg.DBURL, cfg.ServiceName, cfg.DBBinaryParameters),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dbNameFromURL(cfg.DBURL)))

	return db, nil
}
