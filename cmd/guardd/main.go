// Package main provides the unified transfer-guard server:
// - Admission: transfer evaluation and commit over HTTP
// - Admin: trading phases, limits, blocklist, pause, custody
// - Streaming: websocket notification feed
// - Observability: Prometheus metrics, health endpoint
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"tokenguard/internal/audit"
	"tokenguard/internal/domain"
	"tokenguard/internal/guard"
	"tokenguard/internal/ledger"
	"tokenguard/internal/notify"
	"tokenguard/internal/observability"
	"tokenguard/internal/storage"
	chstore "tokenguard/internal/storage/clickhouse"
	"tokenguard/internal/storage/memory"
	"tokenguard/internal/storage/migrations"
	pgstore "tokenguard/internal/storage/postgres"
)

// Server holds all components of the guard service.
type Server struct {
	engine   *guard.Engine
	hub      *notify.Hub
	recorder *audit.Recorder
	metrics  *observability.Metrics
	logger   *log.Logger
}

func main() {
	listenAddr := flag.String("listen", envOr("GUARD_LISTEN", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for state snapshots")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for the admission audit")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	ownerAddr := flag.String("owner", os.Getenv("GUARD_OWNER"), "Owner address (base58); required unless a snapshot exists")
	tokenName := flag.String("name", envOr("GUARD_TOKEN_NAME", "Guarded Token"), "Token name")
	tokenSymbol := flag.String("symbol", envOr("GUARD_TOKEN_SYMBOL", "GUARD"), "Token symbol")
	flushInterval := flag.Duration("flush-interval", 5*time.Second, "Audit buffer flush interval")

	flag.Parse()

	logger := log.New(os.Stdout, "[guardd] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stateStore, decisionStore, notificationStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	metrics := observability.NewMetrics("")
	hub := notify.NewHub(logger)
	recorder := audit.NewRecorder(audit.RecorderOptions{
		DecisionStore:     decisionStore,
		NotificationStore: notificationStore,
		FlushInterval:     *flushInterval,
		Logger:            logger,
		Metrics:           metrics,
	})

	engine, err := buildEngine(ctx, buildEngineOptions{
		name:       *tokenName,
		symbol:     *tokenSymbol,
		ownerAddr:  *ownerAddr,
		stateStore: &countingStateStore{inner: stateStore, metrics: metrics},
		logger:     logger,
		metrics:    metrics,
		hub:        hub,
		recorder:   recorder,
	})
	if err != nil {
		logger.Fatalf("Failed to build guard engine: %v", err)
	}

	server := &Server{
		engine:   engine,
		hub:      hub,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		recorder.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		refreshGauges(ctx, engine, hub, metrics)
	}()

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown: %v", err)
		}
		hub.Close()
	}()

	logger.Printf("Guard serving on %s (owner=%s)", *listenAddr, engine.Owner())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server: %v", err)
	}

	wg.Wait()
	recorder.Flush(context.Background())
	logger.Println("Shutdown complete")
}

type buildEngineOptions struct {
	name       string
	symbol     string
	ownerAddr  string
	stateStore storage.StateStore
	logger     *log.Logger
	metrics    *observability.Metrics
	hub        *notify.Hub
	recorder   *audit.Recorder
}

// buildEngine constructs the engine, restoring the persisted snapshot
// when one exists. A fresh boot mints the fixed supply to the owner.
func buildEngine(ctx context.Context, opts buildEngineOptions) (*guard.Engine, error) {
	snapshot, err := opts.stateStore.Load(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	owner := domain.Address(opts.ownerAddr)
	if snapshot != nil {
		owner = snapshot.Owner
	} else {
		if opts.ownerAddr == "" {
			return nil, fmt.Errorf("--owner is required on first boot")
		}
		if owner, err = domain.ParseAddress(opts.ownerAddr); err != nil {
			return nil, fmt.Errorf("invalid owner address: %w", err)
		}
	}

	book := ledger.NewMemory(owner, domain.TotalSupply)

	engine, err := guard.New(guard.Config{
		Name:   opts.name,
		Symbol: opts.symbol,
		Owner:  owner,
		Ledger: book,
		Logger: opts.logger,
		Store:  opts.stateStore,
		OnNotification: func(n domain.Notification) {
			opts.metrics.NotificationsEmitted.WithLabelValues(string(n.Kind)).Inc()
			opts.hub.Broadcast(n)
			opts.recorder.RecordNotification(n)
		},
		OnDecision: func(d domain.Decision) {
			if d.Allowed {
				opts.metrics.TransfersAllowed.Inc()
			} else {
				opts.metrics.TransfersRejected.WithLabelValues(string(d.Reason)).Inc()
			}
			opts.recorder.RecordDecision(d)
		},
	})
	if err != nil {
		return nil, err
	}

	if snapshot != nil {
		if err := engine.Restore(snapshot); err != nil {
			return nil, fmt.Errorf("restore snapshot: %w", err)
		}
		opts.logger.Printf("Restored guard state snapshot from %d", snapshot.UpdatedAt)
	}

	return engine, nil
}

// createStores builds the storage backends and applies migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (
	storage.StateStore, storage.DecisionStore, storage.NotificationStore, func(), error,
) {
	if useMemory {
		return memory.NewStateStore(), memory.NewDecisionStore(), memory.NewNotificationStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	conn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, fmt.Errorf("clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		pool.Close()
		conn.Close()
		return nil, nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	cleanup := func() {
		pool.Close()
		conn.Close()
	}
	return pgstore.NewStateStore(pool), chstore.NewDecisionStore(conn), chstore.NewNotificationStore(conn), cleanup, nil
}

// countingStateStore counts snapshot saves and save errors around the
// real store.
type countingStateStore struct {
	inner   storage.StateStore
	metrics *observability.Metrics
}

func (s *countingStateStore) Save(ctx context.Context, state *domain.GuardState) error {
	err := s.inner.Save(ctx, state)
	if err != nil {
		s.metrics.SnapshotSaveErrors.Inc()
		return err
	}
	s.metrics.SnapshotSaves.Inc()
	return nil
}

func (s *countingStateStore) Load(ctx context.Context) (*domain.GuardState, error) {
	return s.inner.Load(ctx)
}

const gaugeRefreshInterval = 15 * time.Second

// refreshGauges periodically publishes set sizes, client counts and
// uptime until ctx is canceled.
func refreshGauges(ctx context.Context, engine *guard.Engine, hub *notify.Hub, metrics *observability.Metrics) {
	ticker := time.NewTicker(gaugeRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := engine.Snapshot()
			metrics.BlacklistSize.Set(float64(len(snap.Blocklisted)))
			metrics.ExclusionSize.Set(float64(len(snap.Excluded)))
			metrics.BotFlagSetSize.Set(float64(len(snap.Bots)))
			metrics.WSClients.Set(float64(hub.ClientCount()))
			metrics.UptimeSeconds.Add(gaugeRefreshInterval.Seconds())
		}
	}
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// trimAddr normalizes a path-embedded or body address string.
func trimAddr(s string) string {
	return strings.TrimSpace(s)
}
