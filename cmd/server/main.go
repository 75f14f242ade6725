// Command server runs the mintgate issuance service: a token collection
// with a paid admission gate, owner administration, and an append-only
// notification log relayed to optional external sinks.
//
// Storage is selected by configuration. With no backends configured the
// whole engine runs in memory; Postgres persists the registry, the
// allow-list, and the notification archive; Redis replaces the
// allow-list store when both are present; Kafka receives the
// notification stream when brokers are configured.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	adminhandler "mintgate/internal/admin/handler"
	"mintgate/internal/allowlist"
	"mintgate/internal/auth"
	authhandler "mintgate/internal/auth/handler"
	"mintgate/internal/metadata"
	"mintgate/internal/mint"
	minthandler "mintgate/internal/mint/handler"
	mintmetrics "mintgate/internal/mint/metrics"
	"mintgate/internal/mint/models"
	"mintgate/internal/platform/config"
	"mintgate/internal/platform/httpserver"
	"mintgate/internal/platform/logger"
	"mintgate/internal/platform/metrics"
	platformredis "mintgate/internal/platform/redis"
	"mintgate/internal/ratelimit"
	"mintgate/internal/registry"
	"mintgate/internal/treasury"
	httptransport "mintgate/internal/transport/http"
	id "mintgate/pkg/domain"
	"mintgate/pkg/platform/events"
	eventkafka "mintgate/pkg/platform/events/kafka"
	eventrelay "mintgate/pkg/platform/events/relay"
	eventpg "mintgate/pkg/platform/events/store/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner, err := id.ParseAddress(cfg.Server.OwnerAddress)
	if err != nil {
		return fmt.Errorf("owner address: %w", err)
	}

	collection, err := models.NewCollection(
		cfg.Collection.Name,
		cfg.Collection.Symbol,
		cfg.Collection.Cost,
		cfg.Collection.MaxSupply,
		cfg.Collection.MaxMintPerCall,
		cfg.Collection.ActivationTime,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("collection parameters: %w", err)
	}

	var (
		reg    registry.Registry = registry.NewInMemory()
		allow  allowlist.Store   = allowlist.NewInMemory()
		sinks  []events.Sink
		checks []httptransport.HealthCheck
	)

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("postgres pool: %w", err)
		}
		defer pool.Close()

		pgRegistry := registry.NewPostgres(pool)
		if err := pgRegistry.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("registry schema: %w", err)
		}
		reg = pgRegistry

		db, err := sql.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("postgres open: %w", err)
		}
		defer db.Close()

		pgAllowlist := allowlist.NewPostgres(db)
		if err := pgAllowlist.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("allowlist schema: %w", err)
		}
		allow = pgAllowlist

		archive := eventpg.New(db)
		if err := archive.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("event archive schema: %w", err)
		}
		sinks = append(sinks, archive)

		checks = append(checks, httptransport.HealthCheck{Name: "postgres", Check: pool.Ping})
		log.Info("postgres configured")
	}

	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		allow = allowlist.NewRedis(redisClient.Client)
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
		log.Info("redis allow-list configured")
	}

	// Issued tokens survive restarts, the in-process counter does not.
	// Resume it from the registry so new ids stay dense.
	issued, err := reg.Count(ctx)
	if err != nil {
		return fmt.Errorf("resume total supply: %w", err)
	}
	collection.TotalSupply = issued

	m := metrics.New()
	engine := mint.New(
		collection,
		owner,
		reg,
		allow,
		treasury.NewRecordingTransferer(),
		metadata.NewResolver(cfg.Collection.BaseMetadataLocation, cfg.Collection.MetadataExtension),
		mint.WithLogger(log),
		mint.WithMetrics(mintmetrics.New()),
	)

	tokens := auth.NewService(cfg.Server.JWTSigningKey, "mintgate", "mintgate-api", cfg.Server.TokenTTL)

	secretHash := cfg.Server.OwnerSecretHash
	if secretHash == "" && cfg.Server.OwnerSecret != "" {
		secretHash, err = auth.HashSecret(cfg.Server.OwnerSecret)
		if err != nil {
			return fmt.Errorf("hash owner secret: %w", err)
		}
	}
	if secretHash == "" {
		log.Warn("no owner secret configured, owner tokens cannot be issued")
	}

	issuer := auth.NewIssuer(tokens, owner, secretHash)
	validator := auth.NewMiddlewareAdapter(tokens)

	limits := ratelimit.NewInMemoryStore()
	mintPolicy := ratelimit.Policy{Limit: cfg.RateLimit.MintPerMinute, Window: time.Minute}
	tokenPolicy := ratelimit.Policy{Limit: cfg.RateLimit.TokenPerMinute, Window: time.Minute}

	router := httptransport.NewRouter(log, checks,
		authhandler.New(issuer, log, m,
			authhandler.WithRateLimit(ratelimit.Limit(limits, "token", tokenPolicy, ratelimit.ByBodyAddress, log))),
		adminhandler.New(engine, log, m, validator),
		minthandler.New(engine, log, m, validator,
			minthandler.WithRateLimit(ratelimit.Limit(limits, "mint", mintPolicy, ratelimit.ByCaller, log))),
	)

	g, gctx := errgroup.WithContext(ctx)

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := eventkafka.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
		log.Info("kafka relay configured", "topic", cfg.Kafka.Topic)
	}

	for _, sink := range sinks {
		relay := eventrelay.New(engine.Events(), sink, eventrelay.WithLogger(log))
		g.Go(func() error {
			if err := relay.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	srv := httpserver.New(cfg.Server.Addr, router)

	g.Go(func() error {
		log.Info("mintgate listening",
			"addr", cfg.Server.Addr,
			"collection", cfg.Collection.Name,
			"max_supply", cfg.Collection.MaxSupply,
			"cost", cfg.Collection.Cost.Dec(),
			"resumed_supply", issued,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
