package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Drivers
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	// Instrumentation
	"github.com/exaring/otelpgx"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// Interne
	"github.com/jupiterclapton/plume/config"
	"github.com/jupiterclapton/plume/internal/adapters/primary/events"
	httpadapter "github.com/jupiterclapton/plume/internal/adapters/primary/http"
	"github.com/jupiterclapton/plume/internal/adapters/secondary/cache"
	"github.com/jupiterclapton/plume/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/plume/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/plume/internal/adapters/secondary/security"
	"github.com/jupiterclapton/plume/internal/core/services"
)

func main() {
	// 1. Config & Logger
	cfg := config.Load()
	initLogger(cfg)
	slog.Info("🚀 Starting Plume", "env", cfg.Env, "port", cfg.HTTPPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	// 3. Infrastructure : Postgres (contenu)
	dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
	if err != nil {
		slog.Error("Unable to parse DB config", "error", err)
		os.Exit(1)
	}
	dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := repository.EnsureSchema(ctx, dbPool); err != nil {
		slog.Error("Unable to apply schema", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Postgres")

	// 4. Infrastructure : Redis (cache de pages)
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisUrl})
	defer redisClient.Close()
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("Failed to instrument redis", "error", err)
	}
	slog.Info("✅ Connected to Redis")

	// 5. Infrastructure : Neo4j (graphe social)
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jUrl, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		slog.Error("Unable to create neo4j driver", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	graphRepo := repository.NewNeo4jGraphRepo(driver)
	if err := graphRepo.EnsureSchema(ctx); err != nil {
		slog.Error("Unable to apply graph schema", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to Neo4j")

	// 6. Infrastructure : NATS (events)
	nc, err := nats.Connect(cfg.NatsUrl)
	if err != nil {
		slog.Error("Unable to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()
	slog.Info("✅ Connected to NATS")

	// 7. Adapters driven
	userRepo := repository.NewPostgresUserRepo(dbPool)
	groupRepo := repository.NewPostgresGroupRepo(dbPool)
	postRepo := repository.NewPostgresPostRepo(dbPool)
	commentRepo := repository.NewPostgresCommentRepo(dbPool)
	pageCache := cache.NewRedisPageCache(redisClient)
	publisher := eventbroker.NewNatsPublisher(nc)
	hasher := security.NewArgon2Hasher(nil)

	tokens, err := security.NewJWTProvider([]byte(cfg.SessionKey), 7*24*time.Hour)
	if err != nil {
		slog.Error("Invalid session key", "error", err)
		os.Exit(1)
	}

	// 8. Coeur (domain logic)
	identityService := services.NewIdentityService(userRepo, hasher, tokens)
	postService := services.NewPostService(postRepo, commentRepo, groupRepo, publisher)
	feedService := services.NewFeedService(postRepo, groupRepo, userRepo, graphRepo, pageCache)
	graphService := services.NewGraphService(userRepo, graphRepo)

	// 9. Adapter primaire events : invalidation du cache d'accueil
	eventHandler := events.NewEventHandler(pageCache)
	sub, err := eventHandler.Subscribe(nc)
	if err != nil {
		slog.Error("Unable to subscribe to post events", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sub.Unsubscribe() }()

	// 10. Adapter primaire HTTP
	server := httpadapter.NewServer(identityService, postService, feedService, graphService)

	var h http.Handler = server.Routes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "baggage", "sentry-trace"},
		AllowCredentials: true,
	})
	h = c.Handler(h)

	h = otelhttp.NewHandler(h, "Plume", otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))

	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	// 11. Démarrage graceful
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: mux,
	}

	go func() {
		slog.Info("📡 Plume listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("👋 Server exited")
}

// --- HELPERS ---

func initLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Env == "local" {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, _ := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String("plume"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
