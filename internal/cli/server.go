package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"tebak-kode-bot/internal/app"
	"tebak-kode-bot/internal/config"
	"tebak-kode-bot/internal/infra/line"
	"tebak-kode-bot/internal/infra/memory"
	"tebak-kode-bot/internal/infra/postgres"
	redisinfra "tebak-kode-bot/internal/infra/redis"
	"tebak-kode-bot/internal/logging"
	"tebak-kode-bot/internal/seed"
	transport "tebak-kode-bot/internal/transport/http"
)

const lineHTTPTimeout = 10 * time.Second

// questionSource is a question store that can also feed a cache.
type questionSource interface {
	memory.QuestionLoader
	app.QuestionRepository
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := logging.New(cfg.Log)

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var (
		users    app.UserRepository
		eventLog transport.EventLog
		source   questionSource
	)
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
		db := openDB(cfg.Postgres.URL)
		defer db.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		users = postgres.NewUserStore(db)
		eventLog = postgres.NewEventLog(db)
		source = postgres.NewQuestionLoader(pool)
	} else {
		logger.Warn("postgres url not configured, users and event log are kept in memory")
		questions, err := seed.Load(cfg.Quiz.QuestionsFile)
		if err != nil {
			return err
		}
		users = memory.NewUserStore()
		eventLog = memory.NewEventLog()
		source = memory.NewStaticQuestionLoader(seed.ByNumber(questions))
	}

	messenger, err := line.NewClient(cfg.Line, &http.Client{Timeout: lineHTTPTimeout})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := app.NewMetrics(registry)
	feed := app.NewResultFeed(cfg.Quiz.ResultHistory)

	service := app.NewQuizService(users, questionRepository(cfg.Quiz, source, redisClient), messenger, feed, metrics, logger)
	dispatcher := app.NewDispatcher(users, service, userLocker(cfg.Quiz, redisClient), metrics, logger)

	router := transport.NewRouter(transport.RouterDeps{
		Webhook: transport.NewWebhookHandler(eventLog, messenger, dispatcher, logger),
		Results: transport.NewWSHandler(feed, logger),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:  logger,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting webhook server",
			slog.String("addr", server.Addr),
			slog.String("cache", cfg.Quiz.Cache),
			slog.String("user_lock", cfg.Quiz.UserLock),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func questionRepository(cfg config.QuizConfig, source questionSource, client *redis.Client) app.QuestionRepository {
	switch cfg.Cache {
	case config.BackendMemory:
		return memory.NewQuestionRepository(source, cfg.CacheTTL)
	case config.BackendRedis:
		return redisinfra.NewQuestionRepository(client, source, cfg.CacheTTL)
	default:
		return source
	}
}

func userLocker(cfg config.QuizConfig, client *redis.Client) app.UserLocker {
	switch cfg.UserLock {
	case config.BackendRedis:
		return redisinfra.NewUserLocker(client, cfg.LockTTL)
	case config.BackendMemory:
		return memory.NewUserLocker()
	default:
		return app.NopLocker{}
	}
}
