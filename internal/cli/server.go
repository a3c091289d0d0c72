package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cultural-quiz-service/internal/app"
	"cultural-quiz-service/internal/config"
	"cultural-quiz-service/internal/infra/memory"
	pgloader "cultural-quiz-service/internal/infra/postgres"
	infraredis "cultural-quiz-service/internal/infra/redis"
	"cultural-quiz-service/internal/infra/seed"
	"cultural-quiz-service/internal/platform/logger"
	transport "cultural-quiz-service/internal/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			return runServer(cmd.Context(), cfg, log, *port)
		},
	}
}

// catalogSource is both the read side of the catalog and the loader the quiz
// caches fall through to.
type catalogSource interface {
	app.CatalogRepository
	memory.QuestionLoader
}

func runServer(ctx context.Context, cfg config.Config, log *logger.Logger, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var source catalogSource
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		source = pgloader.NewCatalogLoader(pool)
		log.Info("catalog backed by postgres")
	} else {
		dataset, err := seed.Load()
		if err != nil {
			return err
		}
		source = memory.NewStaticCatalog(dataset.Entries())
		log.Info("catalog backed by bundled dataset", "countries", len(dataset.Countries))
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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var quizRepo app.QuizRepository
	var store app.SessionRepository
	if redisClient != nil {
		quizRepo = infraredis.NewQuizRepository(redisClient, source, quizTTL)
		store = infraredis.NewSessionStore(redisClient, redisTTL)
	} else {
		quizRepo = memory.NewQuizRepository(source, quizTTL)
		store = memory.NewSessionStore()
	}

	catalog := app.NewCatalogService(source, quizRepo)

	if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := transport.NewRouter(transport.RouterConfig{
		CatalogHandler: transport.NewCatalogHandler(catalog, store, log),
		ChatHandler:    transport.NewChatHandler(app.NewChatService(source), log),
		WSHandler:      transport.NewWSHandler(catalog, store, log, app.WithAdvanceDelay(cfg.AdvanceDelay())),
		Log:            log,
	})

	// No WriteTimeout: it would cut long-lived WebSocket connections.
	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting quiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	case err := <-errCh:
		log.Error("server failed", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
