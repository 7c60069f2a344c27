package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"capitals-quiz-service/internal/app"
	"capitals-quiz-service/internal/config"
	"capitals-quiz-service/internal/infra/dataset"
	"capitals-quiz-service/internal/infra/memory"
	pgbank "capitals-quiz-service/internal/infra/postgres"
	redisinfra "capitals-quiz-service/internal/infra/redis"
	transport "capitals-quiz-service/internal/transport/http"
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
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// The embedded dataset is the default bank source; Postgres replaces it
	// when configured. Either way a malformed bank must stop startup, so the
	// bank is loaded once here before the server accepts traffic.
	var loader memory.BankLoader = dataset.NewLoader()
	if pool != nil {
		loader = pgbank.NewBankLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 24*time.Hour)
	var bank app.CountryRepository
	if redisClient != nil {
		bank = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bank = memory.NewBankRepository(loader)
	}
	countries, err := bank.Countries(ctx)
	if err != nil {
		return err
	}
	log.Printf("country bank loaded: %d countries", len(countries))

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}
	service := app.NewQuizService(store, bank)

	router := transport.NewRouter(service, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting capitals quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
