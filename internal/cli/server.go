package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brandquiz-service/internal/app"
	"brandquiz-service/internal/config"
	"brandquiz-service/internal/infra/memory"
	pgstore "brandquiz-service/internal/infra/postgres"
	redisstore "brandquiz-service/internal/infra/redis"
	"brandquiz-service/internal/questions"
	transport "brandquiz-service/internal/transport/http"
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

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Leaderboard persistence prefers Postgres, then Redis, then memory.
	var store app.LeaderboardStore = memory.NewLeaderboardStore()
	switch {
	case pool != nil:
		store = pgstore.NewLeaderboardStore(pool)
	case redisClient != nil:
		store = redisstore.NewLeaderboardStore(redisClient)
	}

	fallback := questions.NewStaticBank()
	var provider app.QuestionProvider
	if cfg.Gemini.APIKey != "" {
		geminiTimeout := config.Duration(cfg.Gemini.Timeout, 30*time.Second)
		provider = questions.NewGeminiProvider(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, geminiTimeout)
	} else {
		log.Printf("no Gemini API key configured, serving built-in questions only")
	}

	hub := transport.NewHub()
	engine := app.NewGameEngine(memory.NewRoomRegistry(), store, hub, provider, fallback, cfg.Server.AdminPassword)
	if delay := config.Duration(cfg.Game.ResultDelay, 0); delay > 0 {
		engine.SetDebounce(delay)
	}
	wsHandler := transport.NewWSHandler(engine, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting brand quiz service on :%s", finalPort)
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
