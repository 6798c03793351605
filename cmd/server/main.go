package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aramvn/task-tracker/internal/auth"
	"github.com/aramvn/task-tracker/internal/config"
	"github.com/aramvn/task-tracker/internal/database"
	"github.com/aramvn/task-tracker/internal/handler"
	"github.com/aramvn/task-tracker/internal/middleware"
	"github.com/aramvn/task-tracker/internal/queue"
	"github.com/aramvn/task-tracker/internal/repository"
	"github.com/aramvn/task-tracker/internal/router"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(database.Config{
		User: cfg.DBUser, Pass: cfg.DBPass,
		Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpen,
		MaxIdleConns:    cfg.DBMaxIdle,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// A weak signing secret is a deployment fault; refuse to serve.
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTLMin)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer configuration invalid")
	}

	users := repository.NewUserRepo(db)
	tasks := repository.NewTaskRepo(db)
	authSvc := auth.NewService(users, issuer)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, rate limiting disabled")
	}

	go queue.StartTaskConsumer()

	e := echo.New()
	e.HideBanner = true

	// Anonymous routes cannot be keyed by user, so they always bucket by
	// client IP; the configured strategy applies only after JWTAuth.
	rlCfg := config.LoadRateLimitConfig()
	ipCfg := rlCfg
	ipCfg.KeyStrategy = "ip"

	router.RegisterRoutes(e)
	router.RegisterAPI(e, issuer,
		middleware.RateLimit(ipCfg, rdb),
		middleware.RateLimit(rlCfg, rdb),
		handler.NewAuthHandler(authSvc),
		handler.NewUserHandler(cfg, users, tasks),
		handler.NewTaskHandler(tasks),
	)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
