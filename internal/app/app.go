package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	httpserver "shadow-raffle/internal/app/http-server"
	"shadow-raffle/internal/config"
	"shadow-raffle/internal/handlers"
	"shadow-raffle/internal/lib/jwt"
	"shadow-raffle/internal/middlewares"
	"shadow-raffle/internal/repository/postgres"
	"shadow-raffle/internal/repository/redis"
	"shadow-raffle/internal/routes"
	"shadow-raffle/internal/services"
)

type App struct {
	HTTPServer *httpserver.Server
}

func New(log *slog.Logger, cfg *config.Config) *App {
	if err := postgres.RunMigrations(cfg.Database.PostgresConn); err != nil {
		panic(err)
	}

	storage, err := postgres.NewPostgres(context.Background(), cfg.Database.PostgresConn)
	if err != nil {
		panic(err)
	}

	if err := storage.EnsureWinPolicy(context.Background(), cfg.Raffle.SingleWin); err != nil {
		panic(err)
	}

	jwtGen := jwt.NewGenerator(
		cfg.JWT.Secret,
		time.Minute*time.Duration(cfg.JWT.AccessExpirationMinutes),
		time.Hour*24*time.Duration(cfg.JWT.RefreshExpirationDays),
	)

	redisDB, err := redis.InitRedis(
		os.Getenv("REDIS_STORAGE_PATH"),
		os.Getenv("REDIS_PASSWORD"),
		os.Getenv("DB_NUMBER"),
		time.Hour*24*time.Duration(cfg.JWT.RefreshExpirationDays),
	)
	if err != nil {
		panic(err)
	}

	authService := services.NewAuthService(log, storage, redisDB, jwtGen,
		cfg.Raffle.StartingBalance, cfg.Raffle.AdminNicknames)
	raffleService := services.NewRaffleService(log, storage, cfg.Raffle.DrawCost, cfg.Raffle.SingleWin)
	reportService := services.NewReportService(log, storage)
	adminService := services.NewAdminService(log, storage, cfg.Raffle.GrantMaxPerTx, cfg.Raffle.BalanceCeiling)

	authHandler := handlers.NewAuthHandler(log, authService)
	raffleHandler := handlers.NewRaffleHandler(log, raffleService, reportService)
	adminHandler := handlers.NewAdminHandler(log, adminService, reportService)

	authMiddleware := middlewares.NewAuthMiddleware(jwtGen)

	r := routes.InitRoutes(authHandler, raffleHandler, adminHandler, authMiddleware)

	server := httpserver.NewServer(log, cfg.Server.Address, r)

	return &App{
		HTTPServer: server,
	}
}
