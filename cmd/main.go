package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"shadow-raffle/internal/app"
	"shadow-raffle/internal/config"
)

func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.Info("starting shadow raffle",
		slog.String("env", cfg.Server.Env),
		slog.Bool("single_win", cfg.Raffle.SingleWin),
		slog.Int("draw_cost", cfg.Raffle.DrawCost),
	)

	application := app.New(log, cfg)

	go application.HTTPServer.MustRun()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stop

	log.Info("application stopped", slog.String("signal", sign.String()))

	err := application.HTTPServer.Stop(context.Background())
	if err != nil {
		return
	}
}
