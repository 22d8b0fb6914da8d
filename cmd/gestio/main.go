package main

import (
	"context"
	"log"

	"gestiogastos/internal/app"
	"gestiogastos/internal/config"
	"gestiogastos/pkg/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it")
	}

	cfg := config.Load()
	logger := logging.New()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer application.Close()

	if cfg.LoginEmail == "" {
		logger.Info("no login credentials configured, starting unauthenticated",
			zap.String("api", cfg.APIBaseURL))
		return
	}

	ctx := context.Background()
	if err := application.Login(ctx, cfg.LoginEmail, cfg.LoginPassword); err != nil {
		logger.Fatal("login failed", zap.Error(err))
	}

	metrics, err := application.Dashboard()
	if err != nil {
		logger.Fatal("dashboard unavailable", zap.Error(err))
	}

	user, _ := application.Session.User()
	logger.Info("dashboard",
		zap.String("user", user.Email),
		zap.String("role", string(user.Role)),
		zap.Strings("menu", application.Menu()),
		zap.Int("tickets", len(metrics.MyTickets)),
		zap.Int("pending_count", metrics.PendingCount),
		zap.String("pending_total", metrics.PendingTotal.StringFixed(2)),
		zap.String("pending_server", user.PendingAmount.StringFixed(2)),
		zap.Int("paid_percentage", metrics.PaidPercentage))
}
