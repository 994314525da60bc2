package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/config"
	"github.com/dormdeli/payment-service/internal/domain/model"
	"github.com/dormdeli/payment-service/internal/infrastructure/database"
	"github.com/dormdeli/payment-service/internal/infrastructure/provider/sepay"
	"github.com/dormdeli/payment-service/internal/usecase"
	"github.com/dormdeli/payment-service/pkg/logger"
)

const runTimeout = 5 * time.Minute

// Sweeps all PENDING payments against the SePay transaction ledger. Intended
// to run on a schedule as a safety net for missed webhook deliveries.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	repos := database.NewRepositories(db, zapLogger)

	ledger := sepay.NewClient(sepay.Config{
		APIKey:        cfg.Service.SePay.APIKey,
		AccountNumber: cfg.Service.SePay.AccountNumber,
		AccountName:   cfg.Service.SePay.AccountName,
		BankCode:      cfg.Service.SePay.BankCode,
		Endpoint:      cfg.Service.SePay.Endpoint,
	}, zapLogger)

	engine := usecase.NewReconciliationService(repos.Payment, nil, zapLogger)
	sepayService := usecase.NewSePayService(engine, ledger, ledger, zapLogger)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	pending, err := repos.Payment.FindByStatus(ctx, model.StatusPending)
	if err != nil {
		zapLogger.Fatal("Failed to list pending payments", zap.Error(err))
	}

	zapLogger.Info("Starting reconciliation sweep", zap.Int("pending_count", len(pending)))

	var settled int
	for _, payment := range pending {
		result, err := sepayService.ReconcilePending(ctx, payment.OrderID)
		if err != nil {
			zapLogger.Error("Reconciliation failed for order",
				zap.String("order_id", payment.OrderID),
				zap.Error(err))
			continue
		}
		if result.Status == model.StatusSuccess {
			settled++
			zapLogger.Info("Payment settled from ledger",
				zap.String("order_id", payment.OrderID))
		}
	}

	zapLogger.Info("Reconciliation sweep complete",
		zap.Int("checked", len(pending)),
		zap.Int("settled", settled))
}
