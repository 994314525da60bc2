package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/dormdeli/payment-service/internal/adapter/handler/http"
	"github.com/dormdeli/payment-service/internal/config"
	"github.com/dormdeli/payment-service/internal/infrastructure/database"
	"github.com/dormdeli/payment-service/internal/infrastructure/provider/sepay"
	"github.com/dormdeli/payment-service/internal/infrastructure/provider/vnpay"
	"github.com/dormdeli/payment-service/internal/middleware/auth"
	"github.com/dormdeli/payment-service/internal/usecase"
	"github.com/dormdeli/payment-service/pkg/logger"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
	engine *usecase.ReconciliationService
	vnpay  *usecase.VNPayService
	sepay  *usecase.SePayService
}

// requestValidator adapts go-playground/validator to Echo.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories, publisher usecase.EventPublisher) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	vnpayGateway, err := vnpay.NewGateway(vnpay.Config{
		TmnCode:    cfg.Service.VNPay.TmnCode,
		HashSecret: cfg.Service.VNPay.HashSecret,
		PayURL:     cfg.Service.VNPay.PayURL,
		ReturnURL:  cfg.Service.VNPay.ReturnURL,
		Version:    cfg.Service.VNPay.Version,
		Command:    cfg.Service.VNPay.Command,
		OrderType:  cfg.Service.VNPay.OrderType,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create VNPay gateway: %w", err)
	}

	sepayClient := sepay.NewClient(sepay.Config{
		APIKey:        cfg.Service.SePay.APIKey,
		AccountNumber: cfg.Service.SePay.AccountNumber,
		AccountName:   cfg.Service.SePay.AccountName,
		BankCode:      cfg.Service.SePay.BankCode,
		Endpoint:      cfg.Service.SePay.Endpoint,
	}, log)

	engine := usecase.NewReconciliationService(repos.Payment, publisher, log)

	return &Server{
		config: cfg,
		logger: log,
		echo:   e,
		repos:  repos,
		engine: engine,
		vnpay:  usecase.NewVNPayService(engine, vnpayGateway, log),
		sepay:  usecase.NewSePayService(engine, sepayClient, sepayClient, log),
	}, nil
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(s.sepay, s.engine, s.logger)
	webhookHandler := handlers.NewWebhookHandler(s.sepay, s.logger)
	vnpayHandler := handlers.NewVNPayHandler(s.vnpay, s.logger)

	api := s.echo.Group("/api")

	// Payment routes (external notifications and redirects are unauthenticated
	// by nature; the webhook is verified by correlation, the callback by
	// signature)
	payment := api.Group("/payment")
	payment.POST("/create", paymentHandler.CreatePayment)
	payment.POST("/webhook", webhookHandler.HandleWebhook)
	payment.GET("/status/:orderId", paymentHandler.GetPaymentStatus)

	payment.POST("/vnpay/create", vnpayHandler.CreatePayment)
	payment.GET("/vnpay/return", vnpayHandler.HandleReturn)
	payment.GET("/vnpay/ipn", vnpayHandler.HandleIPN)
	payment.GET("/vnpay/status/:orderId", vnpayHandler.GetPaymentStatus)

	// Manual confirmation (for development/testing only)
	if s.config.Service.EnableTestEndpoints && s.config.Service.Environment != "production" {
		payment.POST("/confirm/:orderId", paymentHandler.ConfirmPayment)
	}

	// Protected routes (require JWT authentication)
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
	}
	protected := api.Group("/payments", auth.JWTMiddleware(jwtConfig))
	protected.GET("", paymentHandler.GetUserPayments)
}
