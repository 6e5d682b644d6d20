package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mubashir-4041/event-compliance-monitor/config"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/database"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/pkg/kafka"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/pkg/processor"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/pkg/storage"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/service"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/transport"
	"github.com/Mubashir-4041/event-compliance-monitor/internal/worker"
	"github.com/Mubashir-4041/event-compliance-monitor/pkg/predicthq"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func setupLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", cfg.Server.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func NewServer(cfg *config.Config) {
	setupLogging(cfg)

	if cfg.PredictHQ.APIToken == "" {
		logrus.Warn("PredictHQ API token not provided, event imports will fail until PREDICTHQ_API_TOKEN is set")
	}

	// Gateway and normalization
	gateway := predicthq.NewClient(cfg.PredictHQ.BaseURL, cfg.PredictHQ.APIToken, cfg.PredictHQ.Timeout)
	defaults := predicthq.Query{
		Country:  cfg.PredictHQ.Country,
		Category: cfg.PredictHQ.Category,
		Limit:    cfg.PredictHQ.Limit,
	}
	normalizer := service.NewNormalizer(cfg.App.Location(), nil)

	// Compliance audit
	var audit kafka.Producer
	if cfg.Kafka.Enabled {
		audit = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		logrus.Info("Kafka audit disabled, audit records will only be logged")
		audit = kafka.NewMockProducer()
	}
	defer audit.Close()

	// Evidence storage
	if err := os.MkdirAll(cfg.App.StoragePath, 0755); err != nil {
		logrus.Fatalf("Failed to create storage directory: %v", err)
	}
	fileStorage := storage.NewFileStorage(cfg.App.StoragePath)
	screenshotProcessor := processor.NewScreenshotProcessor()

	// Initialize repositories and services
	sessions := database.NewSessionRepository()
	dashboardService := service.NewDashboardService(gateway, normalizer, audit, defaults)
	evidenceService := service.NewEvidenceService(fileStorage, screenshotProcessor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize cleanup worker
	cleanupWorker := worker.NewSessionCleanupWorker(sessions, evidenceService, cfg.App.CleanupInterval, cfg.App.SessionTTL)
	go cleanupWorker.Start(ctx)

	// Initialize handlers
	handlers := transport.Handlers{
		Gateway:   transport.NewGatewayHandler(gateway, defaults),
		Dashboard: transport.NewDashboardHandler(dashboardService),
		Views:     transport.NewViewHandler(dashboardService, evidenceService, cfg.App.MaxUploadBytes),
	}

	if cfg.Server.Mode == "release" || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(handlers, sessions, cfg.App.RequestTimeout)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":    cfg.GetServerAddress(),
		"version": cfg.Server.AppVersion,
	}).Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Info("App Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
