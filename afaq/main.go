package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"afaq/afaq/config"
	"afaq/afaq/controllers"
	"afaq/afaq/middlewares"
	"afaq/afaq/routes"
	"afaq/afaq/services/llm"
	"afaq/afaq/services/scraper"
	"afaq/afaq/sources/psql"
	"afaq/afaq/sources/psql/dao"
	"afaq/afaq/sources/storage"
	"afaq/afaq/utils/logging"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()
	if err := cfg.Validate(); err != nil {
		logging.ErrorLogger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	var websiteOpts []scraper.WebsiteOption
	if cfg.MinIOEndpoint != "" {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			// the in-memory cache still works without object storage
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		} else {
			websiteOpts = append(websiteOpts, scraper.WithObjectCache(minioClient))
		}
	}
	website := scraper.NewWebsiteContext(scraper.NewScraper(), cfg.WebsiteURL, cfg.WebsiteCacheTTL, websiteOpts...)

	logging.AppLogger.Info("website context configured",
		zap.String("url", website.URL()),
		zap.Duration("ttl", cfg.WebsiteCacheTTL),
	)

	if cfg.GroqAPIKey == "" {
		logging.AppLogger.Warn("GROQ_API_KEY is not set; replies will fail")
	}
	chatCtrl := controllers.NewChatController(
		dao.NewChatDAO(db.DB),
		llm.NewGroqClient(cfg.GroqAPIKey),
		website,
		controllers.ChatOptions{Model: cfg.GroqModel, MaxTokens: cfg.GroqMaxTokens},
	)

	handler := routes.NewRouter(cfg, controllers.NewHealthController(), chatCtrl, middlewares.NewSessionManager(cfg))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
