package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ingestion"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/scoring"
	"github.com/spigell/resume-matcher/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default is :8080)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-matcher server", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	taxonomy, err := config.taxonomy()
	if err != nil {
		logger.Fatal("building the skill taxonomy", zap.Error(err))
	}

	uploadStore, err := newUploadStore(ctx, config.Uploads)
	if err != nil {
		logger.Fatal("creating the upload store", zap.Error(err))
	}

	reportStore, closeReports, err := newReportStore(ctx, config.Reports, logger)
	if err != nil {
		logger.Fatal("creating the report store", zap.Error(err))
	}
	defer closeReports()

	srv, err := server.New(server.Deps{
		Analyzer: scoring.NewAnalyzer(taxonomy, logger),
		Uploads:  ingestion.NewService(uploadStore, config.Uploads.MaxSize, logger),
		Reports:  reportStore,
		Logger:   logger,
	}, server.Options{
		BodyLimit:   config.Server.BodyLimit,
		AccessLog:   config.Server.AccessLog,
		CORSOrigins: config.Server.CORS,
	})
	if err != nil {
		logger.Fatal("creating the http server", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(config.Server.listenAddr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("reason", "signal received"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
