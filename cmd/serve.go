package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eventlive/eventlive-backend/internal/handlers"
	"github.com/eventlive/eventlive-backend/internal/metrics"
	"github.com/eventlive/eventlive-backend/internal/middleware"
	"github.com/eventlive/eventlive-backend/internal/routes"
	"github.com/eventlive/eventlive-backend/internal/services"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openStore(cfg, log, true)
	if err != nil {
		log.Error("Failed to open storage", zap.Error(err))
		return err
	}
	defer closeStore()

	fields, closeFields := openFieldStore(context.Background(), cfg, log)
	defer closeFields()

	m := metrics.New()
	client := newChannelTalkClient(cfg, log, m)
	dispatcher := services.NewDispatcher(client, log)

	replies := services.NewReplyService(store, services.NewVenueRouter(store, services.DefaultVenues), dispatcher, m, log, cfg.Channel.Debug)
	direct := services.NewDirectService(services.NewOperatorConsole(fields), services.NewFieldResponder(fields), m)

	app := routes.NewApp("EventLive Backend "+Version, log)
	routes.SetupRoutes(app, routes.Dependencies{
		Health:  handlers.NewHealthHandler(Version),
		Channel: handlers.NewChannelWebhookHandler(replies, log, cfg.Channel.Debug),
		Direct:  handlers.NewDirectWebhookHandler(direct, log),
		Admin:   handlers.NewAdminHandler(store, log),
		ChannelVerifier: middleware.NewWebhookVerifier(
			cfg.ChannelTalk.WebhookSecret, cfg.ChannelTalk.WebhookToken, middleware.SignatureBase64),
		DirectVerifier: middleware.NewWebhookVerifier(
			cfg.ChannelTalk.WebhookSecret, "", middleware.SignatureHex),
		AdminToken: cfg.Admin.Token,
		Metrics:    m,
		Log:        log,
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Warn("Server shutdown incomplete", zap.Error(err))
		}
	}()

	log.Info("EventLive backend starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("storage", describeStore(cfg)),
		zap.Bool("webhook_auth", cfg.ChannelTalk.WebhookSecret != "" || cfg.ChannelTalk.WebhookToken != ""),
		zap.Bool("admin_routes", cfg.Admin.Token != ""),
		zap.String("version", Version))

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("Server stopped", zap.Error(err))
		return err
	}

	log.Info("Waiting for pending deliveries...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := dispatcher.Drain(ctx); err != nil {
		log.Warn("Pending deliveries abandoned", zap.Error(err))
	}
	return nil
}
