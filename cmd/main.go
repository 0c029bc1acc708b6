package main

import (
	"context"
	"github.com/maxaizer/job-finder/internal/bot"
	"github.com/maxaizer/job-finder/internal/clients/empllo"
	"github.com/maxaizer/job-finder/internal/config"
	"github.com/maxaizer/job-finder/internal/logger"
	"github.com/maxaizer/job-finder/internal/metrics"
	"github.com/maxaizer/job-finder/internal/services"
	log "github.com/sirupsen/logrus"
	"os/signal"
	"syscall"
)

func newFeedClient(cfg config.FeedConfig) *empllo.Client {
	client := empllo.NewClient()
	client.SetFeedURL(cfg.URL)
	client.SetRateLimit(cfg.MaxRequestsPerSecond)
	client.SetTimeout(cfg.Timeout)
	return client
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.ListenAddr)

	feed := newFeedClient(cfg.Feed)
	ids := services.UUIDGenerator{}

	sessions := services.NewSessionRegistry(func() (*services.Session, error) {
		return services.NewSession(feed, ids, cfg.Bot.ConfirmationTTL)
	})

	cleaner, err := services.NewSessionsCleaner(sessions, cfg.Bot.SessionIdleTimeout)
	if err != nil {
		log.Fatalf("can't create sessions cleaner: %v", err)
	}
	defer cleaner.Stop()

	tgbot, err := bot.NewBot(cfg.Bot.Token, sessions)
	if err != nil {
		log.Fatalf("can't create bot: %v", err)
	}
	go tgbot.Run(ctx)

	<-ctx.Done()

	log.Info("Shutting down services...")
	log.Infof("Closed %d sessions.", sessions.CloseAll())
	log.Info("Services stopped.")
}
