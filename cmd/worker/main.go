package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/frontdesk/frontdesk-api/config"
	"github.com/frontdesk/frontdesk-api/internal/email"
	"github.com/frontdesk/frontdesk-api/internal/model"
	"github.com/frontdesk/frontdesk-api/internal/repository/postgres"
	"github.com/frontdesk/frontdesk-api/pkg/logger"
	"github.com/frontdesk/frontdesk-api/pkg/messaging"
	"github.com/frontdesk/frontdesk-api/pkg/messaging/redis"
	"github.com/frontdesk/frontdesk-api/pkg/metrics"
	"github.com/frontdesk/frontdesk-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Redis broker")
	}
	defer broker.Close()

	baseRepo := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(baseRepo)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		cfg.Outbox.ToWorkerConfig(),
		appLogger,
		metrics.NewMetrics(cfg.Monitoring.MetricsPrefix, "outbox"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SMTP.Host != "" {
		notifier := email.NewService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		}, appLogger)
		if err := startEmailConsumer(ctx, broker, notifier, appLogger); err != nil {
			log.Fatal().Err(err).Msg("failed to start email consumer")
		}
	}

	setupHealthCheck(appLogger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down...")
		cancel()
	}()

	processor.Start(ctx)
}

// startEmailConsumer subscribes to the appointment channels and sends a
// notification for every scheduled and cancelled appointment.
func startEmailConsumer(ctx context.Context, broker messaging.Broker, notifier email.Service, appLogger *logger.Logger) error {
	handle := func(channel string, send func(context.Context, *model.AppointmentEventPayload) error) error {
		msgChan, err := broker.Subscribe(ctx, channel)
		if err != nil {
			return err
		}
		go func() {
			for msg := range msgChan {
				var payload model.AppointmentEventPayload
				if err := json.Unmarshal(msg, &payload); err != nil {
					appLogger.Error(err, "failed to decode event payload", "channel", channel)
					continue
				}
				if err := send(ctx, &payload); err != nil {
					appLogger.Error(err, "failed to send notification", "channel", channel)
				}
			}
		}()
		return nil
	}

	if err := handle(model.EventTypeAppointmentScheduled, notifier.SendAppointmentScheduled); err != nil {
		return err
	}
	return handle(model.EventTypeAppointmentDeleted, notifier.SendAppointmentCancelled)
}

func setupHealthCheck(appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			appLogger.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
}
