package main

import (
	"context"
	"fmt"

	"assessments/internal/config"
	"assessments/internal/docstore"
	"assessments/internal/logger"
	"assessments/internal/repository"
	"assessments/internal/service"
)

// app holds everything the commands share.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	store  docstore.Store
	events service.EventPublisher
	sender *service.SenderService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "assessments",
	})

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var events service.EventPublisher = service.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := service.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		events = kp
		log.Info("Publishing booking events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	var texter service.Texter
	twilioCfg := service.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
	}
	if twilioCfg.Enabled() {
		texter = service.NewTwilioTexter(twilioCfg, log)
	}

	mailer := service.NewSendGridMailer(service.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, log)
	sender := service.NewSenderService(mailer, texter, events, service.SenderConfig{
		OperatorEmail: cfg.AssessmentToEmail,
		FitEmail:      cfg.FitToEmail,
		OperatorPhone: cfg.OperatorPhone,
		Location:      cfg.Hours.Location,
	}, log)

	return &app{cfg: cfg, log: log, store: store, events: events, sender: sender}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := docstore.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.DriverMongo:
		m, err := docstore.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return docstore.NewMemory(), nil
	}
}

func (a *app) jobService() *service.JobService {
	return service.NewJobService(repository.NewJobRepository(a.store), a.sender, a.cfg.Hours, a.log)
}

func (a *app) Close(ctx context.Context) {
	if err := a.events.Close(); err != nil {
		a.log.Warn("Closing event publisher", "error", err)
	}
	if err := a.store.Close(ctx); err != nil {
		a.log.Warn("Closing document store", "error", err)
	}
}
