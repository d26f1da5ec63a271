package mqtt

import (
	"context"
	"encoding/json"
	"log/slog"

	paho "github.com/eclipse/paho.mqtt.golang"

	"affect/internal/domain"
)

type Config struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Publisher pushes per-analysis affection updates to session topics.
// Publish-only: nothing is subscribed.
type Publisher struct {
	cfg    Config
	client paho.Client
	logger *slog.Logger
}

func NewPublisher(cfg Config, logger *slog.Logger) *Publisher {
	return &Publisher{cfg: cfg, logger: logger}
}

func (p *Publisher) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(p.cfg.BrokerURL).
		SetClientID(p.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		p.logger.Error("mqtt connection lost", "error", err)
	})

	p.client = paho.NewClient(opts)
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	go func() {
		<-ctx.Done()
		p.client.Disconnect(100)
	}()

	return nil
}

func (p *Publisher) PublishAffectionUpdate(update domain.AffectionUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	topic := TopicAffection(p.cfg.TopicPrefix, update.SessionID)
	if token := p.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) PublishAnalysis(event domain.AnalysisEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	topic := TopicAnalysis(p.cfg.TopicPrefix, event.SessionID)
	if token := p.client.Publish(topic, 1, false, body); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}
