package webhook

import (
	"context"
	"encoding/json"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/config"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/logger"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher emits finalized-commission events to reporting consumers
type Publisher interface {
	PublishCommissionFinalized(ctx context.Context, event *CommissionFinalizedEvent) error
	Close() error
}

type publisher struct {
	pubSub *gochannel.GoChannel
	topic  string
	logger *logger.Logger
}

// NewPublisher creates an in-process pub/sub publisher and registers a
// logging subscriber so every finalized commission leaves an audit line even
// when no external consumer is attached.
func NewPublisher(cfg *config.Configuration, log *logger.Logger) (Publisher, error) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)

	p := &publisher{
		pubSub: pubSub,
		topic:  cfg.Webhook.Topic,
		logger: log,
	}

	messages, err := pubSub.Subscribe(context.Background(), p.topic)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to subscribe to commission event topic").
			Mark(ierr.ErrInternal)
	}
	go p.consume(messages)

	return p, nil
}

func (p *publisher) PublishCommissionFinalized(ctx context.Context, event *CommissionFinalizedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode commission event").
			Mark(ierr.ErrInternal)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType)

	if err := p.pubSub.Publish(p.topic, msg); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to publish commission event").
			WithReportableDetails(map[string]interface{}{
				"offer_id": event.OfferID,
				"entry_id": event.EntryID,
			}).
			Mark(ierr.ErrInternal)
	}

	return nil
}

func (p *publisher) consume(messages <-chan *message.Message) {
	for msg := range messages {
		var event CommissionFinalizedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			p.logger.Errorw("failed to decode commission event", "error", err)
			msg.Ack()
			continue
		}

		p.logger.Infow("commission finalized",
			"event_id", event.EventID,
			"offer_id", event.OfferID,
			"entry_id", event.EntryID,
			"offer_type", event.OfferType,
			"amount", event.Amount,
		)
		msg.Ack()
	}
}

func (p *publisher) Close() error {
	return p.pubSub.Close()
}
