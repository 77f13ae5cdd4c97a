// Package events ships committed contact changes to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"identify/internal/contact/models"
	"identify/internal/contact/service"
	"identify/internal/platform/kafka"
	"identify/pkg/platform/circuit"
)

// Producer is the subset of the Kafka producer the publisher needs.
type Producer interface {
	Produce(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes one record per event, keyed by the group's primary id
// so a consumer sees every change to one identity in order.
type KafkaPublisher struct {
	producer Producer
}

func NewKafkaPublisher(producer Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events []models.ContactEvent) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", event.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(event.PrimaryContactID, 10)),
			Value: value,
		})
	}
	return p.producer.Produce(ctx, msgs...)
}

// LogPublisher records events in the service log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, events []models.ContactEvent) error {
	for _, event := range events {
		p.logger.InfoContext(ctx, "contact event",
			"event_type", event.Type,
			"contact_id", event.ContactID,
			"primary_contact_id", event.PrimaryContactID,
			"demoted_ids", event.DemotedIDs,
			"request_id", event.RequestID,
		)
	}
	return nil
}

const defaultTrialInterval = 30 * time.Second

// GuardedPublisher sends events to primary and, once primary keeps failing,
// writes them to fallback instead. While the circuit is open primary is only
// tried once per trial interval.
type GuardedPublisher struct {
	primary       service.EventPublisher
	fallback      service.EventPublisher
	breaker       *circuit.Breaker
	logger        *slog.Logger
	trialInterval time.Duration
	now           func() time.Time

	mu        sync.Mutex
	lastTrial time.Time
}

type GuardedOption func(*GuardedPublisher)

// WithTrialInterval sets how often an open circuit lets one call through to primary.
func WithTrialInterval(d time.Duration) GuardedOption {
	return func(p *GuardedPublisher) {
		if d > 0 {
			p.trialInterval = d
		}
	}
}

func NewGuardedPublisher(primary, fallback service.EventPublisher, breaker *circuit.Breaker, logger *slog.Logger, opts ...GuardedOption) *GuardedPublisher {
	p := &GuardedPublisher{
		primary:       primary,
		fallback:      fallback,
		breaker:       breaker,
		logger:        logger,
		trialInterval: defaultTrialInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GuardedPublisher) Publish(ctx context.Context, events []models.ContactEvent) error {
	if p.breaker.IsOpen() && !p.takeTrial() {
		return p.fallback.Publish(ctx, events)
	}

	err := p.primary.Publish(ctx, events)
	if err == nil {
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "event publisher recovered", "breaker", p.breaker.Name())
		}
		return nil
	}

	useFallback, change := p.breaker.RecordFailure()
	if change.Opened {
		p.markTrial()
		p.logger.WarnContext(ctx, "event publisher circuit opened",
			"breaker", p.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		return err
	}
	if fbErr := p.fallback.Publish(ctx, events); fbErr != nil {
		return errors.Join(err, fbErr)
	}
	return nil
}

// takeTrial reports whether this call may probe primary while the circuit is open.
func (p *GuardedPublisher) takeTrial() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	if now.Sub(p.lastTrial) < p.trialInterval {
		return false
	}
	p.lastTrial = now
	return true
}

func (p *GuardedPublisher) markTrial() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastTrial = p.now()
}
