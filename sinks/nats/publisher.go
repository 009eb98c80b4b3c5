// Package natsx publishes decoded events to NATS JetStream. One subject per
// protocol and event type keeps consumer subscriptions cheap; the message ID
// header makes redelivery after reconnect deduplicable.
package natsx

import (
	"context"
	"encoding/json"
	"fmt"

	nats "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/draken-labs/dexstream/events"
	"github.com/draken-labs/dexstream/observability"
)

// Publisher emits decoded events to JetStream as JSON.
type Publisher struct {
	cfg     Config
	nc      *nats.Conn
	js      nats.JetStreamContext
	metrics *publisherMetrics
}

// NewPublisher validates the configuration, connects, and opens a JetStream
// context.
func NewPublisher(cfg Config) (*Publisher, error) {
	return NewPublisherWithRegisterer(cfg, nil)
}

// NewPublisherWithRegisterer registers the publisher metrics on reg; a nil
// reg gets a private registry.
func NewPublisherWithRegisterer(cfg Config, reg prometheus.Registerer) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nc, err := nats.Connect(cfg.URL, nats.Name("dexstream-publisher"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}
	return &Publisher{
		cfg:     cfg,
		nc:      nc,
		js:      js,
		metrics: newPublisherMetrics(reg),
	}, nil
}

// PublishEvent publishes one event on <root>.<protocol>.<type>. The message
// ID is slot:signature:ix:inner, unique within a slot, so JetStream
// deduplication absorbs replays after reconnect.
func (p *Publisher) PublishEvent(ctx context.Context, ev events.DexEvent) error {
	meta := ev.EventMetadata()
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s.%s", p.cfg.SubjectRoot, meta.Protocol, meta.Type)
	msgID := fmt.Sprintf("%d:%s:%d:%d", meta.Slot, meta.Signature, meta.IxIndex, meta.InnerIx)

	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set("Nats-Msg-Id", msgID)

	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		p.metrics.errors.Inc()
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.metrics.acks.Inc()
	return nil
}

// PublishBatch publishes every event of a batch, stopping at the first
// failure.
func (p *Publisher) PublishBatch(ctx context.Context, batch []events.DexEvent) error {
	for _, ev := range batch {
		if err := p.PublishEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// WithTimeout returns a context with the publisher's timeout applied.
func (p *Publisher) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := p.cfg.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return context.WithTimeout(parent, timeout)
}

// Config exposes a copy of the publisher configuration.
func (p *Publisher) Config() Config {
	return p.cfg
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

type publisherMetrics struct {
	acks   prometheus.Counter
	errors prometheus.Counter
}

func newPublisherMetrics(reg prometheus.Registerer) *publisherMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &publisherMetrics{
		acks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: observability.MetricPublisherNATSacks,
			Help: "Events acknowledged by JetStream.",
		}),
		errors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: observability.MetricPublisherNATSErrors,
			Help: "Publish attempts that failed.",
		}),
	}
}
