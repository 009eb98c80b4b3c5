package pipeline

import (
	"sync"
	"time"

	"github.com/draken-labs/dexstream/events"
	"github.com/draken-labs/dexstream/observability"
)

// Pipeline accumulates events into batches and hands them to the consumer
// over a bounded channel. A batch flushes when it reaches BatchSize or when
// BatchTimeout elapses after its first event, whichever comes first. Push is
// safe for concurrent use.
type Pipeline struct {
	cfg     Config
	metrics *observability.Collector
	out     chan []events.DexEvent

	mu      sync.Mutex
	buf     []events.DexEvent
	timer   *time.Timer
	gen     uint64 // invalidates timers from earlier batches
	stopped bool
}

// New builds a pipeline. metrics may be nil.
func New(cfg Config, metrics *observability.Collector) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		metrics: metrics,
		out:     make(chan []events.DexEvent, cfg.ChannelCapacity),
		buf:     make([]events.DexEvent, 0, cfg.BatchSize),
	}, nil
}

// Events is the delivery channel. It is closed by Stop after the final
// flush.
func (p *Pipeline) Events() <-chan []events.DexEvent {
	return p.out
}

// Push adds one event to the current batch, flushing if the batch is full.
// Events pushed after Stop are discarded.
func (p *Pipeline) Push(ev events.DexEvent) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.buf = append(p.buf, ev)
	if len(p.buf) >= p.cfg.BatchSize {
		p.flushLocked()
		p.mu.Unlock()
		return
	}
	if len(p.buf) == 1 {
		gen := p.gen
		p.timer = time.AfterFunc(p.cfg.BatchTimeout, func() { p.timeoutFlush(gen) })
	}
	p.mu.Unlock()
}

// Flush delivers the current batch immediately, if any.
func (p *Pipeline) Flush() {
	p.mu.Lock()
	if !p.stopped {
		p.flushLocked()
	}
	p.mu.Unlock()
}

// Stop flushes buffered events, closes the delivery channel, and discards
// any later pushes. Safe to call once.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.flushLocked()
	p.stopped = true
	close(p.out)
	p.mu.Unlock()
}

// timeoutFlush fires from the batch timer; gen guards against flushing a
// batch that was already delivered by size.
func (p *Pipeline) timeoutFlush(gen uint64) {
	p.mu.Lock()
	if !p.stopped && gen == p.gen {
		p.flushLocked()
	}
	p.mu.Unlock()
}

func (p *Pipeline) flushLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	if len(p.buf) == 0 {
		return
	}
	batch := p.buf
	p.buf = make([]events.DexEvent, 0, p.cfg.BatchSize)

	switch p.cfg.Backpressure {
	case Drop:
		select {
		case p.out <- batch:
			p.metrics.AddDelivered(len(batch))
			p.metrics.ObserveBatch(len(batch))
		default:
			for range batch {
				p.metrics.IncDropped()
			}
		}
	default: // Block
		p.out <- batch
		p.metrics.AddDelivered(len(batch))
		p.metrics.ObserveBatch(len(batch))
	}
}
