package observability

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector tracks pipeline throughput. Counters are kept twice: atomics for
// cheap in-process snapshots and prometheus counters for scraping. Updating
// is safe from any goroutine.
type Collector struct {
	received  atomic.Uint64
	decoded   atomic.Uint64
	filtered  atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
	malformed atomic.Uint64
	unknown   atomic.Uint64
	batches   atomic.Uint64

	promReceived  prometheus.Counter
	promDecoded   *prometheus.CounterVec
	promFiltered  prometheus.Counter
	promDelivered prometheus.Counter
	promDropped   prometheus.Counter
	promMalformed *prometheus.CounterVec
	promUnknown   *prometheus.CounterVec
	promBatches   prometheus.Counter
	promBatchSize prometheus.Histogram

	mu       sync.Mutex
	lastAt   time.Time
	lastDeliv uint64
}

// Snapshot is a point-in-time view of the pipeline counters.
type Snapshot struct {
	Received           uint64  `json:"received"`
	Decoded            uint64  `json:"decoded"`
	FilteredOut        uint64  `json:"filtered_out"`
	Delivered          uint64  `json:"delivered"`
	Dropped            uint64  `json:"dropped"`
	Malformed          uint64  `json:"malformed"`
	UnknownDiscriminator uint64 `json:"unknown_discriminator"`
	BatchesFlushed     uint64  `json:"batches_flushed"`
	EventsPerSecond    float64 `json:"events_per_second"`
}

// NewCollector registers the pipeline metrics on reg; a nil reg gets a
// private registry so tests never collide on duplicate registration.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		promReceived: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: MetricUpdatesReceivedTotal,
			Help: "Raw stream updates received.",
		}),
		promDecoded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: MetricEventsDecodedTotal,
			Help: "Events decoded, by protocol.",
		}, []string{"protocol"}),
		promFiltered: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: MetricEventsFilteredTotal,
			Help: "Decoded events excluded by the event type filter.",
		}),
		promDelivered: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: MetricEventsDeliveredTotal,
			Help: "Events handed to the consumer.",
		}),
		promDropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: MetricEventsDroppedTotal,
			Help: "Events dropped under backpressure.",
		}),
		promMalformed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: MetricDecodeMalformedTotal,
			Help: "Payloads whose discriminator matched but whose body failed validation.",
		}, []string{"protocol"}),
		promUnknown: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: MetricDecodeUnknownTotal,
			Help: "Payloads with an unrecognized discriminator.",
		}, []string{"protocol"}),
		promBatches: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: MetricBatchesFlushedTotal,
			Help: "Batches handed to the consumer.",
		}),
		promBatchSize: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    MetricBatchSize,
			Help:    "Events per delivered batch.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		lastAt: time.Now(),
	}
	return c
}

func (c *Collector) IncReceived() {
	if c == nil {
		return
	}
	c.received.Add(1)
	c.promReceived.Inc()
}

func (c *Collector) IncDecoded(protocol string) {
	if c == nil {
		return
	}
	c.decoded.Add(1)
	c.promDecoded.WithLabelValues(protocol).Inc()
}

func (c *Collector) IncFiltered() {
	if c == nil {
		return
	}
	c.filtered.Add(1)
	c.promFiltered.Inc()
}

func (c *Collector) AddDelivered(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.delivered.Add(uint64(n))
	c.promDelivered.Add(float64(n))
}

// ObserveBatch records one delivered batch of n events.
func (c *Collector) ObserveBatch(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.batches.Add(1)
	c.promBatches.Inc()
	c.promBatchSize.Observe(float64(n))
}

func (c *Collector) IncDropped() {
	if c == nil {
		return
	}
	c.dropped.Add(1)
	c.promDropped.Inc()
}

func (c *Collector) IncMalformed(protocol string) {
	if c == nil {
		return
	}
	c.malformed.Add(1)
	c.promMalformed.WithLabelValues(protocol).Inc()
}

func (c *Collector) IncUnknown(protocol string) {
	if c == nil {
		return
	}
	c.unknown.Add(1)
	c.promUnknown.WithLabelValues(protocol).Inc()
}

// Snapshot returns the current counter values plus the delivery rate since
// the previous snapshot. Nil collectors snapshot to zero.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	s := Snapshot{
		Received:             c.received.Load(),
		Decoded:              c.decoded.Load(),
		FilteredOut:          c.filtered.Load(),
		Delivered:            c.delivered.Load(),
		Dropped:              c.dropped.Load(),
		Malformed:            c.malformed.Load(),
		UnknownDiscriminator: c.unknown.Load(),
		BatchesFlushed:       c.batches.Load(),
	}

	c.mu.Lock()
	now := time.Now()
	if dt := now.Sub(c.lastAt).Seconds(); dt > 0 {
		s.EventsPerSecond = float64(s.Delivered-c.lastDeliv) / dt
	}
	c.lastAt = now
	c.lastDeliv = s.Delivered
	c.mu.Unlock()
	return s
}
