package geyser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	"github.com/draken-labs/dexstream/events"
	"github.com/draken-labs/dexstream/ingestor/common"
	"github.com/draken-labs/dexstream/ingestor/factory"
	"github.com/draken-labs/dexstream/ingestor/pipeline"
	"github.com/draken-labs/dexstream/ingestor/subscription"
	"github.com/draken-labs/dexstream/observability"
)

// Service wires the stream client, subscription manager, event factory, and
// delivery pipeline together. Decoded batches arrive on Events(); the
// subscription manager controls what flows.
type Service struct {
	client    *Client
	manager   *subscription.Manager
	factory   *factory.Factory
	pipe      *pipeline.Pipeline
	collector *observability.Collector
	metrics   *serviceMetrics

	metricsServer *http.Server
	metricsStopCh chan struct{}
}

// NewService builds a service over the default protocol registry. When
// metricsAddr is non-empty, Prometheus metrics and a stats endpoint are
// served there.
func NewService(cfg *Config, pipeCfg pipeline.Config, metricsAddr string) (*Service, error) {
	return NewServiceWithRegistry(cfg, pipeCfg, factory.DefaultRegistry(), metricsAddr)
}

// NewServiceWithRegistry builds a service over a caller-supplied registry.
func NewServiceWithRegistry(cfg *Config, pipeCfg pipeline.Config, reg *factory.Registry, metricsAddr string) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("geyser config is required")
	}
	client, err := NewClient(cfg, reg.Programs())
	if err != nil {
		return nil, fmt.Errorf("init geyser client: %w", err)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promReg.MustRegister(collectors.NewGoCollector())

	collector := observability.NewCollector(promReg)
	fac := factory.New(reg, common.NewBlockTimeCache(0), collector)
	pipe, err := pipeline.New(pipeCfg, collector)
	if err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}

	s := &Service{
		client:    client,
		manager:   subscription.NewManager(client),
		factory:   fac,
		pipe:      pipe,
		collector: collector,
		metrics:   newServiceMetrics(promReg),
	}
	if metricsAddr != "" {
		s.metricsServer = s.buildMetricsServer(metricsAddr, promReg)
		s.metricsStopCh = make(chan struct{})
	}
	return s, nil
}

// Events is the batch delivery channel; closed after Run returns and the
// final flush completes.
func (s *Service) Events() <-chan []events.DexEvent {
	return s.pipe.Events()
}

// Subscription exposes the manager for installing and updating filters.
func (s *Service) Subscription() *subscription.Manager {
	return s.manager
}

// Stats returns a snapshot of the pipeline counters.
func (s *Service) Stats() observability.Snapshot {
	return s.collector.Snapshot()
}

// Run connects, streams, and blocks until ctx is cancelled or the stream
// fails unrecoverably. Buffered events are flushed before return.
func (s *Service) Run(ctx context.Context, startSlot uint64) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connect geyser: %w", err)
	}
	defer s.client.Close()
	defer s.pipe.Stop()
	// The stream is gone either way; the next Subscribe starts fresh.
	defer func() { _ = s.manager.Stop() }()

	updates, errs := s.client.Subscribe(startSlot)

	if s.metricsServer != nil {
		go func() {
			if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %v", err)
			}
			close(s.metricsStopCh)
		}()
		defer s.shutdownMetrics()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			if err != nil {
				s.metrics.streamErrors.Inc()
			}
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			s.handleUpdate(update)
		}
	}
}

func (s *Service) handleUpdate(update *pb.SubscribeUpdate) {
	state := s.manager.Current()

	switch u := update.UpdateOneof.(type) {
	case *pb.SubscribeUpdate_Transaction:
		tx := common.ConvertTransaction(u.Transaction)
		if tx == nil || !state.MatchTransaction(tx) {
			return
		}
		s.metrics.currentSlot.Set(float64(tx.Slot))
		for _, ev := range s.factory.ProcessTransaction(tx) {
			s.deliver(state, ev)
		}
	case *pb.SubscribeUpdate_Account:
		acc := common.ConvertAccount(u.Account)
		if acc == nil || !state.MatchAccount(acc) {
			return
		}
		for _, ev := range s.factory.ProcessAccount(acc) {
			s.deliver(state, ev)
		}
	case *pb.SubscribeUpdate_BlockMeta:
		if bt := u.BlockMeta.GetBlockTime(); bt != nil {
			s.factory.RecordBlockTime(u.BlockMeta.Slot, time.Unix(bt.Timestamp, 0).UTC())
		}
	case *pb.SubscribeUpdate_Slot:
		s.metrics.currentSlot.Set(float64(u.Slot.Slot))
	}
}

func (s *Service) deliver(state *subscription.State, ev events.DexEvent) {
	if !state.MatchEvent(ev) {
		s.collector.IncFiltered()
		return
	}
	s.pipe.Push(ev)
}

func (s *Service) shutdownMetrics() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.metricsServer.Shutdown(ctx)
	<-s.metricsStopCh
}

func (s *Service) buildMetricsServer(addr string, gatherer prometheus.Gatherer) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.collector.Snapshot())
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type serviceMetrics struct {
	currentSlot  prometheus.Gauge
	streamErrors prometheus.Counter
}

func newServiceMetrics(reg prometheus.Registerer) *serviceMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &serviceMetrics{
		currentSlot: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: observability.MetricStreamSlotLag,
			Help: "Most recent slot observed on the stream.",
		}),
		streamErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: observability.MetricReconnectsTotal,
			Help: "Stream errors that triggered a reconnect.",
		}),
	}
}
