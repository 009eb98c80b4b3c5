package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/draken-labs/dexstream/ingestor/geyser"
	"github.com/draken-labs/dexstream/ingestor/pipeline"
	"github.com/draken-labs/dexstream/ingestor/subscription"
	natsx "github.com/draken-labs/dexstream/sinks/nats"
)

func main() {
	logger := log.New(os.Stdout, "dexstream ", log.LstdFlags|log.Lshortfile)

	geyserCfg, err := geyser.FromEnv()
	if err != nil {
		logger.Fatalf("load geyser config: %v", err)
	}

	// The NATS sink is optional; without NATS_URL, batches are consumed
	// in-process and summarized to the log.
	var publisher *natsx.Publisher
	if natsx.Enabled() {
		natsCfg, err := natsx.FromEnv()
		if err != nil {
			logger.Fatalf("load nats config: %v", err)
		}
		publisher, err = natsx.NewPublisher(natsCfg)
		if err != nil {
			logger.Fatalf("init nats publisher: %v", err)
		}
		defer publisher.Close()
	}

	pipeCfg := pipeline.DefaultConfig()
	if v := os.Getenv("STREAMER_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatalf("invalid STREAMER_BATCH_SIZE: %v", err)
		}
		pipeCfg.BatchSize = n
	}
	if v := os.Getenv("STREAMER_BATCH_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatalf("invalid STREAMER_BATCH_TIMEOUT_MS: %v", err)
		}
		pipeCfg.BatchTimeout = time.Duration(ms) * time.Millisecond
	}
	if os.Getenv("STREAMER_BACKPRESSURE") == "drop" {
		pipeCfg.Backpressure = pipeline.Drop
	}

	metricsAddr := os.Getenv("STREAMER_METRICS_ADDR")

	service, err := geyser.NewService(geyserCfg, pipeCfg, metricsAddr)
	if err != nil {
		logger.Fatalf("init service: %v", err)
	}

	// Filters are optional; absent a file the stream carries every event
	// of every supported protocol.
	var state *subscription.State
	if path := os.Getenv("STREAMER_FILTER_FILE"); path != "" {
		state, err = subscription.LoadFile(path)
		if err != nil {
			logger.Fatalf("load filter file: %v", err)
		}
		logger.Printf("loaded filters from %s", path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Println("shutdown signal received")
		cancel()
	}()

	if err := service.Subscription().Subscribe(ctx, state); err != nil {
		logger.Fatalf("subscribe: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return service.Run(gctx, 0)
	})
	g.Go(func() error {
		for batch := range service.Events() {
			if publisher == nil {
				logger.Printf("batch: %d events", len(batch))
				continue
			}
			pubCtx, pubCancel := publisher.WithTimeout(context.Background())
			err := publisher.PublishBatch(pubCtx, batch)
			pubCancel()
			if err != nil {
				logger.Printf("publish batch: %v", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("service run failed: %v", err)
	}

	snap := service.Stats()
	logger.Printf("stopped: received=%d decoded=%d delivered=%d dropped=%d",
		snap.Received, snap.Decoded, snap.Delivered, snap.Dropped)
}
