// Package pipeline batches decoded events for delivery with bounded
// buffering and an explicit overflow policy.
package pipeline

import (
	"fmt"
	"time"
)

// BackpressureMode selects what happens when the delivery channel is full.
type BackpressureMode string

const (
	// Block stalls the producer until the consumer catches up; nothing is
	// lost.
	Block BackpressureMode = "block"
	// Drop discards the batch that cannot be queued and counts every event
	// in it as dropped.
	Drop BackpressureMode = "drop"
)

// Config controls batching and delivery.
type Config struct {
	// BatchSize flushes the buffer when it reaches this many events.
	BatchSize int
	// BatchTimeout flushes a non-empty buffer this long after its first
	// event, so low-rate streams still see bounded latency.
	BatchTimeout time.Duration
	// ChannelCapacity bounds the number of batches queued to the consumer.
	ChannelCapacity int
	// Backpressure picks the overflow policy.
	Backpressure BackpressureMode
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:       100,
		BatchTimeout:    50 * time.Millisecond,
		ChannelCapacity: 64,
		Backpressure:    Block,
	}
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.BatchTimeout <= 0 {
		return fmt.Errorf("batch timeout must be positive, got %s", c.BatchTimeout)
	}
	if c.ChannelCapacity <= 0 {
		// A zero-capacity channel under Block would deadlock a single
		// goroutine pushing and flushing.
		return fmt.Errorf("channel capacity must be positive, got %d", c.ChannelCapacity)
	}
	switch c.Backpressure {
	case Block, Drop:
	default:
		return fmt.Errorf("unknown backpressure mode %q", c.Backpressure)
	}
	return nil
}
