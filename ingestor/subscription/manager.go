package subscription

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	// ErrAlreadySubscribed is returned by Subscribe while a subscription is
	// active; stop it first or use Update.
	ErrAlreadySubscribed = errors.New("subscription already active")

	// ErrNotSubscribed is returned by Update and Stop when no subscription
	// is active.
	ErrNotSubscribed = errors.New("no active subscription")
)

// Pushdown propagates a new filter state to the stream source without
// reconnecting, typically by re-sending the subscribe request on the open
// stream. Implementations must tolerate being called concurrently with
// update delivery.
type Pushdown interface {
	ApplyFilters(ctx context.Context, state *State) error
}

// Manager owns the single active subscription. Filter reads on the hot path
// go through an atomic pointer, so updates swap the whole State without
// blocking delivery; in-flight batches keep the state they started with.
type Manager struct {
	active   atomic.Bool
	state    atomic.Pointer[State]
	pushdown Pushdown
}

// NewManager builds a manager. pushdown may be nil when the source cannot
// narrow server-side; local filtering still applies.
func NewManager(pushdown Pushdown) *Manager {
	return &Manager{pushdown: pushdown}
}

// Subscribe installs the initial filter state. Only one subscription may be
// active at a time.
func (m *Manager) Subscribe(ctx context.Context, state *State) error {
	if !m.active.CompareAndSwap(false, true) {
		return ErrAlreadySubscribed
	}
	m.state.Store(state)
	if m.pushdown != nil {
		if err := m.pushdown.ApplyFilters(ctx, state); err != nil {
			m.state.Store(nil)
			m.active.Store(false)
			return err
		}
	}
	return nil
}

// Update atomically replaces the active filter state. Every update observed
// after Update returns sees the new state; updates already in flight finish
// under the old one. A pushdown failure restores the previous state so the
// local filters never diverge from what the source accepted.
func (m *Manager) Update(ctx context.Context, state *State) error {
	if !m.active.Load() {
		return ErrNotSubscribed
	}
	prev := m.state.Swap(state)
	if m.pushdown != nil {
		if err := m.pushdown.ApplyFilters(ctx, state); err != nil {
			m.state.Store(prev)
			return err
		}
	}
	return nil
}

// Stop ends the active subscription and clears the filter state.
func (m *Manager) Stop() error {
	if !m.active.CompareAndSwap(true, false) {
		return ErrNotSubscribed
	}
	m.state.Store(nil)
	return nil
}

// Active reports whether a subscription is currently installed.
func (m *Manager) Active() bool {
	return m.active.Load()
}

// Current returns the active filter state, nil when not subscribed.
func (m *Manager) Current() *State {
	return m.state.Load()
}
