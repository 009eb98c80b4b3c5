package factory

import (
	"errors"
	"time"

	dec "github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
	"github.com/draken-labs/dexstream/ingestor/common"
	"github.com/draken-labs/dexstream/observability"
)

// Factory turns converted stream updates into decoded events. Decoding is a
// pure function of the update bytes; the factory adds metadata stamping,
// block-time resolution, and counter accounting on top.
type Factory struct {
	registry   *Registry
	blockTimes *common.BlockTimeCache
	metrics    *observability.Collector
}

// New builds a factory. registry must not be nil; blockTimes and metrics may
// be nil.
func New(registry *Registry, blockTimes *common.BlockTimeCache, metrics *observability.Collector) *Factory {
	return &Factory{
		registry:   registry,
		blockTimes: blockTimes,
		metrics:    metrics,
	}
}

// ProcessTransaction decodes every recognizable instruction of tx, outer
// instructions first and their inner groups after, in transaction order.
// Failed transactions and unrecognized programs produce no events.
func (f *Factory) ProcessTransaction(tx *common.TransactionUpdate) []events.DexEvent {
	f.metrics.IncReceived()
	if tx == nil || tx.Failed {
		return nil
	}
	blockTime := f.resolveBlockTime(tx.Slot, tx.BlockTime)

	var out []events.DexEvent
	for _, ix := range tx.Instructions {
		entries := f.registry.Lookup(ix.ProgramID)
		for _, e := range entries {
			if e.Instruction == nil {
				continue
			}
			meta := events.Metadata{
				Slot:      tx.Slot,
				Signature: tx.Signature,
				TxIndex:   tx.TxIndex,
				IxIndex:   ix.Index,
				InnerIx:   -1,
				Protocol:  e.Protocol,
				ProgramID: ix.ProgramID,
				BlockTime: blockTime,
			}
			if ev := f.decode(e, func() (events.DexEvent, error) {
				return e.Instruction(ix.Data, ix.Accounts, meta)
			}); ev != nil {
				out = append(out, ev)
			}
		}
		for _, in := range ix.Inner {
			// Inner instructions route by the outer program: Anchor CPI
			// event logs invoke the program's own event authority.
			for _, e := range entries {
				if e.Inner == nil {
					continue
				}
				meta := events.Metadata{
					Slot:      tx.Slot,
					Signature: tx.Signature,
					TxIndex:   tx.TxIndex,
					IxIndex:   ix.Index,
					InnerIx:   in.Index,
					Protocol:  e.Protocol,
					ProgramID: ix.ProgramID,
					BlockTime: blockTime,
				}
				if ev := f.decode(e, func() (events.DexEvent, error) {
					return e.Inner(in.Data, meta)
				}); ev != nil {
					out = append(out, ev)
				}
			}
			// A nested swap through an aggregator appears as an inner
			// instruction owned by another registered program.
			for _, e := range f.registry.Lookup(in.ProgramID) {
				if e.Instruction == nil {
					continue
				}
				meta := events.Metadata{
					Slot:      tx.Slot,
					Signature: tx.Signature,
					TxIndex:   tx.TxIndex,
					IxIndex:   ix.Index,
					InnerIx:   in.Index,
					Protocol:  e.Protocol,
					ProgramID: in.ProgramID,
					BlockTime: blockTime,
				}
				if ev := f.decode(e, func() (events.DexEvent, error) {
					return e.Instruction(in.Data, in.Accounts, meta)
				}); ev != nil {
					out = append(out, ev)
				}
			}
		}
	}
	return out
}

// ProcessAccount decodes one account-state update, routing by the owning
// program.
func (f *Factory) ProcessAccount(acc *common.AccountUpdate) []events.DexEvent {
	f.metrics.IncReceived()
	if acc == nil {
		return nil
	}
	entries := f.registry.Lookup(acc.Owner)
	if len(entries) == 0 {
		return nil
	}
	blockTime := f.resolveBlockTime(acc.Slot, time.Time{})

	var out []events.DexEvent
	for _, e := range entries {
		if e.Account == nil {
			continue
		}
		meta := events.Metadata{
			Slot:      acc.Slot,
			Signature: acc.TxSignature,
			InnerIx:   -1,
			Protocol:  e.Protocol,
			ProgramID: acc.Owner,
			BlockTime: blockTime,
		}
		if ev := f.decode(e, func() (events.DexEvent, error) {
			return e.Account(acc.AccountInfo, meta)
		}); ev != nil {
			out = append(out, ev)
		}
	}
	return out
}

// RecordBlockTime caches the block time for slot so subsequent events in the
// slot get stamped with chain time instead of arrival time.
func (f *Factory) RecordBlockTime(slot uint64, ts time.Time) {
	if f.blockTimes != nil && !ts.IsZero() {
		f.blockTimes.Set(slot, ts)
	}
}

func (f *Factory) resolveBlockTime(slot uint64, fromTx time.Time) time.Time {
	if !fromTx.IsZero() {
		return fromTx
	}
	if f.blockTimes != nil {
		if ts, ok := f.blockTimes.Get(slot); ok {
			return ts
		}
	}
	return time.Now().UTC()
}

func (f *Factory) decode(e Entry, fn func() (events.DexEvent, error)) events.DexEvent {
	ev, err := fn()
	switch {
	case err == nil && ev != nil:
		f.metrics.IncDecoded(string(e.Protocol))
		return ev
	case err == nil:
		return nil // recognized, no event
	case errors.Is(err, dec.ErrUnknownDiscriminator):
		f.metrics.IncUnknown(string(e.Protocol))
	case dec.IsMalformed(err):
		f.metrics.IncMalformed(string(e.Protocol))
	default:
		f.metrics.IncMalformed(string(e.Protocol))
	}
	return nil
}
