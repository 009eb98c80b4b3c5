// Package factory routes raw updates to protocol decoders and stamps the
// resulting events with stream metadata.
package factory

import (
	dec "github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/decoder/bonk"
	"github.com/draken-labs/dexstream/decoder/pumpfun"
	"github.com/draken-labs/dexstream/decoder/pumpswap"
	"github.com/draken-labs/dexstream/decoder/raydiumammv4"
	"github.com/draken-labs/dexstream/decoder/raydiumclmm"
	"github.com/draken-labs/dexstream/decoder/raydiumcpmm"
	"github.com/draken-labs/dexstream/events"
)

// InstructionDecoder decodes one outer instruction.
type InstructionDecoder func(data []byte, accounts []dec.Pubkey, meta events.Metadata) (events.DexEvent, error)

// InnerDecoder decodes one inner (CPI) instruction, typically an Anchor
// event log.
type InnerDecoder func(data []byte, meta events.Metadata) (events.DexEvent, error)

// AccountDecoder decodes one account-state update.
type AccountDecoder func(info dec.AccountInfo, meta events.Metadata) (events.DexEvent, error)

// Entry binds a protocol's decoders to its on-chain program. Decoders a
// protocol does not support stay nil.
type Entry struct {
	Protocol    events.Protocol
	Program     dec.Pubkey
	Instruction InstructionDecoder
	Inner       InnerDecoder
	Account     AccountDecoder
}

// Registry maps program IDs to decoder entries. Several entries may share a
// program ID; the factory tries each in registration order.
type Registry struct {
	byProgram map[dec.Pubkey][]Entry
	order     []Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byProgram: make(map[dec.Pubkey][]Entry)}
}

// Register adds an entry. Later registrations for the same program are tried
// after earlier ones.
func (r *Registry) Register(e Entry) {
	r.byProgram[e.Program] = append(r.byProgram[e.Program], e)
	r.order = append(r.order, e)
}

// Lookup returns the entries registered for program, nil when none.
func (r *Registry) Lookup(program dec.Pubkey) []Entry {
	return r.byProgram[program]
}

// Entries returns every registered entry in registration order.
func (r *Registry) Entries() []Entry {
	return r.order
}

// Programs returns the distinct registered program IDs in registration
// order.
func (r *Registry) Programs() []dec.Pubkey {
	seen := make(map[dec.Pubkey]struct{}, len(r.byProgram))
	var out []dec.Pubkey
	for _, e := range r.order {
		if _, ok := seen[e.Program]; ok {
			continue
		}
		seen[e.Program] = struct{}{}
		out = append(out, e.Program)
	}
	return out
}

// DefaultRegistry returns a registry covering every supported protocol.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Entry{
		Protocol:    events.ProtocolPumpFun,
		Program:     pumpfun.ProgramKey,
		Instruction: pumpfun.DecodeInstruction,
		Inner:       pumpfun.DecodeInnerInstruction,
		Account:     pumpfun.DecodeAccount,
	})
	r.Register(Entry{
		Protocol:    events.ProtocolPumpSwap,
		Program:     pumpswap.ProgramKey,
		Instruction: pumpswap.DecodeInstruction,
		Account:     pumpswap.DecodeAccount,
	})
	r.Register(Entry{
		Protocol:    events.ProtocolBonk,
		Program:     bonk.ProgramKey,
		Instruction: bonk.DecodeInstruction,
		Account:     bonk.DecodeAccount,
	})
	r.Register(Entry{
		Protocol:    events.ProtocolRaydiumCpmm,
		Program:     raydiumcpmm.ProgramKey,
		Instruction: raydiumcpmm.DecodeInstruction,
		Account:     raydiumcpmm.DecodeAccount,
	})
	r.Register(Entry{
		Protocol:    events.ProtocolRaydiumClmm,
		Program:     raydiumclmm.ProgramKey,
		Instruction: raydiumclmm.DecodeInstruction,
		Account:     raydiumclmm.DecodeAccount,
	})
	r.Register(Entry{
		Protocol:    events.ProtocolRaydiumAmmV4,
		Program:     raydiumammv4.ProgramKey,
		Instruction: raydiumammv4.DecodeInstruction,
		Account:     raydiumammv4.DecodeAccount,
	})
	return r
}
