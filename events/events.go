// Package events defines the unified event model shared by every protocol
// decoder: the closed protocol enumeration, event type tags, per-event
// metadata, and the DexEvent union all decoded variants satisfy.
package events

import (
	"time"

	"github.com/draken-labs/dexstream/decoder/common"
)

// Protocol identifies which decoder owns a raw update.
type Protocol string

const (
	ProtocolPumpFun      Protocol = "pumpfun"
	ProtocolPumpSwap     Protocol = "pumpswap"
	ProtocolBonk         Protocol = "bonk"
	ProtocolRaydiumCpmm  Protocol = "raydium_cpmm"
	ProtocolRaydiumClmm  Protocol = "raydium_clmm"
	ProtocolRaydiumAmmV4 Protocol = "raydium_amm_v4"
)

// EventType tags a decoded event variant. The set is closed per decoder
// version; adding a protocol event means adding a tag here and a decoder
// case there.
type EventType string

const (
	// PumpFun
	TypePumpFunCreateToken EventType = "PumpFunCreateToken"
	TypePumpFunBuy         EventType = "PumpFunBuy"
	TypePumpFunSell        EventType = "PumpFunSell"
	TypePumpFunTrade       EventType = "PumpFunTrade"
	TypePumpFunMigrate     EventType = "PumpFunMigrate"

	// PumpSwap
	TypePumpSwapBuy        EventType = "PumpSwapBuy"
	TypePumpSwapSell       EventType = "PumpSwapSell"
	TypePumpSwapCreatePool EventType = "PumpSwapCreatePool"
	TypePumpSwapDeposit    EventType = "PumpSwapDeposit"
	TypePumpSwapWithdraw   EventType = "PumpSwapWithdraw"

	// Bonk
	TypeBonkBuyExactIn          EventType = "BonkBuyExactIn"
	TypeBonkBuyExactOut         EventType = "BonkBuyExactOut"
	TypeBonkSellExactIn         EventType = "BonkSellExactIn"
	TypeBonkSellExactOut        EventType = "BonkSellExactOut"
	TypeBonkInitialize          EventType = "BonkInitialize"
	TypeBonkInitializeV2        EventType = "BonkInitializeV2"
	TypeBonkInitializeToken2022 EventType = "BonkInitializeToken2022"

	// Raydium CPMM
	TypeRaydiumCpmmSwapBaseInput  EventType = "RaydiumCpmmSwapBaseInput"
	TypeRaydiumCpmmSwapBaseOutput EventType = "RaydiumCpmmSwapBaseOutput"
	TypeRaydiumCpmmDeposit        EventType = "RaydiumCpmmDeposit"
	TypeRaydiumCpmmWithdraw       EventType = "RaydiumCpmmWithdraw"
	TypeRaydiumCpmmInitialize     EventType = "RaydiumCpmmInitialize"

	// Raydium CLMM
	TypeRaydiumClmmSwap       EventType = "RaydiumClmmSwap"
	TypeRaydiumClmmSwapV2     EventType = "RaydiumClmmSwapV2"
	TypeRaydiumClmmCreatePool EventType = "RaydiumClmmCreatePool"

	// Raydium AMM V4
	TypeRaydiumAmmV4SwapBaseIn  EventType = "RaydiumAmmV4SwapBaseIn"
	TypeRaydiumAmmV4SwapBaseOut EventType = "RaydiumAmmV4SwapBaseOut"
	TypeRaydiumAmmV4Deposit     EventType = "RaydiumAmmV4Deposit"
	TypeRaydiumAmmV4Withdraw    EventType = "RaydiumAmmV4Withdraw"
	TypeRaydiumAmmV4Initialize2 EventType = "RaydiumAmmV4Initialize2"

	// Account state
	TypeAccountPumpFunBondingCurve EventType = "AccountPumpFunBondingCurve"
	TypeAccountPumpFunGlobal       EventType = "AccountPumpFunGlobal"
	TypeAccountPumpSwapPool        EventType = "AccountPumpSwapPool"
	TypeAccountPumpSwapGlobal      EventType = "AccountPumpSwapGlobalConfig"
	TypeAccountBonkPoolState       EventType = "AccountBonkPoolState"
	TypeAccountBonkGlobalConfig    EventType = "AccountBonkGlobalConfig"
	TypeAccountRaydiumCpmmConfig   EventType = "AccountRaydiumCpmmAmmConfig"
	TypeAccountRaydiumCpmmPool     EventType = "AccountRaydiumCpmmPoolState"
	TypeAccountRaydiumClmmConfig   EventType = "AccountRaydiumClmmAmmConfig"
	TypeAccountRaydiumClmmPool     EventType = "AccountRaydiumClmmPoolState"
	TypeAccountRaydiumAmmV4Info    EventType = "AccountRaydiumAmmV4AmmInfo"
)

// Metadata is stamped onto every decoded event. It is never mutated after
// the factory returns the event; signature plus instruction index is unique
// within a slot for transaction-sourced events.
type Metadata struct {
	Slot      uint64        `json:"slot"`
	Signature string        `json:"signature,omitempty"`
	TxIndex   uint64        `json:"tx_index,omitempty"`
	IxIndex   int           `json:"ix_index"`
	InnerIx   int           `json:"inner_ix"` // -1 for outer instructions
	Protocol  Protocol      `json:"protocol"`
	Type      EventType     `json:"type"`
	ProgramID common.Pubkey `json:"program_id"`
	BlockTime time.Time     `json:"block_time"`
}

// EventMetadata returns the metadata; embedding Metadata in a concrete
// event struct satisfies DexEvent.
func (m *Metadata) EventMetadata() *Metadata { return m }

// DexEvent is the tagged union over all decoded protocol event variants.
// Concrete types live in the per-protocol decoder packages; each carries
// exactly one Metadata.
type DexEvent interface {
	EventMetadata() *Metadata
}
