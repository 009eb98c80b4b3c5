// Package pumpfun decodes pump.fun bonding-curve program instructions,
// CPI event logs, and account state.
package pumpfun

import (
	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// ProgramID is the pump.fun bonding curve program.
const ProgramID = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"

var ProgramKey = common.MustPubkey(ProgramID)

// Instruction discriminators (first 8 bytes of instruction data).
var (
	ixCreateToken = []byte{24, 30, 200, 40, 5, 28, 7, 119}
	ixBuy         = []byte{102, 6, 61, 18, 1, 218, 235, 234}
	ixSell        = []byte{51, 230, 133, 164, 1, 127, 131, 173}
	ixMigrate     = []byte{155, 234, 231, 146, 236, 158, 162, 30}
)

// CPI event discriminators (8 bytes following the Anchor event prefix).
var (
	evCreateToken = []byte{27, 114, 169, 77, 222, 235, 99, 118}
	evTrade       = []byte{189, 219, 127, 211, 78, 230, 97, 238}
	evMigrate     = []byte{189, 233, 93, 185, 92, 148, 234, 148}
)

// Account discriminators.
var (
	acctBondingCurve = []byte{23, 183, 248, 55, 96, 216, 172, 96}
	acctGlobal       = []byte{167, 232, 232, 177, 200, 108, 114, 127}
)

// CreateTokenEvent is a new token launched on the bonding curve.
type CreateTokenEvent struct {
	events.Metadata
	Name         string        `json:"name"`
	Symbol       string        `json:"symbol"`
	URI          string        `json:"uri"`
	Mint         common.Pubkey `json:"mint"`
	BondingCurve common.Pubkey `json:"bonding_curve"`
	User         common.Pubkey `json:"user"`
	Creator      common.Pubkey `json:"creator"`
}

// TradeEvent is a buy or sell against the bonding curve. Instruction decode
// fills the account keys and the caller-specified amounts; CPI log decode
// fills the executed amounts and curve reserves.
type TradeEvent struct {
	events.Metadata
	Mint                   common.Pubkey `json:"mint"`
	User                   common.Pubkey `json:"user"`
	BondingCurve           common.Pubkey `json:"bonding_curve"`
	IsBuy                  bool          `json:"is_buy"`
	Amount                 uint64        `json:"amount"`
	MaxSolCost             uint64        `json:"max_sol_cost,omitempty"`
	MinSolOutput           uint64        `json:"min_sol_output,omitempty"`
	SolAmount              uint64        `json:"sol_amount"`
	TokenAmount            uint64        `json:"token_amount"`
	VirtualSolReserves     uint64        `json:"virtual_sol_reserves"`
	VirtualTokenReserves   uint64        `json:"virtual_token_reserves"`
	RealSolReserves        uint64        `json:"real_sol_reserves"`
	RealTokenReserves      uint64        `json:"real_token_reserves"`
	FeeRecipient           common.Pubkey `json:"fee_recipient"`
	FeeBasisPoints         uint64        `json:"fee_basis_points"`
	Fee                    uint64        `json:"fee"`
	Creator                common.Pubkey `json:"creator"`
	CreatorFeeBasisPoints  uint64        `json:"creator_fee_basis_points"`
	CreatorFee             uint64        `json:"creator_fee"`
	UnixTimestamp          int64         `json:"unix_timestamp"`
	TrackVolume            bool          `json:"track_volume"`
	CurrentSolVolume       uint64        `json:"current_sol_volume"`
	LastUpdateUnixSeconds  int64         `json:"last_update_unix_seconds"`
}

// MigrateEvent records a bonding curve graduating into a pump AMM pool.
type MigrateEvent struct {
	events.Metadata
	User             common.Pubkey `json:"user"`
	Mint             common.Pubkey `json:"mint"`
	MintAmount       uint64        `json:"mint_amount"`
	SolAmount        uint64        `json:"sol_amount"`
	PoolMigrationFee uint64        `json:"pool_migration_fee"`
	BondingCurve     common.Pubkey `json:"bonding_curve"`
	UnixTimestamp    int64         `json:"unix_timestamp"`
	Pool             common.Pubkey `json:"pool"`
}

// BondingCurveAccount is the decoded bonding curve state account.
type BondingCurveAccount struct {
	events.Metadata
	Pubkey               common.Pubkey          `json:"pubkey"`
	Lamports             uint64                 `json:"lamports"`
	VirtualTokenReserves uint64                 `json:"virtual_token_reserves"`
	VirtualSolReserves   uint64                 `json:"virtual_sol_reserves"`
	RealTokenReserves    uint64                 `json:"real_token_reserves"`
	RealSolReserves      uint64                 `json:"real_sol_reserves"`
	TokenTotalSupply     uint64                 `json:"token_total_supply"`
	Complete             bool                   `json:"complete"`
	Creator              common.Pubkey          `json:"creator"`
	Extensions           []common.TokenExtension `json:"extensions,omitempty"`
}

// GlobalAccount is the program-wide configuration account.
type GlobalAccount struct {
	events.Metadata
	Pubkey                common.Pubkey `json:"pubkey"`
	Lamports              uint64        `json:"lamports"`
	Initialized           bool          `json:"initialized"`
	Authority             common.Pubkey `json:"authority"`
	FeeRecipient          common.Pubkey `json:"fee_recipient"`
	InitialVirtualTokens  uint64        `json:"initial_virtual_token_reserves"`
	InitialVirtualSol     uint64        `json:"initial_virtual_sol_reserves"`
	InitialRealTokens     uint64        `json:"initial_real_token_reserves"`
	TokenTotalSupply      uint64        `json:"token_total_supply"`
	FeeBasisPoints        uint64        `json:"fee_basis_points"`
}
