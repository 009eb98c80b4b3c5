// Package raydiumclmm decodes Raydium concentrated liquidity (CLMM) program
// instructions and account state.
package raydiumclmm

import (
	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// ProgramID is the Raydium CLMM program.
const ProgramID = "CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK"

var ProgramKey = common.MustPubkey(ProgramID)

var (
	ixSwap       = []byte{248, 198, 158, 145, 225, 117, 135, 200}
	ixSwapV2     = []byte{43, 4, 237, 11, 26, 201, 30, 98}
	ixCreatePool = []byte{233, 146, 209, 142, 207, 104, 64, 188}
)

var (
	acctAmmConfig = []byte{218, 244, 33, 104, 203, 203, 43, 111}
	acctPoolState = []byte{247, 237, 227, 245, 215, 195, 222, 70}
)

// SwapEvent is a CLMM swap (v1 or v2). V2 additionally resolves the vault
// mints.
type SwapEvent struct {
	events.Metadata
	Payer                common.Pubkey `json:"payer"`
	AmmConfig            common.Pubkey `json:"amm_config"`
	PoolState            common.Pubkey `json:"pool_state"`
	InputTokenAccount    common.Pubkey `json:"input_token_account"`
	OutputTokenAccount   common.Pubkey `json:"output_token_account"`
	InputVault           common.Pubkey `json:"input_vault"`
	OutputVault          common.Pubkey `json:"output_vault"`
	ObservationState     common.Pubkey `json:"observation_state"`
	TickArray            common.Pubkey `json:"tick_array"`
	InputVaultMint       common.Pubkey `json:"input_vault_mint,omitempty"`
	OutputVaultMint      common.Pubkey `json:"output_vault_mint,omitempty"`
	Amount               uint64        `json:"amount"`
	OtherAmountThreshold uint64        `json:"other_amount_threshold"`
	SqrtPriceLimitX64    common.U128   `json:"sqrt_price_limit_x64"`
	IsBaseInput          bool          `json:"is_base_input"`
	IsV2                 bool          `json:"is_v2"`
}

// CreatePoolEvent is a new CLMM pool creation.
type CreatePoolEvent struct {
	events.Metadata
	PoolCreator  common.Pubkey `json:"pool_creator"`
	AmmConfig    common.Pubkey `json:"amm_config"`
	PoolState    common.Pubkey `json:"pool_state"`
	TokenMint0   common.Pubkey `json:"token_mint_0"`
	TokenMint1   common.Pubkey `json:"token_mint_1"`
	TokenVault0  common.Pubkey `json:"token_vault_0"`
	TokenVault1  common.Pubkey `json:"token_vault_1"`
	SqrtPriceX64 common.U128   `json:"sqrt_price_x64"`
	OpenTime     uint64        `json:"open_time"`
}

// AmmConfigAccount is the decoded fee tier configuration.
type AmmConfigAccount struct {
	events.Metadata
	Pubkey          common.Pubkey `json:"pubkey"`
	Lamports        uint64        `json:"lamports"`
	Index           uint16        `json:"index"`
	Owner           common.Pubkey `json:"owner"`
	ProtocolFeeRate uint32        `json:"protocol_fee_rate"`
	TradeFeeRate    uint32        `json:"trade_fee_rate"`
	TickSpacing     uint16        `json:"tick_spacing"`
	FundFeeRate     uint32        `json:"fund_fee_rate"`
}

// PoolStateAccount is the decoded pool state.
type PoolStateAccount struct {
	events.Metadata
	Pubkey        common.Pubkey `json:"pubkey"`
	Lamports      uint64        `json:"lamports"`
	AmmConfig     common.Pubkey `json:"amm_config"`
	TokenMint0    common.Pubkey `json:"token_mint_0"`
	TokenMint1    common.Pubkey `json:"token_mint_1"`
	TokenVault0   common.Pubkey `json:"token_vault_0"`
	TokenVault1   common.Pubkey `json:"token_vault_1"`
	MintDecimals0 uint8         `json:"mint_decimals_0"`
	MintDecimals1 uint8         `json:"mint_decimals_1"`
	TickSpacing   uint16        `json:"tick_spacing"`
	Liquidity     common.U128   `json:"liquidity"`
	SqrtPriceX64  common.U128   `json:"sqrt_price_x64"`
	TickCurrent   int32         `json:"tick_current"`
	Status        uint8         `json:"status"`
	OpenTime      uint64        `json:"open_time"`
}
