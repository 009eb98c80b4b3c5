// Package raydiumcpmm decodes Raydium CP-Swap (constant product) program
// instructions and account state.
package raydiumcpmm

import (
	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// ProgramID is the Raydium CP-Swap program.
const ProgramID = "CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C"

var ProgramKey = common.MustPubkey(ProgramID)

var (
	ixSwapBaseInput  = []byte{143, 190, 90, 218, 196, 30, 51, 222}
	ixSwapBaseOutput = []byte{55, 217, 98, 86, 163, 74, 180, 173}
	ixDeposit        = []byte{242, 35, 198, 137, 82, 225, 242, 182}
	ixInitialize     = []byte{175, 175, 109, 31, 13, 152, 155, 237}
	ixWithdraw       = []byte{183, 18, 70, 156, 148, 109, 161, 34}
)

var (
	acctAmmConfig = []byte{218, 244, 33, 104, 203, 203, 43, 111}
	acctPoolState = []byte{247, 237, 227, 245, 215, 195, 222, 70}
)

// SwapEvent is a CP-Swap swap in either base-input or base-output form.
// Amount carries the exact side; Limit is the slippage bound on the other.
type SwapEvent struct {
	events.Metadata
	Payer              common.Pubkey `json:"payer"`
	Authority          common.Pubkey `json:"authority"`
	AmmConfig          common.Pubkey `json:"amm_config"`
	PoolState          common.Pubkey `json:"pool_state"`
	InputTokenAccount  common.Pubkey `json:"input_token_account"`
	OutputTokenAccount common.Pubkey `json:"output_token_account"`
	InputVault         common.Pubkey `json:"input_vault"`
	OutputVault        common.Pubkey `json:"output_vault"`
	InputMint          common.Pubkey `json:"input_mint"`
	OutputMint         common.Pubkey `json:"output_mint"`
	ObservationState   common.Pubkey `json:"observation_state"`
	BaseInput          bool          `json:"base_input"`
	Amount             uint64        `json:"amount"`
	Limit              uint64        `json:"limit"`
}

// LiquidityEvent covers deposits into and withdrawals from a pool.
type LiquidityEvent struct {
	events.Metadata
	Owner          common.Pubkey `json:"owner"`
	Authority      common.Pubkey `json:"authority"`
	PoolState      common.Pubkey `json:"pool_state"`
	LpTokenAmount  uint64        `json:"lp_token_amount"`
	Token0Amount   uint64        `json:"token_0_amount"`
	Token1Amount   uint64        `json:"token_1_amount"`
	IsDeposit      bool          `json:"is_deposit"`
}

// InitializeEvent is a new CP-Swap pool creation.
type InitializeEvent struct {
	events.Metadata
	Creator      common.Pubkey `json:"creator"`
	AmmConfig    common.Pubkey `json:"amm_config"`
	Authority    common.Pubkey `json:"authority"`
	PoolState    common.Pubkey `json:"pool_state"`
	Token0Mint   common.Pubkey `json:"token_0_mint"`
	Token1Mint   common.Pubkey `json:"token_1_mint"`
	LpMint       common.Pubkey `json:"lp_mint"`
	InitAmount0  uint64        `json:"init_amount_0"`
	InitAmount1  uint64        `json:"init_amount_1"`
	OpenTime     uint64        `json:"open_time"`
}

// AmmConfigAccount is the decoded fee tier configuration.
type AmmConfigAccount struct {
	events.Metadata
	Pubkey           common.Pubkey `json:"pubkey"`
	Lamports         uint64        `json:"lamports"`
	Index            uint16        `json:"index"`
	TradeFeeRate     uint64        `json:"trade_fee_rate"`
	ProtocolFeeRate  uint64        `json:"protocol_fee_rate"`
	FundFeeRate      uint64        `json:"fund_fee_rate"`
	CreatePoolFee    uint64        `json:"create_pool_fee"`
	ProtocolOwner    common.Pubkey `json:"protocol_owner"`
	FundOwner        common.Pubkey `json:"fund_owner"`
}

// PoolStateAccount is the decoded pool state.
type PoolStateAccount struct {
	events.Metadata
	Pubkey          common.Pubkey `json:"pubkey"`
	Lamports        uint64        `json:"lamports"`
	AmmConfig       common.Pubkey `json:"amm_config"`
	PoolCreator     common.Pubkey `json:"pool_creator"`
	Token0Vault     common.Pubkey `json:"token_0_vault"`
	Token1Vault     common.Pubkey `json:"token_1_vault"`
	LpMint          common.Pubkey `json:"lp_mint"`
	Token0Mint      common.Pubkey `json:"token_0_mint"`
	Token1Mint      common.Pubkey `json:"token_1_mint"`
	Status          uint8         `json:"status"`
	LpSupply        uint64        `json:"lp_supply"`
	OpenTime        uint64        `json:"open_time"`
}
