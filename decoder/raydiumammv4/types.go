// Package raydiumammv4 decodes the legacy Raydium AMM v4 program. Unlike the
// Anchor programs, instructions use a single-byte discriminator and the
// AmmInfo account carries no discriminator at all.
package raydiumammv4

import (
	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// ProgramID is the Raydium AMM v4 program.
const ProgramID = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"

var ProgramKey = common.MustPubkey(ProgramID)

const (
	ixInitialize2 = 1
	ixDeposit     = 3
	ixWithdraw    = 4
	ixSwapBaseIn  = 9
	ixSwapBaseOut = 11
)

// SwapEvent is an AMM v4 swap in either base-in or base-out form.
type SwapEvent struct {
	events.Metadata
	Amm              common.Pubkey `json:"amm"`
	PoolCoinVault    common.Pubkey `json:"pool_coin_vault"`
	PoolPcVault      common.Pubkey `json:"pool_pc_vault"`
	UserSourceToken  common.Pubkey `json:"user_source_token"`
	UserDestToken    common.Pubkey `json:"user_dest_token"`
	UserOwner        common.Pubkey `json:"user_owner"`
	BaseIn           bool          `json:"base_in"`
	Amount           uint64        `json:"amount"`
	Limit            uint64        `json:"limit"`
}

// DepositEvent is liquidity added to a pool.
type DepositEvent struct {
	events.Metadata
	Amm           common.Pubkey `json:"amm"`
	MaxCoinAmount uint64        `json:"max_coin_amount"`
	MaxPcAmount   uint64        `json:"max_pc_amount"`
	BaseSide      uint64        `json:"base_side"`
}

// WithdrawEvent is liquidity removed from a pool.
type WithdrawEvent struct {
	events.Metadata
	Amm    common.Pubkey `json:"amm"`
	Amount uint64        `json:"amount"`
}

// Initialize2Event is a new AMM v4 pool creation.
type Initialize2Event struct {
	events.Metadata
	Amm          common.Pubkey `json:"amm"`
	LpMint       common.Pubkey `json:"lp_mint"`
	CoinMint     common.Pubkey `json:"coin_mint"`
	PcMint       common.Pubkey `json:"pc_mint"`
	Nonce        uint8         `json:"nonce"`
	OpenTime     uint64        `json:"open_time"`
	InitPcAmount uint64        `json:"init_pc_amount"`
	InitCoinAmount uint64      `json:"init_coin_amount"`
}

// AmmInfoAccount is the decoded AMM state account.
type AmmInfoAccount struct {
	events.Metadata
	Pubkey        common.Pubkey `json:"pubkey"`
	Lamports      uint64        `json:"lamports"`
	Status        uint64        `json:"status"`
	Nonce         uint64        `json:"nonce"`
	CoinDecimals  uint64        `json:"coin_decimals"`
	PcDecimals    uint64        `json:"pc_decimals"`
	CoinLotSize   uint64        `json:"coin_lot_size"`
	PcLotSize     uint64        `json:"pc_lot_size"`
	PoolOpenTime  uint64        `json:"pool_open_time"`
	TokenCoin     common.Pubkey `json:"token_coin"`
	TokenPc       common.Pubkey `json:"token_pc"`
	CoinMint      common.Pubkey `json:"coin_mint"`
	PcMint        common.Pubkey `json:"pc_mint"`
	LpMint        common.Pubkey `json:"lp_mint"`
	OpenOrders    common.Pubkey `json:"open_orders"`
	Market        common.Pubkey `json:"market"`
	AmmOwner      common.Pubkey `json:"amm_owner"`
	LpAmount      uint64        `json:"lp_amount"`
}
