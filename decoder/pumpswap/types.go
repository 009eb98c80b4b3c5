// Package pumpswap decodes pump.fun AMM (PumpSwap) program instructions and
// account state.
package pumpswap

import (
	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// ProgramID is the PumpSwap AMM program.
const ProgramID = "pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA"

var ProgramKey = common.MustPubkey(ProgramID)

var (
	ixBuy        = []byte{102, 6, 61, 18, 1, 218, 235, 234}
	ixSell       = []byte{51, 230, 133, 164, 1, 127, 131, 173}
	ixCreatePool = []byte{233, 146, 209, 142, 207, 104, 64, 188}
	ixDeposit    = []byte{242, 35, 198, 137, 82, 225, 242, 182}
	ixWithdraw   = []byte{183, 18, 70, 156, 148, 109, 161, 34}
)

var (
	acctGlobalConfig = []byte{149, 8, 156, 202, 160, 252, 176, 217}
	acctPool         = []byte{241, 154, 109, 4, 17, 177, 109, 188}
)

// TradeEvent is a PumpSwap buy or sell.
type TradeEvent struct {
	events.Metadata
	Pool              common.Pubkey `json:"pool"`
	User              common.Pubkey `json:"user"`
	BaseMint          common.Pubkey `json:"base_mint"`
	QuoteMint         common.Pubkey `json:"quote_mint"`
	IsBuy             bool          `json:"is_buy"`
	BaseAmount        uint64        `json:"base_amount"`
	QuoteLimit        uint64        `json:"quote_limit"`
	ProtocolFeeRecipient common.Pubkey `json:"protocol_fee_recipient"`
}

// CreatePoolEvent is a new PumpSwap pool initialization.
type CreatePoolEvent struct {
	events.Metadata
	Index         uint16        `json:"index"`
	Pool          common.Pubkey `json:"pool"`
	Creator       common.Pubkey `json:"creator"`
	BaseMint      common.Pubkey `json:"base_mint"`
	QuoteMint     common.Pubkey `json:"quote_mint"`
	LpMint        common.Pubkey `json:"lp_mint"`
	BaseAmountIn  uint64        `json:"base_amount_in"`
	QuoteAmountIn uint64        `json:"quote_amount_in"`
	CoinCreator   common.Pubkey `json:"coin_creator"`
}

// LiquidityEvent covers deposits into and withdrawals from a pool.
type LiquidityEvent struct {
	events.Metadata
	Pool           common.Pubkey `json:"pool"`
	User           common.Pubkey `json:"user"`
	BaseMint       common.Pubkey `json:"base_mint"`
	QuoteMint      common.Pubkey `json:"quote_mint"`
	LpTokenAmount  uint64        `json:"lp_token_amount"`
	BaseAmount     uint64        `json:"base_amount"`
	QuoteAmount    uint64        `json:"quote_amount"`
	IsDeposit      bool          `json:"is_deposit"`
}

// PoolAccount is the decoded pool state.
type PoolAccount struct {
	events.Metadata
	Pubkey                common.Pubkey `json:"pubkey"`
	Lamports              uint64        `json:"lamports"`
	Index                 uint16        `json:"index"`
	Creator               common.Pubkey `json:"creator"`
	BaseMint              common.Pubkey `json:"base_mint"`
	QuoteMint             common.Pubkey `json:"quote_mint"`
	LpMint                common.Pubkey `json:"lp_mint"`
	PoolBaseTokenAccount  common.Pubkey `json:"pool_base_token_account"`
	PoolQuoteTokenAccount common.Pubkey `json:"pool_quote_token_account"`
	LpSupply              uint64        `json:"lp_supply"`
}

// GlobalConfigAccount is the program-wide configuration.
type GlobalConfigAccount struct {
	events.Metadata
	Pubkey               common.Pubkey `json:"pubkey"`
	Lamports             uint64        `json:"lamports"`
	Admin                common.Pubkey `json:"admin"`
	LpFeeBasisPoints     uint64        `json:"lp_fee_basis_points"`
	ProtocolFeeBasisPoints uint64      `json:"protocol_fee_basis_points"`
	DisableFlags         uint8         `json:"disable_flags"`
}
