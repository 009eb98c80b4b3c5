// Package bonk decodes the Bonk (Raydium LaunchLab) launchpad program
// instructions and account state.
package bonk

import (
	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// ProgramID is the Bonk launchpad program.
const ProgramID = "LanMV9sAd7wArD4vJFi2qDdfnVhFxYSUg6eADduJ3uj"

var ProgramKey = common.MustPubkey(ProgramID)

var (
	ixBuyExactIn   = []byte{250, 234, 13, 123, 213, 156, 19, 236}
	ixBuyExactOut  = []byte{24, 211, 116, 40, 105, 3, 153, 56}
	ixSellExactIn  = []byte{149, 39, 222, 155, 211, 124, 152, 26}
	ixSellExactOut = []byte{95, 200, 71, 34, 8, 9, 11, 166}
	ixInitialize   = []byte{175, 175, 109, 31, 13, 152, 155, 237}
	ixInitializeV2 = []byte{67, 153, 175, 39, 218, 16, 38, 32}
	ixInitialize22 = []byte{37, 190, 126, 222, 44, 154, 171, 17}
)

var (
	acctPoolState    = []byte{247, 237, 227, 245, 215, 195, 222, 70}
	acctGlobalConfig = []byte{149, 8, 156, 202, 160, 252, 176, 217}
)

// TradeEvent is a launchpad buy or sell in either exact-in or exact-out form.
// Amount carries the exact side; Limit is the user's slippage bound on the
// other side.
type TradeEvent struct {
	events.Metadata
	Payer          common.Pubkey `json:"payer"`
	GlobalConfig   common.Pubkey `json:"global_config"`
	PlatformConfig common.Pubkey `json:"platform_config"`
	PoolState      common.Pubkey `json:"pool_state"`
	UserBaseToken  common.Pubkey `json:"user_base_token"`
	UserQuoteToken common.Pubkey `json:"user_quote_token"`
	BaseVault      common.Pubkey `json:"base_vault"`
	QuoteVault     common.Pubkey `json:"quote_vault"`
	BaseMint       common.Pubkey `json:"base_mint"`
	QuoteMint      common.Pubkey `json:"quote_mint"`
	IsBuy          bool          `json:"is_buy"`
	IsExactIn      bool          `json:"is_exact_in"`
	Amount         uint64        `json:"amount"`
	Limit          uint64        `json:"limit"`
	ShareFeeRate   uint64        `json:"share_fee_rate"`
}

// InitializeEvent is a new launchpad pool creation. Name, Symbol, and URI
// come from the embedded mint params. The V2 and Token-2022 variants share
// this layout and are distinguished by the metadata event type.
type InitializeEvent struct {
	events.Metadata
	Payer          common.Pubkey `json:"payer"`
	Creator        common.Pubkey `json:"creator"`
	GlobalConfig   common.Pubkey `json:"global_config"`
	PlatformConfig common.Pubkey `json:"platform_config"`
	PoolState      common.Pubkey `json:"pool_state"`
	BaseMint       common.Pubkey `json:"base_mint"`
	QuoteMint      common.Pubkey `json:"quote_mint"`
	BaseVault      common.Pubkey `json:"base_vault"`
	QuoteVault     common.Pubkey `json:"quote_vault"`
	Decimals       uint8         `json:"decimals"`
	Name           string        `json:"name"`
	Symbol         string        `json:"symbol"`
	URI            string        `json:"uri"`
}

// PoolStateAccount is the decoded launchpad pool state.
type PoolStateAccount struct {
	events.Metadata
	Pubkey          common.Pubkey `json:"pubkey"`
	Lamports        uint64        `json:"lamports"`
	Status          uint8         `json:"status"`
	BaseDecimals    uint8         `json:"base_decimals"`
	QuoteDecimals   uint8         `json:"quote_decimals"`
	GlobalConfig    common.Pubkey `json:"global_config"`
	PlatformConfig  common.Pubkey `json:"platform_config"`
	BaseMint        common.Pubkey `json:"base_mint"`
	QuoteMint       common.Pubkey `json:"quote_mint"`
	BaseVault       common.Pubkey `json:"base_vault"`
	QuoteVault      common.Pubkey `json:"quote_vault"`
	TotalBaseSell   uint64        `json:"total_base_sell"`
	VirtualBase     uint64        `json:"virtual_base"`
	VirtualQuote    uint64        `json:"virtual_quote"`
	RealBase        uint64        `json:"real_base"`
	RealQuote       uint64        `json:"real_quote"`
}

// GlobalConfigAccount is the program-wide launchpad configuration.
type GlobalConfigAccount struct {
	events.Metadata
	Pubkey         common.Pubkey `json:"pubkey"`
	Lamports       uint64        `json:"lamports"`
	Epoch          uint64        `json:"epoch"`
	CurveType      uint8         `json:"curve_type"`
	Index          uint16        `json:"index"`
	TradeFeeRate   uint64        `json:"trade_fee_rate"`
	QuoteMint      common.Pubkey `json:"quote_mint"`
}
