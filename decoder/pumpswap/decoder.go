package pumpswap

import (
	"bytes"

	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

const (
	poolAccountMinSize   = 1 + 2 + 32*6 + 8
	globalConfigMinSize  = 32 + 8 + 8 + 1
)

// DecodeInstruction decodes one outer PumpSwap instruction. data carries the
// 8-byte discriminator; accounts are the instruction's resolved account keys.
func DecodeInstruction(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	if len(data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, rest := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, ixBuy):
		return decodeTrade(rest, accounts, meta, true)
	case bytes.Equal(disc, ixSell):
		return decodeTrade(rest, accounts, meta, false)
	case bytes.Equal(disc, ixCreatePool):
		return decodeCreatePool(rest, accounts, meta)
	case bytes.Equal(disc, ixDeposit):
		return decodeLiquidity(rest, accounts, meta, true)
	case bytes.Equal(disc, ixWithdraw):
		return decodeLiquidity(rest, accounts, meta, false)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

// DecodeAccount decodes PumpSwap account state; data starts with the 8-byte
// account discriminator.
func DecodeAccount(info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	if len(info.Data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, body := info.Data[:8], info.Data[8:]
	switch {
	case bytes.Equal(disc, acctPool):
		return decodePool(body, info, meta)
	case bytes.Equal(disc, acctGlobalConfig):
		return decodeGlobalConfig(body, info, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

func decodeTrade(data []byte, accounts []common.Pubkey, meta events.Metadata, isBuy bool) (events.DexEvent, error) {
	if isBuy {
		meta.Type = events.TypePumpSwapBuy
	} else {
		meta.Type = events.TypePumpSwapSell
	}
	if len(accounts) < 13 {
		return nil, common.Malformedf("pumpswap trade", "need 13 accounts, got %d", len(accounts))
	}
	amount, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("pumpswap trade", len(data), 8)
	}
	limit, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("pumpswap trade", len(data), 16)
	}
	return &TradeEvent{
		Metadata:             meta,
		Pool:                 accounts[0],
		User:                 accounts[1],
		BaseMint:             accounts[3],
		QuoteMint:            accounts[4],
		IsBuy:                isBuy,
		BaseAmount:           amount,
		QuoteLimit:           limit,
		ProtocolFeeRecipient: accounts[9],
	}, nil
}

func decodeCreatePool(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypePumpSwapCreatePool
	if len(accounts) < 11 {
		return nil, common.Malformedf("pumpswap create_pool", "need 11 accounts, got %d", len(accounts))
	}
	index, ok := common.U16(data, 0)
	if !ok {
		return nil, common.Truncated("pumpswap create_pool", len(data), 2)
	}
	baseIn, ok := common.U64(data, 2)
	if !ok {
		return nil, common.Truncated("pumpswap create_pool", len(data), 10)
	}
	quoteIn, ok := common.U64(data, 10)
	if !ok {
		return nil, common.Truncated("pumpswap create_pool", len(data), 18)
	}
	coinCreator, _ := common.ReadPubkey(data, 18) // absent on old layouts

	return &CreatePoolEvent{
		Metadata:      meta,
		Index:         index,
		Pool:          accounts[0],
		Creator:       accounts[2],
		BaseMint:      accounts[3],
		QuoteMint:     accounts[4],
		LpMint:        accounts[5],
		BaseAmountIn:  baseIn,
		QuoteAmountIn: quoteIn,
		CoinCreator:   coinCreator,
	}, nil
}

func decodeLiquidity(data []byte, accounts []common.Pubkey, meta events.Metadata, isDeposit bool) (events.DexEvent, error) {
	if isDeposit {
		meta.Type = events.TypePumpSwapDeposit
	} else {
		meta.Type = events.TypePumpSwapWithdraw
	}
	if len(accounts) < 11 {
		return nil, common.Malformedf("pumpswap liquidity", "need 11 accounts, got %d", len(accounts))
	}
	lpAmount, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("pumpswap liquidity", len(data), 8)
	}
	baseAmount, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("pumpswap liquidity", len(data), 16)
	}
	quoteAmount, ok := common.U64(data, 16)
	if !ok {
		return nil, common.Truncated("pumpswap liquidity", len(data), 24)
	}
	return &LiquidityEvent{
		Metadata:      meta,
		Pool:          accounts[0],
		User:          accounts[2],
		BaseMint:      accounts[3],
		QuoteMint:     accounts[4],
		LpTokenAmount: lpAmount,
		BaseAmount:    baseAmount,
		QuoteAmount:   quoteAmount,
		IsDeposit:     isDeposit,
	}, nil
}

func decodePool(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountPumpSwapPool
	if len(data) < poolAccountMinSize {
		return nil, common.Truncated("pumpswap pool", len(data), poolAccountMinSize)
	}
	// pool_bump u8, index u16, then the key block and lp_supply.
	index, _ := common.U16(data, 1)
	creator, _ := common.ReadPubkey(data, 3)
	baseMint, _ := common.ReadPubkey(data, 35)
	quoteMint, _ := common.ReadPubkey(data, 67)
	lpMint, _ := common.ReadPubkey(data, 99)
	baseAcct, _ := common.ReadPubkey(data, 131)
	quoteAcct, _ := common.ReadPubkey(data, 163)
	lpSupply, _ := common.U64(data, 195)

	return &PoolAccount{
		Metadata:              meta,
		Pubkey:                info.Pubkey,
		Lamports:              info.Lamports,
		Index:                 index,
		Creator:               creator,
		BaseMint:              baseMint,
		QuoteMint:             quoteMint,
		LpMint:                lpMint,
		PoolBaseTokenAccount:  baseAcct,
		PoolQuoteTokenAccount: quoteAcct,
		LpSupply:              lpSupply,
	}, nil
}

func decodeGlobalConfig(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountPumpSwapGlobal
	if len(data) < globalConfigMinSize {
		return nil, common.Truncated("pumpswap global_config", len(data), globalConfigMinSize)
	}
	admin, _ := common.ReadPubkey(data, 0)
	lpFeeBps, _ := common.U64(data, 32)
	protocolFeeBps, _ := common.U64(data, 40)
	disableFlags, _ := common.U8(data, 48)

	return &GlobalConfigAccount{
		Metadata:               meta,
		Pubkey:                 info.Pubkey,
		Lamports:               info.Lamports,
		Admin:                  admin,
		LpFeeBasisPoints:       lpFeeBps,
		ProtocolFeeBasisPoints: protocolFeeBps,
		DisableFlags:           disableFlags,
	}, nil
}
