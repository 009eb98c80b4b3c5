package bonk

import (
	"bytes"

	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// Borsh struct sizes, discriminator excluded.
const (
	poolStateSize    = 8 + 5 + 8*10 + 8*5 + 32*7
	globalConfigSize = 8 + 1 + 2 + 8*8 + 32*5
)

// Pool state field offsets past the fixed header (epoch u64 plus five u8
// flags).
const poolKeysOffset = 13 + 8*10 + 8*5

// DecodeInstruction decodes one outer Bonk launchpad instruction. data
// carries the 8-byte discriminator; accounts are the instruction's resolved
// account keys.
func DecodeInstruction(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	if len(data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, rest := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, ixBuyExactIn):
		return decodeTrade(rest, accounts, meta, events.TypeBonkBuyExactIn, true, true)
	case bytes.Equal(disc, ixBuyExactOut):
		return decodeTrade(rest, accounts, meta, events.TypeBonkBuyExactOut, true, false)
	case bytes.Equal(disc, ixSellExactIn):
		return decodeTrade(rest, accounts, meta, events.TypeBonkSellExactIn, false, true)
	case bytes.Equal(disc, ixSellExactOut):
		return decodeTrade(rest, accounts, meta, events.TypeBonkSellExactOut, false, false)
	case bytes.Equal(disc, ixInitialize):
		return decodeInitialize(rest, accounts, meta, events.TypeBonkInitialize)
	case bytes.Equal(disc, ixInitializeV2):
		return decodeInitialize(rest, accounts, meta, events.TypeBonkInitializeV2)
	case bytes.Equal(disc, ixInitialize22):
		return decodeInitialize(rest, accounts, meta, events.TypeBonkInitializeToken2022)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

// DecodeAccount decodes Bonk launchpad account state; data starts with the
// 8-byte account discriminator.
func DecodeAccount(info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	if len(info.Data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, body := info.Data[:8], info.Data[8:]
	switch {
	case bytes.Equal(disc, acctPoolState):
		return decodePoolState(body, info, meta)
	case bytes.Equal(disc, acctGlobalConfig):
		return decodeGlobalConfig(body, info, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

func decodeTrade(data []byte, accounts []common.Pubkey, meta events.Metadata, typ events.EventType, isBuy, isExactIn bool) (events.DexEvent, error) {
	meta.Type = typ
	if len(accounts) < 18 {
		return nil, common.Malformedf("bonk trade", "need 18 accounts, got %d", len(accounts))
	}
	amount, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("bonk trade", len(data), 8)
	}
	limit, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("bonk trade", len(data), 16)
	}
	shareFeeRate, _ := common.U64(data, 16)

	return &TradeEvent{
		Metadata:       meta,
		Payer:          accounts[0],
		GlobalConfig:   accounts[2],
		PlatformConfig: accounts[3],
		PoolState:      accounts[4],
		UserBaseToken:  accounts[5],
		UserQuoteToken: accounts[6],
		BaseVault:      accounts[7],
		QuoteVault:     accounts[8],
		BaseMint:       accounts[9],
		QuoteMint:      accounts[10],
		IsBuy:          isBuy,
		IsExactIn:      isExactIn,
		Amount:         amount,
		Limit:          limit,
		ShareFeeRate:   shareFeeRate,
	}, nil
}

func decodeInitialize(data []byte, accounts []common.Pubkey, meta events.Metadata, typ events.EventType) (events.DexEvent, error) {
	meta.Type = typ
	if len(accounts) < 10 {
		return nil, common.Malformedf("bonk initialize", "need 10 accounts, got %d", len(accounts))
	}
	// Mint params: decimals u8, then name/symbol/uri strings. The curve and
	// vesting params that follow are not surfaced.
	decimals, ok := common.U8(data, 0)
	if !ok {
		return nil, common.Truncated("bonk initialize", len(data), 1)
	}
	off := 1
	name, n, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("bonk initialize", len(data), off+4)
	}
	off += n
	symbol, n, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("bonk initialize", len(data), off+4)
	}
	off += n
	uri, _, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("bonk initialize", len(data), off+4)
	}

	return &InitializeEvent{
		Metadata:       meta,
		Payer:          accounts[0],
		Creator:        accounts[1],
		GlobalConfig:   accounts[2],
		PlatformConfig: accounts[3],
		PoolState:      accounts[5],
		BaseMint:       accounts[6],
		QuoteMint:      accounts[7],
		BaseVault:      accounts[8],
		QuoteVault:     accounts[9],
		Decimals:       decimals,
		Name:           name,
		Symbol:         symbol,
		URI:            uri,
	}, nil
}

func decodePoolState(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountBonkPoolState
	if len(data) < poolStateSize {
		return nil, common.Truncated("bonk pool_state", len(data), poolStateSize)
	}
	status, _ := common.U8(data, 9)
	baseDecimals, _ := common.U8(data, 10)
	quoteDecimals, _ := common.U8(data, 11)
	totalBaseSell, _ := common.U64(data, 21)
	virtualBase, _ := common.U64(data, 29)
	virtualQuote, _ := common.U64(data, 37)
	realBase, _ := common.U64(data, 45)
	realQuote, _ := common.U64(data, 53)
	globalConfig, _ := common.ReadPubkey(data, poolKeysOffset)
	platformConfig, _ := common.ReadPubkey(data, poolKeysOffset+32)
	baseMint, _ := common.ReadPubkey(data, poolKeysOffset+64)
	quoteMint, _ := common.ReadPubkey(data, poolKeysOffset+96)
	baseVault, _ := common.ReadPubkey(data, poolKeysOffset+128)
	quoteVault, _ := common.ReadPubkey(data, poolKeysOffset+160)

	return &PoolStateAccount{
		Metadata:       meta,
		Pubkey:         info.Pubkey,
		Lamports:       info.Lamports,
		Status:         status,
		BaseDecimals:   baseDecimals,
		QuoteDecimals:  quoteDecimals,
		GlobalConfig:   globalConfig,
		PlatformConfig: platformConfig,
		BaseMint:       baseMint,
		QuoteMint:      quoteMint,
		BaseVault:      baseVault,
		QuoteVault:     quoteVault,
		TotalBaseSell:  totalBaseSell,
		VirtualBase:    virtualBase,
		VirtualQuote:   virtualQuote,
		RealBase:       realBase,
		RealQuote:      realQuote,
	}, nil
}

func decodeGlobalConfig(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountBonkGlobalConfig
	if len(data) < globalConfigSize {
		return nil, common.Truncated("bonk global_config", len(data), globalConfigSize)
	}
	epoch, _ := common.U64(data, 0)
	curveType, _ := common.U8(data, 8)
	index, _ := common.U16(data, 9)
	tradeFeeRate, _ := common.U64(data, 19)
	quoteMint, _ := common.ReadPubkey(data, 75)

	return &GlobalConfigAccount{
		Metadata:     meta,
		Pubkey:       info.Pubkey,
		Lamports:     info.Lamports,
		Epoch:        epoch,
		CurveType:    curveType,
		Index:        index,
		TradeFeeRate: tradeFeeRate,
		QuoteMint:    quoteMint,
	}, nil
}
