package raydiumclmm

import (
	"bytes"

	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// Borsh struct sizes, discriminator excluded.
const (
	ammConfigSize = 1 + 2 + 32 + 4 + 4 + 2 + 4 + 4 + 32 + 8*3
	poolStateSize = 1536
)

// Pool state field offsets past the bump byte and seven pubkeys.
const (
	poolDecimalsOffset = 1 + 32*7
	poolStatusOffset   = 381
	poolOpenTimeOffset = 1072
)

// DecodeInstruction decodes one outer CLMM instruction. data carries the
// 8-byte discriminator; accounts are the instruction's resolved account keys.
func DecodeInstruction(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	if len(data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, rest := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, ixSwap):
		return decodeSwap(rest, accounts, meta, false)
	case bytes.Equal(disc, ixSwapV2):
		return decodeSwap(rest, accounts, meta, true)
	case bytes.Equal(disc, ixCreatePool):
		return decodeCreatePool(rest, accounts, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

// DecodeAccount decodes CLMM account state; data starts with the 8-byte
// account discriminator.
func DecodeAccount(info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	if len(info.Data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, body := info.Data[:8], info.Data[8:]
	switch {
	case bytes.Equal(disc, acctAmmConfig):
		return decodeAmmConfig(body, info, meta)
	case bytes.Equal(disc, acctPoolState):
		return decodePoolState(body, info, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

func decodeSwap(data []byte, accounts []common.Pubkey, meta events.Metadata, isV2 bool) (events.DexEvent, error) {
	need := 10
	if isV2 {
		meta.Type = events.TypeRaydiumClmmSwapV2
		need = 13
	} else {
		meta.Type = events.TypeRaydiumClmmSwap
	}
	if len(accounts) < need {
		return nil, common.Malformedf("clmm swap", "need %d accounts, got %d", need, len(accounts))
	}
	if len(data) < 33 {
		return nil, common.Truncated("clmm swap", len(data), 33)
	}
	amount, _ := common.U64(data, 0)
	threshold, _ := common.U64(data, 8)
	sqrtPriceLimit, _ := common.ReadU128(data, 16)
	isBaseInput, _ := common.Bool(data, 32)

	ev := &SwapEvent{
		Metadata:             meta,
		Payer:                accounts[0],
		AmmConfig:            accounts[1],
		PoolState:            accounts[2],
		InputTokenAccount:    accounts[3],
		OutputTokenAccount:   accounts[4],
		InputVault:           accounts[5],
		OutputVault:          accounts[6],
		ObservationState:     accounts[7],
		TickArray:            accounts[9],
		Amount:               amount,
		OtherAmountThreshold: threshold,
		SqrtPriceLimitX64:    sqrtPriceLimit,
		IsBaseInput:          isBaseInput,
		IsV2:                 isV2,
	}
	if isV2 {
		ev.InputVaultMint = accounts[11]
		ev.OutputVaultMint = accounts[12]
	}
	return ev, nil
}

func decodeCreatePool(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeRaydiumClmmCreatePool
	if len(accounts) < 13 {
		return nil, common.Malformedf("clmm create_pool", "need 13 accounts, got %d", len(accounts))
	}
	if len(data) < 24 {
		return nil, common.Truncated("clmm create_pool", len(data), 24)
	}
	sqrtPrice, _ := common.ReadU128(data, 0)
	openTime, _ := common.U64(data, 16)

	return &CreatePoolEvent{
		Metadata:     meta,
		PoolCreator:  accounts[0],
		AmmConfig:    accounts[1],
		PoolState:    accounts[2],
		TokenMint0:   accounts[3],
		TokenMint1:   accounts[4],
		TokenVault0:  accounts[5],
		TokenVault1:  accounts[6],
		SqrtPriceX64: sqrtPrice,
		OpenTime:     openTime,
	}, nil
}

func decodeAmmConfig(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountRaydiumClmmConfig
	if len(data) < ammConfigSize {
		return nil, common.Truncated("clmm amm_config", len(data), ammConfigSize)
	}
	index, _ := common.U16(data, 1)
	owner, _ := common.ReadPubkey(data, 3)
	protocolFeeRate, _ := common.U32(data, 35)
	tradeFeeRate, _ := common.U32(data, 39)
	tickSpacing, _ := common.U16(data, 43)
	fundFeeRate, _ := common.U32(data, 45)

	return &AmmConfigAccount{
		Metadata:        meta,
		Pubkey:          info.Pubkey,
		Lamports:        info.Lamports,
		Index:           index,
		Owner:           owner,
		ProtocolFeeRate: protocolFeeRate,
		TradeFeeRate:    tradeFeeRate,
		TickSpacing:     tickSpacing,
		FundFeeRate:     fundFeeRate,
	}, nil
}

func decodePoolState(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountRaydiumClmmPool
	if len(data) < poolStateSize {
		return nil, common.Truncated("clmm pool_state", len(data), poolStateSize)
	}
	ammConfig, _ := common.ReadPubkey(data, 1)
	mint0, _ := common.ReadPubkey(data, 65)
	mint1, _ := common.ReadPubkey(data, 97)
	vault0, _ := common.ReadPubkey(data, 129)
	vault1, _ := common.ReadPubkey(data, 161)
	dec0, _ := common.U8(data, poolDecimalsOffset)
	dec1, _ := common.U8(data, poolDecimalsOffset+1)
	tickSpacing, _ := common.U16(data, poolDecimalsOffset+2)
	liquidity, _ := common.ReadU128(data, poolDecimalsOffset+4)
	sqrtPrice, _ := common.ReadU128(data, poolDecimalsOffset+20)
	tickCurrent, _ := common.I32(data, poolDecimalsOffset+36)
	status, _ := common.U8(data, poolStatusOffset)
	openTime, _ := common.U64(data, poolOpenTimeOffset)

	return &PoolStateAccount{
		Metadata:      meta,
		Pubkey:        info.Pubkey,
		Lamports:      info.Lamports,
		AmmConfig:     ammConfig,
		TokenMint0:    mint0,
		TokenMint1:    mint1,
		TokenVault0:   vault0,
		TokenVault1:   vault1,
		MintDecimals0: dec0,
		MintDecimals1: dec1,
		TickSpacing:   tickSpacing,
		Liquidity:     liquidity,
		SqrtPriceX64:  sqrtPrice,
		TickCurrent:   tickCurrent,
		Status:        status,
		OpenTime:      openTime,
	}, nil
}
