package raydiumcpmm

import (
	"bytes"

	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// Borsh struct sizes, discriminator excluded.
const (
	ammConfigSize = 236
	poolStateSize = 629
)

// DecodeInstruction decodes one outer CP-Swap instruction. data carries the
// 8-byte discriminator; accounts are the instruction's resolved account keys.
func DecodeInstruction(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	if len(data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, rest := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, ixSwapBaseInput):
		return decodeSwap(rest, accounts, meta, true)
	case bytes.Equal(disc, ixSwapBaseOutput):
		return decodeSwap(rest, accounts, meta, false)
	case bytes.Equal(disc, ixDeposit):
		return decodeLiquidity(rest, accounts, meta, true)
	case bytes.Equal(disc, ixWithdraw):
		return decodeLiquidity(rest, accounts, meta, false)
	case bytes.Equal(disc, ixInitialize):
		return decodeInitialize(rest, accounts, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

// DecodeAccount decodes CP-Swap account state; data starts with the 8-byte
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

func decodeSwap(data []byte, accounts []common.Pubkey, meta events.Metadata, baseInput bool) (events.DexEvent, error) {
	if baseInput {
		meta.Type = events.TypeRaydiumCpmmSwapBaseInput
	} else {
		meta.Type = events.TypeRaydiumCpmmSwapBaseOutput
	}
	if len(accounts) < 13 {
		return nil, common.Malformedf("cpmm swap", "need 13 accounts, got %d", len(accounts))
	}
	amount, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("cpmm swap", len(data), 8)
	}
	limit, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("cpmm swap", len(data), 16)
	}
	return &SwapEvent{
		Metadata:           meta,
		Payer:              accounts[0],
		Authority:          accounts[1],
		AmmConfig:          accounts[2],
		PoolState:          accounts[3],
		InputTokenAccount:  accounts[4],
		OutputTokenAccount: accounts[5],
		InputVault:         accounts[6],
		OutputVault:        accounts[7],
		InputMint:          accounts[10],
		OutputMint:         accounts[11],
		ObservationState:   accounts[12],
		BaseInput:          baseInput,
		Amount:             amount,
		Limit:              limit,
	}, nil
}

func decodeLiquidity(data []byte, accounts []common.Pubkey, meta events.Metadata, isDeposit bool) (events.DexEvent, error) {
	need := 14
	if isDeposit {
		meta.Type = events.TypeRaydiumCpmmDeposit
		need = 13
	} else {
		meta.Type = events.TypeRaydiumCpmmWithdraw
	}
	if len(accounts) < need {
		return nil, common.Malformedf("cpmm liquidity", "need %d accounts, got %d", need, len(accounts))
	}
	lpAmount, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("cpmm liquidity", len(data), 8)
	}
	amount0, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("cpmm liquidity", len(data), 16)
	}
	amount1, ok := common.U64(data, 16)
	if !ok {
		return nil, common.Truncated("cpmm liquidity", len(data), 24)
	}
	return &LiquidityEvent{
		Metadata:      meta,
		Owner:         accounts[0],
		Authority:     accounts[1],
		PoolState:     accounts[2],
		LpTokenAmount: lpAmount,
		Token0Amount:  amount0,
		Token1Amount:  amount1,
		IsDeposit:     isDeposit,
	}, nil
}

func decodeInitialize(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeRaydiumCpmmInitialize
	if len(accounts) < 20 {
		return nil, common.Malformedf("cpmm initialize", "need 20 accounts, got %d", len(accounts))
	}
	init0, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("cpmm initialize", len(data), 8)
	}
	init1, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("cpmm initialize", len(data), 16)
	}
	openTime, ok := common.U64(data, 16)
	if !ok {
		return nil, common.Truncated("cpmm initialize", len(data), 24)
	}
	return &InitializeEvent{
		Metadata:    meta,
		Creator:     accounts[0],
		AmmConfig:   accounts[1],
		Authority:   accounts[2],
		PoolState:   accounts[3],
		Token0Mint:  accounts[4],
		Token1Mint:  accounts[5],
		LpMint:      accounts[6],
		InitAmount0: init0,
		InitAmount1: init1,
		OpenTime:    openTime,
	}, nil
}

func decodeAmmConfig(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountRaydiumCpmmConfig
	if len(data) < ammConfigSize {
		return nil, common.Truncated("cpmm amm_config", len(data), ammConfigSize)
	}
	index, _ := common.U16(data, 2)
	tradeFeeRate, _ := common.U64(data, 4)
	protocolFeeRate, _ := common.U64(data, 12)
	fundFeeRate, _ := common.U64(data, 20)
	createPoolFee, _ := common.U64(data, 28)
	protocolOwner, _ := common.ReadPubkey(data, 36)
	fundOwner, _ := common.ReadPubkey(data, 68)

	return &AmmConfigAccount{
		Metadata:        meta,
		Pubkey:          info.Pubkey,
		Lamports:        info.Lamports,
		Index:           index,
		TradeFeeRate:    tradeFeeRate,
		ProtocolFeeRate: protocolFeeRate,
		FundFeeRate:     fundFeeRate,
		CreatePoolFee:   createPoolFee,
		ProtocolOwner:   protocolOwner,
		FundOwner:       fundOwner,
	}, nil
}

func decodePoolState(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountRaydiumCpmmPool
	if len(data) < poolStateSize {
		return nil, common.Truncated("cpmm pool_state", len(data), poolStateSize)
	}
	ammConfig, _ := common.ReadPubkey(data, 0)
	poolCreator, _ := common.ReadPubkey(data, 32)
	vault0, _ := common.ReadPubkey(data, 64)
	vault1, _ := common.ReadPubkey(data, 96)
	lpMint, _ := common.ReadPubkey(data, 128)
	mint0, _ := common.ReadPubkey(data, 160)
	mint1, _ := common.ReadPubkey(data, 192)
	status, _ := common.U8(data, 321)
	lpSupply, _ := common.U64(data, 325)
	openTime, _ := common.U64(data, 365)

	return &PoolStateAccount{
		Metadata:    meta,
		Pubkey:      info.Pubkey,
		Lamports:    info.Lamports,
		AmmConfig:   ammConfig,
		PoolCreator: poolCreator,
		Token0Vault: vault0,
		Token1Vault: vault1,
		LpMint:      lpMint,
		Token0Mint:  mint0,
		Token1Mint:  mint1,
		Status:      status,
		LpSupply:    lpSupply,
		OpenTime:    openTime,
	}, nil
}
