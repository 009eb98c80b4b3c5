package raydiumammv4

import (
	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

// Raw struct size; the account carries no discriminator.
const ammInfoSize = 752

// AmmInfo field offsets: sixteen u64 header fields, the fee table, then the
// output data block before the key block.
const (
	ammKeysOffset     = 16*8 + 8*8 + (8*8 + 16*2 + 8 + 16*2 + 8)
	ammLpAmountOffset = ammKeysOffset + 32*12
)

// DecodeInstruction decodes one outer AMM v4 instruction. data carries the
// single-byte discriminator; accounts are the instruction's resolved account
// keys.
func DecodeInstruction(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	if len(data) < 1 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, rest := data[0], data[1:]
	switch disc {
	case ixSwapBaseIn:
		return decodeSwap(rest, accounts, meta, true)
	case ixSwapBaseOut:
		return decodeSwap(rest, accounts, meta, false)
	case ixDeposit:
		return decodeDeposit(rest, accounts, meta)
	case ixWithdraw:
		return decodeWithdraw(rest, accounts, meta)
	case ixInitialize2:
		return decodeInitialize2(rest, accounts, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

// DecodeAccount decodes an AmmInfo state account, recognized by size since
// the layout has no discriminator.
func DecodeAccount(info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	if len(info.Data) < ammInfoSize {
		return nil, common.ErrUnknownDiscriminator
	}
	return decodeAmmInfo(info.Data, info, meta)
}

func decodeSwap(data []byte, accounts []common.Pubkey, meta events.Metadata, baseIn bool) (events.DexEvent, error) {
	if baseIn {
		meta.Type = events.TypeRaydiumAmmV4SwapBaseIn
	} else {
		meta.Type = events.TypeRaydiumAmmV4SwapBaseOut
	}
	if len(accounts) < 17 {
		return nil, common.Malformedf("ammv4 swap", "need 17 accounts, got %d", len(accounts))
	}
	amount, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("ammv4 swap", len(data), 8)
	}
	limit, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("ammv4 swap", len(data), 16)
	}
	// The 17-account form omits target_orders; shift the tail indices down.
	shift := 0
	if len(accounts) == 17 {
		shift = 1
	}
	return &SwapEvent{
		Metadata:        meta,
		Amm:             accounts[1],
		PoolCoinVault:   accounts[5-shift],
		PoolPcVault:     accounts[6-shift],
		UserSourceToken: accounts[15-shift],
		UserDestToken:   accounts[16-shift],
		UserOwner:       accounts[17-shift],
		BaseIn:          baseIn,
		Amount:          amount,
		Limit:           limit,
	}, nil
}

func decodeDeposit(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeRaydiumAmmV4Deposit
	if len(accounts) < 14 {
		return nil, common.Malformedf("ammv4 deposit", "need 14 accounts, got %d", len(accounts))
	}
	maxCoin, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("ammv4 deposit", len(data), 8)
	}
	maxPc, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("ammv4 deposit", len(data), 16)
	}
	baseSide, ok := common.U64(data, 16)
	if !ok {
		return nil, common.Truncated("ammv4 deposit", len(data), 24)
	}
	return &DepositEvent{
		Metadata:      meta,
		Amm:           accounts[1],
		MaxCoinAmount: maxCoin,
		MaxPcAmount:   maxPc,
		BaseSide:      baseSide,
	}, nil
}

func decodeWithdraw(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeRaydiumAmmV4Withdraw
	if len(accounts) < 22 {
		return nil, common.Malformedf("ammv4 withdraw", "need 22 accounts, got %d", len(accounts))
	}
	amount, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("ammv4 withdraw", len(data), 8)
	}
	return &WithdrawEvent{
		Metadata: meta,
		Amm:      accounts[1],
		Amount:   amount,
	}, nil
}

func decodeInitialize2(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeRaydiumAmmV4Initialize2
	if len(accounts) < 21 {
		return nil, common.Malformedf("ammv4 initialize2", "need 21 accounts, got %d", len(accounts))
	}
	nonce, ok := common.U8(data, 0)
	if !ok {
		return nil, common.Truncated("ammv4 initialize2", len(data), 1)
	}
	openTime, ok := common.U64(data, 1)
	if !ok {
		return nil, common.Truncated("ammv4 initialize2", len(data), 9)
	}
	initPc, ok := common.U64(data, 9)
	if !ok {
		return nil, common.Truncated("ammv4 initialize2", len(data), 17)
	}
	initCoin, ok := common.U64(data, 17)
	if !ok {
		return nil, common.Truncated("ammv4 initialize2", len(data), 25)
	}
	return &Initialize2Event{
		Metadata:       meta,
		Amm:            accounts[4],
		LpMint:         accounts[7],
		CoinMint:       accounts[8],
		PcMint:         accounts[9],
		Nonce:          nonce,
		OpenTime:       openTime,
		InitPcAmount:   initPc,
		InitCoinAmount: initCoin,
	}, nil
}

func decodeAmmInfo(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountRaydiumAmmV4Info
	status, _ := common.U64(data, 0)
	nonce, _ := common.U64(data, 8)
	coinDecimals, _ := common.U64(data, 32)
	pcDecimals, _ := common.U64(data, 40)
	coinLotSize, _ := common.U64(data, 88)
	pcLotSize, _ := common.U64(data, 96)
	// pool_open_time is the fifth u64 of the output data block.
	poolOpenTime, _ := common.U64(data, 16*8+8*8+4*8)
	tokenCoin, _ := common.ReadPubkey(data, ammKeysOffset)
	tokenPc, _ := common.ReadPubkey(data, ammKeysOffset+32)
	coinMint, _ := common.ReadPubkey(data, ammKeysOffset+64)
	pcMint, _ := common.ReadPubkey(data, ammKeysOffset+96)
	lpMint, _ := common.ReadPubkey(data, ammKeysOffset+128)
	openOrders, _ := common.ReadPubkey(data, ammKeysOffset+160)
	market, _ := common.ReadPubkey(data, ammKeysOffset+192)
	ammOwner, _ := common.ReadPubkey(data, ammKeysOffset+352)
	lpAmount, _ := common.U64(data, ammLpAmountOffset)

	return &AmmInfoAccount{
		Metadata:     meta,
		Pubkey:       info.Pubkey,
		Lamports:     info.Lamports,
		Status:       status,
		Nonce:        nonce,
		CoinDecimals: coinDecimals,
		PcDecimals:   pcDecimals,
		CoinLotSize:  coinLotSize,
		PcLotSize:    pcLotSize,
		PoolOpenTime: poolOpenTime,
		TokenCoin:    tokenCoin,
		TokenPc:      tokenPc,
		CoinMint:     coinMint,
		PcMint:       pcMint,
		LpMint:       lpMint,
		OpenOrders:   openOrders,
		Market:       market,
		AmmOwner:     ammOwner,
		LpAmount:     lpAmount,
	}, nil
}
