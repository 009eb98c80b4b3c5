package pumpfun

import (
	"bytes"

	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

const (
	tradeEventLogSize   = 250
	migrateEventLogSize = 160
	bondingCurveSize    = 8*5 + 1 + 32 + 1
	globalMinSize       = 1 + 32 + 32 + 8*5
)

// DecodeInstruction decodes one outer pump.fun instruction. data carries the
// 8-byte discriminator; accounts are the instruction's resolved account keys.
func DecodeInstruction(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	if len(data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, rest := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, ixCreateToken):
		return decodeCreateToken(rest, accounts, meta)
	case bytes.Equal(disc, ixBuy):
		return decodeTradeInstruction(rest, accounts, meta, true)
	case bytes.Equal(disc, ixSell):
		return decodeTradeInstruction(rest, accounts, meta, false)
	case bytes.Equal(disc, ixMigrate):
		return decodeMigrateInstruction(accounts, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

// DecodeInnerInstruction decodes a pump.fun CPI event log: the Anchor event
// prefix, an 8-byte event discriminator, then the borsh-encoded event body.
func DecodeInnerInstruction(data []byte, meta events.Metadata) (events.DexEvent, error) {
	if len(data) < 16 || !bytes.Equal(data[:8], common.AnchorEventPrefix) {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, body := data[8:16], data[16:]
	switch {
	case bytes.Equal(disc, evTrade):
		return decodeTradeLog(body, meta)
	case bytes.Equal(disc, evCreateToken):
		return decodeCreateTokenLog(body, meta)
	case bytes.Equal(disc, evMigrate):
		return decodeMigrateLog(body, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

// DecodeAccount decodes pump.fun account state; data starts with the 8-byte
// account discriminator.
func DecodeAccount(info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	if len(info.Data) < 8 {
		return nil, common.ErrUnknownDiscriminator
	}
	disc, body := info.Data[:8], info.Data[8:]
	switch {
	case bytes.Equal(disc, acctBondingCurve):
		return decodeBondingCurve(body, info, meta)
	case bytes.Equal(disc, acctGlobal):
		return decodeGlobal(body, info, meta)
	default:
		return nil, common.ErrUnknownDiscriminator
	}
}

func decodeCreateToken(data []byte, accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypePumpFunCreateToken
	if len(accounts) < 8 {
		return nil, common.Malformedf("pumpfun create", "need 8 accounts, got %d", len(accounts))
	}
	off := 0
	name, n, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("pumpfun create", len(data), off+4)
	}
	off += n
	symbol, n, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("pumpfun create", len(data), off+4)
	}
	off += n
	uri, n, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("pumpfun create", len(data), off+4)
	}
	off += n
	creator, _ := common.ReadPubkey(data, off) // absent on old layouts

	return &CreateTokenEvent{
		Metadata:     meta,
		Name:         name,
		Symbol:       symbol,
		URI:          uri,
		Creator:      creator,
		Mint:         accounts[0],
		BondingCurve: accounts[2],
		User:         accounts[7],
	}, nil
}

func decodeTradeInstruction(data []byte, accounts []common.Pubkey, meta events.Metadata, isBuy bool) (events.DexEvent, error) {
	if isBuy {
		meta.Type = events.TypePumpFunBuy
	} else {
		meta.Type = events.TypePumpFunSell
	}
	if len(accounts) < 7 {
		return nil, common.Malformedf("pumpfun trade", "need 7 accounts, got %d", len(accounts))
	}
	amount, ok := common.U64(data, 0)
	if !ok {
		return nil, common.Truncated("pumpfun trade", len(data), 8)
	}
	limit, ok := common.U64(data, 8)
	if !ok {
		return nil, common.Truncated("pumpfun trade", len(data), 16)
	}
	ev := &TradeEvent{
		Metadata:     meta,
		FeeRecipient: accounts[1],
		Mint:         accounts[2],
		BondingCurve: accounts[3],
		User:         accounts[6],
		Amount:       amount,
		IsBuy:        isBuy,
	}
	if isBuy {
		ev.MaxSolCost = limit
	} else {
		ev.MinSolOutput = limit
	}
	return ev, nil
}

func decodeMigrateInstruction(accounts []common.Pubkey, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypePumpFunMigrate
	if len(accounts) < 10 {
		return nil, common.Malformedf("pumpfun migrate", "need 10 accounts, got %d", len(accounts))
	}
	return &MigrateEvent{
		Metadata:     meta,
		User:         accounts[5],
		Mint:         accounts[2],
		BondingCurve: accounts[3],
		Pool:         accounts[9],
	}, nil
}

func decodeTradeLog(data []byte, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypePumpFunTrade
	if len(data) < tradeEventLogSize {
		return nil, common.Truncated("pumpfun trade event", len(data), tradeEventLogSize)
	}
	mint, _ := common.ReadPubkey(data, 0)
	solAmount, _ := common.U64(data, 32)
	tokenAmount, _ := common.U64(data, 40)
	isBuy, _ := common.Bool(data, 48)
	user, _ := common.ReadPubkey(data, 49)
	ts, _ := common.I64(data, 81)
	vSol, _ := common.U64(data, 89)
	vTok, _ := common.U64(data, 97)
	rSol, _ := common.U64(data, 105)
	rTok, _ := common.U64(data, 113)
	feeRecipient, _ := common.ReadPubkey(data, 121)
	feeBps, _ := common.U64(data, 153)
	fee, _ := common.U64(data, 161)
	creator, _ := common.ReadPubkey(data, 169)
	creatorFeeBps, _ := common.U64(data, 201)
	creatorFee, _ := common.U64(data, 209)
	trackVolume, _ := common.Bool(data, 217)
	curVolume, _ := common.U64(data, 234)
	lastUpdate, _ := common.I64(data, 242)

	return &TradeEvent{
		Metadata:              meta,
		Mint:                  mint,
		SolAmount:             solAmount,
		TokenAmount:           tokenAmount,
		IsBuy:                 isBuy,
		User:                  user,
		UnixTimestamp:         ts,
		VirtualSolReserves:    vSol,
		VirtualTokenReserves:  vTok,
		RealSolReserves:       rSol,
		RealTokenReserves:     rTok,
		FeeRecipient:          feeRecipient,
		FeeBasisPoints:        feeBps,
		Fee:                   fee,
		Creator:               creator,
		CreatorFeeBasisPoints: creatorFeeBps,
		CreatorFee:            creatorFee,
		TrackVolume:           trackVolume,
		CurrentSolVolume:      curVolume,
		LastUpdateUnixSeconds: lastUpdate,
	}, nil
}

func decodeCreateTokenLog(data []byte, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypePumpFunCreateToken
	off := 0
	name, n, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("pumpfun create event", len(data), off+4)
	}
	off += n
	symbol, n, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("pumpfun create event", len(data), off+4)
	}
	off += n
	uri, n, ok := common.ReadString(data, off)
	if !ok {
		return nil, common.Truncated("pumpfun create event", len(data), off+4)
	}
	off += n
	mint, ok := common.ReadPubkey(data, off)
	if !ok {
		return nil, common.Truncated("pumpfun create event", len(data), off+32)
	}
	curve, ok := common.ReadPubkey(data, off+32)
	if !ok {
		return nil, common.Truncated("pumpfun create event", len(data), off+64)
	}
	user, ok := common.ReadPubkey(data, off+64)
	if !ok {
		return nil, common.Truncated("pumpfun create event", len(data), off+96)
	}
	creator, _ := common.ReadPubkey(data, off+96)

	return &CreateTokenEvent{
		Metadata:     meta,
		Name:         name,
		Symbol:       symbol,
		URI:          uri,
		Mint:         mint,
		BondingCurve: curve,
		User:         user,
		Creator:      creator,
	}, nil
}

func decodeMigrateLog(data []byte, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypePumpFunMigrate
	if len(data) < migrateEventLogSize {
		return nil, common.Truncated("pumpfun migrate event", len(data), migrateEventLogSize)
	}
	user, _ := common.ReadPubkey(data, 0)
	mint, _ := common.ReadPubkey(data, 32)
	mintAmount, _ := common.U64(data, 64)
	solAmount, _ := common.U64(data, 72)
	fee, _ := common.U64(data, 80)
	curve, _ := common.ReadPubkey(data, 88)
	ts, _ := common.I64(data, 120)
	pool, _ := common.ReadPubkey(data, 128)

	return &MigrateEvent{
		Metadata:         meta,
		User:             user,
		Mint:             mint,
		MintAmount:       mintAmount,
		SolAmount:        solAmount,
		PoolMigrationFee: fee,
		BondingCurve:     curve,
		UnixTimestamp:    ts,
		Pool:             pool,
	}, nil
}

func decodeBondingCurve(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountPumpFunBondingCurve
	if len(data) < bondingCurveSize {
		return nil, common.Truncated("pumpfun bonding curve", len(data), bondingCurveSize)
	}
	vTok, _ := common.U64(data, 0)
	vSol, _ := common.U64(data, 8)
	rTok, _ := common.U64(data, 16)
	rSol, _ := common.U64(data, 24)
	supply, _ := common.U64(data, 32)
	complete, _ := common.Bool(data, 40)
	creator, _ := common.ReadPubkey(data, 41)

	exts, err := common.ParseTokenExtensions(data[bondingCurveSize:])
	if err != nil {
		return nil, err
	}
	return &BondingCurveAccount{
		Metadata:             meta,
		Pubkey:               info.Pubkey,
		Lamports:             info.Lamports,
		VirtualTokenReserves: vTok,
		VirtualSolReserves:   vSol,
		RealTokenReserves:    rTok,
		RealSolReserves:      rSol,
		TokenTotalSupply:     supply,
		Complete:             complete,
		Creator:              creator,
		Extensions:           exts,
	}, nil
}

func decodeGlobal(data []byte, info common.AccountInfo, meta events.Metadata) (events.DexEvent, error) {
	meta.Type = events.TypeAccountPumpFunGlobal
	if len(data) < globalMinSize {
		return nil, common.Truncated("pumpfun global", len(data), globalMinSize)
	}
	initialized, _ := common.Bool(data, 0)
	authority, _ := common.ReadPubkey(data, 1)
	feeRecipient, _ := common.ReadPubkey(data, 33)
	initVTok, _ := common.U64(data, 65)
	initVSol, _ := common.U64(data, 73)
	initRTok, _ := common.U64(data, 81)
	supply, _ := common.U64(data, 89)
	feeBps, _ := common.U64(data, 97)

	return &GlobalAccount{
		Metadata:             meta,
		Pubkey:               info.Pubkey,
		Lamports:             info.Lamports,
		Initialized:          initialized,
		Authority:            authority,
		FeeRecipient:         feeRecipient,
		InitialVirtualTokens: initVTok,
		InitialVirtualSol:    initVSol,
		InitialRealTokens:    initRTok,
		TokenTotalSupply:     supply,
		FeeBasisPoints:       feeBps,
	}, nil
}
