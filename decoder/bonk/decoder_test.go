package bonk

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
)

func key(n byte) common.Pubkey {
	var b [32]byte
	for i := range b {
		b[i] = n
	}
	return common.PubkeyFromBytes(b[:])
}

func keys(n int) []common.Pubkey {
	out := make([]common.Pubkey, n)
	for i := range out {
		out[i] = key(byte(i + 1))
	}
	return out
}

func testMeta() events.Metadata {
	return events.Metadata{
		Slot:      3000,
		Signature: "bonk-sig",
		Protocol:  events.ProtocolBonk,
		ProgramID: ProgramKey,
		InnerIx:   -1,
	}
}

func tradeData(disc []byte, amount, limit, shareFeeRate uint64) []byte {
	data := append([]byte{}, disc...)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = binary.LittleEndian.AppendUint64(data, limit)
	data = binary.LittleEndian.AppendUint64(data, shareFeeRate)
	return data
}

func TestDecodeTradeVariants(t *testing.T) {
	cases := []struct {
		disc      []byte
		typ       events.EventType
		isBuy     bool
		isExactIn bool
	}{
		{ixBuyExactIn, events.TypeBonkBuyExactIn, true, true},
		{ixBuyExactOut, events.TypeBonkBuyExactOut, true, false},
		{ixSellExactIn, events.TypeBonkSellExactIn, false, true},
		{ixSellExactOut, events.TypeBonkSellExactOut, false, false},
	}
	for _, tc := range cases {
		ev, err := DecodeInstruction(tradeData(tc.disc, 1_000_000, 998_500, 25), keys(18), testMeta())
		if err != nil {
			t.Fatalf("%s: DecodeInstruction: %v", tc.typ, err)
		}
		trade := ev.(*TradeEvent)
		if trade.Type != tc.typ || trade.IsBuy != tc.isBuy || trade.IsExactIn != tc.isExactIn {
			t.Fatalf("unexpected trade %+v", trade)
		}
		if trade.Amount != 1_000_000 || trade.Limit != 998_500 || trade.ShareFeeRate != 25 {
			t.Fatalf("%s: unexpected amounts %+v", tc.typ, trade)
		}
		if trade.Payer != key(1) || trade.PoolState != key(5) || trade.BaseMint != key(10) || trade.QuoteMint != key(11) {
			t.Fatalf("%s: account keys mapped incorrectly", tc.typ)
		}
	}
}

func TestDecodeTradeShareFeeRateOptional(t *testing.T) {
	// Older payloads stop after the limit; share fee rate reads as zero.
	ev, err := DecodeInstruction(tradeData(ixBuyExactIn, 10, 9, 0)[:24], keys(18), testMeta())
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	if trade := ev.(*TradeEvent); trade.ShareFeeRate != 0 || trade.Amount != 10 {
		t.Fatalf("unexpected trade %+v", trade)
	}
}

func TestDecodeInitialize(t *testing.T) {
	var data []byte
	data = append(data, ixInitialize...)
	data = append(data, 6) // decimals
	for _, s := range []string{"Bonk Token", "BONK", "https://example.invalid/meta.json"} {
		data = binary.LittleEndian.AppendUint32(data, uint32(len(s)))
		data = append(data, s...)
	}
	// Curve params follow in real payloads; the decoder ignores them.
	data = binary.LittleEndian.AppendUint64(data, 123)

	ev, err := DecodeInstruction(data, keys(10), testMeta())
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	init := ev.(*InitializeEvent)
	if init.Type != events.TypeBonkInitialize {
		t.Fatalf("type = %s", init.Type)
	}
	if init.Decimals != 6 || init.Name != "Bonk Token" || init.Symbol != "BONK" {
		t.Fatalf("unexpected init %+v", init)
	}
	if init.Payer != key(1) || init.Creator != key(2) || init.PoolState != key(6) || init.QuoteVault != key(10) {
		t.Fatal("account keys mapped incorrectly")
	}
}

func TestDecodeInitializeVariants(t *testing.T) {
	payload := []byte{0} // decimals
	for _, s := range []string{"T", "T", "u"} {
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(s)))
		payload = append(payload, s...)
	}

	cases := []struct {
		disc []byte
		want events.EventType
	}{
		{ixInitializeV2, events.TypeBonkInitializeV2},
		{ixInitialize22, events.TypeBonkInitializeToken2022},
	}
	for _, tc := range cases {
		ev, err := DecodeInstruction(append(append([]byte{}, tc.disc...), payload...), keys(10), testMeta())
		if err != nil {
			t.Fatalf("%s: DecodeInstruction: %v", tc.want, err)
		}
		if typ := ev.(*InitializeEvent).Type; typ != tc.want {
			t.Fatalf("type = %s, want %s", typ, tc.want)
		}
	}
}

func TestDecodeInstructionErrors(t *testing.T) {
	if _, err := DecodeInstruction(tradeData(ixBuyExactIn, 1, 1, 0), keys(5), testMeta()); !common.IsMalformed(err) {
		t.Fatalf("too few accounts: err = %v", err)
	}
	if _, err := DecodeInstruction(tradeData(ixSellExactIn, 1, 1, 0)[:12], keys(18), testMeta()); !common.IsMalformed(err) {
		t.Fatalf("truncated data: err = %v", err)
	}
	if _, err := DecodeInstruction([]byte{9, 9, 9, 9, 9, 9, 9, 9, 0}, keys(18), testMeta()); !errors.Is(err, common.ErrUnknownDiscriminator) {
		t.Fatalf("unknown disc: err = %v", err)
	}
}

func TestDecodePoolStateAccount(t *testing.T) {
	body := make([]byte, poolStateSize)
	binary.LittleEndian.PutUint64(body[0:], 500) // epoch
	body[9] = 1  // status
	body[10] = 6 // base decimals
	body[11] = 9 // quote decimals
	binary.LittleEndian.PutUint64(body[21:], 793_100_000_000_000) // total base sell
	binary.LittleEndian.PutUint64(body[29:], 1_073_025_605_596)   // virtual base
	binary.LittleEndian.PutUint64(body[37:], 30_000_852_951)      // virtual quote
	binary.LittleEndian.PutUint64(body[45:], 100)                 // real base
	binary.LittleEndian.PutUint64(body[53:], 200)                 // real quote
	gc, baseMint := key(80), key(82)
	copy(body[poolKeysOffset:], gc[:])
	copy(body[poolKeysOffset+64:], baseMint[:])

	info := common.AccountInfo{
		Pubkey:   key(90),
		Owner:    ProgramKey,
		Lamports: 42,
		Data:     append(append([]byte{}, acctPoolState...), body...),
	}
	ev, err := DecodeAccount(info, testMeta())
	if err != nil {
		t.Fatalf("DecodeAccount: %v", err)
	}
	pool := ev.(*PoolStateAccount)
	if pool.Type != events.TypeAccountBonkPoolState {
		t.Fatalf("type = %s", pool.Type)
	}
	if pool.Status != 1 || pool.BaseDecimals != 6 || pool.QuoteDecimals != 9 {
		t.Fatalf("unexpected pool %+v", pool)
	}
	if pool.VirtualBase != 1_073_025_605_596 || pool.RealQuote != 200 {
		t.Fatalf("unexpected reserves %+v", pool)
	}
	if pool.GlobalConfig != gc || pool.BaseMint != baseMint || pool.Pubkey != key(90) {
		t.Fatal("keys mapped incorrectly")
	}

	info.Data = info.Data[:40]
	if _, err := DecodeAccount(info, testMeta()); !common.IsMalformed(err) {
		t.Fatalf("truncated pool: err = %v", err)
	}
}

func TestDecodeGlobalConfigAccount(t *testing.T) {
	body := make([]byte, globalConfigSize)
	binary.LittleEndian.PutUint64(body[0:], 33) // epoch
	body[8] = 0                                 // constant product curve
	binary.LittleEndian.PutUint16(body[9:], 2)
	binary.LittleEndian.PutUint64(body[19:], 10_000) // trade fee rate
	quoteMint := key(95)
	copy(body[75:], quoteMint[:])

	info := common.AccountInfo{
		Pubkey: key(96),
		Owner:  ProgramKey,
		Data:   append(append([]byte{}, acctGlobalConfig...), body...),
	}
	ev, err := DecodeAccount(info, testMeta())
	if err != nil {
		t.Fatalf("DecodeAccount: %v", err)
	}
	gc := ev.(*GlobalConfigAccount)
	if gc.Type != events.TypeAccountBonkGlobalConfig {
		t.Fatalf("type = %s", gc.Type)
	}
	if gc.Epoch != 33 || gc.CurveType != 0 || gc.Index != 2 || gc.TradeFeeRate != 10_000 {
		t.Fatalf("unexpected config %+v", gc)
	}
	if gc.QuoteMint != quoteMint {
		t.Fatal("quote mint mapped incorrectly")
	}
}
