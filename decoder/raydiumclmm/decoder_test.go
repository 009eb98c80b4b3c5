package raydiumclmm

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
		Slot:      5000,
		Signature: "clmm-sig",
		Protocol:  events.ProtocolRaydiumClmm,
		ProgramID: ProgramKey,
		InnerIx:   -1,
	}
}

func swapData(disc []byte, amount, threshold uint64, sqrtLimit common.U128, baseInput bool) []byte {
	data := append([]byte{}, disc...)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = binary.LittleEndian.AppendUint64(data, threshold)
	data = binary.LittleEndian.AppendUint64(data, sqrtLimit.Lo)
	data = binary.LittleEndian.AppendUint64(data, sqrtLimit.Hi)
	if baseInput {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	return data
}

func TestDecodeSwapV1(t *testing.T) {
	limit := common.U128{Lo: 0xdeadbeef, Hi: 3}
	ev, err := DecodeInstruction(swapData(ixSwap, 1_000_000, 998_500, limit, true), keys(10), testMeta())
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	swap := ev.(*SwapEvent)
	if swap.Type != events.TypeRaydiumClmmSwap || swap.IsV2 {
		t.Fatalf("unexpected swap %+v", swap)
	}
	if swap.Amount != 1_000_000 || swap.OtherAmountThreshold != 998_500 || !swap.IsBaseInput {
		t.Fatalf("unexpected amounts %+v", swap)
	}
	if swap.SqrtPriceLimitX64 != limit {
		t.Fatalf("sqrt price limit = %+v", swap.SqrtPriceLimitX64)
	}
	if swap.Payer != key(1) || swap.PoolState != key(3) || swap.ObservationState != key(8) || swap.TickArray != key(10) {
		t.Fatal("account keys mapped incorrectly")
	}
	if !swap.InputVaultMint.IsZero() {
		t.Fatal("v1 swap should not resolve vault mints")
	}
}

func TestDecodeSwapV2(t *testing.T) {
	ev, err := DecodeInstruction(swapData(ixSwapV2, 77, 70, common.U128{}, false), keys(13), testMeta())
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	swap := ev.(*SwapEvent)
	if swap.Type != events.TypeRaydiumClmmSwapV2 || !swap.IsV2 || swap.IsBaseInput {
		t.Fatalf("unexpected swap %+v", swap)
	}
	if swap.InputVaultMint != key(12) || swap.OutputVaultMint != key(13) {
		t.Fatal("v2 vault mints mapped incorrectly")
	}

	// V2 requires the extra mint accounts.
	if _, err := DecodeInstruction(swapData(ixSwapV2, 1, 1, common.U128{}, true), keys(10), testMeta()); !common.IsMalformed(err) {
		t.Fatalf("v2 with 10 accounts: err = %v", err)
	}
}

func TestDecodeCreatePool(t *testing.T) {
	price := common.U128{Lo: 18446744073709551615, Hi: 1}
	var data []byte
	data = append(data, ixCreatePool...)
	data = binary.LittleEndian.AppendUint64(data, price.Lo)
	data = binary.LittleEndian.AppendUint64(data, price.Hi)
	data = binary.LittleEndian.AppendUint64(data, 1_700_000_000)

	ev, err := DecodeInstruction(data, keys(13), testMeta())
	if err != nil {
		t.Fatalf("DecodeInstruction: %v", err)
	}
	pool := ev.(*CreatePoolEvent)
	if pool.Type != events.TypeRaydiumClmmCreatePool {
		t.Fatalf("type = %s", pool.Type)
	}
	if pool.SqrtPriceX64 != price || pool.OpenTime != 1_700_000_000 {
		t.Fatalf("unexpected pool %+v", pool)
	}
	if pool.PoolCreator != key(1) || pool.TokenMint0 != key(4) || pool.TokenVault1 != key(7) {
		t.Fatal("account keys mapped incorrectly")
	}
}

func TestDecodeInstructionErrors(t *testing.T) {
	if _, err := DecodeInstruction(swapData(ixSwap, 1, 1, common.U128{}, true)[:20], keys(10), testMeta()); !common.IsMalformed(err) {
		t.Fatalf("truncated swap: err = %v", err)
	}
	if _, err := DecodeInstruction([]byte{5, 5, 5, 5, 5, 5, 5, 5}, keys(13), testMeta()); !errors.Is(err, common.ErrUnknownDiscriminator) {
		t.Fatalf("unknown disc: err = %v", err)
	}
}

func TestDecodeAmmConfigAccount(t *testing.T) {
	body := make([]byte, ammConfigSize)
	binary.LittleEndian.PutUint16(body[1:], 9)
	owner := key(130)
	copy(body[3:], owner[:])
	binary.LittleEndian.PutUint32(body[35:], 120_000) // protocol fee
	binary.LittleEndian.PutUint32(body[39:], 500)     // trade fee
	binary.LittleEndian.PutUint16(body[43:], 60)      // tick spacing
	binary.LittleEndian.PutUint32(body[45:], 40_000)  // fund fee

	info := common.AccountInfo{
		Pubkey: key(131),
		Owner:  ProgramKey,
		Data:   append(append([]byte{}, acctAmmConfig...), body...),
	}
	ev, err := DecodeAccount(info, testMeta())
	if err != nil {
		t.Fatalf("DecodeAccount: %v", err)
	}
	cfg := ev.(*AmmConfigAccount)
	if cfg.Type != events.TypeAccountRaydiumClmmConfig {
		t.Fatalf("type = %s", cfg.Type)
	}
	if cfg.Index != 9 || cfg.Owner != owner || cfg.TradeFeeRate != 500 || cfg.TickSpacing != 60 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestDecodePoolStateAccount(t *testing.T) {
	body := make([]byte, poolStateSize)
	ammConfig, mint0, vault1 := key(140), key(141), key(144)
	copy(body[1:], ammConfig[:])
	copy(body[65:], mint0[:])
	copy(body[161:], vault1[:])
	body[poolDecimalsOffset] = 9
	body[poolDecimalsOffset+1] = 6
	binary.LittleEndian.PutUint16(body[poolDecimalsOffset+2:], 1)
	binary.LittleEndian.PutUint64(body[poolDecimalsOffset+4:], 12345) // liquidity lo
	binary.LittleEndian.PutUint64(body[poolDecimalsOffset+20:], 777) // sqrt price lo
	binary.LittleEndian.PutUint32(body[poolDecimalsOffset+36:], uint32(4294967290)) // tick -6
	body[poolStatusOffset] = 1
	binary.LittleEndian.PutUint64(body[poolOpenTimeOffset:], 1_690_000_000)

	info := common.AccountInfo{
		Pubkey:   key(150),
		Owner:    ProgramKey,
		Lamports: 31337,
		Data:     append(append([]byte{}, acctPoolState...), body...),
	}
	ev, err := DecodeAccount(info, testMeta())
	if err != nil {
		t.Fatalf("DecodeAccount: %v", err)
	}
	pool := ev.(*PoolStateAccount)
	if pool.Type != events.TypeAccountRaydiumClmmPool {
		t.Fatalf("type = %s", pool.Type)
	}
	if pool.AmmConfig != ammConfig || pool.TokenMint0 != mint0 || pool.TokenVault1 != vault1 {
		t.Fatal("keys mapped incorrectly")
	}
	if pool.MintDecimals0 != 9 || pool.MintDecimals1 != 6 || pool.TickSpacing != 1 {
		t.Fatalf("unexpected decimals %+v", pool)
	}
	if pool.Liquidity.Lo != 12345 || pool.SqrtPriceX64.Lo != 777 || pool.TickCurrent != -6 {
		t.Fatalf("unexpected price state %+v", pool)
	}
	if pool.Status != 1 || pool.OpenTime != 1_690_000_000 {
		t.Fatalf("unexpected status %+v", pool)
	}

	info.Data = info.Data[:200]
	if _, err := DecodeAccount(info, testMeta()); !common.IsMalformed(err) {
		t.Fatalf("truncated pool: err = %v", err)
	}
}
