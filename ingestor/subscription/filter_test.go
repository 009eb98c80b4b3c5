package subscription

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58/base58"

	dec "github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/events"
	"github.com/draken-labs/dexstream/ingestor/common"
)

func key(n byte) dec.Pubkey {
	var b [32]byte
	for i := range b {
		b[i] = n
	}
	return dec.PubkeyFromBytes(b[:])
}

func tx(keys ...dec.Pubkey) *common.TransactionUpdate {
	return &common.TransactionUpdate{Slot: 1, Signature: "sig", AccountKeys: keys}
}

func TestMemcmpFilterMatches(t *testing.T) {
	// Offset-0 byte filters distinguish account variants that share an owner.
	two := MemcmpFilter{Offset: 0, Bytes: []byte{2}}
	three := MemcmpFilter{Offset: 0, Bytes: []byte{3}}

	data := []byte{2, 0xff, 0xff}
	if !two.Matches(data) {
		t.Fatal("discriminator byte 2 should match")
	}
	if three.Matches(data) {
		t.Fatal("discriminator byte 3 should not match")
	}

	mid := MemcmpFilter{Offset: 1, Bytes: []byte{0xff, 0xff}}
	if !mid.Matches(data) {
		t.Fatal("mid-buffer match failed")
	}
	past := MemcmpFilter{Offset: 2, Bytes: []byte{0xff, 0xff}}
	if past.Matches(data) {
		t.Fatal("filter extending past the data should not match")
	}

	// An offset near the uint64 ceiling must not wrap the bounds check.
	wrap := MemcmpFilter{Offset: math.MaxUint64, Bytes: []byte{2}}
	if wrap.Matches(data) {
		t.Fatal("wrapping offset should not match")
	}
}

func TestTransactionFilter(t *testing.T) {
	include, exclude, required := key(1), key(2), key(3)

	f := &TransactionFilter{AccountInclude: []dec.Pubkey{include}}
	f.compile()
	if !f.Matches(tx(include, key(9))) {
		t.Fatal("included key should match")
	}
	if f.Matches(tx(key(9))) {
		t.Fatal("no included key should not match")
	}

	// Exclude wins over include.
	f = &TransactionFilter{
		AccountInclude: []dec.Pubkey{include},
		AccountExclude: []dec.Pubkey{exclude},
	}
	f.compile()
	if f.Matches(tx(include, exclude)) {
		t.Fatal("excluded key should veto the match")
	}

	// Every required key must be present.
	f = &TransactionFilter{AccountRequired: []dec.Pubkey{include, required}}
	f.compile()
	if f.Matches(tx(include)) {
		t.Fatal("missing required key should not match")
	}
	if !f.Matches(tx(include, required, key(9))) {
		t.Fatal("all required keys present should match")
	}

	// Empty include matches everything.
	f = &TransactionFilter{}
	f.compile()
	if !f.Matches(tx(key(9))) {
		t.Fatal("empty filter should match everything")
	}
	var nilFilter *TransactionFilter
	if !nilFilter.Matches(tx(key(9))) {
		t.Fatal("nil filter should match everything")
	}
}

func TestAccountFilter(t *testing.T) {
	owner := key(10)
	acc := &common.AccountUpdate{AccountInfo: dec.AccountInfo{
		Pubkey: key(11),
		Owner:  owner,
		Data:   []byte{2, 7, 7},
	}}

	f := &AccountFilter{Owners: []dec.Pubkey{owner}}
	f.compile()
	if !f.Matches(acc) {
		t.Fatal("owner match failed")
	}

	f = &AccountFilter{Owners: []dec.Pubkey{key(12)}}
	f.compile()
	if f.Matches(acc) {
		t.Fatal("wrong owner should not match")
	}

	f = &AccountFilter{Accounts: []dec.Pubkey{key(11)}, Memcmp: []MemcmpFilter{{Offset: 0, Bytes: []byte{2}}}}
	f.compile()
	if !f.Matches(acc) {
		t.Fatal("account plus memcmp match failed")
	}

	// Every memcmp must match.
	f = &AccountFilter{Memcmp: []MemcmpFilter{
		{Offset: 0, Bytes: []byte{2}},
		{Offset: 1, Bytes: []byte{9}},
	}}
	f.compile()
	if f.Matches(acc) {
		t.Fatal("one failing memcmp should reject the account")
	}
}

func TestStateNilMatchesEverything(t *testing.T) {
	var s *State
	if !s.MatchTransaction(tx(key(1))) || !s.MatchAccount(&common.AccountUpdate{}) {
		t.Fatal("nil state should match everything")
	}

	s = NewState(nil, nil, nil)
	if !s.MatchTransaction(tx(key(1))) || !s.MatchAccount(&common.AccountUpdate{}) {
		t.Fatal("empty state should match everything")
	}
}

func TestStateMatchEvent(t *testing.T) {
	s := NewState(nil, nil, events.NewTypeFilter(events.TypePumpFunBuy))
	buy := &events.Metadata{Type: events.TypePumpFunBuy}
	sell := &events.Metadata{Type: events.TypePumpFunSell}
	if !s.MatchEvent(buy) {
		t.Fatal("included event type should pass")
	}
	if s.MatchEvent(sell) {
		t.Fatal("excluded event type should be filtered")
	}
}

func TestFileConfigBuild(t *testing.T) {
	owner := key(20)
	yamlBody := `
transactions:
  account_include:
    - ` + key(21).String() + `
accounts:
  owners:
    - ` + owner.String() + `
  memcmp:
    - offset: 0
      bytes: ` + base58.Encode([]byte{2}) + `
event_types:
  - PumpFunBuy
`
	path := filepath.Join(t.TempDir(), "filters.yaml")
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write filter file: %v", err)
	}

	state, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !state.MatchTransaction(tx(key(21))) {
		t.Fatal("included transaction key should match")
	}
	if state.MatchTransaction(tx(key(22))) {
		t.Fatal("other transaction should be filtered")
	}
	acc := &common.AccountUpdate{AccountInfo: dec.AccountInfo{Owner: owner, Data: []byte{2, 1}}}
	if !state.MatchAccount(acc) {
		t.Fatal("owner+memcmp account should match")
	}
	acc.Data = []byte{3, 1}
	if state.MatchAccount(acc) {
		t.Fatal("memcmp mismatch should be filtered")
	}
	if !state.MatchEvent(&events.Metadata{Type: events.TypePumpFunBuy}) {
		t.Fatal("configured event type should pass")
	}
	if state.MatchEvent(&events.Metadata{Type: events.TypePumpFunSell}) {
		t.Fatal("unlisted event type should be filtered")
	}
}

func TestFileConfigBuildRejectsBadKeys(t *testing.T) {
	var cfg FileConfig
	cfg.Accounts.Owners = []string{"not-a-key-0OIl"}
	if _, err := cfg.Build(); err == nil {
		t.Fatal("expected error for invalid base58 key")
	}
}
