package geyser

import (
	"testing"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	dec "github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/ingestor/subscription"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = "grpc.example.invalid:443"
	cfg.APIKey = "test-token-1234"
	return cfg
}

func key(n byte) dec.Pubkey {
	var b [32]byte
	for i := range b {
		b[i] = n
	}
	return dec.PubkeyFromBytes(b[:])
}

func TestBuildSubscribeRequestDefaults(t *testing.T) {
	programs := []dec.Pubkey{key(1), key(2)}
	c, err := NewClient(testConfig(), programs)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()

	req := c.buildSubscribeRequest(nil, nil)

	txf := req.Transactions["client"]
	if txf == nil {
		t.Fatal("transaction filter missing")
	}
	if txf.Vote == nil || *txf.Vote || txf.Failed == nil || *txf.Failed {
		t.Fatal("vote and failed transactions should be excluded")
	}
	if len(txf.AccountInclude) != 2 || txf.AccountInclude[0] != key(1).String() {
		t.Fatalf("account include = %v", txf.AccountInclude)
	}

	accf := req.Accounts["client"]
	if accf == nil || len(accf.Owner) != 2 {
		t.Fatalf("account owners = %+v", accf)
	}

	if req.Commitment == nil || *req.Commitment != pb.CommitmentLevel_CONFIRMED {
		t.Fatal("commitment should be confirmed")
	}
	if req.FromSlot != nil {
		t.Fatal("tip subscription should not set from_slot")
	}
	if _, ok := req.BlocksMeta["client"]; !ok {
		t.Fatal("block meta subscription missing")
	}
}

func TestBuildSubscribeRequestFromSlot(t *testing.T) {
	c, err := NewClient(testConfig(), []dec.Pubkey{key(1)})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()

	from := uint64(123_456)
	req := c.buildSubscribeRequest(&from, nil)
	if req.FromSlot == nil || *req.FromSlot != from {
		t.Fatalf("from_slot = %v", req.FromSlot)
	}
}

func TestBuildSubscribeRequestStateOverrides(t *testing.T) {
	c, err := NewClient(testConfig(), []dec.Pubkey{key(1), key(2)})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()

	state := subscription.NewState(
		&subscription.TransactionFilter{
			AccountInclude:  []dec.Pubkey{key(10)},
			AccountExclude:  []dec.Pubkey{key(11)},
			AccountRequired: []dec.Pubkey{key(12)},
		},
		&subscription.AccountFilter{
			Accounts: []dec.Pubkey{key(20)},
			Owners:   []dec.Pubkey{key(21)},
			Memcmp:   []subscription.MemcmpFilter{{Offset: 8, Bytes: []byte{2, 4}}},
		},
		nil,
	)

	req := c.buildSubscribeRequest(nil, state)

	txf := req.Transactions["client"]
	// The state's include replaces the program defaults.
	if len(txf.AccountInclude) != 1 || txf.AccountInclude[0] != key(10).String() {
		t.Fatalf("account include = %v", txf.AccountInclude)
	}
	if len(txf.AccountExclude) != 1 || txf.AccountExclude[0] != key(11).String() {
		t.Fatalf("account exclude = %v", txf.AccountExclude)
	}
	if len(txf.AccountRequired) != 1 || txf.AccountRequired[0] != key(12).String() {
		t.Fatalf("account required = %v", txf.AccountRequired)
	}

	accf := req.Accounts["client"]
	if len(accf.Account) != 1 || accf.Account[0] != key(20).String() {
		t.Fatalf("accounts = %v", accf.Account)
	}
	if len(accf.Owner) != 1 || accf.Owner[0] != key(21).String() {
		t.Fatalf("owners = %v", accf.Owner)
	}
	if len(accf.Filters) != 1 {
		t.Fatalf("filters = %+v", accf.Filters)
	}
	memcmp := accf.Filters[0].GetMemcmp()
	if memcmp == nil || memcmp.Offset != 8 || string(memcmp.GetBytes()) != string([]byte{2, 4}) {
		t.Fatalf("memcmp = %+v", memcmp)
	}
}

func TestExtractSlotFromUpdate(t *testing.T) {
	cases := []struct {
		update *pb.SubscribeUpdate
		want   uint64
	}{
		{&pb.SubscribeUpdate{UpdateOneof: &pb.SubscribeUpdate_Slot{Slot: &pb.SubscribeUpdateSlot{Slot: 11}}}, 11},
		{&pb.SubscribeUpdate{UpdateOneof: &pb.SubscribeUpdate_Transaction{Transaction: &pb.SubscribeUpdateTransaction{Slot: 12}}}, 12},
		{&pb.SubscribeUpdate{UpdateOneof: &pb.SubscribeUpdate_Account{Account: &pb.SubscribeUpdateAccount{Slot: 13}}}, 13},
		{&pb.SubscribeUpdate{UpdateOneof: &pb.SubscribeUpdate_BlockMeta{BlockMeta: &pb.SubscribeUpdateBlockMeta{Slot: 14}}}, 14},
		{&pb.SubscribeUpdate{UpdateOneof: &pb.SubscribeUpdate_Ping{}}, 0},
	}
	for i, tc := range cases {
		if got := extractSlotFromUpdate(tc.update); got != tc.want {
			t.Fatalf("case %d: slot = %d, want %d", i, got, tc.want)
		}
	}
}
