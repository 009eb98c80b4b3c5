package geyser

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"

	"github.com/draken-labs/dexstream/decoder/pumpfun"
	"github.com/draken-labs/dexstream/events"
	"github.com/draken-labs/dexstream/ingestor/pipeline"
	"github.com/draken-labs/dexstream/ingestor/subscription"
)

func sigBytes(seed byte) []byte {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = seed
	}
	return buf
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	pipeCfg := pipeline.Config{
		BatchSize:       1,
		BatchTimeout:    10 * time.Millisecond,
		ChannelCapacity: 16,
		Backpressure:    pipeline.Block,
	}
	s, err := NewService(testConfig(), pipeCfg, "")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func pumpfunBuyUpdate(slot uint64) *pb.SubscribeUpdate {
	accounts := make([][]byte, 0, 9)
	for i := byte(1); i <= 8; i++ {
		k := key(i)
		accounts = append(accounts, append([]byte{}, k[:]...))
	}
	accounts = append(accounts, append([]byte{}, pumpfun.ProgramKey[:]...))

	data := []byte{102, 6, 61, 18, 1, 218, 235, 234}
	data = binary.LittleEndian.AppendUint64(data, 1_000_000)
	data = binary.LittleEndian.AppendUint64(data, 998_500)

	return &pb.SubscribeUpdate{
		UpdateOneof: &pb.SubscribeUpdate_Transaction{
			Transaction: &pb.SubscribeUpdateTransaction{
				Slot: slot,
				Transaction: &pb.SubscribeUpdateTransactionInfo{
					Signature: sigBytes(0xaa),
					Transaction: &pb.Transaction{
						Message: &pb.Message{
							AccountKeys: accounts,
							Instructions: []*pb.CompiledInstruction{
								{
									ProgramIdIndex: 8,
									Accounts:       []byte{0, 1, 2, 3, 4, 5, 6, 7},
									Data:           data,
								},
							},
						},
					},
					Meta: &pb.TransactionStatusMeta{},
				},
			},
		},
	}
}

func TestServiceHandleUpdateDecodesAndDelivers(t *testing.T) {
	s := newTestService(t)
	if err := s.Subscription().Subscribe(context.Background(), nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	s.handleUpdate(pumpfunBuyUpdate(9999))
	s.pipe.Flush()

	select {
	case batch := <-s.Events():
		if len(batch) != 1 {
			t.Fatalf("batch size = %d, want 1", len(batch))
		}
		meta := batch[0].EventMetadata()
		if meta.Type != events.TypePumpFunBuy || meta.Slot != 9999 {
			t.Fatalf("unexpected event %+v", meta)
		}
	case <-time.After(time.Second):
		t.Fatal("decoded event not delivered")
	}

	if snap := s.Stats(); snap.Received != 1 || snap.Decoded != 1 {
		t.Fatalf("snapshot %+v", snap)
	}
}

func TestServiceHandleUpdateAppliesEventFilter(t *testing.T) {
	s := newTestService(t)
	state := subscription.NewState(nil, nil, events.NewTypeFilter(events.TypePumpFunSell))
	if err := s.Subscription().Subscribe(context.Background(), state); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	s.handleUpdate(pumpfunBuyUpdate(1))
	s.pipe.Flush()

	select {
	case batch := <-s.Events():
		t.Fatalf("filtered event was delivered: %d events", len(batch))
	case <-time.After(50 * time.Millisecond):
	}

	if snap := s.Stats(); snap.FilteredOut != 1 {
		t.Fatalf("snapshot %+v", snap)
	}
}

func TestServiceHandleUpdateBlockMeta(t *testing.T) {
	s := newTestService(t)
	ts := int64(1_700_000_000)
	s.handleUpdate(&pb.SubscribeUpdate{
		UpdateOneof: &pb.SubscribeUpdate_BlockMeta{
			BlockMeta: &pb.SubscribeUpdateBlockMeta{
				Slot:      42,
				BlockTime: &pb.UnixTimestamp{Timestamp: ts},
			},
		},
	})
	if err := s.Subscription().Subscribe(context.Background(), nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	s.handleUpdate(pumpfunBuyUpdate(42))
	s.pipe.Flush()

	select {
	case batch := <-s.Events():
		if bt := batch[0].EventMetadata().BlockTime; !bt.Equal(time.Unix(ts, 0).UTC()) {
			t.Fatalf("block time = %s", bt)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}
