package geyser

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"

	dec "github.com/draken-labs/dexstream/decoder/common"
	"github.com/draken-labs/dexstream/ingestor/subscription"
)

// tokenAuth implements PerRPCCredentials for x-token authentication.
type tokenAuth struct {
	token string
}

func (t tokenAuth) GetRequestMetadata(ctx context.Context, in ...string) (map[string]string, error) {
	return map[string]string{"x-token": t.token}, nil
}

func (tokenAuth) RequireTransportSecurity() bool {
	return true
}

// Client wraps a Yellowstone gRPC connection with automatic reconnection and
// live filter pushdown. Filter changes re-send the subscribe request on the
// open stream instead of reconnecting.
type Client struct {
	cfg      *Config
	programs []dec.Pubkey
	conn     *grpc.ClientConn
	client   pb.GeyserClient
	ctx      context.Context
	cancel   context.CancelFunc

	mu     sync.Mutex
	stream pb.Geyser_SubscribeClient
	state  *subscription.State
}

// NewClient creates a client streaming the given programs.
func NewClient(cfg *Config, programs []dec.Pubkey) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		cfg:      cfg,
		programs: programs,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Connect establishes the gRPC connection with TLS, keepalive, and the
// x-token credentials.
func (c *Client) Connect() error {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{})),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(c.cfg.MaxMessageBytes),
		),
		grpc.WithPerRPCCredentials(tokenAuth{token: c.cfg.APIKey}),
	}

	dialCtx, cancel := context.WithTimeout(c.ctx, c.cfg.ConnectTimeout)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, c.cfg.Endpoint, opts...) //nolint:staticcheck // DialContext remains viable for gRPC 1.x
	if err != nil {
		return fmt.Errorf("failed to dial geyser: %w", err)
	}

	c.conn = conn
	c.client = pb.NewGeyserClient(conn)
	return nil
}

// ApplyFilters re-sends the subscribe request with the new state on the live
// stream, narrowing server-side without a reconnect. Satisfies
// subscription.Pushdown. When no stream is open yet, the state is kept for
// the next subscribe.
func (c *Client) ApplyFilters(ctx context.Context, state *subscription.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	if c.stream == nil {
		return nil
	}
	req := c.buildSubscribeRequest(nil, state)
	if err := c.stream.Send(req); err != nil {
		return fmt.Errorf("push filters: %w", err)
	}
	return nil
}

// Subscribe starts streaming from startSlot (0 for the tip). Updates arrive
// on the first channel; stream-level errors on the second. Both close when
// the client shuts down.
func (c *Client) Subscribe(startSlot uint64) (<-chan *pb.SubscribeUpdate, <-chan error) {
	updateCh := make(chan *pb.SubscribeUpdate, 100)
	errCh := make(chan error, 1)

	go c.subscribeLoop(startSlot, updateCh, errCh)

	return updateCh, errCh
}

func (c *Client) subscribeLoop(startSlot uint64, updateCh chan<- *pb.SubscribeUpdate, errCh chan<- error) {
	defer close(updateCh)
	defer close(errCh)

	currentSlot := startSlot

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var fromSlot *uint64
		if currentSlot > 0 {
			replaySlot := currentSlot
			if currentSlot > c.cfg.ReplaySlotWindow {
				replaySlot = currentSlot - c.cfg.ReplaySlotWindow
			}
			fromSlot = &replaySlot
			log.Printf("geyser: subscribing from slot %d (replay from %d)", currentSlot, replaySlot)
		} else {
			log.Printf("geyser: subscribing from stream tip")
		}

		stream, err := c.client.Subscribe(c.ctx)
		if err != nil {
			c.reportAndWait(errCh, fmt.Errorf("subscribe failed: %w", err))
			if c.ctx.Err() != nil {
				return
			}
			continue
		}

		c.mu.Lock()
		req := c.buildSubscribeRequest(fromSlot, c.state)
		c.stream = stream
		c.mu.Unlock()

		if err := stream.Send(req); err != nil {
			c.clearStream()
			c.reportAndWait(errCh, fmt.Errorf("send request failed: %w", err))
			if c.ctx.Err() != nil {
				return
			}
			continue
		}

		lastSlot := c.processStream(stream, updateCh, errCh)
		c.clearStream()
		if lastSlot > currentSlot {
			currentSlot = lastSlot
		}

		log.Printf("geyser: stream ended at slot %d, reconnecting", currentSlot)
		select {
		case <-c.ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectBackoff):
		}
	}
}

func (c *Client) reportAndWait(errCh chan<- error, err error) {
	log.Printf("geyser: %v", err)
	select {
	case errCh <- err:
	default:
	}
	select {
	case <-c.ctx.Done():
	case <-time.After(c.cfg.ReconnectBackoff):
	}
}

func (c *Client) clearStream() {
	c.mu.Lock()
	c.stream = nil
	c.mu.Unlock()
}

// buildSubscribeRequest maps the subscription state onto the wire filter
// shapes. The registry's programs are always included so local filtering
// stays the source of truth; the state only narrows further.
func (c *Client) buildSubscribeRequest(fromSlot *uint64, state *subscription.State) *pb.SubscribeRequest {
	vote := false
	failed := false
	txFilter := &pb.SubscribeRequestFilterTransactions{
		Vote:   &vote,
		Failed: &failed,
	}
	for _, p := range c.programs {
		txFilter.AccountInclude = append(txFilter.AccountInclude, p.String())
	}
	accFilter := &pb.SubscribeRequestFilterAccounts{}
	for _, p := range c.programs {
		accFilter.Owner = append(accFilter.Owner, p.String())
	}

	if state != nil {
		if tf := state.Transactions; tf != nil {
			if len(tf.AccountInclude) > 0 {
				txFilter.AccountInclude = nil
				for _, k := range tf.AccountInclude {
					txFilter.AccountInclude = append(txFilter.AccountInclude, k.String())
				}
			}
			for _, k := range tf.AccountExclude {
				txFilter.AccountExclude = append(txFilter.AccountExclude, k.String())
			}
			for _, k := range tf.AccountRequired {
				txFilter.AccountRequired = append(txFilter.AccountRequired, k.String())
			}
		}
		if af := state.Accounts; af != nil {
			if len(af.Accounts) > 0 {
				for _, k := range af.Accounts {
					accFilter.Account = append(accFilter.Account, k.String())
				}
			}
			if len(af.Owners) > 0 {
				accFilter.Owner = nil
				for _, k := range af.Owners {
					accFilter.Owner = append(accFilter.Owner, k.String())
				}
			}
			for _, m := range af.Memcmp {
				accFilter.Filters = append(accFilter.Filters, &pb.SubscribeRequestFilterAccountsFilter{
					Filter: &pb.SubscribeRequestFilterAccountsFilter_Memcmp{
						Memcmp: &pb.SubscribeRequestFilterAccountsFilterMemcmp{
							Offset: m.Offset,
							Data: &pb.SubscribeRequestFilterAccountsFilterMemcmp_Bytes{
								Bytes: m.Bytes,
							},
						},
					},
				})
			}
		}
	}

	commitment := pb.CommitmentLevel_CONFIRMED

	return &pb.SubscribeRequest{
		Slots: map[string]*pb.SubscribeRequestFilterSlots{
			"client": {},
		},
		Accounts: map[string]*pb.SubscribeRequestFilterAccounts{
			"client": accFilter,
		},
		Transactions: map[string]*pb.SubscribeRequestFilterTransactions{
			"client": txFilter,
		},
		TransactionsStatus: map[string]*pb.SubscribeRequestFilterTransactions{},
		Entry:              map[string]*pb.SubscribeRequestFilterEntry{},
		Blocks:             map[string]*pb.SubscribeRequestFilterBlocks{},
		BlocksMeta: map[string]*pb.SubscribeRequestFilterBlocksMeta{
			"client": {},
		},
		AccountsDataSlice: []*pb.SubscribeRequestAccountsDataSlice{},
		Commitment:        &commitment,
		FromSlot:          fromSlot,
	}
}

// processStream reads messages until the stream breaks, answering server
// pings in place.
func (c *Client) processStream(stream pb.Geyser_SubscribeClient, updateCh chan<- *pb.SubscribeUpdate, errCh chan<- error) uint64 {
	var lastSlot uint64

	for {
		select {
		case <-c.ctx.Done():
			return lastSlot
		default:
		}

		update, err := stream.Recv()
		if err == io.EOF {
			log.Println("geyser: stream closed by server")
			return lastSlot
		}
		if err != nil {
			log.Printf("geyser: stream receive error: %v", err)
			select {
			case errCh <- fmt.Errorf("stream recv failed: %w", err):
			default:
			}
			return lastSlot
		}

		if _, ok := update.UpdateOneof.(*pb.SubscribeUpdate_Ping); ok {
			id := int32(1)
			_ = stream.Send(&pb.SubscribeRequest{Ping: &pb.SubscribeRequestPing{Id: id}})
			continue
		}

		slot := extractSlotFromUpdate(update)
		if slot > lastSlot {
			lastSlot = slot
		}

		select {
		case updateCh <- update:
		case <-c.ctx.Done():
			return lastSlot
		}
	}
}

// extractSlotFromUpdate extracts the slot number from the update variants.
func extractSlotFromUpdate(update *pb.SubscribeUpdate) uint64 {
	switch u := update.UpdateOneof.(type) {
	case *pb.SubscribeUpdate_Slot:
		return u.Slot.Slot
	case *pb.SubscribeUpdate_Account:
		return u.Account.Slot
	case *pb.SubscribeUpdate_Transaction:
		return u.Transaction.Slot
	case *pb.SubscribeUpdate_Block:
		return u.Block.Slot
	case *pb.SubscribeUpdate_BlockMeta:
		return u.BlockMeta.Slot
	default:
		return 0
	}
}

// Close shuts down the client and the underlying connection.
func (c *Client) Close() error {
	c.cancel()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
