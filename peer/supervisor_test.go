package peer_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/db/migrations"
	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/events"
	"github.com/lightningco/nodecore/liquidity"
	"github.com/lightningco/nodecore/lnengine"
	"github.com/lightningco/nodecore/lnengine/mocks"
	"github.com/lightningco/nodecore/payments"
	"github.com/lightningco/nodecore/peer"
	"github.com/lightningco/nodecore/webhook"
)

func newTestSupervisor(t *testing.T) (*peer.Supervisor, *mocks.MockEngine, *payments.Store, *events.Publisher) {
	t.Helper()
	gormDB, err := db.Open("file:"+t.Name()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(gormDB))

	logger := zerolog.Nop()
	store := payments.NewStore(gormDB, &logger)
	publisher := events.NewPublisher(&logger)
	dispatcher := webhook.NewDispatcher("secret", &logger)
	engine := &mocks.MockEngine{}
	policy := liquidity.NewCell(liquidity.Policy{Bounds: liquidity.DefaultBounds()})

	sup := peer.NewSupervisor(engine, store, policy, publisher, dispatcher, "03abc", "127.0.0.1:9735", "", &logger)
	return sup, engine, store, publisher
}

func TestSupervisorReadyClosesAfterEstablished(t *testing.T) {
	sup, engine, _, publisher := newTestSupervisor(t)
	defer publisher.Close()

	states := make(chan lnengine.ConnectionState, 2)
	nodeEvents := make(chan lnengine.NodeEvent)

	engine.EXPECT().Connect(mock.Anything, mock.Anything, mock.Anything).Return(nil)
	engine.EXPECT().ConnectionState(mock.Anything).Return(states, nil)
	engine.EXPECT().NodeEvents(mock.Anything).Return(nodeEvents, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sup.Run(ctx)

	states <- lnengine.StateEstablished

	select {
	case <-sup.Ready():
	case <-time.After(time.Second):
		t.Fatal("expected Ready to close after Established")
	}
}

func TestSupervisorSuppressesZeroAmountPaymentReceived(t *testing.T) {
	sup, engine, _, publisher := newTestSupervisor(t)
	defer publisher.Close()

	received := make(chan events.Event, 1)
	publisher.RegisterSubscriber("test", func(e events.Event) { received <- e })

	states := make(chan lnengine.ConnectionState, 2)
	nodeEvents := make(chan lnengine.NodeEvent, 2)

	engine.EXPECT().Connect(mock.Anything, mock.Anything, mock.Anything).Return(nil)
	engine.EXPECT().ConnectionState(mock.Anything).Return(states, nil)
	engine.EXPECT().NodeEvents(mock.Anything).Return(nodeEvents, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	nodeEvents <- events.PaymentReceived{PaymentHash: "zero", AmountMsat: 0}
	nodeEvents <- events.PaymentReceived{PaymentHash: "nonzero", AmountMsat: 1000}

	select {
	case e := <-received:
		pr, ok := e.(events.PaymentReceived)
		require.True(t, ok)
		require.Equal(t, "nonzero", pr.PaymentHash)
	case <-time.After(time.Second):
		t.Fatal("expected the nonzero payment to be published")
	}

	select {
	case e := <-received:
		t.Fatalf("did not expect a second published event, got %+v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSupervisorForwardsLiquidityFeeQuoteDecision(t *testing.T) {
	sup, engine, _, publisher := newTestSupervisor(t)
	defer publisher.Close()

	states := make(chan lnengine.ConnectionState, 2)
	nodeEvents := make(chan lnengine.NodeEvent, 1)
	sent := make(chan lnengine.Command, 1)

	engine.EXPECT().Connect(mock.Anything, mock.Anything, mock.Anything).Return(nil)
	engine.EXPECT().ConnectionState(mock.Anything).Return(states, nil)
	engine.EXPECT().NodeEvents(mock.Anything).Return(nodeEvents, nil)
	engine.EXPECT().Send(mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent <- args.Get(1).(lnengine.Command)
	}).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	nodeEvents <- events.LiquidityFeeQuote{
		QuoteId:   "q1",
		AmountSat: 50_000,
		FeeSat:    100,
	}

	select {
	case cmd := <-sent:
		require.Equal(t, "liquidityQuoteDecision", cmd.Name)
		require.Equal(t, "q1", cmd.Payload["quoteId"])
		require.Equal(t, "accept", cmd.Payload["decision"])
	case <-time.After(time.Second):
		t.Fatal("expected a liquidity quote decision command")
	}
}

func TestSupervisorUsesStoreFeeCreditBalanceNotEventField(t *testing.T) {
	sup, engine, store, publisher := newTestSupervisor(t)
	defer publisher.Close()

	// Ledger already holds 99_900 sat of credit, 100 sat below the default
	// 100_000 sat cap: a 200 sat top-up must be rejected as creditFull even
	// though the event itself claims zero credit is in use.
	require.NoError(t, store.AppendFeeCreditLedgerEntry(99_900_000, "added_to_fee_credit", time.Now()))

	states := make(chan lnengine.ConnectionState, 2)
	nodeEvents := make(chan lnengine.NodeEvent, 1)
	sent := make(chan lnengine.Command, 1)

	engine.EXPECT().Connect(mock.Anything, mock.Anything, mock.Anything).Return(nil)
	engine.EXPECT().ConnectionState(mock.Anything).Return(states, nil)
	engine.EXPECT().NodeEvents(mock.Anything).Return(nodeEvents, nil)
	engine.EXPECT().Send(mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent <- args.Get(1).(lnengine.Command)
	}).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	nodeEvents <- events.LiquidityFeeQuote{
		QuoteId:            "q2",
		AmountSat:          200,
		FeeSat:             500,
		CreditAvailableSat: 0,
		ChannelsEmpty:      true,
	}

	select {
	case cmd := <-sent:
		require.Equal(t, "q2", cmd.Payload["quoteId"])
		require.Equal(t, "reject", cmd.Payload["decision"])
		require.Equal(t, "creditFull", cmd.Payload["reason"])
	case <-time.After(time.Second):
		t.Fatal("expected a liquidity quote decision command")
	}
}

func TestSupervisorPersistsPaymentReceivedAgainstExistingInvoice(t *testing.T) {
	sup, engine, store, publisher := newTestSupervisor(t)
	defer publisher.Close()

	_, err := store.AddIncoming("preimage1", "hash1", encoding.OriginInvoice{Request: "lnbc1..."}, time.Now())
	require.NoError(t, err)

	received := make(chan events.Event, 1)
	publisher.RegisterSubscriber("test", func(e events.Event) { received <- e })

	states := make(chan lnengine.ConnectionState, 2)
	nodeEvents := make(chan lnengine.NodeEvent, 1)

	engine.EXPECT().Connect(mock.Anything, mock.Anything, mock.Anything).Return(nil)
	engine.EXPECT().ConnectionState(mock.Anything).Return(states, nil)
	engine.EXPECT().NodeEvents(mock.Anything).Return(nodeEvents, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	nodeEvents <- events.PaymentReceived{PaymentHash: "hash1", AmountMsat: 1000}

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("expected PaymentReceived to be published")
	}

	payment, err := store.Get("hash1")
	require.NoError(t, err)
	require.NotNil(t, payment.Received)
}

func TestSupervisorPersistsIncomingLockedAndConfirmed(t *testing.T) {
	sup, engine, store, publisher := newTestSupervisor(t)
	defer publisher.Close()

	_, err := store.AddIncoming("preimage1", "hash1", encoding.OriginInvoice{Request: "lnbc1..."}, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Receive("hash1", []encoding.ReceivedWithPart{encoding.SpliceIn{AmountMsat: 1000, ChannelId: "chan1", FundingTxId: "tx1"}}, time.Now()))

	states := make(chan lnengine.ConnectionState, 2)
	nodeEvents := make(chan lnengine.NodeEvent, 2)

	engine.EXPECT().Connect(mock.Anything, mock.Anything, mock.Anything).Return(nil)
	engine.EXPECT().ConnectionState(mock.Anything).Return(states, nil)
	engine.EXPECT().NodeEvents(mock.Anything).Return(nodeEvents, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	lockedAt := time.Now()
	nodeEvents <- events.IncomingPartLocked{PaymentHash: "hash1", LockedAt: lockedAt}
	nodeEvents <- events.IncomingPartConfirmed{PaymentHash: "hash1", ConfirmedAt: lockedAt.Add(time.Minute)}

	require.Eventually(t, func() bool {
		payment, err := store.Get("hash1")
		if err != nil || payment.Received == nil || len(payment.Received.ReceivedWith) != 1 {
			return false
		}
		splice, ok := payment.Received.ReceivedWith[0].(encoding.SpliceIn)
		return ok && splice.LockedAt != nil && splice.ConfirmedAt != nil
	}, time.Second, 10*time.Millisecond)
}

func TestSupervisorPersistsChannelsUpdatedSnapshot(t *testing.T) {
	sup, engine, store, publisher := newTestSupervisor(t)
	defer publisher.Close()

	states := make(chan lnengine.ConnectionState, 2)
	nodeEvents := make(chan lnengine.NodeEvent, 1)

	engine.EXPECT().Connect(mock.Anything, mock.Anything, mock.Anything).Return(nil)
	engine.EXPECT().ConnectionState(mock.Anything).Return(states, nil)
	engine.EXPECT().NodeEvents(mock.Anything).Return(nodeEvents, nil)
	engine.EXPECT().Channels(mock.Anything).Return([]lnengine.Channel{
		{ChannelId: "chan1", ShortChannelId: "1x1x1", CapacitySat: 1_000_000, LocalBalanceMsat: 500_000, IsUsable: true},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Run(ctx)

	nodeEvents <- events.ChannelsUpdated{ChannelCount: 1}

	require.Eventually(t, func() bool {
		snapshot, err := store.GetChannelSnapshot("chan1")
		return err == nil && snapshot.CapacitySat == 1_000_000
	}, time.Second, 10*time.Millisecond)
}

