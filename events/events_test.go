package events_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/events"
)

func TestPublishDeliversToEachSubscriber(t *testing.T) {
	logger := zerolog.Nop()
	p := events.NewPublisher(&logger)
	defer p.Close()

	receivedA := make(chan events.Event, 1)
	receivedB := make(chan events.Event, 1)
	p.RegisterSubscriber("a", func(e events.Event) { receivedA <- e })
	p.RegisterSubscriber("b", func(e events.Event) { receivedB <- e })

	p.Publish(events.PaymentSent{PaymentId: "p1", Preimage: "deadbeef"})

	for _, ch := range []chan events.Event{receivedA, receivedB} {
		select {
		case e := <-ch:
			sent, ok := e.(events.PaymentSent)
			require.True(t, ok)
			require.Equal(t, "p1", sent.PaymentId)
		case <-time.After(time.Second):
			t.Fatal("subscriber never received event")
		}
	}
}

func TestRemoveSubscriberStopsDelivery(t *testing.T) {
	logger := zerolog.Nop()
	p := events.NewPublisher(&logger)
	defer p.Close()

	received := make(chan events.Event, 4)
	p.RegisterSubscriber("a", func(e events.Event) { received <- e })
	p.RemoveSubscriber("a")

	p.Publish(events.PaymentSent{PaymentId: "p2"})

	select {
	case e := <-received:
		t.Fatalf("expected no delivery after unregister, got %v", e)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublishDropsEventForSlowSubscriberWithoutBlocking(t *testing.T) {
	logger := zerolog.Nop()
	p := events.NewPublisher(&logger)
	defer p.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	p.RegisterSubscriber("slow", func(e events.Event) {
		close(started)
		<-block
	})

	// Give the subscriber's own goroutine a chance to register before
	// publishing, so the first event is the one that blocks it.
	time.Sleep(10 * time.Millisecond)

	for i := 0; i < 100; i++ {
		p.Publish(events.PaymentFailed{PaymentId: "p3", Reason: "no route"})
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("slow subscriber handler never invoked")
	}

	done := make(chan struct{})
	go func() {
		p.Publish(events.PaymentFailed{PaymentId: "p4", Reason: "no route"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber instead of dropping")
	}

	close(block)
}

func TestEventTypeNamesMatchWireShape(t *testing.T) {
	require.Equal(t, "payment_received", events.PaymentReceived{}.EventType())
	require.Equal(t, "payment_sent", events.PaymentSent{}.EventType())
	require.Equal(t, "payment_failed", events.PaymentFailed{}.EventType())
	require.Equal(t, "channels_updated", events.ChannelsUpdated{}.EventType())
	require.Equal(t, "liquidity_fee_quote", events.LiquidityFeeQuote{}.EventType())
	require.Equal(t, "incoming_part_locked", events.IncomingPartLocked{}.EventType())
	require.Equal(t, "incoming_part_confirmed", events.IncomingPartConfirmed{}.EventType())
	require.Equal(t, "channel_close_locked", events.ChannelCloseLocked{}.EventType())
	require.Equal(t, "channel_close_confirmed", events.ChannelCloseConfirmed{}.EventType())
	require.Equal(t, "inbound_liquidity_locked", events.InboundLiquidityLocked{}.EventType())
	require.Equal(t, "inbound_liquidity_confirmed", events.InboundLiquidityConfirmed{}.EventType())
}
