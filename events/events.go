// Package events fans protocol events out to webhook and WebSocket
// subscribers. Grounded on the teacher's lsps/events.EventQueue (buffered
// channel, drop-when-full) and http/lsps5_webhook_receiver.go's
// WebhookEventHub (register/unregister/broadcast channels feeding
// per-subscriber delivery). See spec.md §4.D.
package events

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lightningco/nodecore/encoding"
)

// Event is the base type every value Publish accepts must satisfy.
type Event interface {
	EventType() string
}

// PaymentReceived is surfaced only when Amount > 0, per spec.md §4.D.
// ReceivedWith carries whatever the protocol engine resolved the receipt to
// (a direct HTLC, a new channel, a splice-in, fee credit movement); the peer
// supervisor persists it verbatim via payments.Store.Receive. It is left
// empty only when the engine reports a bare HTLC with no part detail, in
// which case the supervisor synthesizes a single LightningPayment part.
type PaymentReceived struct {
	PaymentHash  string
	AmountMsat   uint64
	ReceivedWith []encoding.ReceivedWithPart
	ExternalId   *string
	WebhookUrl   *string
}

func (PaymentReceived) EventType() string { return "payment_received" }

// PaymentSent is surfaced when an outgoing payment completes successfully.
type PaymentSent struct {
	PaymentId string
	Preimage  string
}

func (PaymentSent) EventType() string { return "payment_sent" }

// PaymentFailed is surfaced when an outgoing payment fails terminally.
type PaymentFailed struct {
	PaymentId string
	Reason    string
}

func (PaymentFailed) EventType() string { return "payment_failed" }

// ChannelsUpdated carries a fresh channels snapshot from the peer.
type ChannelsUpdated struct {
	ChannelCount int
}

func (ChannelsUpdated) EventType() string { return "channels_updated" }

// LiquidityFeeQuote is raised by the protocol engine per incoming HTLC or
// splice attempt whose on-chain fee the liquidity policy must rule on, per
// spec.md §4.C. It is not surfaced to webhook/WebSocket subscribers; the
// peer supervisor consumes it directly and replies with a Command.
type LiquidityFeeQuote struct {
	QuoteId   string
	AmountSat uint64
	FeeSat    uint64
	// CreditAvailableSat is the engine's own view of this node's fee credit
	// and is not used for the accept/credit/reject decision: payments.Store
	// is the book of record for fee credit, so peer.Supervisor queries it
	// directly instead of trusting this field. Kept because it is part of
	// the quote the engine actually sends.
	CreditAvailableSat uint64
	ChannelsEmpty      bool
}

func (LiquidityFeeQuote) EventType() string { return "liquidity_fee_quote" }

// IncomingPartLocked signals that a NewChannel/SpliceIn receivedWith part's
// funding transaction reached the peer's locked-funds threshold. The peer
// supervisor turns this into a payments.Store.SetLocked call.
type IncomingPartLocked struct {
	PaymentHash string
	LockedAt    time.Time
}

func (IncomingPartLocked) EventType() string { return "incoming_part_locked" }

// IncomingPartConfirmed signals the same funding transaction reaching its
// required on-chain confirmations. The peer supervisor turns this into a
// payments.Store.SetConfirmed call.
type IncomingPartConfirmed struct {
	PaymentHash string
	ConfirmedAt time.Time
}

func (IncomingPartConfirmed) EventType() string { return "incoming_part_confirmed" }

// ChannelCloseLocked signals that a channel-close splice's transaction
// reached the peer's locked-funds threshold.
type ChannelCloseLocked struct {
	ChannelId string
	TxId      string
	LockedAt  time.Time
}

func (ChannelCloseLocked) EventType() string { return "channel_close_locked" }

// ChannelCloseConfirmed signals that a channel-close splice's transaction
// reached its required on-chain confirmations.
type ChannelCloseConfirmed struct {
	ChannelId   string
	TxId        string
	ConfirmedAt time.Time
}

func (ChannelCloseConfirmed) EventType() string { return "channel_close_confirmed" }

// InboundLiquidityLocked signals that an inbound-liquidity splice's
// transaction reached the peer's locked-funds threshold.
type InboundLiquidityLocked struct {
	ChannelId string
	TxId      string
	LockedAt  time.Time
}

func (InboundLiquidityLocked) EventType() string { return "inbound_liquidity_locked" }

// InboundLiquidityConfirmed signals that an inbound-liquidity splice's
// transaction reached its required on-chain confirmations.
type InboundLiquidityConfirmed struct {
	ChannelId   string
	TxId        string
	ConfirmedAt time.Time
}

func (InboundLiquidityConfirmed) EventType() string { return "inbound_liquidity_confirmed" }

const subscriberBufferSize = 64

// subscriber is one registered fan-out destination: its own goroutine
// draining its own buffered channel, so a slow reader never blocks the
// publisher or any other subscriber.
type subscriber struct {
	id      string
	events  chan Event
	handler func(Event)
	done    chan struct{}
}

// Publisher is the multi-producer, multi-subscriber event bus. Each
// subscriber has its own buffered channel and goroutine, so one failing or
// slow subscriber does not stall the others. Delivery is not guaranteed:
// when a subscriber's buffer is full, Publish drops the event for that
// subscriber, with a logged warning, rather than blocking.
type Publisher struct {
	logger      *zerolog.Logger
	register    chan *subscriber
	unregister  chan string
	publishCh   chan Event
	subscribers map[string]*subscriber
	stop        chan struct{}
}

// NewPublisher starts the bus's own dispatch goroutine immediately,
// mirroring the teacher's WebhookEventHub.NewWebhookEventHub.
func NewPublisher(logger *zerolog.Logger) *Publisher {
	p := &Publisher{
		logger:      logger,
		register:    make(chan *subscriber),
		unregister:  make(chan string),
		publishCh:   make(chan Event, subscriberBufferSize),
		subscribers: make(map[string]*subscriber),
		stop:        make(chan struct{}),
	}
	go p.run()
	return p
}

// RegisterSubscriber adds a fan-out destination identified by id; handler
// runs on its own goroutine reading events in emission order.
func (p *Publisher) RegisterSubscriber(id string, handler func(Event)) {
	s := &subscriber{id: id, events: make(chan Event, subscriberBufferSize), handler: handler, done: make(chan struct{})}
	go s.loop()
	p.register <- s
}

// RemoveSubscriber unregisters id; its goroutine exits once its buffer
// drains.
func (p *Publisher) RemoveSubscriber(id string) {
	p.unregister <- id
}

// Publish enqueues event for delivery to every current subscriber.
func (p *Publisher) Publish(event Event) {
	p.publishCh <- event
}

// Close stops the bus's dispatch goroutine and every subscriber's loop.
func (p *Publisher) Close() {
	close(p.stop)
}

func (p *Publisher) run() {
	for {
		select {
		case s := <-p.register:
			p.subscribers[s.id] = s
		case id := <-p.unregister:
			if s, ok := p.subscribers[id]; ok {
				close(s.events)
				delete(p.subscribers, id)
			}
		case event := <-p.publishCh:
			for _, s := range p.subscribers {
				select {
				case s.events <- event:
				default:
					p.logger.Warn().Str("subscriber", s.id).Str("event_type", event.EventType()).Msg("dropping event for slow subscriber")
				}
			}
		case <-p.stop:
			for id, s := range p.subscribers {
				close(s.events)
				delete(p.subscribers, id)
			}
			return
		}
	}
}

func (s *subscriber) loop() {
	for event := range s.events {
		s.handler(event)
	}
}
