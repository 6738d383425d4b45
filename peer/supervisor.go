// Package peer maintains the perpetual connection to the LSP and projects
// protocol events onto the event bus and webhook dispatcher. Grounded on
// the teacher's lsps/manager.LiquidityManager (own goroutines for message
// processing keyed off a shared context.Context) and
// http/lsps5_webhook_receiver.go's WebhookEventHub. See spec.md §4.D.
package peer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/events"
	"github.com/lightningco/nodecore/liquidity"
	"github.com/lightningco/nodecore/lnengine"
	"github.com/lightningco/nodecore/payments"
	"github.com/lightningco/nodecore/webhook"
)

const (
	connectTimeout   = 10 * time.Second
	handshakeTimeout = 10 * time.Second
	reconnectSleep   = 3 * time.Second
)

// Supervisor runs the reconnect loop and the event fan-out described in
// spec.md §4.D.
type Supervisor struct {
	engine     lnengine.Engine
	store      *payments.Store
	policy     *liquidity.Cell
	publisher  *events.Publisher
	dispatcher *webhook.Dispatcher
	logger     *zerolog.Logger

	peerPubkey string
	peerHost   string
	webhookUrl string

	readyOnce sync.Once
	ready     chan struct{}
}

// NewSupervisor wires a Supervisor. webhookUrl is the single configured
// global webhook target named in spec.md §4.D; it may be empty.
func NewSupervisor(engine lnengine.Engine, store *payments.Store, policy *liquidity.Cell, publisher *events.Publisher, dispatcher *webhook.Dispatcher, peerPubkey, peerHost, webhookUrl string, logger *zerolog.Logger) *Supervisor {
	return &Supervisor{
		engine:     engine,
		store:      store,
		policy:     policy,
		publisher:  publisher,
		dispatcher: dispatcher,
		logger:     logger,
		peerPubkey: peerPubkey,
		peerHost:   peerHost,
		webhookUrl: webhookUrl,
		ready:      make(chan struct{}),
	}
}

// Ready blocks until the first successful connection reaches Established,
// per spec.md §4.D: "First reach of Established unblocks a readiness gate."
func (s *Supervisor) Ready() <-chan struct{} {
	return s.ready
}

// Run drives the reconnect loop until ctx is cancelled: attempt connect
// with connect/handshake timeouts, wait for Closed, sleep, repeat.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.connectOnce(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("peer connect attempt failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectSleep):
		}
	}
}

func (s *Supervisor) connectOnce(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout+handshakeTimeout)
	defer cancel()

	if err := s.engine.Connect(connectCtx, s.peerPubkey, s.peerHost); err != nil {
		return err
	}

	states, err := s.engine.ConnectionState(ctx)
	if err != nil {
		return err
	}
	nodeEvents, err := s.engine.NodeEvents(ctx)
	if err != nil {
		return err
	}

	go s.consumeEvents(ctx, nodeEvents)

	for {
		select {
		case <-ctx.Done():
			return nil
		case state, ok := <-states:
			if !ok {
				return nil
			}
			switch state {
			case lnengine.StateEstablished:
				s.readyOnce.Do(func() { close(s.ready) })
			case lnengine.StateClosed:
				return nil
			}
		}
	}
}

// consumeEvents implements event fan-out: PaymentReceived with amount > 0 is
// persisted, enriched from the metadata store, then published to the event
// bus and dispatched to the global webhook (and to any per-payment webhook
// URL from metadata). A LiquidityFeeQuote is answered with a policy decision
// sent back to the engine; the lock/confirm payloads drive store lifecycle
// transitions and ChannelsUpdated refreshes the channel-snapshot cache. None
// of those are surfaced to webhook/WebSocket subscribers, and any other
// payload is ignored.
func (s *Supervisor) consumeEvents(ctx context.Context, nodeEvents <-chan lnengine.NodeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-nodeEvents:
			if !ok {
				return
			}
			s.handleEvent(ctx, raw)
		}
	}
}

func (s *Supervisor) handleEvent(ctx context.Context, raw lnengine.NodeEvent) {
	switch ev := raw.(type) {
	case events.LiquidityFeeQuote:
		s.handleLiquidityFeeQuote(ev)
	case events.PaymentReceived:
		s.handlePaymentReceived(ev)
	case events.IncomingPartLocked:
		if err := s.store.SetLocked(ev.PaymentHash, ev.LockedAt); err != nil {
			s.logger.Error().Err(err).Str("payment_hash", ev.PaymentHash).Msg("failed to set incoming payment locked")
		}
	case events.IncomingPartConfirmed:
		if err := s.store.SetConfirmed(ev.PaymentHash, ev.ConfirmedAt); err != nil {
			s.logger.Error().Err(err).Str("payment_hash", ev.PaymentHash).Msg("failed to set incoming payment confirmed")
		}
	case events.ChannelCloseLocked:
		if _, err := s.store.SetChannelCloseLocked(ev.TxId, ev.LockedAt); err != nil {
			s.logger.Error().Err(err).Str("tx_id", ev.TxId).Msg("failed to set channel close locked")
		}
	case events.ChannelCloseConfirmed:
		if _, err := s.store.SetChannelCloseConfirmed(ev.TxId, ev.ConfirmedAt); err != nil {
			s.logger.Error().Err(err).Str("tx_id", ev.TxId).Msg("failed to set channel close confirmed")
		}
	case events.InboundLiquidityLocked:
		if _, err := s.store.SetInboundLiquidityLocked(ev.TxId, ev.LockedAt); err != nil {
			s.logger.Error().Err(err).Str("tx_id", ev.TxId).Msg("failed to set inbound liquidity locked")
		}
	case events.InboundLiquidityConfirmed:
		if _, err := s.store.SetInboundLiquidityConfirmed(ev.TxId, ev.ConfirmedAt); err != nil {
			s.logger.Error().Err(err).Str("tx_id", ev.TxId).Msg("failed to set inbound liquidity confirmed")
		}
	case events.ChannelsUpdated:
		s.refreshChannelSnapshots(ctx)
	}
}

// handlePaymentReceived persists the receipt via payments.Store.Receive
// before publishing, so a webhook/WebSocket subscriber never observes a
// payment_received event the store doesn't yet know about. A receive for a
// payment hash with no prior AddIncoming row (the protocol engine resolved a
// spontaneous or AMP-style receipt this node never invoiced) is skipped
// without logging and does not block publishing.
func (s *Supervisor) handlePaymentReceived(received events.PaymentReceived) {
	if received.AmountMsat == 0 {
		return
	}

	receivedWith := received.ReceivedWith
	if len(receivedWith) == 0 {
		receivedWith = []encoding.ReceivedWithPart{encoding.LightningPayment{AmountMsat: received.AmountMsat}}
	}
	if err := s.store.Receive(received.PaymentHash, receivedWith, time.Now()); err != nil && !payments.IsNotFound(err) {
		s.logger.Error().Err(err).Str("payment_hash", received.PaymentHash).Msg("failed to persist received payment")
	}
	s.recordFeeCreditMovement(receivedWith)

	meta, err := s.store.GetMetadata(db.PaymentTypeIncoming, received.PaymentHash)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_hash", received.PaymentHash).Msg("failed to load metadata for received payment")
	} else if meta != nil {
		received.ExternalId = meta.ExternalId
		received.WebhookUrl = meta.WebhookUrl
	}

	s.publisher.Publish(received)

	if s.webhookUrl != "" {
		s.dispatcher.Deliver(s.webhookUrl, received)
	}
	if received.WebhookUrl != nil && *received.WebhookUrl != "" {
		s.dispatcher.Deliver(*received.WebhookUrl, received)
	}
}

// recordFeeCreditMovement appends a ledger entry for every AddedToFeeCredit/
// FeeCreditPayment part so db/queries.GetFeeCreditBalance reflects this
// receipt without decoding every incoming row's receivedWith blob.
func (s *Supervisor) recordFeeCreditMovement(parts []encoding.ReceivedWithPart) {
	now := time.Now()
	for _, p := range parts {
		switch v := p.(type) {
		case encoding.AddedToFeeCredit:
			if err := s.store.AppendFeeCreditLedgerEntry(int64(v.AmountMsat), "added_to_fee_credit", now); err != nil {
				s.logger.Error().Err(err).Msg("failed to append fee credit ledger entry")
			}
		case encoding.FeeCreditPayment:
			if err := s.store.AppendFeeCreditLedgerEntry(-int64(v.AmountMsat), "fee_credit_payment", now); err != nil {
				s.logger.Error().Err(err).Msg("failed to append fee credit ledger entry")
			}
		}
	}
}

// refreshChannelSnapshots implements SPEC_FULL.md §3's channel-snapshot
// cache: on every ChannelsUpdated event, re-read the full channel list from
// the engine and upsert one row per channel.
func (s *Supervisor) refreshChannelSnapshots(ctx context.Context) {
	channels, err := s.engine.Channels(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read channels for snapshot refresh")
		return
	}
	now := time.Now()
	for _, ch := range channels {
		snapshot := payments.ChannelSnapshot{
			ChannelId:        ch.ChannelId,
			ShortChannelId:   ch.ShortChannelId,
			CapacitySat:      ch.CapacitySat,
			LocalBalanceMsat: ch.LocalBalanceMsat,
			IsUsable:         ch.IsUsable,
			UpdatedAt:        now,
		}
		if err := s.store.UpsertChannelSnapshot(snapshot); err != nil {
			s.logger.Error().Err(err).Str("channel_id", ch.ChannelId).Msg("failed to upsert channel snapshot")
		}
	}
}

// handleLiquidityFeeQuote rules on an incoming HTLC or splice attempt's
// fee quote, per spec.md §4.C, and replies to the protocol engine with its
// decision so the engine can accept, credit, or reject the attempt.
// creditAvailableSat comes from this node's own ledger (payments.Store is
// the book of record for fee credit), not from the quote event: the
// protocol engine has no way to know about credit this node has already
// spent or accrued since its last quote.
func (s *Supervisor) handleLiquidityFeeQuote(quote events.LiquidityFeeQuote) {
	creditAvailableSat := uint64(0)
	if balanceMsat := s.store.GetFeeCreditBalance(); balanceMsat > 0 {
		creditAvailableSat = uint64(balanceMsat) / 1000
	}
	result := s.policy.Decide(quote.AmountSat, quote.FeeSat, creditAvailableSat, quote.ChannelsEmpty)

	cmd := lnengine.Command{
		Name: "liquidityQuoteDecision",
		Payload: map[string]any{
			"quoteId":  quote.QuoteId,
			"decision": string(result.Decision),
			"reason":   string(result.Reason),
		},
	}

	if err := s.engine.Send(context.Background(), cmd); err != nil {
		s.logger.Error().Err(err).Str("quote_id", quote.QuoteId).Msg("failed to send liquidity quote decision")
	}
}
