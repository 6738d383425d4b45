// Package lnengine declares the boundary to the external Lightning protocol
// engine. Nothing in this repository implements Engine; peer.Supervisor and
// httpapi hold one as a collaborator, mirroring the teacher's
// lnclient.LNClient boundary. See spec.md §6 - "Collaborator interfaces
// consumed" and SPEC_FULL.md §4.E.
package lnengine

import (
	"context"
	"time"

	"github.com/lightningco/nodecore/encoding"
)

// ConnectionState is one value of the engine's connectionState stream.
type ConnectionState string

const (
	StateConnecting  ConnectionState = "connecting"
	StateEstablished ConnectionState = "established"
	StateClosed      ConnectionState = "closed"
)

// Channel is a snapshot entry of the engine's channels stream.
type Channel struct {
	ChannelId        string
	ShortChannelId   string
	CapacitySat      uint64
	LocalBalanceMsat uint64
	IsUsable         bool
}

// NodeEvent is one value of the engine's nodeEvents stream. The concrete
// payload types (PaymentReceived, etc.) live in the events package; this
// boundary only promises an opaque stream of them.
type NodeEvent = any

// PaymentSentResult is the success shape for PayInvoice/PayOffer.
type PaymentSentResult struct {
	Preimage string
	Parts    []encoding.RouteHop
}

// PaymentFailedResult is the failure shape for PayInvoice/PayOffer.
type PaymentFailedResult struct {
	Reason   string
	Attempts int
}

// Command is an opaque protocol-level command forwarded verbatim via Send.
type Command struct {
	Name    string
	Payload map[string]any
}

// Invoice is the result of CreateInvoice. Preimage is the payment preimage
// generated for this invoice, recorded in the incoming payment's preimage
// column by payments.Store.AddIncoming (the row's primary key is a
// generated uuid).
type Invoice struct {
	PaymentHash string
	Serialized  string
	AmountSat   *uint64
	Preimage    string
}

// FundingRates is the result of RemoteFundingRates.
type FundingRates struct {
	LeaseDurationBlocks uint32
	FundingFeeSat       uint64
	ChannelFeeBaseMsat  uint64
	ChannelFeeBps       uint32
}

// Engine is the set of operations SPEC_FULL.md §4.E names as consumed from
// the protocol engine. Timeouts for Connect are enforced by the caller
// (peer.Supervisor), not by the implementation of this interface.
type Engine interface {
	Connect(ctx context.Context, peerPubkey, host string) error
	Disconnect(ctx context.Context) error

	Channels(ctx context.Context) ([]Channel, error)
	ConnectionState(ctx context.Context) (<-chan ConnectionState, error)
	NodeEvents(ctx context.Context) (<-chan NodeEvent, error)

	PayInvoice(ctx context.Context, invoice string, amountMsat *uint64) (*PaymentSentResult, *PaymentFailedResult, error)
	PayOffer(ctx context.Context, offer string, amountMsat uint64, fetchInvoiceTimeout time.Duration) (*PaymentSentResult, *PaymentFailedResult, error)
	SpliceOut(ctx context.Context, channelId, address string, amountSat uint64) (string, error)
	SpliceCpfp(ctx context.Context, channelId string, feerateSatPerVb uint64) (string, error)
	Send(ctx context.Context, cmd Command) error

	CreateInvoice(ctx context.Context, amountSat *uint64, description, descriptionHash string, expirySeconds uint32) (*Invoice, error)
	RequestAddress(ctx context.Context) (string, error)
	SetAutoLiquidityParams(ctx context.Context, maxAbsoluteFeeSat uint64, maxRelativeFeeBps uint32, maxAllowedCreditSat uint64) error
	RegisterFcmToken(ctx context.Context, token string) error
	EstimateFeeForSpliceCpfp(ctx context.Context, channelId string, feerateSatPerVb uint64) (uint64, error)
	RemoteFundingRates(ctx context.Context) (*FundingRates, error)
	OnChainFeeratesFlow(ctx context.Context) (<-chan uint64, error)
	FeeCreditFlow(ctx context.Context) (<-chan uint64, error)
}
