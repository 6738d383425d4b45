// Package payments implements the transactional CRUD and query layer over
// incoming payments, outgoing Lightning payments and their parts,
// channel-close and inbound-liquidity outgoing payments, and per-entity
// metadata. See spec.md §3 and §4.B.
package payments

import (
	"time"

	"github.com/lightningco/nodecore/encoding"
)

// IncomingPayment is the domain view of one incoming_payments row. See
// spec.md §3 - IncomingPayment.
type IncomingPayment struct {
	Id          string
	PaymentHash string
	Preimage    string
	Origin      encoding.IncomingOrigin
	CreatedAt   time.Time
	Received    *Received
}

// Received is the part of an IncomingPayment set once a receipt lands. See
// spec.md §3 and the protocol-state diagram in §4.E.
type Received struct {
	ReceivedWith []encoding.ReceivedWithPart
	ReceivedAt   time.Time
}

// OutgoingPayment is the domain view of one lightning_outgoing_payments row
// plus its parts. See spec.md §3 - LightningOutgoingPayment.
type OutgoingPayment struct {
	Id                  string
	RecipientPubkey     string
	RecipientAmountMsat uint64
	Details             encoding.LightningOutgoingDetails
	Status              encoding.OutgoingStatus
	Parts               []Part
	CreatedAt           time.Time
	CompletedAt         *time.Time
}

// Part is the domain view of one lightning_outgoing_parts row. See
// spec.md §3 - Part.
type Part struct {
	Id          string
	PaymentId   string
	AmountMsat  uint64
	Route       []encoding.RouteHop
	Status      encoding.PartStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ChannelClosePayment is the domain view of one
// channel_close_outgoing_payments row. See spec.md §3 -
// ChannelCloseOutgoingPayment.
type ChannelClosePayment struct {
	Id                     string
	AmountMsat             uint64
	Address                string
	IsSentToDefaultAddress bool
	MiningFeeMsat          uint64
	ChannelId              string
	TxId                   string
	ClosingInfo            encoding.ClosingInfo
	CreatedAt              time.Time
	ConfirmedAt            *time.Time
	LockedAt               *time.Time
}

// InboundLiquidityPayment is the domain view of one
// inbound_liquidity_outgoing_payments row. See spec.md §3 -
// InboundLiquidityOutgoingPayment.
type InboundLiquidityPayment struct {
	Id            string
	ChannelId     string
	TxId          string
	MiningFeeMsat uint64
	Lease         encoding.LiquidityLease
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	LockedAt      *time.Time
}

// ChannelSnapshot is the domain view of one channel_snapshots row. See
// SPEC_FULL.md §3.
type ChannelSnapshot struct {
	ChannelId        string
	ShortChannelId   string
	CapacitySat      uint64
	LocalBalanceMsat uint64
	IsUsable         bool
	UpdatedAt        time.Time
}
