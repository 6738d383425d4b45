package db

import "time"

// IncomingPayment is the row backing encoding.IncomingOrigin and the
// receivedWith list. See spec.md §3 - IncomingPayment.
type IncomingPayment struct {
	Id               string `gorm:"primaryKey"`
	PaymentHash      string `gorm:"uniqueIndex;not null"`
	Preimage         string `gorm:"not null"`
	OriginType       string `gorm:"column:origin_type;not null"`
	OriginBlob       []byte `gorm:"column:origin_blob;not null"`
	ReceivedWithType string `gorm:"column:received_with_type"`
	ReceivedWithBlob []byte `gorm:"column:received_with_blob"`
	CreatedAt        time.Time
	ReceivedAt       *time.Time
	FirstReceivedAt  *time.Time
}

func (IncomingPayment) TableName() string { return "incoming_payments" }

// LightningOutgoingPayment is the row backing a paid-out Lightning payment.
// See spec.md §3 - LightningOutgoingPayment.
type LightningOutgoingPayment struct {
	Id                  string `gorm:"primaryKey"`
	RecipientPubkey     string
	RecipientAmountMsat uint64
	DetailsType         string `gorm:"column:details_type;not null"`
	DetailsBlob         []byte `gorm:"column:details_blob;not null"`
	StatusType          string `gorm:"column:status_type;not null"`
	StatusBlob          []byte `gorm:"column:status_blob;not null"`
	CreatedAt           time.Time
	CompletedAt         *time.Time

	Parts []LightningOutgoingPart `gorm:"foreignKey:PaymentId;constraint:OnDelete:CASCADE"`
}

func (LightningOutgoingPayment) TableName() string { return "lightning_outgoing_payments" }

// LightningOutgoingPart is one HTLC attempt belonging to a
// LightningOutgoingPayment. See spec.md §3 - Part.
type LightningOutgoingPart struct {
	Id          string `gorm:"primaryKey"`
	PaymentId   string `gorm:"not null;index"`
	AmountMsat  uint64
	Route       string // compact text column, see encoding.EncodeRoute
	StatusType  string `gorm:"column:status_type;not null"`
	StatusBlob  []byte `gorm:"column:status_blob;not null"`
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (LightningOutgoingPart) TableName() string { return "lightning_outgoing_parts" }

// ChannelCloseOutgoingPayment is the row backing an on-chain channel close.
// See spec.md §3 - ChannelCloseOutgoingPayment.
type ChannelCloseOutgoingPayment struct {
	Id                     string `gorm:"primaryKey"`
	AmountMsat             uint64
	Address                string
	IsSentToDefaultAddress bool
	MiningFeeMsat          uint64
	ChannelId              string `gorm:"index"`
	TxId                   string
	ClosingInfoType        string `gorm:"column:closing_info_type;not null"`
	ClosingInfoBlob        []byte `gorm:"column:closing_info_blob;not null"`
	CreatedAt              time.Time
	ConfirmedAt            *time.Time
	LockedAt               *time.Time
}

func (ChannelCloseOutgoingPayment) TableName() string { return "channel_close_outgoing_payments" }

// InboundLiquidityOutgoingPayment is the row backing a liquidity-acquisition
// splice paid for out of the user's own balance or fee credit. See spec.md
// §3 - InboundLiquidityOutgoingPayment.
type InboundLiquidityOutgoingPayment struct {
	Id            string `gorm:"primaryKey"`
	ChannelId     string `gorm:"index"`
	TxId          string
	MiningFeeMsat uint64
	LeaseType     string `gorm:"column:lease_type;not null"`
	LeaseBlob     []byte `gorm:"column:lease_blob;not null"`
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	LockedAt      *time.Time
}

func (InboundLiquidityOutgoingPayment) TableName() string {
	return "inbound_liquidity_outgoing_payments"
}

// PaymentType identifies which entity a PaymentMetadata row annotates.
type PaymentType string

const (
	PaymentTypeIncoming          PaymentType = "incoming"
	PaymentTypeLightningOutgoing PaymentType = "lightning_outgoing"
	PaymentTypeChannelClose      PaymentType = "channel_close"
	PaymentTypeInboundLiquidity  PaymentType = "inbound_liquidity"
)

// PaymentMetadata is the side-table of operator-supplied annotations keyed
// by (paymentType, paymentId). See spec.md §3 - PaymentMetadata.
type PaymentMetadata struct {
	PaymentType PaymentType `gorm:"primaryKey;column:payment_type"`
	PaymentId   string      `gorm:"primaryKey;column:payment_id"`
	ExternalId  *string
	WebhookUrl  *string
}

func (PaymentMetadata) TableName() string { return "payment_metadata" }

// ChannelSnapshot caches the peer's last reported channel view as an audit
// trail of channel state over time. The HTTP balance/channel-list handlers
// still read live from the engine; this table exists for export/history and
// as a fallback source once an offline-read path is added. See SPEC_FULL.md
// §3.
type ChannelSnapshot struct {
	ChannelId        string `gorm:"primaryKey"`
	ShortChannelId   string
	CapacitySat      uint64
	LocalBalanceMsat uint64
	IsUsable         bool
	UpdatedAt        time.Time
}

func (ChannelSnapshot) TableName() string { return "channel_snapshots" }

// NodeRecord is the single-row table recording the node identity this
// database file was created for, so a mismatched restore fails fast instead
// of silently mixing two nodes' payment history. See SPEC_FULL.md §3.
type NodeRecord struct {
	Id            uint   `gorm:"primaryKey"`
	Chain         string `gorm:"not null"`
	NodeIdPrefix6 string `gorm:"not null"`
	CreatedAt     time.Time
}

func (NodeRecord) TableName() string { return "node_record" }

// FeeCreditLedgerEntry is an append-only record of fee-credit movements,
// kept so the running credit balance consulted by the liquidity policy can
// be summed without decoding every incoming row's receivedWith blob.
type FeeCreditLedgerEntry struct {
	Id        uint `gorm:"primaryKey"`
	DeltaMsat int64
	Reason    string
	CreatedAt time.Time
}

func (FeeCreditLedgerEntry) TableName() string { return "fee_credit_ledger" }
