package encoding

import (
	"encoding/json"
	"strconv"
	"time"
)

// ReceivedWithPart is one entry of an IncomingPayment's receivedWith list.
// See spec.md §3 - ReceivedPart.
type ReceivedWithPart interface {
	isReceivedWithPart()
}

type LightningPayment struct {
	AmountMsat uint64
	ChannelId  string
	HtlcId     uint64
}

type NewChannel struct {
	AmountMsat     uint64
	ServiceFeeMsat uint64
	MiningFeeMsat  uint64
	ChannelId      string
	FundingTxId    string
	IsOpener       bool
	ConfirmedAt    *time.Time
	LockedAt       *time.Time
}

type SpliceIn struct {
	AmountMsat     uint64
	ServiceFeeMsat uint64
	MiningFeeMsat  uint64
	ChannelId      string
	FundingTxId    string
	ConfirmedAt    *time.Time
	LockedAt       *time.Time
}

type AddedToFeeCredit struct {
	AmountMsat uint64
}

type FeeCreditPayment struct {
	AmountMsat uint64
}

func (LightningPayment) isReceivedWithPart() {}
func (NewChannel) isReceivedWithPart()       {}
func (SpliceIn) isReceivedWithPart()         {}
func (AddedToFeeCredit) isReceivedWithPart() {}
func (FeeCreditPayment) isReceivedWithPart() {}

const (
	TagReceivedWithLightningPaymentV0 Tag = "received_with_lightning_payment_v0"
	TagReceivedWithNewChannelV0       Tag = "received_with_new_channel_v0"
	TagReceivedWithSpliceInV0         Tag = "received_with_splice_in_v0"
	TagReceivedWithAddedToFeeCreditV0 Tag = "received_with_added_to_fee_credit_v0"
	TagReceivedWithFeeCreditPaymentV0 Tag = "received_with_fee_credit_payment_v0"
)

type lightningPaymentDTOv0 struct {
	AmountMsat uint64 `json:"amount_msat"`
	ChannelId  string `json:"channel_id"`
	HtlcId     uint64 `json:"htlc_id"`
}

type newChannelDTOv0 struct {
	AmountMsat     uint64     `json:"amount_msat"`
	ServiceFeeMsat uint64     `json:"service_fee_msat"`
	MiningFeeMsat  uint64     `json:"mining_fee_msat"`
	ChannelId      string     `json:"channel_id"`
	FundingTxId    string     `json:"funding_tx_id"`
	IsOpener       bool       `json:"is_opener"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	LockedAt       *time.Time `json:"locked_at,omitempty"`
}

type spliceInDTOv0 struct {
	AmountMsat     uint64     `json:"amount_msat"`
	ServiceFeeMsat uint64     `json:"service_fee_msat"`
	MiningFeeMsat  uint64     `json:"mining_fee_msat"`
	ChannelId      string     `json:"channel_id"`
	FundingTxId    string     `json:"funding_tx_id"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	LockedAt       *time.Time `json:"locked_at,omitempty"`
}

type addedToFeeCreditDTOv0 struct {
	AmountMsat uint64 `json:"amount_msat"`
}

type feeCreditPaymentDTOv0 struct {
	AmountMsat uint64 `json:"amount_msat"`
}

// EncodeReceivedWithPart returns the (tag, blob) pair to persist for v.
func EncodeReceivedWithPart(v ReceivedWithPart) (Tag, []byte, error) {
	switch p := v.(type) {
	case LightningPayment:
		b, err := json.Marshal(lightningPaymentDTOv0{AmountMsat: p.AmountMsat, ChannelId: p.ChannelId, HtlcId: p.HtlcId})
		return TagReceivedWithLightningPaymentV0, b, err
	case NewChannel:
		b, err := json.Marshal(newChannelDTOv0{
			AmountMsat: p.AmountMsat, ServiceFeeMsat: p.ServiceFeeMsat, MiningFeeMsat: p.MiningFeeMsat,
			ChannelId: p.ChannelId, FundingTxId: p.FundingTxId, IsOpener: p.IsOpener,
			ConfirmedAt: p.ConfirmedAt, LockedAt: p.LockedAt,
		})
		return TagReceivedWithNewChannelV0, b, err
	case SpliceIn:
		b, err := json.Marshal(spliceInDTOv0{
			AmountMsat: p.AmountMsat, ServiceFeeMsat: p.ServiceFeeMsat, MiningFeeMsat: p.MiningFeeMsat,
			ChannelId: p.ChannelId, FundingTxId: p.FundingTxId,
			ConfirmedAt: p.ConfirmedAt, LockedAt: p.LockedAt,
		})
		return TagReceivedWithSpliceInV0, b, err
	case AddedToFeeCredit:
		b, err := json.Marshal(addedToFeeCreditDTOv0{AmountMsat: p.AmountMsat})
		return TagReceivedWithAddedToFeeCreditV0, b, err
	case FeeCreditPayment:
		b, err := json.Marshal(feeCreditPaymentDTOv0{AmountMsat: p.AmountMsat})
		return TagReceivedWithFeeCreditPaymentV0, b, err
	default:
		return "", nil, errUnregisteredGoType("received_with", v)
	}
}

// DecodeReceivedWithPart rehydrates the value persisted under tag with blob.
func DecodeReceivedWithPart(tag Tag, blob []byte) (ReceivedWithPart, error) {
	switch tag {
	case TagReceivedWithLightningPaymentV0:
		var dto lightningPaymentDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "received_with", Tag: tag, Err: err}
		}
		return LightningPayment{AmountMsat: dto.AmountMsat, ChannelId: dto.ChannelId, HtlcId: dto.HtlcId}, nil
	case TagReceivedWithNewChannelV0:
		var dto newChannelDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "received_with", Tag: tag, Err: err}
		}
		return NewChannel{
			AmountMsat: dto.AmountMsat, ServiceFeeMsat: dto.ServiceFeeMsat, MiningFeeMsat: dto.MiningFeeMsat,
			ChannelId: dto.ChannelId, FundingTxId: dto.FundingTxId, IsOpener: dto.IsOpener,
			ConfirmedAt: dto.ConfirmedAt, LockedAt: dto.LockedAt,
		}, nil
	case TagReceivedWithSpliceInV0:
		var dto spliceInDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "received_with", Tag: tag, Err: err}
		}
		return SpliceIn{
			AmountMsat: dto.AmountMsat, ServiceFeeMsat: dto.ServiceFeeMsat, MiningFeeMsat: dto.MiningFeeMsat,
			ChannelId: dto.ChannelId, FundingTxId: dto.FundingTxId,
			ConfirmedAt: dto.ConfirmedAt, LockedAt: dto.LockedAt,
		}, nil
	case TagReceivedWithAddedToFeeCreditV0:
		var dto addedToFeeCreditDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "received_with", Tag: tag, Err: err}
		}
		return AddedToFeeCredit{AmountMsat: dto.AmountMsat}, nil
	case TagReceivedWithFeeCreditPaymentV0:
		var dto feeCreditPaymentDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "received_with", Tag: tag, Err: err}
		}
		return FeeCreditPayment{AmountMsat: dto.AmountMsat}, nil
	default:
		return nil, &ErrUnknownTag{Family: "received_with", Tag: tag}
	}
}

// ReceivedWithEntry pairs one decoded part with its own persisted tag, so
// that a list of mixed variants (e.g. a LightningPayment alongside a
// NewChannel from the same MPP-style receive) can be individually re-tagged
// without forcing every part in the list to share one variant.
type ReceivedWithEntry struct {
	Tag  Tag
	Blob []byte
}

const TagReceivedWithListV0 Tag = "received_with_list_v0"

type receivedWithListDTOv0 struct {
	Entries []receivedWithEntryDTOv0 `json:"entries"`
}

type receivedWithEntryDTOv0 struct {
	Tag  Tag    `json:"tag"`
	Blob []byte `json:"blob"`
}

// EncodeReceivedWithList encodes a whole receivedWith list as the single
// (tag, blob) pair stored on the incoming_payments row.
func EncodeReceivedWithList(parts []ReceivedWithPart) (Tag, []byte, error) {
	dto := receivedWithListDTOv0{Entries: make([]receivedWithEntryDTOv0, 0, len(parts))}
	for _, p := range parts {
		tag, blob, err := EncodeReceivedWithPart(p)
		if err != nil {
			return "", nil, err
		}
		dto.Entries = append(dto.Entries, receivedWithEntryDTOv0{Tag: tag, Blob: blob})
	}
	b, err := json.Marshal(dto)
	return TagReceivedWithListV0, b, err
}

// DecodeReceivedWithList rehydrates a receivedWith list persisted under tag.
func DecodeReceivedWithList(tag Tag, blob []byte) ([]ReceivedWithPart, error) {
	switch tag {
	case TagReceivedWithListV0:
		var dto receivedWithListDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return nil, &ErrMalformedBlob{Family: "received_with_list", Tag: tag, Err: err}
		}
		parts := make([]ReceivedWithPart, 0, len(dto.Entries))
		for _, e := range dto.Entries {
			p, err := DecodeReceivedWithPart(e.Tag, e.Blob)
			if err != nil {
				return nil, err
			}
			parts = append(parts, p)
		}
		return parts, nil
	default:
		return nil, &ErrUnknownTag{Family: "received_with_list", Tag: tag}
	}
}

// NaturalKey returns the deduplication key for a received-with part, used by
// payments.Store.Receive to union new parts with existing ones. See
// SPEC_FULL.md §9 Open Question 1.
func NaturalKey(p ReceivedWithPart) string {
	switch v := p.(type) {
	case LightningPayment:
		return "lightning:" + v.ChannelId + ":" + strconv.FormatUint(v.HtlcId, 10)
	case NewChannel:
		return "new_channel:" + v.ChannelId + ":" + v.FundingTxId
	case SpliceIn:
		return "splice_in:" + v.ChannelId + ":" + v.FundingTxId
	case AddedToFeeCredit:
		return "added_to_fee_credit:" + strconv.FormatUint(v.AmountMsat, 10)
	case FeeCreditPayment:
		return "fee_credit_payment:" + strconv.FormatUint(v.AmountMsat, 10)
	default:
		return ""
	}
}
