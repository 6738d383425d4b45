package encoding

import "encoding/json"

// LiquidityLease describes the inbound liquidity purchased in one splice-in
// liquidity-acquisition operation. See spec.md §3 -
// InboundLiquidityOutgoingPayment.purchase. Unlike the other families this
// one is not (yet) a sum type, but it is still persisted as a (tag, blob)
// pair per §4.A so that a future variant can be introduced without a schema
// migration.
type LiquidityLease struct {
	AmountMsat               uint64
	LeaseDurationSeconds     uint32
	LeaseFeeBaseMsat         uint64
	LeaseFeeProportionalBps  uint32
}

const TagLiquidityLeaseV0 Tag = "liquidity_lease_v0"

type liquidityLeaseDTOv0 struct {
	AmountMsat              uint64 `json:"amount_msat"`
	LeaseDurationSeconds    uint32 `json:"lease_duration_seconds"`
	LeaseFeeBaseMsat        uint64 `json:"lease_fee_base_msat"`
	LeaseFeeProportionalBps uint32 `json:"lease_fee_proportional_bps"`
}

// EncodeLiquidityLease returns the (tag, blob) pair to persist for v.
func EncodeLiquidityLease(v LiquidityLease) (Tag, []byte, error) {
	b, err := json.Marshal(liquidityLeaseDTOv0{
		AmountMsat:              v.AmountMsat,
		LeaseDurationSeconds:    v.LeaseDurationSeconds,
		LeaseFeeBaseMsat:        v.LeaseFeeBaseMsat,
		LeaseFeeProportionalBps: v.LeaseFeeProportionalBps,
	})
	return TagLiquidityLeaseV0, b, err
}

// DecodeLiquidityLease rehydrates the value persisted under tag with blob.
func DecodeLiquidityLease(tag Tag, blob []byte) (LiquidityLease, error) {
	switch tag {
	case TagLiquidityLeaseV0:
		var dto liquidityLeaseDTOv0
		if err := json.Unmarshal(blob, &dto); err != nil {
			return LiquidityLease{}, &ErrMalformedBlob{Family: "liquidity_lease", Tag: tag, Err: err}
		}
		return LiquidityLease{
			AmountMsat:              dto.AmountMsat,
			LeaseDurationSeconds:    dto.LeaseDurationSeconds,
			LeaseFeeBaseMsat:        dto.LeaseFeeBaseMsat,
			LeaseFeeProportionalBps: dto.LeaseFeeProportionalBps,
		}, nil
	default:
		return LiquidityLease{}, &ErrUnknownTag{Family: "liquidity_lease", Tag: tag}
	}
}
