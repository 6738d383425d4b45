// Package liquidity implements the pure decision function that accepts,
// credits, or rejects an inbound-liquidity fee quote, and the single-writer
// many-reader cell that holds the operator-configured bounds it decides
// against. See spec.md §4.C.
package liquidity

import "github.com/lightningco/nodecore/constants"

// Decision is the outcome of evaluating amount and fee against the
// configured bounds and the caller's available fee credit.
type Decision string

const (
	// Accept means fee is paid out of amount as usual.
	Accept Decision = "accept"
	// AcceptAsCredit means amount is added to the fee credit balance
	// instead of being used to cover fee directly.
	AcceptAsCredit Decision = "accept_as_credit"
	// Reject means neither Accept nor AcceptAsCredit applies.
	Reject Decision = "reject"
)

// RejectReason narrows a Reject decision to the rule step that produced it.
type RejectReason string

const (
	ReasonCreditFull   RejectReason = "creditFull"
	ReasonOverAbsolute RejectReason = "overAbsolute"
	ReasonOverRelative RejectReason = "overRelative"
)

// Bounds are the operator-configured limits a fee is checked against. See
// spec.md §4.C for the valid range and default of each field.
type Bounds struct {
	MaxAbsoluteFeeSat    uint64
	MaxRelativeFeeBps    uint32
	MaxAllowedCreditSat  uint64
	SkipAbsoluteFeeCheck bool
}

// DefaultBounds returns the bounds a freshly configured node starts with.
func DefaultBounds() Bounds {
	return Bounds{
		MaxAbsoluteFeeSat:   constants.DefaultMaxAbsoluteFeeSat,
		MaxRelativeFeeBps:   constants.DefaultMaxRelativeFeeBps,
		MaxAllowedCreditSat: constants.DefaultMaxAllowedCreditSat,
	}
}

// Policy is the pure decision function over a fee quote, evaluated against
// a fixed set of Bounds.
type Policy struct {
	Bounds Bounds
}

// Result pairs a Decision with the reason for a Reject, for logging and for
// the HTTP surface's error mapping.
type Result struct {
	Decision Decision
	Reason   RejectReason
}

// Decide implements spec.md §4.C's decision rule, applied in order:
//
//  1. If amount cannot cover fee, the result is AcceptAsCredit provided
//     creditAvailable+amount does not exceed maxAllowedCredit, else Reject
//     with creditFull.
//  2. Otherwise if fee exceeds maxAbsoluteFee, Reject with overAbsolute —
//     unless channelsEmpty, in which case there is no existing channel to
//     weigh the absolute cap against and the check is skipped, matching
//     skipAbsoluteFeeCheck.
//  3. Otherwise if fee*10_000 exceeds amount*maxRelativeFeeBasisPoints,
//     Reject with overRelative.
//  4. Otherwise Accept.
func (p Policy) Decide(amountSat, feeSat, creditAvailableSat uint64, channelsEmpty bool) Result {
	if amountSat < feeSat {
		if creditAvailableSat+amountSat <= p.Bounds.MaxAllowedCreditSat {
			return Result{Decision: AcceptAsCredit}
		}
		return Result{Decision: Reject, Reason: ReasonCreditFull}
	}

	skipAbsolute := p.Bounds.SkipAbsoluteFeeCheck || channelsEmpty
	if !skipAbsolute && feeSat > p.Bounds.MaxAbsoluteFeeSat {
		return Result{Decision: Reject, Reason: ReasonOverAbsolute}
	}

	if feeSat*10_000 > amountSat*uint64(p.Bounds.MaxRelativeFeeBps) {
		return Result{Decision: Reject, Reason: ReasonOverRelative}
	}

	return Result{Decision: Accept}
}
