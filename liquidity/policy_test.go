package liquidity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecideAcceptWithinBounds(t *testing.T) {
	p := Policy{Bounds: DefaultBounds()}
	for _, tc := range []struct {
		amount, fee uint64
	}{
		{amount: 1_000_000, fee: 1_000},
		{amount: 100_000, fee: 40_000},
		{amount: 10_000_000, fee: 30_000},
	} {
		require.LessOrEqual(t, tc.fee, tc.amount)
		require.LessOrEqual(t, tc.fee, p.Bounds.MaxAbsoluteFeeSat)
		require.LessOrEqual(t, tc.fee*10_000, tc.amount*uint64(p.Bounds.MaxRelativeFeeBps))

		got := p.Decide(tc.amount, tc.fee, 0, false)
		require.Equal(t, Accept, got.Decision)
	}
}

func TestDecideOverflowToFeeCredit(t *testing.T) {
	p := Policy{Bounds: Bounds{MaxAbsoluteFeeSat: 40_000, MaxRelativeFeeBps: 30, MaxAllowedCreditSat: 100_000}}

	got := p.Decide(100, 500, 0, true)
	require.Equal(t, AcceptAsCredit, got.Decision)
}

func TestDecideCreditFullRejects(t *testing.T) {
	p := Policy{Bounds: Bounds{MaxAbsoluteFeeSat: 40_000, MaxRelativeFeeBps: 30, MaxAllowedCreditSat: 100}}

	got := p.Decide(100, 500, 50, true)
	require.Equal(t, Reject, got.Decision)
	require.Equal(t, ReasonCreditFull, got.Reason)
}

func TestDecideOverAbsoluteRejects(t *testing.T) {
	p := Policy{Bounds: Bounds{MaxAbsoluteFeeSat: 40_000, MaxRelativeFeeBps: 5_000}}

	got := p.Decide(1_000_000, 50_000, 0, false)
	require.Equal(t, Reject, got.Decision)
	require.Equal(t, ReasonOverAbsolute, got.Reason)
}

func TestDecideOverAbsoluteSkippedWhenChannelsEmpty(t *testing.T) {
	p := Policy{Bounds: Bounds{MaxAbsoluteFeeSat: 40_000, MaxRelativeFeeBps: 5_000}}

	got := p.Decide(1_000_000, 50_000, 0, true)
	require.Equal(t, Accept, got.Decision)
}

func TestDecideOverRelativeRejects(t *testing.T) {
	p := Policy{Bounds: Bounds{MaxAbsoluteFeeSat: 100_000, MaxRelativeFeeBps: 30}}

	got := p.Decide(100_000, 1_000, 0, false)
	require.Equal(t, Reject, got.Decision)
	require.Equal(t, ReasonOverRelative, got.Reason)
}

func TestDecideSkipAbsoluteFeeCheck(t *testing.T) {
	p := Policy{Bounds: Bounds{MaxAbsoluteFeeSat: 1_000, MaxRelativeFeeBps: 5_000, SkipAbsoluteFeeCheck: true}}

	got := p.Decide(1_000_000, 50_000, 0, false)
	require.Equal(t, Accept, got.Decision)
}

func TestCellSetIsVisibleToReaders(t *testing.T) {
	cell := NewCell(Policy{Bounds: Bounds{MaxAbsoluteFeeSat: 1, MaxRelativeFeeBps: 1, MaxAllowedCreditSat: 0}})
	require.Equal(t, Reject, cell.Decide(100_000, 1_000, 0, false).Decision)

	cell.Set(Policy{Bounds: DefaultBounds()})
	require.Equal(t, Accept, cell.Decide(100_000, 1_000, 0, false).Decision)
}
