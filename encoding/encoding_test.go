package encoding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIncomingOriginRoundTrip(t *testing.T) {
	cases := []IncomingOrigin{
		OriginInvoice{Request: "lnbc1..."},
		OriginOffer{Metadata: []byte{0x01, 0x02}},
		OriginSwapIn{Address: "bc1qexample"},
		OriginOnChain{TxIds: []string{"abc", "def"}},
	}
	seen := map[Tag]bool{}
	for _, v := range cases {
		tag, blob, err := EncodeIncomingOrigin(v)
		require.NoError(t, err)
		require.False(t, seen[tag], "tag %s reused across variants", tag)
		seen[tag] = true

		got, err := DecodeIncomingOrigin(tag, blob)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestIncomingOriginUnknownTag(t *testing.T) {
	_, err := DecodeIncomingOrigin("incoming_origin_bogus_v9", []byte("{}"))
	require.Error(t, err)
	var tagErr *ErrUnknownTag
	require.ErrorAs(t, err, &tagErr)
}

func TestReceivedWithPartRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	cases := []ReceivedWithPart{
		LightningPayment{AmountMsat: 10_000_000, ChannelId: "chan1", HtlcId: 7},
		NewChannel{AmountMsat: 2_000_000_000, ServiceFeeMsat: 20_000_000, MiningFeeMsat: 10_000_000, ChannelId: "chan2", FundingTxId: "tx1", IsOpener: true, LockedAt: &now},
		SpliceIn{AmountMsat: 500_000_000, ServiceFeeMsat: 1000, MiningFeeMsat: 500, ChannelId: "chan3", FundingTxId: "tx2"},
		AddedToFeeCredit{AmountMsat: 100_000},
		FeeCreditPayment{AmountMsat: 50_000},
	}
	for _, v := range cases {
		tag, blob, err := EncodeReceivedWithPart(v)
		require.NoError(t, err)
		got, err := DecodeReceivedWithPart(tag, blob)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestReceivedWithListRoundTrip(t *testing.T) {
	parts := []ReceivedWithPart{
		LightningPayment{AmountMsat: 1000, ChannelId: "c1", HtlcId: 1},
		AddedToFeeCredit{AmountMsat: 500},
	}
	tag, blob, err := EncodeReceivedWithList(parts)
	require.NoError(t, err)
	got, err := DecodeReceivedWithList(tag, blob)
	require.NoError(t, err)
	require.Equal(t, parts, got)
}

func TestReceivedWithPartInjectiveTags(t *testing.T) {
	cases := []ReceivedWithPart{
		LightningPayment{AmountMsat: 1},
		NewChannel{AmountMsat: 1},
		SpliceIn{AmountMsat: 1},
		AddedToFeeCredit{AmountMsat: 1},
		FeeCreditPayment{AmountMsat: 1},
	}
	tags := map[Tag]bool{}
	for _, v := range cases {
		tag, _, err := EncodeReceivedWithPart(v)
		require.NoError(t, err)
		require.False(t, tags[tag])
		tags[tag] = true
	}
}

func TestNaturalKeyDistinguishesVariants(t *testing.T) {
	a := NaturalKey(NewChannel{ChannelId: "c1", FundingTxId: "t1"})
	b := NaturalKey(SpliceIn{ChannelId: "c1", FundingTxId: "t1"})
	require.NotEqual(t, a, b)

	a2 := NaturalKey(NewChannel{ChannelId: "c1", FundingTxId: "t1", LockedAt: nil})
	a3 := NaturalKey(NewChannel{ChannelId: "c1", FundingTxId: "t1", LockedAt: &time.Time{}})
	require.Equal(t, a2, a3, "natural key must ignore mutable fields like lockedAt")
}

func TestOutgoingDetailsRoundTrip(t *testing.T) {
	cases := []LightningOutgoingDetails{
		DetailsNormal{PaymentRequest: "lnbc1..."},
		DetailsKeySend{Preimage: "deadbeef"},
		DetailsSwapOut{Address: "bc1q...", PaymentRequest: "lnbc1...", SwapOutFeeMsat: 1000},
		DetailsBlinded{PaymentRequest: "lnbc1...", PayerKey: "02abc"},
	}
	for _, v := range cases {
		tag, blob, err := EncodeOutgoingDetails(v)
		require.NoError(t, err)
		got, err := DecodeOutgoingDetails(tag, blob)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestPartStatusRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	cases := []PartStatus{
		PartPending{},
		PartSucceeded{Preimage: "abc", CompletedAt: now},
		PartFailed{Failure: "no_route", CompletedAt: now},
	}
	for _, v := range cases {
		tag, blob, err := EncodePartStatus(v)
		require.NoError(t, err)
		got, err := DecodePartStatus(tag, blob)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestOutgoingStatusRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	cases := []OutgoingStatus{
		OutgoingPending{},
		OutgoingSucceededOffChain{Preimage: "abc", CompletedAt: now},
		OutgoingFailed{Reason: "timeout", CompletedAt: now},
	}
	for _, v := range cases {
		tag, blob, err := EncodeOutgoingStatus(v)
		require.NoError(t, err)
		got, err := DecodeOutgoingStatus(tag, blob)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestClosingInfoRoundTrip(t *testing.T) {
	cases := []ClosingInfo{
		Mutual{},
		Local{},
		Remote{ClosingTxId: "tx1"},
		Revoked{ClosingTxId: "tx2"},
	}
	for _, v := range cases {
		tag, blob, err := EncodeClosingInfo(v)
		require.NoError(t, err)
		got, err := DecodeClosingInfo(tag, blob)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestRouteRoundTrip(t *testing.T) {
	require.Equal(t, "", EncodeRoute(nil))
	hops, err := DecodeRoute("")
	require.NoError(t, err)
	require.Nil(t, hops)

	original := []RouteHop{
		{NodeA: "02aa", NodeB: "02bb", ShortChannelId: "123x0x0"},
		{NodeA: "02bb", NodeB: "02cc", ShortChannelId: ""},
	}
	encoded := EncodeRoute(original)
	require.Equal(t, "02aa:02bb:123x0x0;02bb:02cc:", encoded)

	decoded, err := DecodeRoute(encoded)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestRouteMalformed(t *testing.T) {
	_, err := DecodeRoute("02aa:02bb")
	require.Error(t, err)
}

func TestLiquidityLeaseRoundTrip(t *testing.T) {
	v := LiquidityLease{AmountMsat: 1_000_000, LeaseDurationSeconds: 2_592_000, LeaseFeeBaseMsat: 1000, LeaseFeeProportionalBps: 100}
	tag, blob, err := EncodeLiquidityLease(v)
	require.NoError(t, err)
	got, err := DecodeLiquidityLease(tag, blob)
	require.NoError(t, err)
	require.Equal(t, v, got)
}
