package payments_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/db/migrations"
	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/payments"
)

func newTestStore(t *testing.T) *payments.Store {
	t.Helper()
	gormDB, err := db.Open("file:"+t.Name()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(gormDB))
	logger := zerolog.Nop()
	return payments.NewStore(gormDB, &logger)
}

func TestReceiveEstablishesReceivedAtOnceOnly(t *testing.T) {
	store := newTestStore(t)
	t1 := time.Now().UTC().Truncate(time.Second)
	t2 := t1.Add(time.Minute)

	_, err := store.AddIncoming("preimage1", "hash1", encoding.OriginInvoice{Request: "lnbc1"}, t1)
	require.NoError(t, err)

	require.NoError(t, store.Receive("hash1", []encoding.ReceivedWithPart{
		encoding.LightningPayment{AmountMsat: 1000, ChannelId: "c1", HtlcId: 1},
	}, t1))

	require.NoError(t, store.Receive("hash1", []encoding.ReceivedWithPart{
		encoding.AddedToFeeCredit{AmountMsat: 500},
	}, t2))

	got, err := store.Get("hash1")
	require.NoError(t, err)
	require.NotNil(t, got.Received)
	require.Equal(t, t1, got.Received.ReceivedAt)
	require.Len(t, got.Received.ReceivedWith, 2)
}

func TestReceiveNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.Receive("missing", nil, time.Now())
	require.Error(t, err)
}

func TestSetLockedOverwritesReceivedAtAndPartLockedAt(t *testing.T) {
	store := newTestStore(t)
	t1 := time.Now().UTC().Truncate(time.Second)
	lockTime := t1.Add(time.Hour)

	_, err := store.AddIncoming("preimage2", "hash2", encoding.OriginOnChain{}, t1)
	require.NoError(t, err)
	require.NoError(t, store.Receive("hash2", []encoding.ReceivedWithPart{
		encoding.NewChannel{AmountMsat: 2_000_000, ChannelId: "c2", FundingTxId: "tx2"},
	}, t1))

	require.NoError(t, store.SetLocked("hash2", lockTime))

	got, err := store.Get("hash2")
	require.NoError(t, err)
	require.Equal(t, lockTime, got.Received.ReceivedAt)
	part := got.Received.ReceivedWith[0].(encoding.NewChannel)
	require.NotNil(t, part.LockedAt)
	require.Equal(t, lockTime, *part.LockedAt)
}

func TestSetConfirmedPreservesReceivedAt(t *testing.T) {
	store := newTestStore(t)
	t1 := time.Now().UTC().Truncate(time.Second)
	lockTime := t1.Add(time.Hour)
	confirmTime := t1.Add(2 * time.Hour)

	_, err := store.AddIncoming("preimage3", "hash3", encoding.OriginOnChain{}, t1)
	require.NoError(t, err)
	require.NoError(t, store.Receive("hash3", []encoding.ReceivedWithPart{
		encoding.SpliceIn{AmountMsat: 1_000_000, ChannelId: "c3", FundingTxId: "tx3"},
	}, t1))
	require.NoError(t, store.SetLocked("hash3", lockTime))
	require.NoError(t, store.SetConfirmed("hash3", confirmTime))

	got, err := store.Get("hash3")
	require.NoError(t, err)
	require.Equal(t, lockTime, got.Received.ReceivedAt)
	part := got.Received.ReceivedWith[0].(encoding.SpliceIn)
	require.Equal(t, confirmTime, *part.ConfirmedAt)
	require.Equal(t, lockTime, *part.LockedAt)
}

func TestDeleteReturnsWhetherRowExisted(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddIncoming("preimage4", "hash4", encoding.OriginInvoice{}, time.Now())
	require.NoError(t, err)

	deleted, err := store.Delete("hash4")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = store.Get("hash4")
	require.Error(t, err)

	deleted, err = store.Delete("hash4")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestCompletePaymentIsOnceOnly(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	id, err := store.AddOutgoing("02recipient", 50_000, encoding.DetailsNormal{PaymentRequest: "lnbc1"}, nil, now)
	require.NoError(t, err)

	ok, err := store.CompletePayment(id, encoding.OutgoingSucceededOffChain{Preimage: "abc", CompletedAt: now}, now)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.CompletePayment(id, encoding.OutgoingFailed{Reason: "late", CompletedAt: now}, now)
	require.NoError(t, err)
	require.False(t, ok, "a payment must not be re-marked after completion")
}

func TestGetPaymentFiltersUselessPartsWhenSucceeded(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	id, err := store.AddOutgoing("02recipient", 50_000, encoding.DetailsNormal{PaymentRequest: "lnbc1"}, []payments.Part{
		{AmountMsat: 30_000, Status: encoding.PartFailed{Failure: "no_route", CompletedAt: now}, CompletedAt: &now},
		{AmountMsat: 30_000, Status: encoding.PartSucceeded{Preimage: "p1", CompletedAt: now}, CompletedAt: &now},
		{AmountMsat: 20_000, Status: encoding.PartSucceeded{Preimage: "p2", CompletedAt: now}, CompletedAt: &now},
	}, now)
	require.NoError(t, err)

	_, err = store.CompletePayment(id, encoding.OutgoingSucceededOffChain{Preimage: "p1p2", CompletedAt: now}, now)
	require.NoError(t, err)

	got, err := store.GetPayment(id)
	require.NoError(t, err)
	require.Len(t, got.Parts, 2)
	for _, p := range got.Parts {
		_, ok := p.Status.(encoding.PartSucceeded)
		require.True(t, ok)
	}
}

func TestUpdatePartIsOnceOnly(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	id, err := store.AddOutgoing("02recipient", 50_000, encoding.DetailsNormal{}, []payments.Part{
		{AmountMsat: 50_000, Status: encoding.PartPending{}},
	}, now)
	require.NoError(t, err)

	got, err := store.GetPayment(id)
	require.NoError(t, err)
	require.Len(t, got.Parts, 1)
	partId := got.Parts[0].Id

	ok, err := store.UpdatePart(partId, encoding.PartSucceeded{Preimage: "abc", CompletedAt: now}, now)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.UpdatePart(partId, encoding.PartFailed{Failure: "late", CompletedAt: now}, now)
	require.NoError(t, err)
	require.False(t, ok)
}
