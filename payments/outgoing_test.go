package payments_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/payments"
)

func TestAddPartsRequiresExistingParent(t *testing.T) {
	store := newTestStore(t)
	err := store.AddParts("nonexistent", []payments.Part{{AmountMsat: 1000, Status: encoding.PartPending{}}})
	require.Error(t, err)
}

func TestAddPartsAppendsToExistingPayment(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	id, err := store.AddOutgoing("02recipient", 100_000, encoding.DetailsNormal{}, []payments.Part{
		{AmountMsat: 50_000, Status: encoding.PartPending{}},
	}, now)
	require.NoError(t, err)

	require.NoError(t, store.AddParts(id, []payments.Part{
		{AmountMsat: 50_000, Status: encoding.PartPending{}},
	}))

	got, err := store.GetPayment(id)
	require.NoError(t, err)
	require.Len(t, got.Parts, 2)
}

func TestGetPaymentFromPartIdResolvesParent(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	id, err := store.AddOutgoing("02recipient", 100_000, encoding.DetailsNormal{}, []payments.Part{
		{AmountMsat: 100_000, Status: encoding.PartPending{}},
	}, now)
	require.NoError(t, err)

	parent, err := store.GetPayment(id)
	require.NoError(t, err)
	partId := parent.Parts[0].Id

	got, err := store.GetPaymentFromPartId(partId)
	require.NoError(t, err)
	require.Equal(t, id, got.Id)
}

func TestGetPaymentFromPartIdNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetPaymentFromPartId("missing")
	require.Error(t, err)
}

func TestListSuccessfulOrPendingPaymentsWithinExcludesFailed(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	pendingId, err := store.AddOutgoing("02a", 1000, encoding.DetailsNormal{}, nil, now)
	require.NoError(t, err)

	failedId, err := store.AddOutgoing("02b", 1000, encoding.DetailsNormal{}, nil, now)
	require.NoError(t, err)
	ok, err := store.CompletePayment(failedId, encoding.OutgoingFailed{Reason: "no_route", CompletedAt: now}, now)
	require.NoError(t, err)
	require.True(t, ok)

	succeededId, err := store.AddOutgoing("02c", 1000, encoding.DetailsNormal{}, nil, now)
	require.NoError(t, err)
	ok, err = store.CompletePayment(succeededId, encoding.OutgoingSucceededOffChain{Preimage: "x", CompletedAt: now}, now)
	require.NoError(t, err)
	require.True(t, ok)

	from := now.Add(-time.Hour)
	to := now.Add(time.Hour)
	got, err := store.ListSuccessfulOrPendingPaymentsWithin(from, to, 10, 0)
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, p := range got {
		ids[p.Id] = true
	}
	require.True(t, ids[pendingId])
	require.True(t, ids[succeededId])
	require.False(t, ids[failedId])
}

func TestListPaymentsForPaymentHashMatchesEncodedDetails(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	_, err := store.AddOutgoing("02recipient", 1000, encoding.DetailsNormal{PaymentRequest: "lnbc1xyzhash123"}, nil, now)
	require.NoError(t, err)
	_, err = store.AddOutgoing("02other", 1000, encoding.DetailsNormal{PaymentRequest: "lnbc1unrelated"}, nil, now)
	require.NoError(t, err)

	got, err := store.ListPaymentsForPaymentHash("xyzhash123")
	require.NoError(t, err)
	require.Len(t, got, 1)
}
