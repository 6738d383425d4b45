package payments_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/payments"
)

func TestSetMetadataThenGet(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddIncoming("preimage", "hash-meta", encoding.OriginInvoice{}, time.Now())
	require.NoError(t, err)

	extId := "ext-1"
	hook := "https://example.com/hook"
	require.NoError(t, store.SetMetadata(db.PaymentTypeIncoming, "hash-meta", payments.Metadata{ExternalId: &extId, WebhookUrl: &hook}))

	got, err := store.GetMetadata(db.PaymentTypeIncoming, "hash-meta")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, extId, *got.ExternalId)
	require.Equal(t, hook, *got.WebhookUrl)
}

func TestSetMetadataUpsertOverwrites(t *testing.T) {
	store := newTestStore(t)
	firstExt := "ext-1"
	secondExt := "ext-2"

	require.NoError(t, store.SetMetadata(db.PaymentTypeIncoming, "payment-id", payments.Metadata{ExternalId: &firstExt}))
	require.NoError(t, store.SetMetadata(db.PaymentTypeIncoming, "payment-id", payments.Metadata{ExternalId: &secondExt}))

	got, err := store.GetMetadata(db.PaymentTypeIncoming, "payment-id")
	require.NoError(t, err)
	require.Equal(t, secondExt, *got.ExternalId)
}

func TestGetMetadataMissingReturnsNilNil(t *testing.T) {
	store := newTestStore(t)
	got, err := store.GetMetadata(db.PaymentTypeIncoming, "missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteMetadataReturnsWhetherRowExisted(t *testing.T) {
	store := newTestStore(t)
	extId := "ext"
	require.NoError(t, store.SetMetadata(db.PaymentTypeLightningOutgoing, "payment-id", payments.Metadata{ExternalId: &extId}))

	deleted, err := store.DeleteMetadata(db.PaymentTypeLightningOutgoing, "payment-id")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = store.DeleteMetadata(db.PaymentTypeLightningOutgoing, "payment-id")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestDeletingIncomingPaymentCascadesMetadata(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddIncoming("preimage", "hash-cascade", encoding.OriginInvoice{}, time.Now())
	require.NoError(t, err)

	got, err := store.Get("hash-cascade")
	require.NoError(t, err)

	extId := "ext"
	require.NoError(t, store.SetMetadata(db.PaymentTypeIncoming, got.Id, payments.Metadata{ExternalId: &extId}))

	deleted, err := store.Delete("hash-cascade")
	require.NoError(t, err)
	require.True(t, deleted)

	meta, err := store.GetMetadata(db.PaymentTypeIncoming, got.Id)
	require.NoError(t, err)
	require.Nil(t, meta)
}
