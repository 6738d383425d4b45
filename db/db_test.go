package db_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/db/migrations"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("file::memory:?cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(gormDB))
	return gormDB
}

func TestMigrateCreatesAllTables(t *testing.T) {
	gormDB := openTestDB(t)
	for _, table := range []string{
		"incoming_payments",
		"lightning_outgoing_payments",
		"lightning_outgoing_parts",
		"channel_close_outgoing_payments",
		"inbound_liquidity_outgoing_payments",
		"payment_metadata",
		"channel_snapshots",
		"node_record",
		"fee_credit_ledger",
	} {
		require.True(t, gormDB.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	gormDB := openTestDB(t)
	require.NoError(t, migrations.Migrate(gormDB))
}

func TestPartsCascadeOnPaymentDelete(t *testing.T) {
	gormDB := openTestDB(t)

	payment := db.LightningOutgoingPayment{Id: "pay1", DetailsType: "x", DetailsBlob: []byte("{}"), StatusType: "y", StatusBlob: []byte("{}")}
	require.NoError(t, gormDB.Create(&payment).Error)

	part := db.LightningOutgoingPart{Id: "part1", PaymentId: "pay1", StatusType: "y", StatusBlob: []byte("{}")}
	require.NoError(t, gormDB.Create(&part).Error)

	require.NoError(t, gormDB.Delete(&payment).Error)

	var count int64
	gormDB.Model(&db.LightningOutgoingPart{}).Where("payment_id = ?", "pay1").Count(&count)
	require.Equal(t, int64(0), count)
}
