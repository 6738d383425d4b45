package queries_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/db/migrations"
	"github.com/lightningco/nodecore/db/queries"
)

func TestGetFeeCreditBalance(t *testing.T) {
	gormDB, err := db.Open("file::memory:?cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(gormDB))

	require.NoError(t, gormDB.Create(&db.FeeCreditLedgerEntry{DeltaMsat: 5000, Reason: "fee_credit_top_up"}).Error)
	require.NoError(t, gormDB.Create(&db.FeeCreditLedgerEntry{DeltaMsat: -2000, Reason: "liquidity_fee_paid"}).Error)

	require.Equal(t, int64(3000), queries.GetFeeCreditBalance(gormDB))
}
