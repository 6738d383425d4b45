package payments_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/payments"
)

func TestAddChannelCloseRoundTrips(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	id, err := store.AddChannelClose(500_000, "bc1q...", false, 0, "chan1", "tx1", encoding.Mutual{}, now)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.GetChannelClose("tx1")
	require.NoError(t, err)
	require.Equal(t, "chan1", got.ChannelId)
	require.Equal(t, uint64(500_000), got.AmountMsat)
	require.IsType(t, encoding.Mutual{}, got.ClosingInfo)
	require.Nil(t, got.LockedAt)
	require.Nil(t, got.ConfirmedAt)
}

func TestSetChannelCloseLockedThenConfirmed(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	_, err := store.AddChannelClose(500_000, "bc1q...", false, 0, "chan1", "tx1", encoding.Local{}, now)
	require.NoError(t, err)

	lockedAt := now.Add(time.Minute)
	ok, err := store.SetChannelCloseLocked("tx1", lockedAt)
	require.NoError(t, err)
	require.True(t, ok)

	confirmedAt := now.Add(time.Hour)
	ok, err = store.SetChannelCloseConfirmed("tx1", confirmedAt)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := store.GetChannelClose("tx1")
	require.NoError(t, err)
	require.NotNil(t, got.LockedAt)
	require.NotNil(t, got.ConfirmedAt)
}

func TestSetChannelCloseLockedIsNotReapplied(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	_, err := store.AddChannelClose(500_000, "bc1q...", false, 0, "chan1", "tx1", encoding.Local{}, now)
	require.NoError(t, err)

	ok, err := store.SetChannelCloseLocked("tx1", now.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.SetChannelCloseLocked("tx1", now.Add(2*time.Minute))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateChannelCloseMiningFeeUpdatesMostRecentUnconfirmed(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	_, err := store.AddChannelClose(500_000, "bc1q...", false, 0, "chan1", "tx1", encoding.Mutual{}, now)
	require.NoError(t, err)

	ok, err := store.UpdateChannelCloseMiningFee("chan1", 2_000)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := store.GetChannelClose("tx1")
	require.NoError(t, err)
	require.Equal(t, uint64(2_000), got.MiningFeeMsat)
}

func TestUpdateChannelCloseMiningFeeMissesWhenNoRowExists(t *testing.T) {
	store := newTestStore(t)
	ok, err := store.UpdateChannelCloseMiningFee("nonexistent", 2_000)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAddInboundLiquidityRoundTrips(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	lease := encoding.LiquidityLease{AmountMsat: 1_000_000, LeaseDurationSeconds: 2016, LeaseFeeBaseMsat: 1_000, LeaseFeeProportionalBps: 50}
	id, err := store.AddInboundLiquidity("chan2", "tx2", 1_500, lease, now)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.GetInboundLiquidity("tx2")
	require.NoError(t, err)
	require.Equal(t, "chan2", got.ChannelId)
	require.Equal(t, lease, got.Lease)
}

func TestSetInboundLiquidityLockedThenConfirmed(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	lease := encoding.LiquidityLease{AmountMsat: 1_000_000}
	_, err := store.AddInboundLiquidity("chan2", "tx2", 1_500, lease, now)
	require.NoError(t, err)

	ok, err := store.SetInboundLiquidityLocked("tx2", now.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.SetInboundLiquidityConfirmed("tx2", now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUpsertChannelSnapshotReplacesExistingRow(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.UpsertChannelSnapshot(payments.ChannelSnapshot{
		ChannelId: "chan1", CapacitySat: 1_000_000, LocalBalanceMsat: 500_000, IsUsable: true, UpdatedAt: now,
	}))
	require.NoError(t, store.UpsertChannelSnapshot(payments.ChannelSnapshot{
		ChannelId: "chan1", CapacitySat: 1_000_000, LocalBalanceMsat: 900_000, IsUsable: false, UpdatedAt: now.Add(time.Minute),
	}))

	got, err := store.GetChannelSnapshot("chan1")
	require.NoError(t, err)
	require.Equal(t, uint64(900_000), got.LocalBalanceMsat)
	require.False(t, got.IsUsable)
}

func TestEnsureNodeRecordCreatesOnFirstOpen(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureNodeRecord("mainnet", "abc123"))
	require.NoError(t, store.EnsureNodeRecord("mainnet", "abc123"))
}

func TestEnsureNodeRecordRejectsMismatchedIdentity(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.EnsureNodeRecord("mainnet", "abc123"))

	err := store.EnsureNodeRecord("mainnet", "def456")
	require.Error(t, err)
	var mismatch *payments.NodeIdentityMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestAppendFeeCreditLedgerEntryIsSummedByBalanceQuery(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.AppendFeeCreditLedgerEntry(1_000, "added_to_fee_credit", now))
	require.NoError(t, store.AppendFeeCreditLedgerEntry(-400, "fee_credit_payment", now.Add(time.Minute)))
	require.Equal(t, int64(600), store.GetFeeCreditBalance())
}
