package payments

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/db/queries"
	"github.com/lightningco/nodecore/encoding"
)

// NodeIdentityMismatchError is returned by EnsureNodeRecord when an existing
// node_record row names a different chain or node than the one opening this
// database file.
type NodeIdentityMismatchError struct {
	WantChain, GotChain           string
	WantNodeIdPrefix6, GotPrefix6 string
}

func (e *NodeIdentityMismatchError) Error() string {
	return "database belongs to a different node: recorded " + e.GotChain + "/" + e.GotPrefix6 + ", opened as " + e.WantChain + "/" + e.WantNodeIdPrefix6
}

// EnsureNodeRecord implements spec.md §6's database-file/node-identity
// pairing: on first open, records (chain, nodeIdPrefix6) in the single-row
// node_record table; on every later open, verifies the recorded identity
// still matches so a mismatched restore fails fast instead of silently
// mixing two nodes' payment history.
func (s *Store) EnsureNodeRecord(chain, nodeIdPrefix6 string) error {
	var row db.NodeRecord
	err := s.db.Order("id ASC").First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.db.Create(&db.NodeRecord{Chain: chain, NodeIdPrefix6: nodeIdPrefix6, CreatedAt: time.Now()}).Error
	}
	if row.Chain != chain || row.NodeIdPrefix6 != nodeIdPrefix6 {
		return &NodeIdentityMismatchError{WantChain: chain, GotChain: row.Chain, WantNodeIdPrefix6: nodeIdPrefix6, GotPrefix6: row.NodeIdPrefix6}
	}
	return nil
}

// AddChannelClose inserts a new channel_close_outgoing_payments row for a
// splice-out that closes a channel, mirroring AddOutgoing's insert-then-
// return-id shape for the insert-only close/liquidity entities described in
// spec.md §3.
func (s *Store) AddChannelClose(amountMsat uint64, address string, isSentToDefaultAddress bool, miningFeeMsat uint64, channelId, txId string, closingInfo encoding.ClosingInfo, createdAt time.Time) (string, error) {
	closingInfoType, closingInfoBlob, err := encoding.EncodeClosingInfo(closingInfo)
	if err != nil {
		return "", err
	}

	row := db.ChannelCloseOutgoingPayment{
		Id:                     uuid.NewString(),
		AmountMsat:             amountMsat,
		Address:                address,
		IsSentToDefaultAddress: isSentToDefaultAddress,
		MiningFeeMsat:          miningFeeMsat,
		ChannelId:              channelId,
		TxId:                   txId,
		ClosingInfoType:        string(closingInfoType),
		ClosingInfoBlob:        closingInfoBlob,
		CreatedAt:              createdAt,
	}

	if err := s.db.Create(&row).Error; err != nil {
		s.logger.Error().Err(err).Str("channel_id", channelId).Msg("failed to insert channel close payment")
		return "", err
	}
	return row.Id, nil
}

// SetChannelCloseLocked implements the close-entity half of spec.md §3's
// "lifecycle fields updated on chain events" rule: once the closing
// transaction reaches the peer's locked-funds threshold, record lockedAt.
func (s *Store) SetChannelCloseLocked(txId string, lockedAt time.Time) (bool, error) {
	result := s.db.Model(&db.ChannelCloseOutgoingPayment{}).
		Where("tx_id = ? AND locked_at IS NULL", txId).
		Update("locked_at", lockedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetChannelCloseConfirmed records the closing transaction's confirmation.
func (s *Store) SetChannelCloseConfirmed(txId string, confirmedAt time.Time) (bool, error) {
	result := s.db.Model(&db.ChannelCloseOutgoingPayment{}).
		Where("tx_id = ? AND confirmed_at IS NULL", txId).
		Update("confirmed_at", confirmedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AddInboundLiquidity inserts a new inbound_liquidity_outgoing_payments row
// for a splice-in that purchases inbound liquidity from the peer.
func (s *Store) AddInboundLiquidity(channelId, txId string, miningFeeMsat uint64, lease encoding.LiquidityLease, createdAt time.Time) (string, error) {
	leaseType, leaseBlob, err := encoding.EncodeLiquidityLease(lease)
	if err != nil {
		return "", err
	}

	row := db.InboundLiquidityOutgoingPayment{
		Id:            uuid.NewString(),
		ChannelId:     channelId,
		TxId:          txId,
		MiningFeeMsat: miningFeeMsat,
		LeaseType:     string(leaseType),
		LeaseBlob:     leaseBlob,
		CreatedAt:     createdAt,
	}

	if err := s.db.Create(&row).Error; err != nil {
		s.logger.Error().Err(err).Str("channel_id", channelId).Msg("failed to insert inbound liquidity payment")
		return "", err
	}
	return row.Id, nil
}

// SetInboundLiquidityLocked records the funding transaction reaching the
// peer's locked-funds threshold.
func (s *Store) SetInboundLiquidityLocked(txId string, lockedAt time.Time) (bool, error) {
	result := s.db.Model(&db.InboundLiquidityOutgoingPayment{}).
		Where("tx_id = ? AND locked_at IS NULL", txId).
		Update("locked_at", lockedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// SetInboundLiquidityConfirmed records the funding transaction's confirmation.
func (s *Store) SetInboundLiquidityConfirmed(txId string, confirmedAt time.Time) (bool, error) {
	result := s.db.Model(&db.InboundLiquidityOutgoingPayment{}).
		Where("tx_id = ? AND confirmed_at IS NULL", txId).
		Update("confirmed_at", confirmedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateChannelCloseMiningFee sets miningFeeMsat on the most recently
// created, not-yet-confirmed channel-close row for channelId. Returns false
// (no error) when no such row exists, so bumpFeeHandler can fall back to
// UpdateInboundLiquidityMiningFee for a CPFP bump on an inbound-liquidity
// funding transaction instead.
func (s *Store) UpdateChannelCloseMiningFee(channelId string, miningFeeMsat uint64) (bool, error) {
	var row db.ChannelCloseOutgoingPayment
	err := s.db.Where("channel_id = ? AND confirmed_at IS NULL", channelId).Order("created_at DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, s.db.Model(&row).Update("mining_fee_msat", miningFeeMsat).Error
}

// UpdateInboundLiquidityMiningFee sets miningFeeMsat on the most recently
// created, not-yet-confirmed inbound-liquidity row for channelId.
func (s *Store) UpdateInboundLiquidityMiningFee(channelId string, miningFeeMsat uint64) (bool, error) {
	var row db.InboundLiquidityOutgoingPayment
	err := s.db.Where("channel_id = ? AND confirmed_at IS NULL", channelId).Order("created_at DESC").First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, s.db.Model(&row).Update("mining_fee_msat", miningFeeMsat).Error
}

// GetChannelClose looks up a channel-close payment by its splice txId, for
// tests and for handlers that need to confirm a write landed.
func (s *Store) GetChannelClose(txId string) (*ChannelClosePayment, error) {
	var row db.ChannelCloseOutgoingPayment
	if err := s.db.Where("tx_id = ?", txId).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOutgoingPaymentNotFoundError()
		}
		return nil, err
	}
	return rowToChannelClosePayment(&row)
}

// GetInboundLiquidity looks up an inbound-liquidity payment by its splice
// txId.
func (s *Store) GetInboundLiquidity(txId string) (*InboundLiquidityPayment, error) {
	var row db.InboundLiquidityOutgoingPayment
	if err := s.db.Where("tx_id = ?", txId).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOutgoingPaymentNotFoundError()
		}
		return nil, err
	}
	return rowToInboundLiquidityPayment(&row)
}

func rowToChannelClosePayment(row *db.ChannelCloseOutgoingPayment) (*ChannelClosePayment, error) {
	closingInfo, err := encoding.DecodeClosingInfo(encoding.Tag(row.ClosingInfoType), row.ClosingInfoBlob)
	if err != nil {
		return nil, err
	}
	return &ChannelClosePayment{
		Id:                     row.Id,
		AmountMsat:             row.AmountMsat,
		Address:                row.Address,
		IsSentToDefaultAddress: row.IsSentToDefaultAddress,
		MiningFeeMsat:          row.MiningFeeMsat,
		ChannelId:              row.ChannelId,
		TxId:                   row.TxId,
		ClosingInfo:            closingInfo,
		CreatedAt:              row.CreatedAt,
		ConfirmedAt:            row.ConfirmedAt,
		LockedAt:               row.LockedAt,
	}, nil
}

func rowToInboundLiquidityPayment(row *db.InboundLiquidityOutgoingPayment) (*InboundLiquidityPayment, error) {
	lease, err := encoding.DecodeLiquidityLease(encoding.Tag(row.LeaseType), row.LeaseBlob)
	if err != nil {
		return nil, err
	}
	return &InboundLiquidityPayment{
		Id:            row.Id,
		ChannelId:     row.ChannelId,
		TxId:          row.TxId,
		MiningFeeMsat: row.MiningFeeMsat,
		Lease:         lease,
		CreatedAt:     row.CreatedAt,
		ConfirmedAt:   row.ConfirmedAt,
		LockedAt:      row.LockedAt,
	}, nil
}

// UpsertChannelSnapshot replaces the cached view of one channel with ch,
// keyed by ChannelId. Called by the peer supervisor whenever it receives a
// fresh channels snapshot, per SPEC_FULL.md §3.
func (s *Store) UpsertChannelSnapshot(ch ChannelSnapshot) error {
	row := db.ChannelSnapshot{
		ChannelId:        ch.ChannelId,
		ShortChannelId:   ch.ShortChannelId,
		CapacitySat:      ch.CapacitySat,
		LocalBalanceMsat: ch.LocalBalanceMsat,
		IsUsable:         ch.IsUsable,
		UpdatedAt:        ch.UpdatedAt,
	}
	return s.db.Save(&row).Error
}

// GetChannelSnapshot looks up the cached view of one channel by its
// ChannelId, for tests and the export/history reads described in
// SPEC_FULL.md §3.
func (s *Store) GetChannelSnapshot(channelId string) (*ChannelSnapshot, error) {
	var row db.ChannelSnapshot
	if err := s.db.Where("channel_id = ?", channelId).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewChannelSnapshotNotFoundError()
		}
		return nil, err
	}
	return &ChannelSnapshot{
		ChannelId:        row.ChannelId,
		ShortChannelId:   row.ShortChannelId,
		CapacitySat:      row.CapacitySat,
		LocalBalanceMsat: row.LocalBalanceMsat,
		IsUsable:         row.IsUsable,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

// AppendFeeCreditLedgerEntry records a fee-credit balance movement. The peer
// supervisor calls this when persisting an AddedToFeeCredit or
// FeeCreditPayment receivedWith part, so GetFeeCreditBalance has a ledger to
// sum.
func (s *Store) AppendFeeCreditLedgerEntry(deltaMsat int64, reason string, createdAt time.Time) error {
	row := db.FeeCreditLedgerEntry{
		DeltaMsat: deltaMsat,
		Reason:    reason,
		CreatedAt: createdAt,
	}
	return s.db.Create(&row).Error
}

// GetFeeCreditBalance returns the running fee-credit balance in msat, which
// the peer supervisor converts to sat for the liquidity policy's check of
// credit plus a quote's amount against maxAllowedCredit. This store is the
// book of record for the node's own fee credit, so the peer supervisor reads
// this instead of trusting a protocol-engine-supplied credit figure.
func (s *Store) GetFeeCreditBalance() int64 {
	return queries.GetFeeCreditBalance(s.db)
}
