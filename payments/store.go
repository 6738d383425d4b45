package payments

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/encoding"
)

// Store is the transactional CRUD and query layer over payment records,
// parts, and metadata. See spec.md §4.B.
type Store struct {
	db     *gorm.DB
	logger *zerolog.Logger
}

// NewStore returns a Store backed by gormDB. Every mutating method either
// runs inside its own transaction or composes a caller-visible one, per
// spec.md §4.B's linearizability requirement.
func NewStore(gormDB *gorm.DB, logger *zerolog.Logger) *Store {
	return &Store{db: gormDB, logger: logger}
}

// AddIncoming inserts a new incoming payment row. Fails if a row with the
// same paymentHash already exists.
func (s *Store) AddIncoming(preimage, paymentHash string, origin encoding.IncomingOrigin, createdAt time.Time) (string, error) {
	originType, originBlob, err := encoding.EncodeIncomingOrigin(origin)
	if err != nil {
		return "", err
	}

	row := db.IncomingPayment{
		Id:          uuid.NewString(),
		PaymentHash: paymentHash,
		Preimage:    preimage,
		OriginType:  string(originType),
		OriginBlob:  originBlob,
		CreatedAt:   createdAt,
	}

	if err := s.db.Create(&row).Error; err != nil {
		s.logger.Error().Err(err).Str("payment_hash", paymentHash).Msg("failed to insert incoming payment")
		return "", err
	}
	return row.Id, nil
}

// Receive implements spec.md §4.B's receive(paymentHash, receivedWith, receivedAt):
// within one transaction, read the current row, union existing and new
// receivedWith by natural key, re-encode, and set received_at only on the
// first successful call.
func (s *Store) Receive(paymentHash string, receivedWith []encoding.ReceivedWithPart, receivedAt time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row db.IncomingPayment
		if err := tx.Where("payment_hash = ?", paymentHash).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewIncomingPaymentNotFoundError()
			}
			return err
		}

		existing, err := decodeReceivedWith(&row)
		if err != nil {
			return err
		}

		merged := unionReceivedWith(existing, receivedWith)
		tag, blob, err := encoding.EncodeReceivedWithList(merged)
		if err != nil {
			return err
		}

		row.ReceivedWithType = string(tag)
		row.ReceivedWithBlob = blob
		if row.ReceivedAt == nil {
			row.ReceivedAt = &receivedAt
			row.FirstReceivedAt = &receivedAt
		}

		return tx.Model(&db.IncomingPayment{}).Where("id = ?", row.Id).Updates(map[string]any{
			"received_with_type": row.ReceivedWithType,
			"received_with_blob": row.ReceivedWithBlob,
			"received_at":        row.ReceivedAt,
			"first_received_at":  row.FirstReceivedAt,
		}).Error
	})
}

// unionReceivedWith merges existing with incoming by encoding.NaturalKey,
// per SPEC_FULL.md §9 Open Question 1: a later call's fields win for a part
// sharing a natural key with an earlier one.
func unionReceivedWith(existing, incoming []encoding.ReceivedWithPart) []encoding.ReceivedWithPart {
	byKey := make(map[string]int, len(existing)+len(incoming))
	merged := make([]encoding.ReceivedWithPart, 0, len(existing)+len(incoming))

	for _, p := range existing {
		byKey[encoding.NaturalKey(p)] = len(merged)
		merged = append(merged, p)
	}
	for _, p := range incoming {
		key := encoding.NaturalKey(p)
		if idx, ok := byKey[key]; ok {
			merged[idx] = p
			continue
		}
		byKey[key] = len(merged)
		merged = append(merged, p)
	}
	return merged
}

// SetLocked implements spec.md §4.B's setLocked(paymentHash, lockedAt):
// rewrite every NewChannel/SpliceIn part's lockedAt and overwrite
// received_at with lockedAt.
func (s *Store) SetLocked(paymentHash string, lockedAt time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row db.IncomingPayment
		if err := tx.Where("payment_hash = ?", paymentHash).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewIncomingPaymentNotFoundError()
			}
			return err
		}

		parts, err := decodeReceivedWith(&row)
		if err != nil {
			return err
		}
		for i, p := range parts {
			parts[i] = setPartLockedAt(p, lockedAt)
		}

		tag, blob, err := encoding.EncodeReceivedWithList(parts)
		if err != nil {
			return err
		}

		return tx.Model(&db.IncomingPayment{}).Where("id = ?", row.Id).Updates(map[string]any{
			"received_with_type": string(tag),
			"received_with_blob": blob,
			"received_at":        lockedAt,
		}).Error
	})
}

func setPartLockedAt(p encoding.ReceivedWithPart, lockedAt time.Time) encoding.ReceivedWithPart {
	switch v := p.(type) {
	case encoding.NewChannel:
		v.LockedAt = &lockedAt
		return v
	case encoding.SpliceIn:
		v.LockedAt = &lockedAt
		return v
	default:
		return p
	}
}

// SetConfirmed implements spec.md §4.B's setConfirmed(paymentHash, confirmedAt):
// rewrite confirmedAt on the same parts; preserve received_at.
func (s *Store) SetConfirmed(paymentHash string, confirmedAt time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row db.IncomingPayment
		if err := tx.Where("payment_hash = ?", paymentHash).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewIncomingPaymentNotFoundError()
			}
			return err
		}

		parts, err := decodeReceivedWith(&row)
		if err != nil {
			return err
		}
		for i, p := range parts {
			parts[i] = setPartConfirmedAt(p, confirmedAt)
		}

		tag, blob, err := encoding.EncodeReceivedWithList(parts)
		if err != nil {
			return err
		}

		return tx.Model(&db.IncomingPayment{}).Where("id = ?", row.Id).Updates(map[string]any{
			"received_with_type": string(tag),
			"received_with_blob": blob,
		}).Error
	})
}

func setPartConfirmedAt(p encoding.ReceivedWithPart, confirmedAt time.Time) encoding.ReceivedWithPart {
	switch v := p.(type) {
	case encoding.NewChannel:
		v.ConfirmedAt = &confirmedAt
		return v
	case encoding.SpliceIn:
		v.ConfirmedAt = &confirmedAt
		return v
	default:
		return p
	}
}

// Get implements spec.md §4.B's get(paymentHash).
func (s *Store) Get(paymentHash string) (*IncomingPayment, error) {
	var row db.IncomingPayment
	if err := s.db.Where("payment_hash = ?", paymentHash).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewIncomingPaymentNotFoundError()
		}
		return nil, err
	}
	return rowToIncomingPayment(&row)
}

// Delete implements spec.md §4.B's delete(paymentHash) → bool, true iff one
// row was removed. Cascades to the row's metadata per SPEC_FULL.md §4.B's
// metadata-deletion addendum.
func (s *Store) Delete(paymentHash string) (bool, error) {
	var deleted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var row db.IncomingPayment
		if err := tx.Where("payment_hash = ?", paymentHash).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		result := tx.Delete(&row)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected == 1

		return tx.Where("payment_type = ? AND payment_id = ?", db.PaymentTypeIncoming, row.Id).Delete(&db.PaymentMetadata{}).Error
	})
	return deleted, err
}

// GetOldestReceivedDate implements spec.md §4.B's getOldestReceivedDate().
func (s *Store) GetOldestReceivedDate() (*time.Time, error) {
	var row db.IncomingPayment
	err := s.db.Where("received_at IS NOT NULL").Order("received_at ASC").Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	return row.ReceivedAt, nil
}

// ListCreatedWithin implements spec.md §4.B's listCreatedWithin(from,to,limit,offset).
func (s *Store) ListCreatedWithin(from, to time.Time, limit, offset int) ([]IncomingPayment, error) {
	var rows []db.IncomingPayment
	err := s.db.Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToIncomingPayments(rows)
}

// ListReceivedWithin implements spec.md §4.B's listReceivedWithin(…) with an
// optional externalId filter, joining payment_metadata when externalId is set.
func (s *Store) ListReceivedWithin(from, to time.Time, limit, offset int, externalId *string) ([]IncomingPayment, error) {
	q := s.db.Where("received_at >= ? AND received_at <= ?", from, to)
	if externalId != nil {
		q = q.Joins("JOIN payment_metadata ON payment_metadata.payment_id = incoming_payments.id AND payment_metadata.payment_type = ?", db.PaymentTypeIncoming).
			Where("payment_metadata.external_id = ?", *externalId)
	}

	var rows []db.IncomingPayment
	if err := q.Order("received_at ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rowsToIncomingPayments(rows)
}

// ListExpiredPayments returns the unreceived rows whose origin is an Invoice
// and whose createdAt lies within [from, to]. It does not check each
// invoice's own expiry: every unreceived invoice row in the window is
// returned.
func (s *Store) ListExpiredPayments(from, to time.Time) ([]IncomingPayment, error) {
	var rows []db.IncomingPayment
	err := s.db.Where("received_at IS NULL AND origin_type = ? AND created_at >= ? AND created_at <= ?",
		string(encoding.TagIncomingOriginInvoiceV0), from, to).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToIncomingPayments(rows)
}

// ListAllNotConfirmed streams every incoming payment whose receivedWith
// contains a NewChannel/SpliceIn part not yet confirmed, via visit, without
// materializing the whole result set. See spec.md §4.B.
func (s *Store) ListAllNotConfirmed(visit func(IncomingPayment) error) error {
	rows, err := s.db.Model(&db.IncomingPayment{}).Where("received_with_blob IS NOT NULL").Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row db.IncomingPayment
		if err := s.db.ScanRows(rows, &row); err != nil {
			return err
		}

		parts, err := decodeReceivedWith(&row)
		if err != nil {
			return err
		}
		if !hasUnconfirmedChannelPart(parts) {
			continue
		}

		payment, err := rowToIncomingPayment(&row)
		if err != nil {
			return err
		}
		if err := visit(*payment); err != nil {
			return err
		}
	}
	return rows.Err()
}

func hasUnconfirmedChannelPart(parts []encoding.ReceivedWithPart) bool {
	for _, p := range parts {
		switch v := p.(type) {
		case encoding.NewChannel:
			if v.ConfirmedAt == nil {
				return true
			}
		case encoding.SpliceIn:
			if v.ConfirmedAt == nil {
				return true
			}
		}
	}
	return false
}

// decodeReceivedWith rehydrates a row's receivedWith list, enforcing the
// three-column co-presence invariant from spec.md §4.B's failure semantics.
func decodeReceivedWith(row *db.IncomingPayment) ([]encoding.ReceivedWithPart, error) {
	allSet := row.ReceivedAt != nil && row.ReceivedWithType != "" && row.ReceivedWithBlob != nil
	allNull := row.ReceivedAt == nil && row.ReceivedWithType == "" && row.ReceivedWithBlob == nil
	onlyReceivedAtSet := row.ReceivedAt != nil && row.ReceivedWithType == "" && row.ReceivedWithBlob == nil

	switch {
	case allNull, onlyReceivedAtSet:
		return nil, nil
	case allSet:
		parts, err := encoding.DecodeReceivedWithList(encoding.Tag(row.ReceivedWithType), row.ReceivedWithBlob)
		if err != nil {
			return nil, NewUnreadableIncomingReceivedWithError(row.PaymentHash, err)
		}
		return parts, nil
	default:
		return nil, NewUnreadableIncomingReceivedWithError(row.PaymentHash, errors.New("partially inconsistent received_* columns"))
	}
}

func rowToIncomingPayment(row *db.IncomingPayment) (*IncomingPayment, error) {
	origin, err := encoding.DecodeIncomingOrigin(encoding.Tag(row.OriginType), row.OriginBlob)
	if err != nil {
		return nil, err
	}

	payment := &IncomingPayment{
		Id:          row.Id,
		PaymentHash: row.PaymentHash,
		Preimage:    row.Preimage,
		Origin:      origin,
		CreatedAt:   row.CreatedAt,
	}

	if row.ReceivedAt != nil {
		parts, err := decodeReceivedWith(row)
		if err != nil {
			return nil, err
		}
		payment.Received = &Received{ReceivedWith: parts, ReceivedAt: *row.ReceivedAt}
	}

	return payment, nil
}

func rowsToIncomingPayments(rows []db.IncomingPayment) ([]IncomingPayment, error) {
	out := make([]IncomingPayment, 0, len(rows))
	for i := range rows {
		p, err := rowToIncomingPayment(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
