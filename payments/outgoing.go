package payments

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/encoding"
	"github.com/lightningco/nodecore/utils"
)

// AddOutgoing implements spec.md §4.B's addOutgoing(payment): a
// transactional insert of the payment row plus its initial parts.
func (s *Store) AddOutgoing(recipientPubkey string, recipientAmountMsat uint64, details encoding.LightningOutgoingDetails, parts []Part, createdAt time.Time) (string, error) {
	detailsType, detailsBlob, err := encoding.EncodeOutgoingDetails(details)
	if err != nil {
		return "", err
	}
	statusType, statusBlob, err := encoding.EncodeOutgoingStatus(encoding.OutgoingPending{})
	if err != nil {
		return "", err
	}

	payment := db.LightningOutgoingPayment{
		Id:                  uuid.NewString(),
		RecipientPubkey:     recipientPubkey,
		RecipientAmountMsat: recipientAmountMsat,
		DetailsType:         string(detailsType),
		DetailsBlob:         detailsBlob,
		StatusType:          string(statusType),
		StatusBlob:          statusBlob,
		CreatedAt:           createdAt,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return insertParts(tx, payment.Id, parts)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("recipient", recipientPubkey).Msg("failed to insert outgoing payment")
		return "", err
	}
	return payment.Id, nil
}

func insertParts(tx *gorm.DB, paymentId string, parts []Part) error {
	if len(parts) == 0 {
		return nil
	}
	rows := make([]db.LightningOutgoingPart, 0, len(parts))
	for _, p := range parts {
		statusType, statusBlob, err := encoding.EncodePartStatus(p.Status)
		if err != nil {
			return err
		}
		id := p.Id
		if id == "" {
			id = uuid.NewString()
		}
		rows = append(rows, db.LightningOutgoingPart{
			Id:         id,
			PaymentId:  paymentId,
			AmountMsat: p.AmountMsat,
			Route:      encoding.EncodeRoute(p.Route),
			StatusType: string(statusType),
			StatusBlob: statusBlob,
			CreatedAt:  p.CreatedAt,
		})
	}
	return tx.Create(&rows).Error
}

// AddParts implements spec.md §4.B's addParts(parentId, parts): a
// transactional bulk insert; the parent must already exist (foreign key).
func (s *Store) AddParts(paymentId string, parts []Part) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.LightningOutgoingPayment{}).Where("id = ?", paymentId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NewOutgoingPaymentNotFoundError()
		}
		return insertParts(tx, paymentId, parts)
	})
}

// CompletePayment implements spec.md §4.B's completePayment(id, completed) →
// bool: updates status_type/status_blob/completed_at, returning whether
// exactly one row changed.
func (s *Store) CompletePayment(id string, status encoding.OutgoingStatus, completedAt time.Time) (bool, error) {
	statusType, statusBlob, err := encoding.EncodeOutgoingStatus(status)
	if err != nil {
		return false, err
	}

	result := s.db.Model(&db.LightningOutgoingPayment{}).
		Where("id = ? AND status_type = ?", id, string(encoding.TagOutgoingStatusPendingV0)).
		Updates(map[string]any{
			"status_type":  string(statusType),
			"status_blob":  statusBlob,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdatePart implements spec.md §4.B's updatePart(partId, status, completedAt)
// → bool for both the Succeeded and Failed transitions. A Part cannot be
// completed more than once: the WHERE clause only matches a Pending row, so
// a second call on an already-completed part updates zero rows.
func (s *Store) UpdatePart(partId string, status encoding.PartStatus, completedAt time.Time) (bool, error) {
	statusType, statusBlob, err := encoding.EncodePartStatus(status)
	if err != nil {
		return false, err
	}

	result := s.db.Model(&db.LightningOutgoingPart{}).
		Where("id = ? AND status_type = ?", partId, string(encoding.TagPartStatusPendingV0)).
		Updates(map[string]any{
			"status_type":  string(statusType),
			"status_blob":  statusBlob,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetPaymentFromPartId implements spec.md §4.B's getPaymentFromPartId(partId):
// look up the parent via the part, rehydrate, apply filterUselessParts.
func (s *Store) GetPaymentFromPartId(partId string) (*OutgoingPayment, error) {
	var part db.LightningOutgoingPart
	if err := s.db.Where("id = ?", partId).First(&part).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOutgoingPaymentNotFoundError()
		}
		return nil, err
	}
	return s.GetPayment(part.PaymentId)
}

// GetPayment implements spec.md §4.B's getPayment(id), denormalizing the
// payment row and its parts into one result and applying filterUselessParts.
func (s *Store) GetPayment(id string) (*OutgoingPayment, error) {
	var row db.LightningOutgoingPayment
	if err := s.db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOutgoingPaymentNotFoundError()
		}
		return nil, err
	}

	var partRows []db.LightningOutgoingPart
	if err := s.db.Where("payment_id = ?", id).Order("created_at ASC").Find(&partRows).Error; err != nil {
		return nil, err
	}

	return rowToOutgoingPayment(&row, partRows)
}

// ListPaymentsWithin implements spec.md §4.B's listPaymentsWithin(…).
func (s *Store) ListPaymentsWithin(from, to time.Time, limit, offset int) ([]OutgoingPayment, error) {
	return s.listPaymentsWithin(from, to, limit, offset, nil)
}

// ListSuccessfulOrPendingPaymentsWithin implements spec.md §4.B's
// listSuccessfulOrPendingPaymentsWithin(…).
func (s *Store) ListSuccessfulOrPendingPaymentsWithin(from, to time.Time, limit, offset int) ([]OutgoingPayment, error) {
	statuses := []string{string(encoding.TagOutgoingStatusPendingV0), string(encoding.TagOutgoingStatusSucceededOffChainV0)}
	return s.listPaymentsWithin(from, to, limit, offset, statuses)
}

func (s *Store) listPaymentsWithin(from, to time.Time, limit, offset int, statusFilter []string) ([]OutgoingPayment, error) {
	q := s.db.Where("created_at >= ? AND created_at <= ?", from, to)
	if statusFilter != nil {
		q = q.Where("status_type IN ?", statusFilter)
	}

	var rows []db.LightningOutgoingPayment
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.denormalize(rows)
}

// ListPaymentsForPaymentHash implements spec.md §4.B's
// listPaymentsForPaymentHash(hash). LightningOutgoingPayment has no direct
// paymentHash column (only the recipient holds a hash-bearing invoice); the
// hash is recovered from each payment's encoded details, so this matches on the
// payments whose encoded details blob embeds the given invoice/hash.
func (s *Store) ListPaymentsForPaymentHash(paymentHash string) ([]OutgoingPayment, error) {
	var rows []db.LightningOutgoingPayment
	if err := s.db.Where("details_blob LIKE ?", "%"+paymentHash+"%").Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.denormalize(rows)
}

// denormalize groups parts by payment.id (insertion order preserved) per
// spec.md §4.B's "Denormalized read + aggregation" rule.
func (s *Store) denormalize(rows []db.LightningOutgoingPayment) ([]OutgoingPayment, error) {
	out := make([]OutgoingPayment, 0, len(rows))
	for i := range rows {
		var partRows []db.LightningOutgoingPart
		if err := s.db.Where("payment_id = ?", rows[i].Id).Order("created_at ASC").Find(&partRows).Error; err != nil {
			return nil, err
		}
		p, err := rowToOutgoingPayment(&rows[i], partRows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func rowToOutgoingPayment(row *db.LightningOutgoingPayment, partRows []db.LightningOutgoingPart) (*OutgoingPayment, error) {
	details, err := encoding.DecodeOutgoingDetails(encoding.Tag(row.DetailsType), row.DetailsBlob)
	if err != nil {
		return nil, err
	}
	status, err := encoding.DecodeOutgoingStatus(encoding.Tag(row.StatusType), row.StatusBlob)
	if err != nil {
		return nil, err
	}
	if (row.CompletedAt != nil) != (!isPending(status)) {
		return nil, NewUnhandledOutgoingStatusError(row.Id, encoding.Tag(row.StatusType))
	}

	parts := make([]Part, 0, len(partRows))
	for _, pr := range partRows {
		p, err := rowToPart(&pr)
		if err != nil {
			return nil, err
		}
		parts = append(parts, *p)
	}
	parts = filterUselessParts(status, parts)

	return &OutgoingPayment{
		Id:                  row.Id,
		RecipientPubkey:     row.RecipientPubkey,
		RecipientAmountMsat: row.RecipientAmountMsat,
		Details:             details,
		Status:              status,
		Parts:               parts,
		CreatedAt:           row.CreatedAt,
		CompletedAt:         row.CompletedAt,
	}, nil
}

func isPending(status encoding.OutgoingStatus) bool {
	_, ok := status.(encoding.OutgoingPending)
	return ok
}

// filterUselessParts implements spec.md §4.B's rule: for a payment in
// status Succeeded.OffChain, only succeeded parts are returned; otherwise
// all parts are retained.
func filterUselessParts(status encoding.OutgoingStatus, parts []Part) []Part {
	if _, ok := status.(encoding.OutgoingSucceededOffChain); !ok {
		return parts
	}
	return utils.Filter(parts, func(p Part) bool {
		_, ok := p.Status.(encoding.PartSucceeded)
		return ok
	})
}

func rowToPart(row *db.LightningOutgoingPart) (*Part, error) {
	status, err := encoding.DecodePartStatus(encoding.Tag(row.StatusType), row.StatusBlob)
	if err != nil {
		return nil, err
	}
	if (row.CompletedAt != nil) == isPartPending(status) {
		return nil, NewUnhandledOutgoingPartStatusError(row.Id, encoding.Tag(row.StatusType))
	}

	route, err := encoding.DecodeRoute(row.Route)
	if err != nil {
		return nil, err
	}

	return &Part{
		Id:          row.Id,
		PaymentId:   row.PaymentId,
		AmountMsat:  row.AmountMsat,
		Route:       route,
		Status:      status,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}, nil
}

func isPartPending(status encoding.PartStatus) bool {
	_, ok := status.(encoding.PartPending)
	return ok
}
