package payments

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lightningco/nodecore/db"
)

// Metadata is the domain view of one payment_metadata row. See spec.md §3 -
// PaymentMetadata.
type Metadata struct {
	ExternalId *string
	WebhookUrl *string
}

// SetMetadata upserts the metadata row for (paymentType, paymentId). See
// spec.md §3 - PaymentMetadata and invariant 6.
func (s *Store) SetMetadata(paymentType db.PaymentType, paymentId string, meta Metadata) error {
	row := db.PaymentMetadata{
		PaymentType: paymentType,
		PaymentId:   paymentId,
		ExternalId:  meta.ExternalId,
		WebhookUrl:  meta.WebhookUrl,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_type"}, {Name: "payment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"external_id", "webhook_url"}),
	}).Create(&row).Error
}

// GetMetadata reads the metadata row for (paymentType, paymentId), if any.
func (s *Store) GetMetadata(paymentType db.PaymentType, paymentId string) (*Metadata, error) {
	var row db.PaymentMetadata
	err := s.db.Where("payment_type = ? AND payment_id = ?", paymentType, paymentId).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Metadata{ExternalId: row.ExternalId, WebhookUrl: row.WebhookUrl}, nil
}

// DeleteMetadata removes the metadata row for (paymentType, paymentId)
// directly. Per invariant 6 and SPEC_FULL.md §4.B's metadata-deletion
// addendum, this is the only path that removes a metadata row for anything
// other than Store.Delete on its owning incoming payment.
func (s *Store) DeleteMetadata(paymentType db.PaymentType, paymentId string) (bool, error) {
	result := s.db.Where("payment_type = ? AND payment_id = ?", paymentType, paymentId).Delete(&db.PaymentMetadata{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
