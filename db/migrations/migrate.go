package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/lightningco/nodecore/db"
	"gorm.io/gorm"
)

// Migrate brings the database up to the current schema. Manual migrations
// run first (for schema changes AutoMigrate cannot express on SQLite, such
// as altering an existing foreign key constraint), then a gormigrate set for
// additive tables, then AutoMigrate fills in anything new.
func Migrate(gormDB *gorm.DB) error {
	if err := MigratePartsFK(gormDB); err != nil {
		return err
	}

	m := gormigrate.New(gormDB, gormigrate.DefaultOptions, []*gormigrate.Migration{
		_202602100900_add_fee_credit_ledger,
	})
	if err := m.Migrate(); err != nil {
		return err
	}

	return gormDB.AutoMigrate(
		&db.IncomingPayment{},
		&db.LightningOutgoingPayment{},
		&db.LightningOutgoingPart{},
		&db.ChannelCloseOutgoingPayment{},
		&db.InboundLiquidityOutgoingPayment{},
		&db.PaymentMetadata{},
		&db.ChannelSnapshot{},
		&db.NodeRecord{},
	)
}
