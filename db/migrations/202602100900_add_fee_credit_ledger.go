package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/lightningco/nodecore/db"
	"gorm.io/gorm"
)

var _202602100900_add_fee_credit_ledger = &gormigrate.Migration{
	ID: "202602100900_add_fee_credit_ledger",
	Migrate: func(tx *gorm.DB) error {
		return tx.AutoMigrate(&db.FeeCreditLedgerEntry{})
	},
	Rollback: func(tx *gorm.DB) error {
		return tx.Migrator().DropTable(&db.FeeCreditLedgerEntry{})
	},
}
