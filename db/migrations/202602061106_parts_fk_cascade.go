package migrations

import (
	"strings"

	"gorm.io/gorm"
)

// MigratePartsFK adds ON DELETE CASCADE to lightning_outgoing_parts.payment_id.
// GORM's AutoMigrate does not update existing FK constraints on SQLite; the
// standard approach is to recreate the table with the correct schema.
func MigratePartsFK(db *gorm.DB) error {
	if !db.Migrator().HasTable("lightning_outgoing_parts") {
		return nil
	}

	var tableSql string
	err := db.Raw("SELECT sql FROM sqlite_master WHERE type='table' AND name='lightning_outgoing_parts'").Scan(&tableSql).Error
	if err != nil {
		return err
	}

	if strings.Contains(tableSql, "ON DELETE CASCADE") {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		columns := []string{
			"id", "payment_id", "amount_msat", "route",
			"status_type", "status_blob", "created_at", "completed_at",
		}
		columnList := strings.Join(columns, ", ")

		createSQL := `
			CREATE TABLE lightning_outgoing_parts_new (
				id TEXT PRIMARY KEY,
				payment_id TEXT,
				amount_msat INTEGER,
				route TEXT,
				status_type TEXT,
				status_blob BLOB,
				created_at DATETIME,
				completed_at DATETIME,
				CONSTRAINT fk_parts_payment FOREIGN KEY (payment_id) REFERENCES lightning_outgoing_payments(id) ON DELETE CASCADE
			)
		`
		if err := tx.Exec(createSQL).Error; err != nil {
			return err
		}

		copySQL := "INSERT INTO lightning_outgoing_parts_new (" + columnList + ") SELECT " + columnList + " FROM lightning_outgoing_parts"
		if err := tx.Exec(copySQL).Error; err != nil {
			return err
		}

		if err := tx.Exec("DROP TABLE lightning_outgoing_parts").Error; err != nil {
			return err
		}

		return tx.Exec("ALTER TABLE lightning_outgoing_parts_new RENAME TO lightning_outgoing_parts").Error
	})
}
