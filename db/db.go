package db

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open opens (creating if absent) the SQLite database at uri and configures
// the connection pool for a single-writer workload: SQLite serializes
// writers regardless, so a large pool only adds lock-wait contention.
func Open(uri string, logQueries bool) (*gorm.DB, error) {
	level := gormlogger.Silent
	if logQueries {
		level = gormlogger.Info
	}

	gormDB, err := gorm.Open(sqlite.Open(uri), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if err := gormDB.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gormDB, nil
}
