package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StartSQLite opens a SQLite database at path. ":memory:" gives a private
// in-memory database; the pool is pinned to one connection so every query
// sees the same data.
func StartSQLite(path string, gormLogger logger.Interface) (*GORMStore, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,

		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Println("Unable to open SQLite database:", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Printf("Using SQLite database at %s", path)
	return &GORMStore{db: db}, nil
}
