package database

import (
	"tessera-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Open opens a GORM DB from DSN. PreferSimpleProtocol disables prepared
// statement caching to avoid 42P05 ("prepared statement already exists")
// when the DSN points at a connection pooler (PgBouncer and friends).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// LockForUpdate adds a FOR UPDATE row lock on dialects that support it.
// SQLite (used in tests) has a single writer and no FOR UPDATE syntax, so
// the clause is skipped there; correctness in tests comes from SQLite's
// serialized writes.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AutoMigrate creates/updates the marketplace schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.Wallet{},
		&domain.Holding{},
		&domain.Listing{},
		&domain.TokenLock{},
		&domain.Trade{},
		&domain.Transaction{},
		&domain.Notification{},
		&domain.Sequence{},
	)
}
