package displaycode

import (
	"testing"

	"tessera-backend/internal/domain"
	"tessera-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCodeTest(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestNext_AllocatesMonotonicallyPerScope(t *testing.T) {
	db := setupCodeTest(t)

	var codes []string
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < 3; i++ {
			code, err := Next(tx, domain.ScopeTrade)
			if err != nil {
				return err
			}
			codes = append(codes, code)
		}
		// A second scope runs its own counter.
		code, err := Next(tx, domain.ScopeListing)
		if err != nil {
			return err
		}
		codes = append(codes, code)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"TRD-000001", "TRD-000002", "TRD-000003", "MKT-000001"}, codes)
}

func TestNext_RolledBackAllocationIsReused(t *testing.T) {
	db := setupCodeTest(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := Next(tx, domain.ScopeTrade); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	var code string
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		code, txErr = Next(tx, domain.ScopeTrade)
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, "TRD-000001", code)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "USR-000042", Format(domain.ScopeUser, 42))
	assert.Equal(t, "TXN-123456", Format(domain.ScopeTransaction, 123456))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "USR-00****", Mask("USR-000123"))
	assert.Equal(t, "MKT-00", Mask("MKT-00"))
	assert.Equal(t, "", Mask(""))
}
