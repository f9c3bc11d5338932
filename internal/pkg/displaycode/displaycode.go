package displaycode

import (
	"errors"
	"fmt"

	"tessera-backend/internal/domain"
	"tessera-backend/internal/infrastructure/database"

	"gorm.io/gorm"
)

// Next allocates the next display code for a scope, e.g. "MKT-000123".
// The per-scope counter row is locked FOR UPDATE, so codes allocated inside
// concurrent transactions are unique and monotonically increasing. Must be
// called inside the transaction that persists the entity, so an aborted
// operation never burns a visible code gap larger than its own allocation.
func Next(tx *gorm.DB, scope string) (string, error) {
	var seq domain.Sequence
	err := database.LockForUpdate(tx).
		Where("scope = ?", scope).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = domain.Sequence{Scope: scope}
		if err := tx.Create(&seq).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	seq.LastValue++
	if err := tx.Model(&domain.Sequence{}).Where("scope = ?", scope).
		Update("last_value", seq.LastValue).Error; err != nil {
		return "", err
	}
	return Format(scope, seq.LastValue), nil
}

// Format renders a display code without touching the counter.
func Format(scope string, value int64) string {
	return fmt.Sprintf("%s-%06d", scope, value)
}

// Mask hides the tail of a display code for third-party visibility,
// keeping the scope and the first digits: "USR-000123" -> "USR-00****".
func Mask(code string) string {
	const visible = 6
	if len(code) <= visible {
		return code
	}
	masked := []byte(code[:visible])
	for i := visible; i < len(code); i++ {
		masked = append(masked, '*')
	}
	return string(masked)
}
