package domain

import "time"

// Display-code scopes. Codes render as SCOPE-000123 and are allocated from
// a per-scope counter advanced under a row lock.
const (
	ScopeUser        = "USR"
	ScopeProperty    = "PRP"
	ScopeListing     = "MKT"
	ScopeHolding     = "HLD"
	ScopeTrade       = "TRD"
	ScopeTransaction = "TXN"
)

// Sequence is the per-scope monotonic counter backing display codes.
type Sequence struct {
	Scope     string    `gorm:"column:scope;type:varchar(8);primaryKey" json:"scope"`
	LastValue int64     `gorm:"column:last_value;not null;default:0" json:"last_value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Sequence) TableName() string {
	return "Sequences"
}
