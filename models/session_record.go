package models

import "time"

// SessionRecord is the persistence row behind the session repository, one per
// table/QR identifier. Payload is the JSON-encoded session blob; Version is
// bumped on every write so stale writers lose (last-write-wins across tabs,
// guarded by a monotonic version).
type SessionRecord struct {
	ID        uint      `gorm:"primaryKey"`
	TableCode string    `gorm:"uniqueIndex"` // Enforces ONE session per table code
	Payload   []byte    `gorm:"type:bytea"`
	Version   int64     `gorm:"index"`
	UpdatedAt time.Time
}
