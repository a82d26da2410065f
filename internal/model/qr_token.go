package model

import "time"

// QRToken is a short-lived, single-use credential binding an enrollment to a
// check-in/out scan. Tokens never transition out of scanned or expired; the
// scanned flag is set on first lookup during a scan, before validity is
// evaluated, so a token is burned even when the scan itself fails.
type QRToken struct {
	QRID    string    `gorm:"column:qrid;type:varchar(32);primaryKey" json:"qrid"`
	EventID string    `gorm:"type:varchar(16);not null"               json:"event_id"`
	UserID  string    `gorm:"type:varchar(64);not null"               json:"user_id"`
	Exp     time.Time `gorm:"column:exp;not null"                     json:"exp"`
	Scanned bool      `gorm:"not null;default:false"                  json:"scanned"`
}

// TableName sets the table name.
func (QRToken) TableName() string { return "qr_tokens" }

// Expired reports whether the token's lifetime has lapsed at now.
func (t *QRToken) Expired(now time.Time) bool {
	return t.Exp.Before(now)
}
