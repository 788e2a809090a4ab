package domain

import (
	"time"
)

const (
	// CodeLength is the fixed length of a one-time code.
	CodeLength = 6
	// PendingTTL is how long an issued code stays redeemable.
	PendingTTL = 24 * time.Hour
)

// PendingVerification is an issued one-time code waiting to be
// redeemed. At most one exists per user; a new request overwrites
// the old one. Expired rows are never matched and are not reaped.
type PendingVerification struct {
	UserID      string      `json:"userid"`
	Email       string      `json:"email"`
	Nickname    string      `json:"nickname"`
	Affiliation Affiliation `json:"affiliation"`
	Code        string      `json:"code"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

// Redeemable reports whether the supplied code matches and the
// record has not expired.
func (p PendingVerification) Redeemable(code string, now time.Time) bool {
	return p.Code == code && now.Before(p.ExpiresAt)
}
