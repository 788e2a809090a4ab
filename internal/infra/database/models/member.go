package models

import (
	"time"
)

// Member is the row form of a verified member. Email uniqueness is
// enforced by the verification commit, not by a constraint, so a
// moderator can repair rows by hand without fighting the schema.
type Member struct {
	UserID        string    `json:"userid" gorm:"primaryKey;type:text"`
	Username      string    `json:"username" gorm:"type:text;index:idx_users_handle"`
	Discriminator string    `json:"discriminator" gorm:"type:text;index:idx_users_handle"`
	Nickname      string    `json:"nickname" gorm:"type:text"`
	Pronouns      string    `json:"pronouns" gorm:"type:text"`
	Email         string    `json:"email" gorm:"type:text;index"`
	Affiliation   string    `json:"affiliation" gorm:"type:text;index"`
	Major         string    `json:"major" gorm:"type:text"`
	GradYear      string    `json:"gradYear" gorm:"type:text;index"`
	Transfer      bool      `json:"transfer" gorm:"not null;default:false"`
	VerifiedAt    time.Time `json:"verifiedAt" gorm:"->;<-:create;not null"`
}

func (Member) TableName() string { return "users" }

// PendingVerification is an issued one-time code. One row per user;
// reissuing overwrites. Expired rows linger until overwritten.
type PendingVerification struct {
	UserID      string    `json:"userid" gorm:"primaryKey;type:text"`
	Email       string    `json:"email" gorm:"type:text"`
	Nickname    string    `json:"nickname" gorm:"type:text"`
	Affiliation string    `json:"affiliation" gorm:"type:text"`
	Code        string    `json:"code" gorm:"type:text"`
	ExpiresAt   time.Time `json:"expiresAt" gorm:"not null;index"`
}

func (PendingVerification) TableName() string { return "usercodes" }

// Message is a moderator-editable named message template.
type Message struct {
	ID      string `json:"id" gorm:"primaryKey;type:text"`
	Message string `json:"message" gorm:"type:text"`
}

func (Message) TableName() string { return "messages" }
