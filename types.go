package bruinbot

import (
	"time"
)

const (
	EventMemberVerified = "member.verified"
	EventMemberAudited  = "member.audited"
)

// Event is broadcast on the signal channel whenever a member's
// standing changes (verification, audit promotion).
type Event struct {
	Type        string    `json:"type"`
	UserID      string    `json:"userid"`
	Nickname    string    `json:"nickname"`
	Affiliation string    `json:"affiliation"`
	Timestamp   time.Time `json:"timestamp"`
}

// EmailAddress is the decomposed form of a validated address.
// Domain is the registrable label directly under the TLD, so
// "joe@g.ucla.edu" yields Domain "ucla", TLD "edu".
type EmailAddress struct {
	Address string `json:"address"`
	Domain  string `json:"domain"`
	TLD     string `json:"tld"`
}
