package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Affiliation is a member's relationship to the organization. It
// gates which email policy applies and which roles are granted.
type Affiliation string

const (
	AffiliationStudent Affiliation = "student"
	AffiliationAlumni  Affiliation = "alumni"
	AffiliationFaculty Affiliation = "faculty"
	AffiliationOther   Affiliation = "other"
)

// ParseAffiliation validates a raw affiliation string.
func ParseAffiliation(s string) (Affiliation, bool) {
	switch Affiliation(s) {
	case AffiliationStudent, AffiliationAlumni, AffiliationFaculty, AffiliationOther:
		return Affiliation(s), true
	}
	return "", false
}

const (
	// MaxNicknameLen leaves room for a parenthesized pronoun suffix
	// under the platform's 32 character nickname limit.
	MaxNicknameLen = 19
	MaxPronounsLen = 10
)

// Member is a verified community member.
type Member struct {
	UserID        string      `json:"userid"`
	Username      string      `json:"username"`
	Discriminator string      `json:"discriminator"`
	Nickname      string      `json:"nickname"`
	Pronouns      string      `json:"pronouns,omitempty"`
	Email         string      `json:"email"`
	Affiliation   Affiliation `json:"affiliation"`
	Major         string      `json:"major,omitempty"`
	GradYear      string      `json:"gradYear,omitempty"`
	Transfer      bool        `json:"transfer"`
	VerifiedAt    time.Time   `json:"verifiedAt"`
}

// DisplayNickname renders the server nickname, appending pronouns
// when they are on file.
func (m Member) DisplayNickname() string {
	if m.Pronouns == "" {
		return m.Nickname
	}
	return fmt.Sprintf("%s (%s)", m.Nickname, m.Pronouns)
}

// Handle renders the platform username#discriminator pair.
func (m Member) Handle() string {
	return m.Username + "#" + m.Discriminator
}

var gradYearPattern = regexp.MustCompile(`^(?:19|20)[0-9]{2}$`)

// ValidGradYear accepts exactly four-digit years 1900 through 2099.
func ValidGradYear(year string) bool {
	return gradYearPattern.MatchString(year)
}
