package domain

// Tier distinguishes the two committee role ladders.
type Tier string

const (
	TierOfficer Tier = "Officer"
	TierIntern  Tier = "Intern"
)

// BoardCommittee is the committee scope granted to PVP holders.
const BoardCommittee = "Board"

// CommitteeRole names the committee-specific role for a tier,
// e.g. "Hack Officer".
func CommitteeRole(committee string, tier Tier) string {
	return committee + " " + string(tier)
}

// BaseRole names the umbrella role implied by holding any
// committee-specific role of the tier, e.g. "ACM Officer".
func BaseRole(tier Tier) string {
	return "ACM " + string(tier)
}

// RoleNames maps the platform role set the bot manages.
type RoleNames struct {
	Verified      string `yaml:"verified"`
	Guest         string `yaml:"guest"`
	Moderator     string `yaml:"moderator"`
	Alumni        string `yaml:"alumni"`
	Student       string `yaml:"student"`
	Faculty       string `yaml:"faculty"`
	PVP           string `yaml:"pvp"`
	Officer       string `yaml:"officer"`
	AlumniOfficer string `yaml:"alumniOfficer"`
}

// Settings is the policy surface the core components consume,
// populated once from configuration and threaded by parameter.
type Settings struct {
	AllowedDomains []string  `yaml:"allowedDomains"`
	Committees     []string  `yaml:"committees"`
	Majors         []string  `yaml:"majors"`
	Roles          RoleNames `yaml:"roles"`
}

// DomainAllowed reports whether the registrable domain label is on
// the allow-list.
func (s Settings) DomainAllowed(domain string) bool {
	for _, d := range s.AllowedDomains {
		if d == domain {
			return true
		}
	}
	return false
}

// MajorAllowed checks a major against the closed list.
func (s Settings) MajorAllowed(major string) bool {
	for _, m := range s.Majors {
		if m == major {
			return true
		}
	}
	return false
}
