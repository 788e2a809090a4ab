package bruinbot

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// RFC 5322 derived, restricted to the dot-atom form and modified to
// capture the registrable domain label and the TLD.
// https://stackoverflow.com/a/201378
var emailPattern = regexp.MustCompile(
	"^[a-z0-9!#$%&'*+/=?^_\x60{|}~-]+(?:\\.[a-z0-9!#$%&'*+/=?^_\x60{|}~-]+)*" +
		"@(?:([a-z0-9](?:[a-z0-9-]*[a-z0-9])?)\\.)+([a-z0-9](?:[a-z0-9-]*[a-z0-9])?)$",
)

// ParseEmailAddress validates addr and splits out the registrable
// domain label and TLD. The domain group is repeated, so the last
// label before the TLD is the one captured.
func ParseEmailAddress(addr string) (EmailAddress, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	match := emailPattern.FindStringSubmatch(addr)
	if match == nil {
		return EmailAddress{}, fmt.Errorf("invalid email address")
	}
	return EmailAddress{
		Address: addr,
		Domain:  match[1],
		TLD:     match[2],
	}, nil
}

// GenerateCode returns a numeric one-time code of the given length,
// each digit sampled independently.
func GenerateCode(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String()
}
