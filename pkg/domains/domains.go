package domains

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// TLDs the top level domains offered for registration
var TLDs = []string{".com", ".co.uk", ".net", ".org"}

// ErrInvalidDomain the domain name is malformed or uses an unsupported tld
var ErrInvalidDomain = errors.New("invalid domain")

// SanitizeLabel lowercases v and removes everything but a-z, 0-9 and hyphens
func SanitizeLabel(v string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(v) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FQDN assembles a domain from user input and one of the supported tlds
func FQDN(name, tld string) (string, error) {
	label := SanitizeLabel(name)
	if label == "" {
		return "", errors.Wrap(ErrInvalidDomain, "name is empty after sanitizing")
	}
	if !strings.HasPrefix(tld, ".") {
		tld = "." + tld
	}
	tld = strings.ToLower(tld)
	if !SupportedTLD(tld) {
		return "", errors.Wrapf(ErrInvalidDomain, "unsupported tld %q", tld)
	}
	return label + tld, nil
}

// ParseDomain validates a fully qualified domain against the supported tlds
func ParseDomain(domain string) (string, error) {
	domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if domain == "" {
		return "", errors.Wrap(ErrInvalidDomain, "domain is required")
	}
	suffix, _ := publicsuffix.PublicSuffix(domain)
	if suffix == domain {
		return "", errors.Wrapf(ErrInvalidDomain, "%q has no registrable name", domain)
	}
	label := strings.TrimSuffix(domain, "."+suffix)
	if strings.Contains(label, ".") {
		return "", errors.Wrapf(ErrInvalidDomain, "%q is a subdomain", domain)
	}
	return FQDN(label, suffix)
}

// SupportedTLD reports whether tld (with leading dot) is offered
func SupportedTLD(tld string) bool {
	for _, v := range TLDs {
		if v == tld {
			return true
		}
	}
	return false
}

// ConvertPrice converts a registrar USD price into the GBP display price including markup
func ConvertPrice(usd float64) float64 {
	return math.Round((usd*0.80+5)*100) / 100
}

// MinorUnits converts a price into pence
func MinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}
