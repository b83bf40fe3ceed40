// Package identity validates staff email addresses against the
// configured university domains and reduces them to the canonical key
// used throughout the database: the lowercase local part.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDomain means the address did not contain any recognized
// domain. Recoverable: the user should be re-prompted.
var ErrInvalidDomain = errors.New("email does not include a recognized domain")

// Verifier checks addresses against a domain allow-list.
type Verifier struct {
	domains []string
}

// NewVerifier builds a Verifier from the configured domain list. The
// first entry is the primary domain, used only for hint text; every
// listed domain is accepted during validation.
func NewVerifier(domains []string) (*Verifier, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("no email domains configured")
	}
	lowered := make([]string, len(domains))
	for i, d := range domains {
		lowered[i] = strings.ToLower(strings.TrimSpace(d))
	}
	return &Verifier{domains: lowered}, nil
}

// PrimaryDomain returns the domain used in user-facing hint text.
func (v *Verifier) PrimaryDomain() string {
	return v.domains[0]
}

// Verify validates a raw address and returns the canonical identity
// key: the address lowercased and truncated at the first "@". Fails
// with ErrInvalidDomain when no configured domain appears in the
// address, or when the local part is empty.
func (v *Verifier) Verify(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))

	ok := false
	for _, d := range v.domains {
		if strings.Contains(email, "@"+d) {
			ok = true
			break
		}
	}
	if !ok {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidDomain)
	}

	key := email[:strings.Index(email, "@")]
	if key == "" {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidDomain)
	}
	return key, nil
}
