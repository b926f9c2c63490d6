// Package tenant defines the tenant identity and domain-string canonicalization
// shared by the resolver and the result cache key.
package tenant

import (
	"strings"

	"github.com/google/uuid"
)

// Tenant is a single customer's isolated data scope, looked up by one or
// more external domain strings.
type Tenant struct {
	ID     uuid.UUID
	Domain string // primary domain, canonical form
}

// Canonicalize reduces a domain string to its canonical lookup form:
// lowercased, scheme/path/port stripped, no trailing dot, no "www." prefix.
// Two inputs with the same canonical form must resolve identically.
func Canonicalize(domain string) string {
	d := strings.TrimSpace(strings.ToLower(domain))
	for _, scheme := range []string{"https://", "http://"} {
		d = strings.TrimPrefix(d, scheme)
	}
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	if i := strings.IndexByte(d, ':'); i >= 0 {
		d = d[:i]
	}
	d = strings.TrimSuffix(d, ".")
	d = strings.TrimPrefix(d, "www.")
	return d
}

// Variants returns the alternate lookup forms tried against the resolver
// cache before falling through to the database: the canonical form and its
// "www." twin. Order matters; the canonical form comes first.
func Variants(domain string) []string {
	canon := Canonicalize(domain)
	if canon == "" {
		return nil
	}
	return []string{canon, "www." + canon}
}
