// Package authsvc holds the authorization policy deciding who may use the
// admin review endpoints.
package authsvc

import (
	"strings"
)

// AuthorizationPolicy decides whether an authenticated identity is allowed
// to act as an administrator.
type AuthorizationPolicy interface {
	IsAuthorized(email string) bool
}

// StaticAllowList authorizes a fixed set of email addresses. Matching is
// case-insensitive.
type StaticAllowList struct {
	emails map[string]struct{}
}

// NewStaticAllowList builds an allow-list from a comma-separated string,
// typically the ADMIN_EMAILS setting. Blank entries are skipped.
func NewStaticAllowList(csv string) *StaticAllowList {
	emails := make(map[string]struct{})
	for _, entry := range strings.Split(csv, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		emails[entry] = struct{}{}
	}
	return &StaticAllowList{emails: emails}
}

// IsAuthorized reports whether the email is on the allow-list.
func (p *StaticAllowList) IsAuthorized(email string) bool {
	_, ok := p.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
