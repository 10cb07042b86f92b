package types

import (
	"fmt"
	"strings"
)

// Authentication is the level of authentication a page requires before it
// is rendered.
type Authentication string

// Authentication levels.
const (
	AuthNone  Authentication = "none"
	AuthGuest Authentication = "guest"
	AuthUser  Authentication = "user"
)

// validAuthentications is the set of recognized authentication levels.
var validAuthentications = map[Authentication]bool{
	AuthNone:  true,
	AuthGuest: true,
	AuthUser:  true,
}

// ParseAuthentication parses s case-insensitively. The empty string maps to
// AuthNone. Any other unrecognized value returns an error wrapping
// ErrInvalidAuthentication.
func ParseAuthentication(s string) (Authentication, error) {
	if s == "" {
		return AuthNone, nil
	}
	a := Authentication(strings.ToLower(s))
	if !validAuthentications[a] {
		return "", fmt.Errorf("%w: %q", ErrInvalidAuthentication, s)
	}
	return a, nil
}

// String implements fmt.Stringer.
func (a Authentication) String() string {
	return string(a)
}
