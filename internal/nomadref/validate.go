package nomadref

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyToken indicates a User or Host resolved to the empty string.
var ErrEmptyToken = errors.New("must not be empty")

// ErrTokenHasSlash indicates a User or Host contains a "/", which would make
// the remote-form ref grammar ambiguous (ParseRemoteFor anchors on the exact
// user string, and the local/remote host segment is assumed to be a single
// path component).
var ErrTokenHasSlash = errors.New(`must not contain "/"`)

// ValidateUser checks that u is a well-formed User token.
func ValidateUser(u User) error {
	return validateToken("user", string(u))
}

// ValidateHost checks that h is a well-formed Host token.
func ValidateHost(h Host) error {
	return validateToken("host", string(h))
}

func validateToken(kind, s string) error {
	if s == "" {
		return fmt.Errorf("%s %w", kind, ErrEmptyToken)
	}
	if strings.Contains(s, "/") {
		return fmt.Errorf("%s %q %w", kind, s, ErrTokenHasSlash)
	}
	return nil
}
