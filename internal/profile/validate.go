package profile

import (
	"fmt"
	"regexp"
)

var nameRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// ValidateName checks that a username is usable both as a display name and
// as a profile directory name.
func ValidateName(name string) error {
	if !nameRegexp.MatchString(name) {
		return fmt.Errorf("invalid username %q: must match ^[A-Za-z0-9_-]{1,32}$", name)
	}
	return nil
}
