package sqldb

import (
	"fmt"
	"regexp"
)

var IdentifierRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Identifier is a validated, unqualified SQL identifier such as a database name.
// It cannot be created directly, only via NewIdentifier()
type Identifier struct {
	name string // unexported → cannot bypass validation
}

// Name returns the identifier string.
func (id Identifier) Name() string { return id.name }

func (id Identifier) String() string { return id.name }

func NewIdentifier(name string) (Identifier, error) {
	if !IdentifierRegexp.MatchString(name) {
		return Identifier{}, fmt.Errorf("invalid SQL identifier: %q", name)
	}
	return Identifier{name: name}, nil
}
