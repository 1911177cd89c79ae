package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnresolved is returned when a referenced environment variable is unset.
var ErrUnresolved = errors.New("environment variable not set")

// Resolver expands $VAR and ${VAR} references in configuration values.
type Resolver struct {
	lookup func(string) (string, bool)
}

// NewResolver creates a resolver backed by the process environment.
func NewResolver() *Resolver {
	return &Resolver{lookup: os.LookupEnv}
}

// Resolve expands every variable reference in value. A reference to an
// unset variable is an error so that a missing secret is not silently
// sent as an empty string.
func (r *Resolver) Resolve(value string) (string, error) {
	if !strings.Contains(value, "$") {
		return value, nil
	}

	var missing []string
	out := os.Expand(value, func(name string) string {
		v, ok := r.lookup(name)
		if !ok {
			missing = append(missing, name)
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}
	return out, nil
}
