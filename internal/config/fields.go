package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type fieldKind int

const (
	fieldString fieldKind = iota
	fieldBool
	fieldDuration
)

// settable lists the keys accepted by ParseField.
var settable = map[string]fieldKind{
	"server.base_url":        fieldString,
	"server.api_key":         fieldString,
	"options.data_directory": fieldString,
	"options.debug":          fieldBool,
	"options.timeout":        fieldDuration,
	"options.auto_save":      fieldBool,
}

// headerPrefix allows any server.headers.<Name> key.
const headerPrefix = "server.headers."

// SettableKeys returns the fixed keys ParseField accepts, plus the header
// prefix.
func SettableKeys() []string {
	return []string{
		"server.base_url",
		"server.api_key",
		headerPrefix + "<name>",
		"options.data_directory",
		"options.debug",
		"options.timeout",
		"options.auto_save",
	}
}

// ParseField validates key and converts raw into the JSON value stored
// for it.
func ParseField(key, raw string) (any, error) {
	if strings.HasPrefix(key, headerPrefix) && len(key) > len(headerPrefix) {
		return raw, nil
	}

	kind, ok := settable[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(SettableKeys(), ", "))
	}

	switch kind {
	case fieldBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", key, raw)
		}
		return b, nil
	case fieldDuration:
		if _, err := time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return raw, nil
	default:
		return raw, nil
	}
}
