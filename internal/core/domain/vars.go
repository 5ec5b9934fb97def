package domain

import (
	"maps"
	"regexp"

	"go.trai.ch/zerr"
)

// varKeyRegex matches the characters allowed between placeholder delimiters.
var varKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Vars is the template dictionary mapping placeholder keys to replacement values.
type Vars map[string]string

// IsValidVarKey reports whether key can be referenced by a placeholder.
func IsValidVarKey(key string) bool {
	return varKeyRegex.MatchString(key)
}

// Validate checks that every key can be referenced by a placeholder.
func (v Vars) Validate() error {
	for key := range v {
		if !IsValidVarKey(key) {
			return zerr.With(zerr.Wrap(ErrInvalidVarKey, "invalid template variable"), "key", key)
		}
	}
	return nil
}

// Merge returns a new dictionary holding v overridden by every entry of overrides.
func (v Vars) Merge(overrides ...Vars) Vars {
	merged := make(Vars, len(v))
	maps.Copy(merged, v)
	for _, o := range overrides {
		maps.Copy(merged, o)
	}
	return merged
}
