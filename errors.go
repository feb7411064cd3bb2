package motive

import "fmt"

// ConfigurationError reports invalid curve or preset parameters. Construction
// rejects bad input outright; nothing is silently clamped.
type ConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("motive: invalid %s %g: %s", e.Field, e.Value, e.Reason)
}

// IdentityCollisionError reports sibling nodes sharing an explicit identity
// within one snapshot. Pairing would be ambiguous, so the diff fails
// deterministically instead of guessing.
type IdentityCollisionError struct {
	Parent string // path of the parent node
	Type   string
	Key    string
}

func (e *IdentityCollisionError) Error() string {
	return fmt.Sprintf("motive: duplicate identity %s[%s] under %q", e.Type, e.Key, e.Parent)
}
