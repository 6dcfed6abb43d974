package capabilities

import "strings"

// Validator normalizes an extension capability value. Returning a nil
// value with a nil error drops the capability, same as a null wire
// value.
type Validator func(value any) (any, error)

// Registry maps extension capability names and vendor prefixes to
// validators. The core dispatch consults it before rejecting an unknown
// capability name, so new capabilities ("proxy", "moz:firefoxOptions")
// can be added without touching the built-in schema. Empty by default.
//
// Not safe for concurrent mutation; register everything before handing
// the registry to a Negotiator.
type Registry struct {
	names    map[string]Validator
	prefixes map[string]Validator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		names:    make(map[string]Validator),
		prefixes: make(map[string]Validator),
	}
}

// Register binds a validator to an exact capability name.
func (r *Registry) Register(name string, fn Validator) {
	r.names[name] = fn
}

// RegisterPrefix binds a validator to a vendor prefix. The prefix is the
// part before the colon: RegisterPrefix("moz", fn) covers
// "moz:firefoxOptions", "moz:debuggerAddress" and so on. An exact-name
// validator takes precedence over a prefix validator.
func (r *Registry) RegisterPrefix(prefix string, fn Validator) {
	r.prefixes[prefix] = fn
}

// lookup resolves a capability name to its validator, if any.
// A nil registry recognizes nothing.
func (r *Registry) lookup(name string) (Validator, bool) {
	if r == nil {
		return nil, false
	}
	if fn, ok := r.names[name]; ok {
		return fn, true
	}
	if vendor, rest, found := strings.Cut(name, ":"); found && rest != "" {
		if fn, ok := r.prefixes[vendor]; ok {
			return fn, true
		}
	}
	return nil, false
}
