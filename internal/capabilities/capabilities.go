// Package capabilities implements WebDriver New Session capability
// processing. Pure negotiation core: per-field validation against the
// fixed capability schema, capability set validation, merging of
// alwaysMatch/firstMatch declarations with conflict detection, and
// candidate selection through a pluggable matcher.
// Transport and session creation live outside this package; it operates
// on already-decoded wire values and returns the negotiated set or a
// typed protocol error.
package capabilities

import (
	"slices"

	"wd-capabilities/internal/model"
	"wd-capabilities/internal/timeouts"
)

// Set is a normalized capability set, capability name to validated
// value. A Set never contains a null-valued entry: null wire values mean
// "no preference" and are dropped during validation.
type Set map[string]any

// Page load strategy keywords, per the fixed table of strategies.
var pageLoadStrategies = []string{"none", "eager", "normal"}

// Known prompt handling approaches.
var promptBehaviors = []string{
	"dismiss",
	"accept",
	"dismiss and notify",
	"accept and notify",
	"ignore",
}

// deserializeCapability validates a single capability name/value pair
// and returns the normalized value. A nil result with a nil error means
// the capability is absent (null on the wire) and must not be stored.
// Pure function of its inputs plus the extension registry.
func deserializeCapability(reg *Registry, name string, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch name {
	case "acceptInsecureCerts", "strictFileInteractability":
		b, ok := value.(bool)
		if !ok {
			return nil, model.NewInvalidTypeError(name, "boolean")
		}
		return b, nil

	case "browserName", "browserVersion", "platformName":
		s, ok := value.(string)
		if !ok {
			return nil, model.NewInvalidTypeError(name, "string")
		}
		return s, nil

	case "pageLoadStrategy":
		return deserializePageLoadStrategy(value)

	case "unhandledPromptBehavior":
		return deserializeUnhandledPromptBehavior(value)

	case "timeouts":
		cfg, err := timeouts.Deserialize(value)
		if err != nil {
			return nil, err
		}
		return cfg.Object(), nil

	default:
		// proxy and vendor-prefixed extension capabilities go through
		// the registry; anything it does not recognize is an error.
		if fn, ok := reg.lookup(name); ok {
			return fn(value)
		}
		return nil, model.NewUnrecognizedCapabilityError(name)
	}
}

func deserializePageLoadStrategy(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, model.NewInvalidArgumentError("Capability pageLoadStrategy must be a string")
	}
	if !slices.Contains(pageLoadStrategies, s) {
		return nil, model.NewInvalidArgumentError("Invalid pageLoadStrategy capability")
	}
	return s, nil
}

func deserializeUnhandledPromptBehavior(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, model.NewInvalidArgumentError("Capability unhandledPromptBehavior must be a string")
	}
	if !slices.Contains(promptBehaviors, s) {
		return nil, model.NewInvalidArgumentError("Invalid unhandledPromptBehavior capability")
	}
	return s, nil
}
