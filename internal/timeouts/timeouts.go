// Package timeouts implements the timeouts-configuration sub-schema
// referenced by the "timeouts" capability. Values are durations in
// milliseconds; the script timeout may be disabled entirely.
package timeouts

import (
	"fmt"
	"math"

	"wd-capabilities/internal/model"
)

// maxSafeInteger is the largest integer exactly representable in a JSON
// number (2^53 - 1). Timeout values above it are rejected.
const maxSafeInteger = 1<<53 - 1

// Configuration holds the session timeout durations in milliseconds.
// A nil Script means the script timeout is disabled (wire value null).
type Configuration struct {
	Script   *uint64
	PageLoad uint64
	Implicit uint64
}

// Default returns the standard timeout durations: 30s script,
// 300s page load, no implicit wait.
func Default() Configuration {
	script := uint64(30_000)
	return Configuration{
		Script:   &script,
		PageLoad: 300_000,
		Implicit: 0,
	}
}

// Deserialize validates a raw wire value as a timeouts configuration.
// Recognized keys are "script", "pageLoad" and "implicit"; unknown keys
// are ignored and missing keys keep their defaults. Only "script" may be
// null, which disables the script timeout.
func Deserialize(value any) (Configuration, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return Configuration{}, model.NewInvalidArgumentError("Timeouts capability is not an Object")
	}

	cfg := Default()

	if raw, present := obj["script"]; present {
		if raw == nil {
			cfg.Script = nil
		} else {
			ms, err := asTimeout("script", raw)
			if err != nil {
				return Configuration{}, err
			}
			cfg.Script = &ms
		}
	}

	if raw, present := obj["pageLoad"]; present {
		ms, err := asTimeout("pageLoad", raw)
		if err != nil {
			return Configuration{}, err
		}
		cfg.PageLoad = ms
	}

	if raw, present := obj["implicit"]; present {
		ms, err := asTimeout("implicit", raw)
		if err != nil {
			return Configuration{}, err
		}
		cfg.Implicit = ms
	}

	return cfg, nil
}

// asTimeout checks that a raw wire value is an integer in [0, 2^53 - 1].
// Decoded JSON numbers arrive as float64.
func asTimeout(name string, raw any) (uint64, error) {
	num, ok := raw.(float64)
	if !ok {
		return 0, model.NewInvalidArgumentError(
			fmt.Sprintf("Timeout %s must be an integer", name))
	}
	if num < 0 || num > maxSafeInteger || num != math.Trunc(num) {
		return 0, model.NewInvalidArgumentError(
			fmt.Sprintf("Timeout %s must be an integer between 0 and 2^53 - 1", name))
	}
	return uint64(num), nil
}

// Object returns the normalized wire representation with all three keys
// populated. This is the value embedded in a capability set under
// "timeouts".
func (c Configuration) Object() map[string]any {
	obj := map[string]any{
		"pageLoad": c.PageLoad,
		"implicit": c.Implicit,
	}
	if c.Script != nil {
		obj["script"] = *c.Script
	} else {
		obj["script"] = nil
	}
	return obj
}
