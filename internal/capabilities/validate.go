package capabilities

import (
	"maps"
	"slices"

	"wd-capabilities/internal/model"
)

// validateCapabilities checks a raw wire value claimed to represent a
// capability object and returns the normalized Set, or the first
// validation failure. Fail-fast: no partial result, no error
// aggregation. Keys are visited in sorted order: decoded objects are Go
// maps, which do not preserve wire order, and which error surfaces first
// must stay deterministic.
func validateCapabilities(reg *Registry, capability any) (Set, error) {
	obj, ok := capability.(map[string]any)
	if !ok {
		return nil, model.NewInvalidArgumentError("Capability is not an Object")
	}

	result := make(Set, len(obj))
	for _, name := range slices.Sorted(maps.Keys(obj)) {
		deserialized, err := deserializeCapability(reg, name, obj[name])
		if err != nil {
			return nil, err
		}
		if deserialized != nil {
			result[name] = deserialized
		}
	}
	return result, nil
}

// mergeCapabilities combines the always-match baseline (primary) with
// one first-match entry (secondary). Any key present in both is a client
// error, regardless of whether the values agree.
func mergeCapabilities(primary, secondary Set) (Set, error) {
	result := make(Set, len(primary)+len(secondary))
	maps.Copy(result, primary)

	for _, name := range slices.Sorted(maps.Keys(secondary)) {
		if _, exists := result[name]; exists {
			return nil, model.NewMergeConflictError(name)
		}
		result[name] = secondary[name]
	}
	return result, nil
}
