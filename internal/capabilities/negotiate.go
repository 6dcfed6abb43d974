package capabilities

import (
	"log/slog"

	"wd-capabilities/internal/model"
)

// Matcher decides whether a merged candidate capability set is
// satisfiable by the runtime. Candidates are tested in order; the first
// accepted one becomes the negotiation result.
type Matcher func(Set) bool

// Negotiator resolves a New Session request's capability declarations
// into one concrete capability set.
type Negotiator struct {
	registry *Registry
	matcher  Matcher
	logger   *slog.Logger
}

// NewNegotiator creates a negotiator. A nil registry recognizes no
// extension capabilities, a nil matcher accepts the first merged
// candidate unconditionally, and a nil logger discards all output.
func NewNegotiator(registry *Registry, matcher Matcher, logger *slog.Logger) *Negotiator {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Negotiator{
		registry: registry,
		matcher:  matcher,
		logger:   logger,
	}
}

// Negotiate processes the session parameters and returns the negotiated
// capability set:
//
//  1. parameters must be an object with a "capabilities" object field.
//  2. "alwaysMatch", when present, is validated; otherwise an empty set
//     is used as the baseline.
//  3. "firstMatch", when present, must be a non-empty array; otherwise a
//     single empty entry is substituted.
//  4. Every first-match entry is validated independently, in order.
//  5. Each validated entry is merged against the baseline; any key
//     overlap fails the whole request.
//  6. The first merged candidate accepted by the matcher is returned.
//
// Every step is fail-fast: a malformed request yields exactly one
// *model.Error and never a partially-merged result.
func (n *Negotiator) Negotiate(parameters any) (Set, error) {
	params, ok := parameters.(map[string]any)
	if !ok {
		return nil, model.NewInvalidArgumentError("Session parameters is not an object")
	}

	request, ok := params["capabilities"].(map[string]any)
	if !ok {
		return nil, model.NewInvalidArgumentError("Capabilities is not an object")
	}

	required := Set{}
	if capability, present := request["alwaysMatch"]; present {
		var err error
		required, err = validateCapabilities(n.registry, capability)
		if err != nil {
			return nil, err
		}
	}

	var allFirstMatch []any
	if capability, present := request["firstMatch"]; present {
		arr, ok := capability.([]any)
		if !ok || len(arr) == 0 {
			return nil, model.NewInvalidArgumentError("Capability firstMatch must be an array with at least one entry")
		}
		allFirstMatch = arr
	} else {
		allFirstMatch = []any{map[string]any{}}
	}

	validated := make([]Set, 0, len(allFirstMatch))
	for _, entry := range allFirstMatch {
		set, err := validateCapabilities(n.registry, entry)
		if err != nil {
			return nil, err
		}
		validated = append(validated, set)
	}

	merged := make([]Set, 0, len(validated))
	for _, firstMatch := range validated {
		candidate, err := mergeCapabilities(required, firstMatch)
		if err != nil {
			return nil, err
		}
		merged = append(merged, candidate)
	}

	n.logger.Debug("capability candidates merged",
		slog.Int("first_match", len(validated)),
		slog.Int("candidates", len(merged)))

	for i, candidate := range merged {
		if n.matcher != nil && !n.matcher(candidate) {
			n.logger.Debug("candidate rejected by matcher", slog.Int("index", i))
			continue
		}
		n.logger.Debug("candidate selected", slog.Int("index", i))
		return candidate, nil
	}

	return nil, model.NewNoMatchError()
}
