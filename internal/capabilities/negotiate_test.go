package capabilities

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"wd-capabilities/internal/model"
)

// decodeParams decodes a JSON request body the way the session layer
// hands it to the negotiator.
func decodeParams(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decoding request: %v", err)
	}
	return v
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name     string
		request  string
		want     Set
		wantCode model.ErrorCode
		wantMsg  string
	}{
		{
			name:    "alwaysMatch merged with firstMatch",
			request: `{"capabilities":{"alwaysMatch":{"acceptInsecureCerts":true},"firstMatch":[{"browserName":"ladybird"}]}}`,
			want:    Set{"acceptInsecureCerts": true, "browserName": "ladybird"},
		},
		{
			name:    "no declarations yields empty set",
			request: `{"capabilities":{}}`,
			want:    Set{},
		},
		{
			name:    "alwaysMatch only",
			request: `{"capabilities":{"alwaysMatch":{"pageLoadStrategy":"none"}}}`,
			want:    Set{"pageLoadStrategy": "none"},
		},
		{
			name:    "firstMatch only, first entry selected",
			request: `{"capabilities":{"firstMatch":[{"browserName":"ladybird"},{"browserName":"other"}]}}`,
			want:    Set{"browserName": "ladybird"},
		},
		{
			name:     "missing capabilities field",
			request:  `{"desiredCapabilities":{}}`,
			wantCode: model.InvalidArgument,
			wantMsg:  "Capabilities is not an object",
		},
		{
			name:     "capabilities not an object",
			request:  `{"capabilities":[]}`,
			wantCode: model.InvalidArgument,
			wantMsg:  "Capabilities is not an object",
		},
		{
			name:     "null alwaysMatch rejected",
			request:  `{"capabilities":{"alwaysMatch":null}}`,
			wantCode: model.InvalidArgument,
			wantMsg:  "Capability is not an Object",
		},
		{
			name:     "invalid alwaysMatch keyword",
			request:  `{"capabilities":{"alwaysMatch":{"pageLoadStrategy":"turbo"}}}`,
			wantCode: model.InvalidArgument,
			wantMsg:  "Invalid pageLoadStrategy capability",
		},
		{
			name:     "empty firstMatch array rejected",
			request:  `{"capabilities":{"firstMatch":[]}}`,
			wantCode: model.InvalidArgument,
			wantMsg:  "Capability firstMatch must be an array with at least one entry",
		},
		{
			name:     "firstMatch not an array rejected",
			request:  `{"capabilities":{"firstMatch":{"browserName":"ladybird"}}}`,
			wantCode: model.InvalidArgument,
			wantMsg:  "Capability firstMatch must be an array with at least one entry",
		},
		{
			name:     "invalid firstMatch entry fails the request",
			request:  `{"capabilities":{"firstMatch":[{"browserName":"ladybird"},{"browserName":7}]}}`,
			wantCode: model.InvalidType,
			wantMsg:  "Capability browserName must be a string",
		},
		{
			name:     "merge conflict between alwaysMatch and firstMatch",
			request:  `{"capabilities":{"alwaysMatch":{"browserName":"a"},"firstMatch":[{"browserName":"b"}]}}`,
			wantCode: model.InvalidArgument,
			wantMsg:  "Unable to merge capability browserName",
		},
		{
			name:     "unrecognized capability anywhere",
			request:  `{"capabilities":{"firstMatch":[{"foo":"bar"}]}}`,
			wantCode: model.InvalidArgument,
			wantMsg:  "Unrecognized capability: foo",
		},
		{
			name:    "null capability dropped from result",
			request: `{"capabilities":{"alwaysMatch":{"browserName":"ladybird","platformName":null}}}`,
			want:    Set{"browserName": "ladybird"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNegotiator(nil, nil, nil)
			got, err := n.Negotiate(decodeParams(t, tt.request))
			if tt.wantCode != "" {
				var protoErr *model.Error
				if !errors.As(err, &protoErr) {
					t.Fatalf("expected *model.Error, got %v", err)
				}
				if protoErr.Code != tt.wantCode {
					t.Errorf("Code = %q, want %q", protoErr.Code, tt.wantCode)
				}
				if protoErr.Message != tt.wantMsg {
					t.Errorf("Message = %q, want %q", protoErr.Message, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Negotiate() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Negotiate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNegotiateNonObjectParameters(t *testing.T) {
	n := NewNegotiator(nil, nil, nil)

	for _, params := range []any{nil, "body", float64(1), []any{}} {
		_, err := n.Negotiate(params)
		var protoErr *model.Error
		if !errors.As(err, &protoErr) {
			t.Fatalf("parameters %v: expected *model.Error, got %v", params, err)
		}
		if protoErr.Message != "Session parameters is not an object" {
			t.Errorf("parameters %v: Message = %q", params, protoErr.Message)
		}
	}
}

func TestNegotiateWithMatcher(t *testing.T) {
	request := decodeParams(t,
		`{"capabilities":{"firstMatch":[{"browserName":"other"},{"browserName":"ladybird"}]}}`)

	t.Run("first accepted candidate wins", func(t *testing.T) {
		match := func(s Set) bool { return s["browserName"] == "ladybird" }
		n := NewNegotiator(nil, match, nil)

		got, err := n.Negotiate(request)
		if err != nil {
			t.Fatalf("Negotiate() error = %v", err)
		}
		if got["browserName"] != "ladybird" {
			t.Errorf("selected %v, want the ladybird candidate", got)
		}
	})

	t.Run("no candidate matches", func(t *testing.T) {
		match := func(Set) bool { return false }
		n := NewNegotiator(nil, match, nil)

		_, err := n.Negotiate(request)
		if !errors.Is(err, model.ErrNoMatch) {
			t.Fatalf("expected ErrNoMatch, got %v", err)
		}
		var protoErr *model.Error
		if !errors.As(err, &protoErr) || protoErr.Code != model.SessionNotCreated {
			t.Errorf("expected session not created code, got %v", err)
		}
	})
}

func TestNegotiateWithExtensionRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterPrefix("acme", func(value any) (any, error) {
		return value, nil
	})
	n := NewNegotiator(reg, nil, nil)

	request := decodeParams(t,
		`{"capabilities":{"alwaysMatch":{"acme:options":{"profile":"ci"},"browserName":"ladybird"}}}`)

	got, err := n.Negotiate(request)
	if err != nil {
		t.Fatalf("Negotiate() error = %v", err)
	}
	want := Set{
		"acme:options": map[string]any{"profile": "ci"},
		"browserName":  "ladybird",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Negotiate() = %v, want %v", got, want)
	}
}

// The timeouts sub-schema output must flow through negotiation intact.
func TestNegotiateEmbedsNormalizedTimeouts(t *testing.T) {
	n := NewNegotiator(nil, nil, nil)

	got, err := n.Negotiate(decodeParams(t,
		`{"capabilities":{"alwaysMatch":{"timeouts":{"implicit":100}}}}`))
	if err != nil {
		t.Fatalf("Negotiate() error = %v", err)
	}

	want := Set{
		"timeouts": map[string]any{
			"script":   uint64(30_000),
			"pageLoad": uint64(300_000),
			"implicit": uint64(100),
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Negotiate() = %v, want %v", got, want)
	}
}
