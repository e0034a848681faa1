package entity

import (
	"bytes"
	"encoding/json"
)

// ModelTier selects which downstream model handles a prompt.
type ModelTier string

const (
	TierFast     ModelTier = "fast"
	TierAdvanced ModelTier = "advanced"
)

// ModelSet maps tiers to concrete provider model identifiers.
type ModelSet struct {
	Fast     string
	Advanced string
}

func (m ModelSet) For(tier ModelTier) string {
	if tier == TierFast {
		return m.Fast
	}
	return m.Advanced
}

// GenerationRequest is the inbound body of POST /api/generate.
// Neither field is validated; both accept any JSON value.
type GenerationRequest struct {
	Chat FlexValue `json:"chat"`
	Days FlexValue `json:"days"`
}

// Prompt is the provider input built from a GenerationRequest.
type Prompt struct {
	Text string
	Tier ModelTier
}

// FlexValue keeps a raw JSON value so it can be tested for truthiness and
// rendered into prompt text without forcing a schema on the caller.
type FlexValue struct {
	raw json.RawMessage
}

// NewFlexValue wraps v as if it had been decoded from a request body.
func NewFlexValue(v any) FlexValue {
	b, err := json.Marshal(v)
	if err != nil {
		return FlexValue{}
	}
	return FlexValue{raw: b}
}

func (f *FlexValue) UnmarshalJSON(b []byte) error {
	f.raw = append(f.raw[:0], b...)
	return nil
}

func (f FlexValue) MarshalJSON() ([]byte, error) {
	if f.IsNull() {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// IsNull reports whether the value was absent or an explicit null.
func (f FlexValue) IsNull() bool {
	t := bytes.TrimSpace(f.raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// Truthy follows the usual dynamic-language rules: empty strings, zero,
// false, null and empty collections are false.
func (f FlexValue) Truthy() bool {
	if f.IsNull() {
		return false
	}
	var v any
	if err := json.Unmarshal(f.raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return false
}

// String renders the value for prompt interpolation. Strings are
// unquoted, numbers keep their literal form, null renders as None and
// arrays/objects render as compact JSON.
func (f FlexValue) String() string {
	if f.IsNull() {
		return "None"
	}
	t := bytes.TrimSpace(f.raw)
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err == nil {
			return s
		}
	case 't':
		return "True"
	case 'f':
		return "False"
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, t); err == nil {
			return buf.String()
		}
	}
	return string(t)
}
