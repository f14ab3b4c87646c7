package chocquery

import (
	"strconv"
	"strings"
)

// Intent is the normalized, validated form of one command.
// It is built by Parse and never mutated afterwards.
type Intent struct {
	Input     string        `json:"input"`
	Verb      Verb          `json:"verb"`
	Origin    *OriginFilter `json:"origin,omitempty"`
	Axis      Axis          `json:"axis"`
	Metric    Metric        `json:"metric"`
	Direction Direction     `json:"direction"`
	Limit     int           `json:"limit"`
	Plot      bool          `json:"plot"`

	tokens     []string
	provenance [slotCount]int // token index per slot; noToken when defaulted
}

const noToken = -1

// Explicit reports whether the slot was supplied by a token rather than defaulted.
func (in *Intent) Explicit(s Slot) bool {
	_, ok := in.TokenIndex(s)
	return ok
}

// TokenIndex returns the index of the token that filled the slot.
func (in *Intent) TokenIndex(s Slot) (int, bool) {
	if s < 0 || s >= slotCount {
		return 0, false
	}
	idx := in.provenance[s]
	return idx, idx != noToken
}

// Tokens returns a copy of the token sequence the intent was parsed from.
func (in *Intent) Tokens() []string {
	out := make([]string, len(in.tokens))
	copy(out, in.tokens)
	return out
}

// String returns the canonical form of the command: the explicitly supplied
// tokens in slot order. Parsing it yields an intent Equal to this one.
func (in *Intent) String() string {
	var parts []string
	if in.Explicit(SlotVerb) {
		parts = append(parts, string(in.Verb))
	}
	if in.Origin != nil {
		parts = append(parts, string(in.Origin.Scope)+"="+in.Origin.Value)
	}
	if in.Explicit(SlotAxis) {
		parts = append(parts, string(in.Axis))
	}
	if in.Explicit(SlotMetric) {
		parts = append(parts, string(in.Metric))
	}
	if in.Explicit(SlotDirection) {
		parts = append(parts, string(in.Direction))
	}
	if in.Explicit(SlotLimit) {
		parts = append(parts, strconv.Itoa(in.Limit))
	}
	if in.Plot {
		parts = append(parts, plotToken)
	}
	return strings.Join(parts, " ")
}

// Equal reports whether two intents describe the same command: same slot
// values and the same set of explicitly supplied slots. Token positions and
// the raw input are ignored.
func (in *Intent) Equal(other *Intent) bool {
	if in == nil || other == nil {
		return in == other
	}
	if in.Verb != other.Verb || in.Axis != other.Axis || in.Metric != other.Metric ||
		in.Direction != other.Direction || in.Limit != other.Limit || in.Plot != other.Plot {
		return false
	}
	if (in.Origin == nil) != (other.Origin == nil) {
		return false
	}
	if in.Origin != nil && *in.Origin != *other.Origin {
		return false
	}
	for s := Slot(0); s < slotCount; s++ {
		if in.Explicit(s) != other.Explicit(s) {
			return false
		}
	}
	return true
}
