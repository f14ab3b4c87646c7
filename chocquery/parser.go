package chocquery

import (
	"regexp"
	"strings"
)

// --- Vocabulary ---

var (
	verbWords      = memberSet(VerbBars, VerbCompanies, VerbCountries, VerbRegions)
	axisWords      = memberSet(AxisSell, AxisSource)
	metricWords    = memberSet(MetricRatings, MetricCocoa, MetricNumberOfBars)
	directionWords = memberSet(Top, Bottom)
	plotWords      = memberSet(plotToken)

	// (?s) keeps the value part free-form, newlines included.
	originPattern = regexp.MustCompile(`(?s)^(country|region)=.*$`)
	limitPattern  = regexp.MustCompile(`^[0-9]*$`)
)

const plotToken = "barplot"

// --- Tokenizer ---

// Tokenize trims the input and splits it on single spaces.
// Consecutive spaces yield empty tokens; only the limit pattern can match one.
// Blank input yields no tokens.
func Tokenize(input string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, " ")
}

// --- Slot extractors ---

// MatchKind is the outcome of scanning tokens for one slot.
type MatchKind int

const (
	MatchDefault  MatchKind = iota // no token matched; the slot takes its default
	MatchFound                     // exactly one token matched
	MatchConflict                  // two or more tokens matched
)

// Match is the result of a slot extraction. Index is meaningful only
// when Kind is MatchFound.
type Match struct {
	Kind  MatchKind
	Index int
}

// MatchMember scans tokens left to right for members of candidates.
func MatchMember(candidates map[string]bool, tokens []string) Match {
	return matchWhere(tokens, func(tok string) bool { return candidates[tok] })
}

// MatchPattern scans tokens left to right for full matches of re.
// re is expected to be anchored.
func MatchPattern(re *regexp.Regexp, tokens []string) Match {
	return matchWhere(tokens, re.MatchString)
}

func matchWhere(tokens []string, pred func(string) bool) Match {
	m := Match{Kind: MatchDefault, Index: noToken}
	for i, tok := range tokens {
		if !pred(tok) {
			continue
		}
		if m.Kind == MatchFound {
			return Match{Kind: MatchConflict, Index: noToken}
		}
		m = Match{Kind: MatchFound, Index: i}
	}
	return m
}

// --- Normalizer ---

// Parse tokenizes input and normalizes it into an Intent.
// Failures are *Error values carrying the original input.
func Parse(input string) (*Intent, error) {
	tokens := Tokenize(input)
	if len(tokens) == 0 {
		return nil, parseError(ErrEmptyCommand, input, nil)
	}

	n := &normalizer{
		input:  input,
		tokens: tokens,
		claims: newClaimSet(len(tokens)),
		intent: &Intent{
			Input:     input,
			Verb:      VerbBars,
			Axis:      AxisSell,
			Metric:    MetricRatings,
			Direction: Top,
			Limit:     DefaultLimit,
			tokens:    tokens,
		},
	}
	for i := range n.intent.provenance {
		n.intent.provenance[i] = noToken
	}

	steps := []func() error{
		n.verb,
		n.origin,
		n.axis,
		n.metric,
		n.direction,
		n.limit,
		n.plot,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if !n.claims.complete() {
		var leftover []string
		for _, i := range n.claims.unclaimed() {
			leftover = append(leftover, tokens[i])
		}
		return nil, parseError(ErrUnrecognizedCommand, input, map[string]any{"unrecognized": leftover})
	}
	return n.intent, nil
}

type normalizer struct {
	input  string
	tokens []string
	claims *claimSet
	intent *Intent
}

// take resolves a slot match: conflicts fail, a single match claims its token.
// It returns the matched token and whether the slot was supplied.
func (n *normalizer) take(s Slot, m Match) (string, bool, error) {
	switch m.Kind {
	case MatchConflict:
		return "", false, parseError(ErrAmbiguousSlot, n.input, map[string]any{"slot": s.String()})
	case MatchFound:
		if !n.claims.claim(m.Index) {
			return "", false, parseError(ErrUnrecognizedCommand, n.input, map[string]any{
				"slot":  s.String(),
				"token": n.tokens[m.Index],
			})
		}
		n.intent.provenance[s] = m.Index
		return n.tokens[m.Index], true, nil
	default:
		return "", false, nil
	}
}

func (n *normalizer) verb() error {
	m := MatchMember(verbWords, n.tokens)
	if m.Kind == MatchFound && m.Index != 0 {
		return parseError(ErrMisplacedVerb, n.input, map[string]any{
			"token":    n.tokens[m.Index],
			"position": m.Index,
		})
	}
	tok, ok, err := n.take(SlotVerb, m)
	if ok {
		n.intent.Verb = Verb(tok)
	}
	return err
}

func (n *normalizer) origin() error {
	tok, ok, err := n.take(SlotOrigin, MatchPattern(originPattern, n.tokens))
	if !ok || err != nil {
		return err
	}
	scope, value, _ := strings.Cut(tok, "=")
	n.intent.Origin = &OriginFilter{Scope: Scope(scope), Value: value}
	return nil
}

func (n *normalizer) axis() error {
	tok, ok, err := n.take(SlotAxis, MatchMember(axisWords, n.tokens))
	if ok {
		n.intent.Axis = Axis(tok)
	}
	return err
}

func (n *normalizer) metric() error {
	tok, ok, err := n.take(SlotMetric, MatchMember(metricWords, n.tokens))
	if ok {
		n.intent.Metric = Metric(tok)
	}
	return err
}

func (n *normalizer) direction() error {
	tok, ok, err := n.take(SlotDirection, MatchMember(directionWords, n.tokens))
	if ok {
		n.intent.Direction = Direction(tok)
	}
	return err
}

// limit accepts a run of digits. The pattern also matches the empty token
// left by doubled spaces; that degenerate match is rejected as ambiguous.
func (n *normalizer) limit() error {
	tok, ok, err := n.take(SlotLimit, MatchPattern(limitPattern, n.tokens))
	if !ok || err != nil {
		return err
	}
	if tok == "" {
		return parseError(ErrAmbiguousSlot, n.input, map[string]any{
			"slot":   SlotLimit.String(),
			"reason": "empty token",
		})
	}
	v, convErr := ParseLimit(tok)
	if convErr != nil {
		return parseError(ErrUnrecognizedCommand, n.input, map[string]any{
			"slot":   SlotLimit.String(),
			"token":  tok,
			"reason": convErr.Error(),
		})
	}
	n.intent.Limit = v
	return nil
}

func (n *normalizer) plot() error {
	m := MatchMember(plotWords, n.tokens)
	if m.Kind == MatchFound && m.Index != len(n.tokens)-1 {
		return parseError(ErrMisplacedPlotFlag, n.input, map[string]any{
			"position": m.Index,
			"expected": len(n.tokens) - 1,
		})
	}
	_, ok, err := n.take(SlotPlot, m)
	n.intent.Plot = ok
	return err
}
