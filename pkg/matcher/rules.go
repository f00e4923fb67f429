package matcher

import (
	"github.com/agentstation/doccov/pkg/constants"
	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/pathkey"
)

// Rule names.
const (
	RulePairStructured = "pair-structured"
	RulePairInline     = "pair-inline"
	RulePathOnly       = "path-only"
)

// target is the endpoint side of a comparison, already canonicalized.
type target struct {
	method string // lower-case
	key    string // canonical path
}

// Rule scores one mention against an endpoint.
type Rule struct {
	Name       string
	Confidence float64
	applies    func(m coverage.Mention, t target) bool
}

// Rules is the scoring table, evaluated in order. The first rule satisfied
// by any mention in a reference decides its score.
var Rules = []Rule{
	{
		Name:       RulePairStructured,
		Confidence: constants.ConfidenceStructured,
		applies: func(m coverage.Mention, t target) bool {
			return m.Shape.Structured() && pairs(m, t)
		},
	},
	{
		Name:       RulePairInline,
		Confidence: constants.ConfidenceInline,
		applies: func(m coverage.Mention, t target) bool {
			return !m.Shape.Structured() && pairs(m, t)
		},
	},
	{
		Name:       RulePathOnly,
		Confidence: constants.ConfidencePathOnly,
		applies: func(m coverage.Mention, t target) bool {
			return usablePath(m.Path, t)
		},
	},
}

// pairs reports whether a mention names both the endpoint method and path.
func pairs(m coverage.Mention, t target) bool {
	return m.Method != "" && pathkey.CanonicalMethod(m.Method) == t.method && usablePath(m.Path, t)
}

// usablePath reports whether p names the endpoint path and is not a file
// system path.
func usablePath(p string, t target) bool {
	return p != "" && pathkey.Canonical(p) == t.key && !pathkey.LooksLikeFilesystem(p)
}

// score returns the first rule satisfied by any mention of ref.
func score(ref *coverage.DocReference, t target) (Rule, bool) {
	for _, r := range Rules {
		for _, m := range ref.Mentions {
			if r.applies(m, t) {
				return r, true
			}
		}
	}
	return Rule{}, false
}
