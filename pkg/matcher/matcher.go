// Package matcher reconciles resolved endpoints with documentation
// references.
//
// Both sides are reduced to a canonical key (lower-case method, anonymous
// placeholders, no trailing slash) and compared. A reference is a candidate
// for an endpoint when it mentions the endpoint's method and a path equal to
// the endpoint's under that key. Each candidate is scored by the fixed rule
// table in Rules, and the scores decide the endpoint's coverage status.
//
// Match is a pure function: it performs no I/O and keeps no state.
package matcher

import (
	"github.com/agentstation/doccov/pkg/constants"
	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/errors"
	"github.com/agentstation/doccov/pkg/pathkey"
)

// Options tune status assignment.
type Options struct {
	// MinConfidence is the lowest best score that counts as documented.
	// The zero value leaves it unset, which Match reads as
	// constants.DefaultMinConfidence.
	MinConfidence float64
}

// Validate checks an explicitly chosen threshold. Zero is rejected because
// it cannot be told apart from an unset threshold.
func (o Options) Validate() error {
	if o.MinConfidence <= 0 || o.MinConfidence > 1 {
		return errors.NewValidationError("min_confidence", o.MinConfidence, "must be greater than 0 and at most 1")
	}
	return nil
}

func (o Options) threshold() float64 {
	if o.MinConfidence == 0 {
		return constants.DefaultMinConfidence
	}
	return o.MinConfidence
}

// Match produces one result per endpoint, in endpoint order. Endpoints
// without a resolved path are treated as undocumented.
func Match(endpoints []*coverage.Endpoint, refs []*coverage.DocReference, opts Options) []coverage.MatchResult {
	index := indexReferences(refs)
	minConf := opts.threshold()

	results := make([]coverage.MatchResult, 0, len(endpoints))
	for _, ep := range endpoints {
		res := coverage.MatchResult{Endpoint: ep, Matches: []coverage.Match{}}
		if ep.Resolved {
			res.Matches = matchEndpoint(ep, index)
		}
		res.Status = status(res.Matches, minConf)
		results = append(results, res)
	}
	return results
}

// MatchEndpoint scores a single endpoint against refs.
func MatchEndpoint(ep *coverage.Endpoint, refs []*coverage.DocReference, opts Options) coverage.MatchResult {
	return Match([]*coverage.Endpoint{ep}, refs, opts)[0]
}

// indexReferences groups references by the canonical keys of their paths.
// A reference appears at most once per key, in input order.
func indexReferences(refs []*coverage.DocReference) map[string][]*coverage.DocReference {
	index := make(map[string][]*coverage.DocReference)
	for _, ref := range refs {
		seen := make(map[string]bool, len(ref.MentionedPaths))
		for _, p := range ref.MentionedPaths {
			key := pathkey.Canonical(p)
			if seen[key] {
				continue
			}
			seen[key] = true
			index[key] = append(index[key], ref)
		}
	}
	return index
}

func matchEndpoint(ep *coverage.Endpoint, index map[string][]*coverage.DocReference) []coverage.Match {
	t := target{
		method: pathkey.CanonicalMethod(ep.Method),
		key:    pathkey.Canonical(ep.ResolvedPath),
	}
	matches := []coverage.Match{}
	for _, ref := range index[t.key] {
		if !ref.MentionsMethod(ep.Method) {
			continue
		}
		rule, ok := score(ref, t)
		if !ok {
			continue
		}
		matches = append(matches, coverage.Match{
			Reference:  ref,
			Confidence: rule.Confidence,
			Rule:       rule.Name,
		})
	}
	coverage.SortMatches(matches)
	return matches
}

// status maps sorted matches to a verdict.
func status(matches []coverage.Match, minConf float64) coverage.Status {
	switch {
	case len(matches) == 0:
		return coverage.StatusUndocumented
	case matches[0].Confidence >= minConf:
		return coverage.StatusDocumented
	default:
		return coverage.StatusAmbiguous
	}
}
