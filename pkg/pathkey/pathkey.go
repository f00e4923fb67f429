// Package pathkey normalizes URL path templates so that the same logical
// route compares equal no matter how a decorator or a document spells it.
//
// Three forms are produced:
//
//   - Join builds an absolute template from prefix pieces and a declared path.
//   - NormalizeTemplate rewrites placeholders into the single {name} syntax.
//   - Canonical reduces a template to a comparison key where every placeholder
//     is the anonymous token {}.
package pathkey

import (
	"regexp"
	"strings"
)

// Placeholder is the token every path parameter collapses to in a canonical key.
const Placeholder = "{}"

var (
	// {name} or {name:converter}
	bracePlaceholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?::[^{}]*)?\}`)
	// :name as a whole segment
	colonPlaceholder = regexp.MustCompile(`^:([A-Za-z_][A-Za-z0-9_]*)$`)
	// any brace group, named or not
	anyBrace = regexp.MustCompile(`\{[^{}]*\}`)
)

// Join concatenates path pieces with exactly one slash between non-empty
// segments. The result always starts with "/", never ends with one unless it
// is the root, and carries placeholders in {name} form.
func Join(parts ...string) string {
	var segs []string
	for _, p := range parts {
		for _, s := range strings.Split(p, "/") {
			if s != "" {
				segs = append(segs, s)
			}
		}
	}
	return NormalizeTemplate("/" + strings.Join(segs, "/"))
}

// NormalizeTemplate cleans separators and rewrites {name:conv} and :name
// placeholders as {name}. It does not anonymize names.
func NormalizeTemplate(p string) string {
	p = trimQuery(p)
	segs := splitSegments(p)
	for i, s := range segs {
		if m := colonPlaceholder.FindStringSubmatch(s); m != nil {
			segs[i] = "{" + m[1] + "}"
			continue
		}
		segs[i] = bracePlaceholder.ReplaceAllString(s, "{$1}")
	}
	return "/" + strings.Join(segs, "/")
}

// Canonical returns the comparison key for a path template. Placeholders of
// any spelling become {}, doubled slashes collapse, and the trailing slash is
// dropped except for the root. Canonical(Canonical(p)) == Canonical(p).
func Canonical(p string) string {
	p = trimQuery(p)
	segs := splitSegments(p)
	for i, s := range segs {
		if colonPlaceholder.MatchString(s) {
			segs[i] = Placeholder
			continue
		}
		segs[i] = anyBrace.ReplaceAllString(s, Placeholder)
	}
	return "/" + strings.Join(segs, "/")
}

// CanonicalMethod lower-cases a request method for comparison.
func CanonicalMethod(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}

// Equal reports whether two templates name the same route shape.
func Equal(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// Placeholders returns the parameter names declared in a template, in order.
func Placeholders(p string) []string {
	var names []string
	for _, s := range splitSegments(trimQuery(p)) {
		if m := colonPlaceholder.FindStringSubmatch(s); m != nil {
			names = append(names, m[1])
			continue
		}
		for _, m := range bracePlaceholder.FindAllStringSubmatch(s, -1) {
			names = append(names, m[1])
		}
	}
	return names
}

func splitSegments(p string) []string {
	raw := strings.Split(p, "/")
	segs := raw[:0]
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func trimQuery(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		return p[:i]
	}
	return p
}
