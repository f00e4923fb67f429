package routes

import (
	"slices"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/pathkey"
)

// rawParam is a handler parameter as written in the signature.
type rawParam struct {
	name       string
	typeHint   string
	defaultSrc string
	hasDefault bool
	marker     string // Body, Query, Path, ... when the default is such a call
	ellipsis   bool   // default is ... or Marker(...)
}

// genericTypes are capitalized typing names that never denote a request body model.
var genericTypes = []string{
	"List", "Dict", "Set", "FrozenSet", "Tuple", "Optional", "Union", "Any",
	"Annotated", "Literal", "Sequence", "Mapping", "Iterable", "Type", "Callable",
}

// injectedTypes are framework objects handed to handlers rather than read from the request payload.
var injectedTypes = []string{
	"Request", "Response", "WebSocket", "BackgroundTasks", "HTTPConnection", "SecurityScopes",
}

var markerLocation = map[string]coverage.ParamIn{
	"Body":   coverage.ParamBody,
	"Form":   coverage.ParamBody,
	"File":   coverage.ParamBody,
	"Path":   coverage.ParamPath,
	"Query":  coverage.ParamQuery,
	"Header": coverage.ParamQuery,
	"Cookie": coverage.ParamQuery,
}

func (p *fileParser) parameters(n *sitter.Node) []rawParam {
	if n == nil {
		return nil
	}
	var out []rawParam
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		var rp rawParam
		switch c.Type() {
		case "identifier":
			rp.name = p.text(c)
		case "typed_parameter":
			first := c.NamedChild(0)
			if first == nil || first.Type() != "identifier" {
				continue
			}
			rp.name = p.text(first)
			rp.typeHint = p.text(c.ChildByFieldName("type"))
		case "default_parameter", "typed_default_parameter":
			nameNode := c.ChildByFieldName("name")
			if nameNode == nil || nameNode.Type() != "identifier" {
				continue
			}
			rp.name = p.text(nameNode)
			rp.typeHint = p.text(c.ChildByFieldName("type"))
			p.defaultValue(c.ChildByFieldName("value"), &rp)
		default:
			continue
		}
		if rp.name == "self" || rp.name == "cls" {
			continue
		}
		out = append(out, rp)
	}
	return out
}

func (p *fileParser) defaultValue(v *sitter.Node, rp *rawParam) {
	if v == nil {
		return
	}
	rp.hasDefault = true
	rp.defaultSrc = p.text(v)
	switch v.Type() {
	case "ellipsis":
		rp.ellipsis = true
	case "call":
		name := p.calleeName(v.ChildByFieldName("function"))
		if _, ok := markerLocation[name]; !ok {
			return
		}
		rp.marker = name
		args := v.ChildByFieldName("arguments")
		if first := firstPositional(args); first != nil && first.Type() == "ellipsis" {
			rp.ellipsis = true
		}
		if d := keywordArg(args, "default", p.src); d != nil && d.Type() == "ellipsis" {
			rp.ellipsis = true
		}
	}
}

// classifyParams assigns a location to each parameter: names bound to a path
// placeholder are path parameters, parameters without a default whose type
// is a model class are body parameters, and everything else is query.
func classifyParams(raw []rawParam, declaredPath string) []coverage.Parameter {
	placeholders := pathkey.Placeholders(declaredPath)
	out := make([]coverage.Parameter, 0, len(raw))
	for _, rp := range raw {
		param := coverage.Parameter{
			Name:     rp.name,
			TypeHint: rp.typeHint,
			Required: !rp.hasDefault || rp.ellipsis,
			Default:  rp.defaultSrc,
		}
		switch {
		case slices.Contains(placeholders, rp.name):
			param.In = coverage.ParamPath
		case rp.marker != "":
			param.In = markerLocation[rp.marker]
		case !rp.hasDefault && isModelType(rp.typeHint):
			param.In = coverage.ParamBody
		default:
			param.In = coverage.ParamQuery
		}
		out = append(out, param)
	}
	return out
}

// isModelType reports whether a type hint names a class that reads as a
// request body model, e.g. "UserCreate" or "schemas.Item".
func isModelType(hint string) bool {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return false
	}
	base, _, _ := strings.Cut(hint, "[")
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[i+1:]
	}
	if base == "" || !unicode.IsUpper([]rune(base)[0]) {
		return false
	}
	if strings.Contains(hint, "|") {
		return false
	}
	return !slices.Contains(genericTypes, base) && !slices.Contains(injectedTypes, base)
}

// docstring returns the cleaned docstring of a function body, if any.
func (p *fileParser) docstring(body *sitter.Node) string {
	if body == nil {
		return ""
	}
	var first *sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if c := body.NamedChild(i); c.Type() != "comment" {
			first = c
			break
		}
	}
	if first == nil || first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	s, ok := stringLiteral(first.NamedChild(0), p.src)
	if !ok {
		return ""
	}
	return cleanDoc(s)
}

// cleanDoc strips the common leading indentation of all lines after the
// first and trims blank lines at either end.
func cleanDoc(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\t", "        "), "\n")
	indent := -1
	for _, l := range lines[1:] {
		trimmed := strings.TrimLeft(l, " ")
		if trimmed == "" {
			continue
		}
		if n := len(l) - len(trimmed); indent < 0 || n < indent {
			indent = n
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if indent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= indent {
				lines[i] = lines[i][indent:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

var unescaper = strings.NewReplacer(`\\`, `\`, `\'`, `'`, `\"`, `"`, `\n`, "\n", `\t`, "\t")

// stringLiteral returns the value of a plain string literal. Formatted,
// byte and implicitly concatenated strings are rejected.
func stringLiteral(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "interpolation" {
			return "", false
		}
	}
	raw := n.Content(src)
	start := strings.IndexAny(raw, `'"`)
	if start < 0 {
		return "", false
	}
	prefix := strings.ToLower(raw[:start])
	if strings.ContainsAny(prefix, "fb") {
		return "", false
	}
	body := raw[start:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(body) >= 2*len(q) && strings.HasPrefix(body, q) && strings.HasSuffix(body, q) {
			body = body[len(q) : len(body)-len(q)]
			if !strings.Contains(prefix, "r") {
				body = unescaper.Replace(body)
			}
			return body, true
		}
	}
	return "", false
}
