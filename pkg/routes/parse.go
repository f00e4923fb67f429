package routes

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/agentstation/doccov/pkg/constants"
	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/errors"
)

// Route is an endpoint together with how its router name was bound.
type Route struct {
	Endpoint *coverage.Endpoint
	// Verified is false when the router name only came from an import, so
	// the target must be confirmed against the routers of the whole tree.
	Verified bool
}

// MountRef is an include_router call before router IDs are linked.
type MountRef struct {
	Mount    coverage.Mount
	Verified bool
}

// FileResult is everything extracted from one source file. Router IDs are
// provisional until the whole tree has been parsed.
type FileResult struct {
	File    string
	Module  string
	Routes  []Route
	Routers []*coverage.Router
	Mounts  []MountRef
	Skipped []coverage.Skip
}

// ParseFile extracts routes, routers and mounts from one Python file.
// rel is the file path relative to the source root.
func ParseFile(ctx context.Context, src []byte, rel string, routerNames ...string) (*FileResult, error) {
	res := &FileResult{File: rel, Module: ModulePath(rel)}
	if !utf8.Valid(src) {
		res.Skipped = append(res.Skipped, coverage.Skip{Kind: coverage.SkipEncoding, File: rel, Reason: "not valid UTF-8"})
		return res, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.WrapParse("python", rel, err)
	}
	defer tree.Close()

	if len(routerNames) == 0 {
		routerNames = constants.DefaultRouterNames
	}
	p := &fileParser{
		src:         src,
		rel:         rel,
		module:      res.Module,
		pkg:         packageOf(rel, res.Module),
		imports:     importTable{},
		locals:      map[string]string{},
		routerNames: routerNames,
		res:         res,
	}

	root := tree.RootNode()
	p.collectBindings(root)
	p.collectRoutes(root)

	if root.HasError() && len(res.Routes) == 0 && len(res.Routers) == 0 && len(res.Mounts) == 0 {
		res.Skipped = append(res.Skipped, coverage.Skip{
			Kind:   coverage.SkipSyntax,
			File:   rel,
			Reason: "syntax errors and no recognizable declarations",
		})
	}
	return res, nil
}

// fileParser evaluates the recognized statement shapes against one syntax tree.
type fileParser struct {
	src         []byte
	rel         string
	module      string
	pkg         string
	imports     importTable
	locals      map[string]string // local router variable -> router ID
	routerNames []string
	res         *FileResult
}

// collectBindings records imports, router constructions and aliases in
// document order.
func (p *fileParser) collectBindings(root *sitter.Node) {
	walkNamed(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			p.importStatement(n)
			return false
		case "import_from_statement":
			p.importFrom(n)
			return false
		case "assignment":
			p.assignment(n)
		}
		return true
	})
}

// collectRoutes records decorated handlers and include_router calls.
func (p *fileParser) collectRoutes(root *sitter.Node) {
	walkNamed(root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "decorated_definition":
			p.decoratedDefinition(n)
		case "call":
			p.includeRouter(n)
		}
		return true
	})
}

func (p *fileParser) importStatement(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "dotted_name":
			name := p.text(c)
			first, _, _ := strings.Cut(name, ".")
			p.imports[first] = binding{module: first}
		case "aliased_import":
			name := p.text(c.ChildByFieldName("name"))
			alias := p.text(c.ChildByFieldName("alias"))
			if alias != "" {
				p.imports[alias] = binding{module: name}
			}
		}
	}
}

func (p *fileParser) importFrom(n *sitter.Node) {
	modNode := n.ChildByFieldName("module_name")
	if modNode == nil {
		return
	}
	var module string
	switch modNode.Type() {
	case "relative_import":
		level, name := 0, ""
		for i := 0; i < int(modNode.NamedChildCount()); i++ {
			c := modNode.NamedChild(i)
			switch c.Type() {
			case "import_prefix":
				level = strings.Count(p.text(c), ".")
			case "dotted_name":
				name = p.text(c)
			}
		}
		module = relativeModule(p.pkg, level, name)
	default:
		module = p.text(modNode)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.StartByte() == modNode.StartByte() && c.EndByte() == modNode.EndByte() {
			continue
		}
		switch c.Type() {
		case "dotted_name":
			name := p.text(c)
			p.imports[name] = binding{module: module, symbol: name}
		case "aliased_import":
			name := p.text(c.ChildByFieldName("name"))
			alias := p.text(c.ChildByFieldName("alias"))
			if alias != "" {
				p.imports[alias] = binding{module: module, symbol: name}
			}
		}
	}
}

// assignment handles "x = APIRouter(...)", "x = FastAPI()" and "y = x".
func (p *fileParser) assignment(n *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "identifier" {
		return
	}
	name := p.text(left)

	switch right.Type() {
	case "identifier":
		if id, ok := p.locals[p.text(right)]; ok {
			p.locals[name] = id
		}
	case "call":
		kind, ok := constructorKind(p.calleeName(right.ChildByFieldName("function")))
		if !ok {
			return
		}
		id := routerID(p.module, name)
		router := &coverage.Router{
			ID:       id,
			Kind:     kind,
			Location: coverage.Location{File: p.rel, Line: line(n)},
		}
		if v := keywordArg(right.ChildByFieldName("arguments"), "prefix", p.src); v != nil {
			if s, ok := stringLiteral(v, p.src); ok {
				router.Prefix = s
			} else {
				p.skip(coverage.SkipDynamic, line(v), "router prefix is not a string literal")
			}
		}
		p.locals[name] = id
		p.res.Routers = append(p.res.Routers, router)
	}
}

func constructorKind(callee string) (coverage.RouterKind, bool) {
	switch callee {
	case "FastAPI":
		return coverage.KindApp, true
	case "APIRouter":
		return coverage.KindRouter, true
	}
	return "", false
}

// routerRef binds a decorator or mount receiver name to a router ID.
func (p *fileParser) routerRef(name string) (id string, verified bool, ok bool) {
	if id, ok := p.locals[name]; ok {
		return id, true, true
	}
	if b, ok := p.imports[name]; ok && b.symbol != "" {
		return routerID(b.module, b.symbol), false, true
	}
	if slices.Contains(p.routerNames, name) {
		return routerID(p.module, name), true, true
	}
	return "", false, false
}

func (p *fileParser) decoratedDefinition(n *sitter.Node) {
	def := n.ChildByFieldName("definition")
	if def == nil || def.Type() != "function_definition" {
		return
	}
	fn := p.function(def)

	for i := 0; i < int(n.NamedChildCount()); i++ {
		dec := n.NamedChild(i)
		if dec.Type() != "decorator" || dec.NamedChildCount() == 0 {
			continue
		}
		p.decorator(dec, fn)
	}
}

// handler is the part of an endpoint read from the function definition.
type handler struct {
	name      string
	async     bool
	docstring string
	params    []rawParam
}

func (p *fileParser) function(def *sitter.Node) handler {
	h := handler{name: p.text(def.ChildByFieldName("name"))}
	if first := def.Child(0); first != nil && first.Type() == "async" {
		h.async = true
	}
	h.docstring = p.docstring(def.ChildByFieldName("body"))
	h.params = p.parameters(def.ChildByFieldName("parameters"))
	return h
}

// decorator recognizes @R.<method>("/path", ...) and @R.api_route(...).
func (p *fileParser) decorator(dec *sitter.Node, fn handler) {
	call := dec.NamedChild(0)
	if call.Type() != "call" {
		return
	}
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != "attribute" {
		return
	}
	obj := callee.ChildByFieldName("object")
	if obj == nil || obj.Type() != "identifier" {
		return
	}
	routerIDValue, verified, ok := p.routerRef(p.text(obj))
	if !ok {
		return
	}
	attr := p.text(callee.ChildByFieldName("attribute"))
	args := call.ChildByFieldName("arguments")

	var methods []string
	switch {
	case attr == "api_route":
		listed := keywordArg(args, "methods", p.src)
		if listed == nil {
			methods = []string{"GET"}
			break
		}
		names := p.stringList(listed)
		if len(names) == 0 {
			p.skip(coverage.SkipDynamic, line(listed), "api_route methods is not a literal list")
			return
		}
		for _, m := range names {
			m = strings.ToUpper(m)
			if !slices.Contains(constants.HTTPMethods, m) {
				p.skip(coverage.SkipDynamic, line(listed), fmt.Sprintf("unknown method %q in api_route", m))
				continue
			}
			if !slices.Contains(methods, m) {
				methods = append(methods, m)
			}
		}
		if len(methods) == 0 {
			return
		}
	case slices.Contains(constants.HTTPMethods, strings.ToUpper(attr)):
		methods = []string{strings.ToUpper(attr)}
	default:
		return
	}

	pathNode := firstPositional(args)
	if pathNode == nil {
		pathNode = keywordArg(args, "path", p.src)
	}
	if pathNode == nil {
		p.skip(coverage.SkipDynamic, line(dec), fmt.Sprintf("%s.%s has no path argument", p.text(obj), attr))
		return
	}
	declared, ok := stringLiteral(pathNode, p.src)
	if !ok {
		p.skip(coverage.SkipDynamic, line(pathNode), fmt.Sprintf("non-literal path %s", p.text(pathNode)))
		return
	}

	for _, method := range methods {
		ep := &coverage.Endpoint{
			Method:       strings.ToUpper(method),
			DeclaredPath: declared,
			Router:       routerIDValue,
			Handler:      fn.name,
			Location:     coverage.Location{File: p.rel, Line: line(dec)},
			Parameters:   classifyParams(fn.params, p.prefixOf(routerIDValue)+declared),
			Docstring:    fn.docstring,
			IsAsync:      fn.async,
		}
		p.decoratorKeywords(args, ep)
		p.res.Routes = append(p.res.Routes, Route{Endpoint: ep, Verified: verified})
	}
}

// prefixOf returns the literal prefix= of a router constructed in this file.
func (p *fileParser) prefixOf(id string) string {
	for _, r := range p.res.Routers {
		if r.ID == id {
			return r.Prefix
		}
	}
	return ""
}

func (p *fileParser) decoratorKeywords(args *sitter.Node, ep *coverage.Endpoint) {
	if v := keywordArg(args, "response_model", p.src); v != nil && v.Type() != "none" {
		ep.ResponseModel = p.text(v)
	}
	if v := keywordArg(args, "deprecated", p.src); v != nil {
		ep.IsDeprecated = v.Type() == "true"
	}
	if v := keywordArg(args, "summary", p.src); v != nil {
		if s, ok := stringLiteral(v, p.src); ok {
			ep.Summary = s
		}
	}
	if v := keywordArg(args, "tags", p.src); v != nil {
		ep.Tags = p.stringList(v)
	}
}

// includeRouter records P.include_router(C, prefix="/p").
func (p *fileParser) includeRouter(call *sitter.Node) {
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != "attribute" || p.text(callee.ChildByFieldName("attribute")) != "include_router" {
		return
	}
	obj := callee.ChildByFieldName("object")
	if obj == nil || obj.Type() != "identifier" {
		return
	}
	parent, verified, ok := p.routerRef(p.text(obj))
	if !ok {
		return
	}
	args := call.ChildByFieldName("arguments")
	childNode := firstPositional(args)
	if childNode == nil {
		childNode = keywordArg(args, "router", p.src)
	}
	if childNode == nil || (childNode.Type() != "identifier" && childNode.Type() != "attribute") {
		p.skip(coverage.SkipDynamic, line(call), "include_router target is not a name")
		return
	}

	parts := strings.Split(p.text(childNode), ".")
	var child string
	if len(parts) == 1 {
		if id, _, ok := p.routerRef(parts[0]); ok {
			child = id
		}
	}
	if child == "" {
		if child, ok = p.imports.resolve(p.module, parts); !ok {
			p.skip(coverage.SkipDynamic, line(call), fmt.Sprintf("cannot resolve router %s", p.text(childNode)))
			return
		}
	}

	mount := coverage.Mount{
		Parent:   parent,
		Child:    child,
		Location: coverage.Location{File: p.rel, Line: line(call)},
	}
	if v := keywordArg(args, "prefix", p.src); v != nil {
		if s, ok := stringLiteral(v, p.src); ok {
			mount.Prefix = s
		} else {
			p.skip(coverage.SkipDynamic, line(v), "include_router prefix is not a string literal")
		}
	}
	p.res.Mounts = append(p.res.Mounts, MountRef{Mount: mount, Verified: verified})
}

// calleeName returns the final identifier of a call target ("fastapi.APIRouter" -> "APIRouter").
func (p *fileParser) calleeName(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "identifier":
		return p.text(n)
	case "attribute":
		return p.text(n.ChildByFieldName("attribute"))
	}
	return ""
}

func (p *fileParser) stringList(n *sitter.Node) []string {
	if n == nil || (n.Type() != "list" && n.Type() != "tuple" && n.Type() != "set") {
		return nil
	}
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if s, ok := stringLiteral(n.NamedChild(i), p.src); ok {
			out = append(out, s)
		}
	}
	return out
}

func (p *fileParser) skip(kind coverage.SkipKind, ln int, reason string) {
	p.res.Skipped = append(p.res.Skipped, coverage.Skip{Kind: kind, File: p.rel, Line: ln, Reason: reason})
}

func (p *fileParser) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(p.src)
}

// walkNamed visits n and its named descendants depth first; fn returns false
// to skip a subtree.
func walkNamed(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walkNamed(n.NamedChild(i), fn)
	}
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// firstPositional returns the first non-keyword argument.
func firstPositional(args *sitter.Node) *sitter.Node {
	if args == nil {
		return nil
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		c := args.NamedChild(i)
		switch c.Type() {
		case "keyword_argument", "comment", "list_splat", "dictionary_splat":
			continue
		}
		return c
	}
	return nil
}

// keywordArg returns the value node of name=value in an argument list.
func keywordArg(args *sitter.Node, name string, src []byte) *sitter.Node {
	if args == nil {
		return nil
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		c := args.NamedChild(i)
		if c.Type() != "keyword_argument" {
			continue
		}
		if k := c.ChildByFieldName("name"); k != nil && k.Content(src) == name {
			return c.ChildByFieldName("value")
		}
	}
	return nil
}
