// Package coverage holds the data model shared by the extractors, the prefix
// resolver and the matcher, and the Report a run produces.
package coverage

import (
	"fmt"
	"strings"
)

// Location points at a line in a scanned file. File is relative to the
// scanned root and uses forward slashes.
type Location struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}

// String returns file:line.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Less orders locations by file, then line.
func (l Location) Less(o Location) bool {
	if l.File != o.File {
		return l.File < o.File
	}
	return l.Line < o.Line
}

// ParamIn says where a handler parameter is read from.
type ParamIn string

// Parameter locations.
const (
	ParamPath  ParamIn = "path"
	ParamQuery ParamIn = "query"
	ParamBody  ParamIn = "body"
)

// Parameter is one argument of a route handler.
type Parameter struct {
	Name     string  `json:"name" yaml:"name"`
	TypeHint string  `json:"type_hint,omitempty" yaml:"type_hint,omitempty"` // Annotation source text
	In       ParamIn `json:"in" yaml:"in"`
	Required bool    `json:"required" yaml:"required"`
	Default  string  `json:"default,omitempty" yaml:"default,omitempty"` // Default value source text
}

// Endpoint is one (method, path) pair declared by a route decorator.
type Endpoint struct {
	Method        string      `json:"method" yaml:"method"`                                       // Upper-case request method
	DeclaredPath  string      `json:"declared_path" yaml:"declared_path"`                         // Literal decorator path
	ResolvedPath  string      `json:"resolved_path,omitempty" yaml:"resolved_path,omitempty"`     // Absolute path after prefix resolution
	Resolved      bool        `json:"resolved" yaml:"resolved"`                                   // False when only reachable through a mount cycle
	Router        string      `json:"router" yaml:"router"`                                       // Owning router ID (module:variable)
	Handler       string      `json:"handler" yaml:"handler"`                                     // Decorated function name
	Location      Location    `json:"location" yaml:"location"`                                   // Decorator position
	Parameters    []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`           // Handler parameters
	Docstring     string      `json:"docstring,omitempty" yaml:"docstring,omitempty"`             // Cleaned handler docstring
	IsAsync       bool        `json:"is_async" yaml:"is_async"`                                   // Declared with async def
	IsDeprecated  bool        `json:"is_deprecated" yaml:"is_deprecated"`                         // deprecated=True in the decorator
	ResponseModel string      `json:"response_model,omitempty" yaml:"response_model,omitempty"`   // response_model source text
	Summary       string      `json:"summary,omitempty" yaml:"summary,omitempty"`                 // summary keyword
	Tags          []string    `json:"tags,omitempty" yaml:"tags,omitempty"`                       // tags keyword
}

// HasDocstring reports whether the handler carries a docstring.
func (e *Endpoint) HasDocstring() bool {
	return e.Docstring != ""
}

// Key returns "METHOD /resolved/path", falling back to the declared path
// before resolution.
func (e *Endpoint) Key() string {
	p := e.ResolvedPath
	if p == "" {
		p = e.DeclaredPath
	}
	return e.Method + " " + p
}

// PathParameters returns the parameters read from the path.
func (e *Endpoint) PathParameters() []Parameter {
	var out []Parameter
	for _, p := range e.Parameters {
		if p.In == ParamPath {
			out = append(out, p)
		}
	}
	return out
}

// RouterKind distinguishes application objects from routers.
type RouterKind string

// Router kinds.
const (
	KindApp    RouterKind = "app"
	KindRouter RouterKind = "router"
)

// Router is an application or router object found in source.
type Router struct {
	ID       string     `json:"id" yaml:"id"`                             // module:variable
	Kind     RouterKind `json:"kind" yaml:"kind"`                         // app or router
	Prefix   string     `json:"prefix,omitempty" yaml:"prefix,omitempty"` // Own prefix= keyword
	Location Location   `json:"location" yaml:"location"`
}

// Module returns the module part of the router ID.
func (r *Router) Module() string {
	mod, _, _ := strings.Cut(r.ID, ":")
	return mod
}

// Mount records an include_router call. Parent is empty for a root.
type Mount struct {
	Parent   string   `json:"parent" yaml:"parent"`
	Child    string   `json:"child" yaml:"child"`
	Prefix   string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Location Location `json:"location" yaml:"location"`
}
