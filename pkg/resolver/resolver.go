// Package resolver computes the absolute path of every endpoint by walking
// the router mount graph recorded by the route extractor.
//
// The full prefix of a router is the full prefix of the router it is mounted
// under, then the mount prefix, then the router's own prefix. Routers that are
// never mounted are roots. Routers on a mount cycle, and routers mounted
// beneath one, cannot be resolved and are reported rather than guessed.
package resolver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/doccov/pkg/coverage"
	"github.com/agentstation/doccov/pkg/errors"
	"github.com/agentstation/doccov/pkg/pathkey"
)

// Resolution is the outcome of prefix resolution.
type Resolution struct {
	// Endpoints have ResolvedPath set, in input order.
	Endpoints []*coverage.Endpoint
	// Unresolved endpoints are reachable only through a mount cycle.
	Unresolved []*coverage.Endpoint
	Warnings   []coverage.Warning
	// Prefixes maps each resolvable router ID to its full prefix.
	Prefixes map[string]string
}

type state uint8

const (
	unvisited state = iota
	visiting
	done
	cyclic
)

// graph is the mount arena: routers by ID and the single parent edge each
// child resolves through.
type graph struct {
	routers  map[string]*coverage.Router
	parent   map[string]coverage.Mount
	state    map[string]state
	prefix   map[string]string
	stack    []string
	cycles   map[string]bool
	warnings []coverage.Warning
}

// Resolve fills ResolvedPath on each endpoint. The endpoints are modified in
// place; routers and mounts are only read.
func Resolve(routers []*coverage.Router, mounts []coverage.Mount, endpoints []*coverage.Endpoint) *Resolution {
	g := &graph{
		routers: make(map[string]*coverage.Router, len(routers)),
		parent:  make(map[string]coverage.Mount),
		state:   make(map[string]state),
		prefix:  make(map[string]string),
		cycles:  make(map[string]bool),
	}
	for _, r := range routers {
		if _, ok := g.routers[r.ID]; !ok {
			g.routers[r.ID] = r
		}
	}
	g.addMounts(mounts)

	ids := make([]string, 0, len(g.routers))
	for id := range g.routers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		g.resolve(id)
	}

	res := &Resolution{Prefixes: make(map[string]string)}
	for _, ep := range endpoints {
		full, ok := g.resolve(ep.Router)
		if !ok {
			ep.ResolvedPath = ""
			ep.Resolved = false
			res.Unresolved = append(res.Unresolved, ep)
			continue
		}
		ep.ResolvedPath = pathkey.Join(full, ep.DeclaredPath)
		ep.Resolved = true
		bindPathParams(ep)
		res.Endpoints = append(res.Endpoints, ep)
	}
	for id, st := range g.state {
		if st == done {
			res.Prefixes[id] = g.prefix[id]
		}
	}
	res.Warnings = g.warnings
	return res
}

// bindPathParams marks parameters named by a placeholder of the resolved
// path as path parameters. Placeholders contributed by a mount prefix are
// only visible here.
func bindPathParams(ep *coverage.Endpoint) {
	placeholders := pathkey.Placeholders(ep.ResolvedPath)
	for i := range ep.Parameters {
		if slices.Contains(placeholders, ep.Parameters[i].Name) {
			ep.Parameters[i].In = coverage.ParamPath
		}
	}
}

// addMounts keeps the first mount per child in (file, line) order.
func (g *graph) addMounts(mounts []coverage.Mount) {
	sorted := append([]coverage.Mount(nil), mounts...)
	coverage.SortMounts(sorted)

	extra := map[string][]coverage.Mount{}
	for _, m := range sorted {
		if _, ok := g.routers[m.Child]; !ok {
			g.warn(coverage.Warning{
				Kind:     coverage.WarnMountTarget,
				Message:  fmt.Sprintf("include_router target %s is not a router defined in the scanned tree", m.Child),
				Location: m.Location,
				Routers:  []string{m.Parent, m.Child},
			})
			continue
		}
		if _, ok := g.parent[m.Child]; ok {
			extra[m.Child] = append(extra[m.Child], m)
			continue
		}
		g.parent[m.Child] = m
	}

	children := make([]string, 0, len(extra))
	for child := range extra {
		children = append(children, child)
	}
	slices.Sort(children)
	for _, child := range children {
		first := g.parent[child]
		locs := []string{first.Location.String()}
		for _, m := range extra[child] {
			locs = append(locs, m.Location.String())
		}
		g.warn(coverage.Warning{
			Kind:     coverage.WarnMultipleMounts,
			Message:  fmt.Sprintf("router %s is mounted %d times (%s); using the first", child, len(locs), strings.Join(locs, ", ")),
			Location: first.Location,
			Routers:  []string{child},
		})
	}
}

// resolve returns the full prefix of id. Unknown IDs are implicit roots.
func (g *graph) resolve(id string) (string, bool) {
	switch g.state[id] {
	case done:
		return g.prefix[id], true
	case cyclic:
		return "", false
	case visiting:
		g.reportCycle(id)
		return "", false
	}

	g.state[id] = visiting
	g.stack = append(g.stack, id)
	defer func() { g.stack = g.stack[:len(g.stack)-1] }()

	own := ""
	if r, ok := g.routers[id]; ok {
		own = r.Prefix
	}

	edge, mounted := g.parent[id]
	if !mounted {
		g.finish(id, pathkey.Join(own))
		return g.prefix[id], true
	}

	parentPrefix, ok := g.resolve(edge.Parent)
	if !ok {
		g.state[id] = cyclic
		return "", false
	}
	g.finish(id, pathkey.Join(parentPrefix, edge.Prefix, own))
	return g.prefix[id], true
}

func (g *graph) finish(id, prefix string) {
	if prefix == "/" {
		prefix = ""
	}
	g.prefix[id] = prefix
	g.state[id] = done
}

// reportCycle records the cycle closing at id, once per set of members.
func (g *graph) reportCycle(id string) {
	start := slices.Index(g.stack, id)
	if start < 0 {
		return
	}
	members := append([]string(nil), g.stack[start:]...)
	for _, m := range members {
		g.state[m] = cyclic
	}

	key := append([]string(nil), members...)
	slices.Sort(key)
	k := strings.Join(key, ",")
	if g.cycles[k] {
		return
	}
	g.cycles[k] = true

	path := append(members, id)
	loc := g.parent[members[0]].Location
	for _, m := range members {
		if l := g.parent[m].Location; l.Less(loc) {
			loc = l
		}
	}
	g.warn(coverage.Warning{
		Kind:     coverage.WarnMountCycle,
		Message:  errors.NewCycleError(path).Error(),
		Location: loc,
		Routers:  path,
	})
}

func (g *graph) warn(w coverage.Warning) {
	g.warnings = append(g.warnings, w)
}
