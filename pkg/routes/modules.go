package routes

import (
	"strings"
)

// ModulePath converts a root-relative Python file path into a dotted module
// name. Package initializers name their package.
func ModulePath(rel string) string {
	rel = strings.TrimSuffix(rel, ".py")
	parts := strings.Split(rel, "/")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}

// packageOf returns the package a module's relative imports start from.
func packageOf(rel, module string) string {
	if strings.HasSuffix(rel, "__init__.py") {
		return module
	}
	if i := strings.LastIndex(module, "."); i >= 0 {
		return module[:i]
	}
	return ""
}

// binding is what a local name refers to after imports: a module, or a
// symbol inside a module.
type binding struct {
	module string
	symbol string
}

// importTable maps local names to their import bindings for one file.
type importTable map[string]binding

// relativeModule resolves a "from ..x import" target against pkg.
func relativeModule(pkg string, level int, name string) string {
	base := pkg
	for i := 1; i < level && base != ""; i++ {
		if j := strings.LastIndex(base, "."); j >= 0 {
			base = base[:j]
		} else {
			base = ""
		}
	}
	switch {
	case base == "":
		return name
	case name == "":
		return base
	default:
		return base + "." + name
	}
}

// resolve turns a dotted expression such as "users.router" into a router ID.
func (t importTable) resolve(module string, parts []string) (string, bool) {
	if len(parts) == 0 {
		return "", false
	}
	last := parts[len(parts)-1]
	b, ok := t[parts[0]]
	if !ok {
		if len(parts) == 1 {
			return routerID(module, last), true
		}
		return routerID(strings.Join(parts[:len(parts)-1], "."), last), true
	}

	if b.symbol != "" {
		if len(parts) == 1 {
			return routerID(b.module, b.symbol), true
		}
		mod := joinModule(b.module, b.symbol)
		for _, p := range parts[1 : len(parts)-1] {
			mod = joinModule(mod, p)
		}
		return routerID(mod, last), true
	}

	if len(parts) == 1 {
		// a bare module is never a router
		return "", false
	}
	mod := b.module
	for _, p := range parts[1 : len(parts)-1] {
		mod = joinModule(mod, p)
	}
	return routerID(mod, last), true
}

func joinModule(a, b string) string {
	if a == "" {
		return b
	}
	return a + "." + b
}

func routerID(module, name string) string {
	return module + ":" + name
}

func splitID(id string) (module, name string) {
	module, name, _ = strings.Cut(id, ":")
	return module, name
}

// moduleMatches reports whether module a and b name the same module when
// one tree was scanned from a deeper root than the other imports assume.
func moduleMatches(a, b string) bool {
	if a == b {
		return true
	}
	return strings.HasSuffix(a, "."+b) || strings.HasSuffix(b, "."+a)
}
