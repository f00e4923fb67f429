package docrefs

import (
	"path"
	"slices"
	"strings"

	"github.com/agentstation/doccov/internal/walk"
	"github.com/agentstation/doccov/pkg/constants"
)

// skippedDirs are never documentation, whatever they contain.
var skippedDirs = []string{"node_modules", "site-packages", "venv", "__pycache__"}

// IsMarkdown reports whether rel has a markdown extension.
func IsMarkdown(rel string) bool {
	switch strings.ToLower(path.Ext(rel)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// SelectFile reports whether the markdown file at rel (relative to the docs
// root, slash separated) is scanned for references with the given locale
// exclusion set.
func SelectFile(rel string, locales ...string) bool {
	o := defaultOptions()
	if locales != nil {
		o.setLocales(locales)
	}
	return o.keepFile(rel)
}

// skipDir prunes hidden, locale and dependency directories.
func (o *options) skipDir(_, name string) bool {
	if walk.Hidden(name) {
		return true
	}
	lower := strings.ToLower(name)
	return o.locales[lower] || slices.Contains(skippedDirs, lower)
}

// keepFile applies the documentation selection rules to a relative path.
func (o *options) keepFile(rel string) bool {
	if !IsMarkdown(rel) {
		return false
	}
	segs := walk.Segments(rel)
	name := segs[len(segs)-1]
	if walk.Hidden(name) || o.excluded[strings.ToLower(name)] {
		return false
	}
	dirs := segs[:len(segs)-1]
	for _, d := range dirs {
		if walk.Hidden(d) || o.locales[strings.ToLower(d)] {
			return false
		}
	}

	// Root-level markdown, README included.
	if len(dirs) == 0 {
		return true
	}
	for _, d := range dirs {
		if slices.Contains(constants.DefaultDocDirs, strings.ToLower(d)) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(name), "api")
}
