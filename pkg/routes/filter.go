package routes

import (
	"path"
	"slices"
	"strings"

	"github.com/agentstation/doccov/internal/walk"
)

// IsTestFile reports whether rel names a test module under tc.
func IsTestFile(rel string, tc TestConvention) bool {
	segs := walk.Segments(rel)
	for _, dir := range segs[:len(segs)-1] {
		if slices.Contains(tc.Dirs, dir) {
			return true
		}
	}
	name := segs[len(segs)-1]
	stem := strings.TrimSuffix(name, path.Ext(name))
	if tc.Prefix != "" && strings.HasPrefix(name, tc.Prefix) {
		return true
	}
	return tc.Suffix != "" && strings.HasSuffix(stem, tc.Suffix)
}

func (o *options) skipDir(_, name string) bool {
	if walk.Hidden(name) {
		return true
	}
	return slices.Contains(o.skipDirs, name) || slices.Contains(o.tests.Dirs, name)
}

func (o *options) keepFile(rel string) bool {
	return strings.HasSuffix(rel, ".py") && !IsTestFile(rel, o.tests)
}
