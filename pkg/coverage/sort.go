package coverage

import "sort"

// SortEndpoints orders endpoints by file, line, then method so that output is
// stable across runs regardless of worker scheduling.
func SortEndpoints(eps []*Endpoint) {
	sort.SliceStable(eps, func(i, j int) bool {
		a, b := eps[i], eps[j]
		if a.Location != b.Location {
			return a.Location.Less(b.Location)
		}
		return a.Method < b.Method
	})
}

// SortReferences orders references by file, then line.
func SortReferences(refs []*DocReference) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Location().Less(refs[j].Location())
	})
}

// SortRouters orders routers by ID.
func SortRouters(routers []*Router) {
	sort.SliceStable(routers, func(i, j int) bool {
		return routers[i].ID < routers[j].ID
	})
}

// SortMounts orders mounts by location.
func SortMounts(mounts []Mount) {
	sort.SliceStable(mounts, func(i, j int) bool {
		return mounts[i].Location.Less(mounts[j].Location)
	})
}

// SortSkips orders skips by file, then line.
func SortSkips(skips []Skip) {
	sort.SliceStable(skips, func(i, j int) bool {
		if skips[i].File != skips[j].File {
			return skips[i].File < skips[j].File
		}
		return skips[i].Line < skips[j].Line
	})
}
