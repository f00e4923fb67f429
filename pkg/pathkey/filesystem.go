package pathkey

import (
	"path"
	"strings"
)

// fileExtensions are suffixes that mark a path as a file on disk rather than
// a route. Response formats such as .json and .xml are left out.
var fileExtensions = map[string]bool{
	".py": true, ".pyc": true, ".md": true, ".rst": true, ".txt": true,
	".sh": true, ".cfg": true, ".toml": true, ".ini": true, ".lock": true,
	".yaml": true, ".yml": true, ".gz": true, ".tgz": true, ".zip": true,
	".tar": true, ".whl": true, ".so": true, ".log": true, ".env": true,
	".go": true, ".js": true, ".ts": true, ".db": true, ".sqlite": true,
}

// systemPrefixes are top-level directories of common filesystems.
var systemPrefixes = []string{
	"/home", "/usr", "/etc", "/var", "/opt", "/tmp", "/bin", "/sbin", "/lib",
	"/root", "/Users", "/srv", "/mnt", "/proc", "/dev", "/app",
}

// LooksLikeFilesystem reports whether a path mention is more likely a file
// or directory than an API route. Paths with a multi-dot extension, a known
// file extension, or a well-known system prefix qualify, as do paths that
// pass through site-packages or node_modules.
func LooksLikeFilesystem(p string) bool {
	p = trimQuery(p)
	if p == "" {
		return false
	}
	if strings.Contains(p, "site-packages") || strings.Contains(p, "node_modules") {
		return true
	}
	for _, prefix := range systemPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}

	last := path.Base(strings.TrimRight(p, "/"))
	if strings.ContainsAny(last, "{}") {
		return false
	}
	if dot := strings.Index(last, "."); dot > 0 && strings.Count(last[dot:], ".") >= 2 {
		// archive.tar.gz, pkg-1.0.0.whl
		return true
	}
	return fileExtensions[strings.ToLower(path.Ext(last))]
}
