package nav

import (
	"errors"
	"strings"
)

// ErrInvalidBasePath is returned by NormalizeBase for unusable base paths.
var ErrInvalidBasePath = errors.New("invalid base path")

// CanonicalizePath normalizes an in-app path: it ensures a leading slash,
// collapses repeated slashes and drops a trailing slash except on the root.
// Paths containing a backslash or NUL byte are rejected.
func CanonicalizePath(path string) (string, error) {
	if strings.ContainsAny(path, "\\\x00") {
		return "", errors.New("path contains backslash or null byte")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path, nil
}

// NormalizeBase returns base in the form "/prefix" without a trailing
// slash, or "" when the app is served from the root.
func NormalizeBase(base string) (string, error) {
	if base == "" || base == "/" {
		return "", nil
	}
	if strings.ContainsAny(base, "?#\\\x00") {
		return "", ErrInvalidBasePath
	}
	canon, err := CanonicalizePath(base)
	if err != nil {
		return "", ErrInvalidBasePath
	}
	if canon == "/" {
		return "", nil
	}
	for _, seg := range strings.Split(canon[1:], "/") {
		if seg == "." || seg == ".." {
			return "", ErrInvalidBasePath
		}
	}
	return canon, nil
}

// StripBase removes base from path. It reports false when path lies outside
// base. base must be normalized.
func StripBase(base, path string) (string, bool) {
	if base == "" {
		return path, true
	}
	if path == base {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(path, base+"/"); ok {
		return "/" + rest, true
	}
	return "", false
}

// JoinBase prefixes an in-app path with base.
func JoinBase(base, path string) string {
	if base == "" {
		return path
	}
	if path == "/" {
		return base + "/"
	}
	return base + path
}
