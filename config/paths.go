package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ExpandUserPath expands a leading "~" to the resolved user home directory.
// If expansion fails, the original path is returned.
func ExpandUserPath(path string) string {
	home, err := ResolveUserHomeDir()
	if err != nil {
		return path
	}
	return ExpandHome(path, home)
}

// ExpandHome expands a leading "~" against the given home directory.
// Paths without a leading "~" are returned unchanged, as is "~user".
func ExpandHome(path, home string) string {
	p := strings.TrimSpace(path)
	if p == "" || strings.TrimSpace(home) == "" {
		return path
	}
	if p == "~" {
		return filepath.Clean(home)
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		rest := strings.TrimLeft(p[1:], "/\\")
		if rest == "" {
			return filepath.Clean(home)
		}
		return filepath.Join(home, filepath.FromSlash(rest))
	}
	return path
}

// ResolveUserHomeDir returns the best-effort user home directory.
// On Windows, prefer USERPROFILE or HOMEDRIVE+HOMEPATH to avoid HOME drift.
func ResolveUserHomeDir() (string, error) {
	if runtime.GOOS == "windows" {
		if profile := strings.TrimSpace(os.Getenv("USERPROFILE")); profile != "" {
			return profile, nil
		}
		drive := strings.TrimSpace(os.Getenv("HOMEDRIVE"))
		path := strings.TrimSpace(os.Getenv("HOMEPATH"))
		if drive != "" && path != "" {
			return filepath.Clean(drive + path), nil
		}
	}
	return os.UserHomeDir()
}

// Username returns the login name used for per-user Windows guesses.
func Username() string {
	if name := strings.TrimSpace(os.Getenv("USERNAME")); name != "" {
		return name
	}
	return strings.TrimSpace(os.Getenv("USER"))
}
