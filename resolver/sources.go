package resolver

import (
	"path/filepath"
	"strings"

	"github.com/yoke233/mneme/config"
)

// DefaultGuesses returns the built-in base directories in priority order:
// the home-relative default, then platform alternates.
func DefaultGuesses(home, goos, username string) []string {
	guesses := []string{filepath.Join(home, "Dropbox")}

	switch goos {
	case "windows":
		if username != "" {
			guesses = append(guesses, filepath.Join("C:/Users", username, "Dropbox"))
		}
		guesses = append(guesses, "D:/Dropbox", "E:/Dropbox")
	case "darwin":
		guesses = append(guesses, filepath.Join(home, "Library", "CloudStorage", "Dropbox"))
	}
	return guesses
}

// ConfigGuesses expands configured dropbox_paths against home, dropping blanks.
func ConfigGuesses(paths []string, home string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, config.ExpandHome(p, home))
	}
	return out
}

// DefaultSources builds the standard source chain: built-in guesses, then
// the configured extra paths.
func DefaultSources(cfg *config.Config, home, goos, username string) []Source {
	return []Source{
		{
			Name:       SourceDefaults,
			Candidates: func() []string { return DefaultGuesses(home, goos, username) },
		},
		{
			Name:       SourceConfig,
			Candidates: func() []string { return ConfigGuesses(cfg.DropboxPaths, home) },
		},
	}
}
