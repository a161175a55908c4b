package artifacts

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Linker creates a folder alias at link pointing to target.
type Linker func(link, target string) error

// DefaultLinker returns a directory junction linker on Windows and a
// symlink linker elsewhere.
func DefaultLinker(goos string) Linker {
	if goos == "windows" {
		return junction
	}
	return symlink
}

func symlink(link, target string) error {
	return os.Symlink(target, link)
}

func junction(link, target string) error {
	out, err := exec.Command("cmd", "/c", "mklink", "/J", link, target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("mklink /J: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CreateShortcut links link to target unless something already sits at link.
// created is false when the link was already present.
func CreateShortcut(link, target string, linker Linker) (created bool, err error) {
	if _, err := os.Lstat(link); err == nil {
		return false, nil
	}
	if linker == nil {
		return false, fmt.Errorf("no linker configured")
	}
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return false, fmt.Errorf("mkdir shortcut dir: %w", err)
	}
	if err := linker(link, target); err != nil {
		return false, err
	}
	return true, nil
}
