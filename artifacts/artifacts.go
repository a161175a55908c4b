// Package artifacts writes the helper files setup leaves behind.
//
// Every write overwrites unconditionally and creates parent directories.
package artifacts

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

const (
	// ToolsDirName is the tools directory under home.
	ToolsDirName = ".mneme_tools"
	// UploaderName is the document-preparation utility.
	UploaderName = "mneme_uploader.py"

	LauncherBase   = "Mneme_Launch"
	NotionPrepBase = "Mneme_Notion_Prep"
)

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// LauncherData feeds the launcher templates.
type LauncherData struct {
	TargetPath   string
	UploaderPath string
	DatabaseURL  string
	Opener       string
}

// ToolsDir returns the tools directory under home.
func ToolsDir(home string) string {
	return filepath.Join(home, ToolsDirName)
}

// ScriptExt returns the launcher extension for goos.
func ScriptExt(goos string) string {
	if goos == "windows" {
		return ".bat"
	}
	return ".sh"
}

// Opener returns the command that opens a folder in the desktop file manager.
func Opener(goos string) string {
	switch goos {
	case "windows":
		return "start"
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

// LauncherPaths returns the launcher and Notion prep script paths in desktop.
func LauncherPaths(desktop, goos string) (launch, notionPrep string) {
	ext := ScriptExt(goos)
	return filepath.Join(desktop, LauncherBase+ext), filepath.Join(desktop, NotionPrepBase+ext)
}

// WriteUploader writes the utility into toolsDir and returns its path.
func WriteUploader(toolsDir string) (string, error) {
	content, err := templatesFS.ReadFile("templates/" + UploaderName)
	if err != nil {
		return "", fmt.Errorf("read embedded %s: %w", UploaderName, err)
	}
	path := filepath.Join(toolsDir, UploaderName)
	if err := writeFile(path, content, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// WriteLaunchers renders both launcher scripts into desktop and returns
// their paths, launcher first.
func WriteLaunchers(desktop string, data LauncherData, goos string) ([]string, error) {
	if data.Opener == "" {
		data.Opener = Opener(goos)
	}
	ext := ScriptExt(goos)
	launch, notionPrep := LauncherPaths(desktop, goos)

	written := make([]string, 0, 2)
	for _, item := range []struct {
		tmpl string
		path string
	}{
		{tmpl: "launch" + ext + ".tmpl", path: launch},
		{tmpl: "notion_prep" + ext + ".tmpl", path: notionPrep},
	} {
		content, err := render(item.tmpl, data)
		if err != nil {
			return written, err
		}
		if err := writeFile(item.path, content, 0o755); err != nil {
			return written, err
		}
		written = append(written, item.path)
	}
	return written, nil
}

func render(name string, data LauncherData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func writeFile(path string, content []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
