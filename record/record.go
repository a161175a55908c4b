// Package record persists the marker written after a successful setup.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// FileName is the record's name under the home directory.
	FileName = ".mneme_setup_complete"
	// Version is stamped into every record written.
	Version = "2.0"
	// DateLayout formats Record.Date.
	DateLayout = "2006-01-02 15:04:05"
)

// Record is the persisted setup record.
type Record struct {
	Date        string `json:"date"`
	DropboxPath string `json:"dropbox_path"`
	MnemePath   string `json:"mneme_path"`
	ToolsDir    string `json:"tools_dir"`
	Version     string `json:"version"`
}

// New builds a record for a run finished at now.
func New(now time.Time, dropboxPath, mnemePath, toolsDir string) *Record {
	return &Record{
		Date:        now.Format(DateLayout),
		DropboxPath: dropboxPath,
		MnemePath:   mnemePath,
		ToolsDir:    toolsDir,
		Version:     Version,
	}
}

// Path returns the record location under home.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Exists reports whether a record file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads a record. A missing file returns an error wrapping os.ErrNotExist.
func Load(path string) (*Record, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("setup record path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read setup record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode setup record: %w", err)
	}
	return &rec, nil
}

// Save overwrites the record at path.
func Save(path string, rec *Record) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("setup record path is empty")
	}
	if rec == nil {
		return errors.New("setup record is nil")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir setup record dir: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode setup record: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write setup record: %w", err)
	}
	return nil
}
