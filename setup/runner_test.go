package setup

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
	"github.com/yoke233/mneme/config"
	"github.com/yoke233/mneme/extensions"
	"github.com/yoke233/mneme/record"
	"github.com/yoke233/mneme/resolver"
	"go.uber.org/zap"
)

const folder = "Mneme_Documents"

type fakePrompter struct {
	line     string
	confirm  bool
	lines    int
	confirms int
}

func (p *fakePrompter) ReadLine(string) (string, error) {
	p.lines++
	return p.line, nil
}

func (p *fakePrompter) Confirm(string) (bool, error) {
	p.confirms++
	return p.confirm, nil
}

type fixture struct {
	home     string
	prompter *fakePrompter
	out      *bytes.Buffer
	links    []string
	runner   *Runner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		home:     t.TempDir(),
		prompter: &fakePrompter{},
		out:      &bytes.Buffer{},
	}
	f.runner = &Runner{
		Config: &config.Config{
			FolderName:  folder,
			DatabaseURL: config.DefaultDatabaseURL,
		},
		Paths:    DefaultPaths(f.home, "linux"),
		Prompter: f.prompter,
		GOOS:     "linux",
		Out:      f.out,
		Linker: func(link, target string) error {
			f.links = append(f.links, link)
			return os.Symlink(target, link)
		},
		Now:    func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local) },
		Logger: zap.NewNop(),
	}
	return f
}

func (f *fixture) mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(append([]string{f.home}, parts...)...)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", p, err)
	}
	return p
}

// snapshot maps every path under root to its contents (dirs map to "").
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			files[rel] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return files
}

func TestRunFullSetup(t *testing.T) {
	f := newFixture(t)
	target := f.mkdir(t, "Dropbox", folder)
	f.mkdir(t, ".config", "Claude")
	seed := `{"theme": "dark", "mcpServers": {"time": {"command": "uvx"}}}`
	if err := os.WriteFile(f.runner.Paths.ClaudeConfig, []byte(seed), 0o644); err != nil {
		t.Fatalf("seed claude config: %v", err)
	}

	if err := f.runner.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, p := range []string{
		filepath.Join(f.home, ".mneme_tools", "mneme_uploader.py"),
		filepath.Join(f.home, "Desktop", "Mneme_Launch.sh"),
		filepath.Join(f.home, "Desktop", "Mneme_Notion_Prep.sh"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s: %v", p, err)
		}
	}
	if diff := cmp.Diff([]string{filepath.Join(f.home, "Desktop", folder)}, f.links); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}

	rec, err := record.Load(f.runner.Paths.RecordFile)
	if err != nil {
		t.Fatalf("record.Load: %v", err)
	}
	want := &record.Record{
		Date:        "2026-10-19 09:30:00",
		DropboxPath: filepath.Join(f.home, "Dropbox"),
		MnemePath:   target,
		ToolsDir:    filepath.Join(f.home, ".mneme_tools"),
		Version:     record.Version,
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(f.runner.Paths.ClaudeConfig)
	if err != nil {
		t.Fatalf("read claude config: %v", err)
	}
	if gjson.GetBytes(data, "theme").String() != "dark" || !gjson.GetBytes(data, "mcpServers.time").Exists() {
		t.Fatalf("unrelated keys lost: %s", data)
	}
	if got := gjson.GetBytes(data, "mcpServers.filesystem.args.1").String(); got != filepath.ToSlash(target) {
		t.Fatalf("filesystem arg=%q, want %q", got, filepath.ToSlash(target))
	}

	if f.prompter.lines != 0 || f.prompter.confirms != 0 {
		t.Fatalf("unexpected prompts: lines=%d confirms=%d", f.prompter.lines, f.prompter.confirms)
	}
	if !strings.Contains(f.out.String(), "=== Setup Complete! ===") {
		t.Fatalf("summary missing:\n%s", f.out.String())
	}
}

func TestRunManualEntryResolvesParent(t *testing.T) {
	f := newFixture(t)
	data := f.mkdir(t, "data")
	f.mkdir(t, "data", folder)
	f.prompter.line = filepath.Join(data, folder)

	if err := f.runner.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	rec, err := record.Load(f.runner.Paths.RecordFile)
	if err != nil {
		t.Fatalf("record.Load: %v", err)
	}
	if rec.DropboxPath != data {
		t.Fatalf("DropboxPath=%q, want %q", rec.DropboxPath, data)
	}
	if !strings.Contains(f.out.String(), "[INFO] Claude Desktop not installed") {
		t.Fatalf("expected claude-not-installed info:\n%s", f.out.String())
	}
	if _, err := os.Stat(f.runner.Paths.ClaudeConfig); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("claude config should not be created, stat err=%v", err)
	}
}

func TestRunNotFoundWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "elsewhere")
	f.prompter.line = filepath.Join(f.home, "elsewhere")
	before := snapshot(t, f.home)

	err := f.runner.Run()
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("err=%v, want resolver.ErrNotFound", err)
	}
	if f.prompter.lines != 1 {
		t.Fatalf("manual prompt count=%d, want 1", f.prompter.lines)
	}
	if diff := cmp.Diff(before, snapshot(t, f.home)); diff != "" {
		t.Fatalf("filesystem changed (-before +after):\n%s", diff)
	}
	if !strings.Contains(f.out.String(), "[ERROR] "+folder+" folder not found") {
		t.Fatalf("error not reported:\n%s", f.out.String())
	}
}

func TestRunDeclinedRerunWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "Dropbox", folder)
	prev := record.New(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local), "/old", "/old/"+folder, "/old/tools")
	if err := record.Save(f.runner.Paths.RecordFile, prev); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	before := snapshot(t, f.home)

	if err := f.runner.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.prompter.confirms != 1 {
		t.Fatalf("confirm count=%d, want 1", f.prompter.confirms)
	}
	if diff := cmp.Diff(before, snapshot(t, f.home)); diff != "" {
		t.Fatalf("filesystem changed (-before +after):\n%s", diff)
	}
	if !strings.Contains(f.out.String(), "[INFO] Previous setup: 2025-01-02 03:04:05") {
		t.Fatalf("previous date not shown:\n%s", f.out.String())
	}
}

func TestRunAcceptedRerunOverwritesRecord(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "Dropbox", folder)
	prev := record.New(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local), "/old", "/old/"+folder, "/old/tools")
	if err := record.Save(f.runner.Paths.RecordFile, prev); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	f.prompter.confirm = true

	if err := f.runner.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	rec, err := record.Load(f.runner.Paths.RecordFile)
	if err != nil {
		t.Fatalf("record.Load: %v", err)
	}
	if rec.Date != "2026-10-19 09:30:00" || rec.DropboxPath != filepath.Join(f.home, "Dropbox") {
		t.Fatalf("record not overwritten: %+v", rec)
	}
}

func TestRunShortcutFailureIsBestEffort(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "Dropbox", folder)
	f.runner.Linker = func(string, string) error { return errors.New("mklink failed") }

	if err := f.runner.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(f.out.String(), "[INFO] Please create folder shortcut manually") {
		t.Fatalf("manual shortcut hint missing:\n%s", f.out.String())
	}
	if !record.Exists(f.runner.Paths.RecordFile) {
		t.Fatal("record should be written despite shortcut failure")
	}
}

func TestRunUsesConfiguredDropboxPaths(t *testing.T) {
	f := newFixture(t)
	extra := f.mkdir(t, "Sync", "Box")
	f.mkdir(t, "Sync", "Box", folder)
	f.runner.Config.DropboxPaths = []string{"~/Sync/Box"}

	if err := f.runner.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	rec, err := record.Load(f.runner.Paths.RecordFile)
	if err != nil {
		t.Fatalf("record.Load: %v", err)
	}
	if rec.DropboxPath != extra {
		t.Fatalf("DropboxPath=%q, want %q", rec.DropboxPath, extra)
	}
}

func TestRunInvalidClaudeConfigFails(t *testing.T) {
	f := newFixture(t)
	f.mkdir(t, "Dropbox", folder)
	f.mkdir(t, ".config", "Claude")
	if err := os.WriteFile(f.runner.Paths.ClaudeConfig, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.runner.Run(); err == nil {
		t.Fatal("expected error for broken claude config")
	}
	if record.Exists(f.runner.Paths.RecordFile) {
		t.Fatal("record must not be written when a step fails")
	}
}

func TestDefaultPaths(t *testing.T) {
	home := filepath.Join(string(filepath.Separator), "home", "u")
	got := DefaultPaths(home, "windows")
	want := Paths{
		Home:         home,
		Desktop:      filepath.Join(home, "Desktop"),
		ToolsDir:     filepath.Join(home, ".mneme_tools"),
		RecordFile:   filepath.Join(home, ".mneme_setup_complete"),
		ClaudeConfig: extensions.ClaudeDesktopConfigPath(home, "windows"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DefaultPaths mismatch (-want +got):\n%s", diff)
	}
}
