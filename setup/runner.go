// Package setup runs the one-shot Mneme setup: find the folder, write the
// helper artifacts, patch Claude Desktop and record the run.
package setup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/yoke233/mneme/artifacts"
	"github.com/yoke233/mneme/config"
	"github.com/yoke233/mneme/extensions"
	"github.com/yoke233/mneme/internal/logger"
	"github.com/yoke233/mneme/record"
	"github.com/yoke233/mneme/resolver"
	"go.uber.org/zap"
)

// Prompter is the operator console: one line of free text for the manual
// folder path, and a yes/no question for re-running.
type Prompter interface {
	resolver.LineReader
	Confirm(label string) (bool, error)
}

// Paths are the fixed locations setup reads and writes.
type Paths struct {
	Home         string
	Desktop      string
	ToolsDir     string
	RecordFile   string
	ClaudeConfig string
}

// DefaultPaths derives every location from the home directory.
func DefaultPaths(home, goos string) Paths {
	return Paths{
		Home:         home,
		Desktop:      filepath.Join(home, "Desktop"),
		ToolsDir:     artifacts.ToolsDir(home),
		RecordFile:   record.Path(home),
		ClaudeConfig: extensions.ClaudeDesktopConfigPath(home, goos),
	}
}

// Runner holds everything a run depends on. Zero-valued optional fields get
// defaults on Run.
type Runner struct {
	Config   *config.Config
	Paths    Paths
	Prompter Prompter

	GOOS     string
	Username string
	Out      io.Writer
	Linker   artifacts.Linker
	Now      func() time.Time
	Logger   *zap.Logger
}

func (r *Runner) defaults() {
	if r.GOOS == "" {
		r.GOOS = runtime.GOOS
	}
	if r.Out == nil {
		r.Out = os.Stdout
	}
	if r.Linker == nil {
		r.Linker = artifacts.DefaultLinker(r.GOOS)
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.Logger == nil {
		r.Logger = logger.With(zap.String("run_id", uuid.NewString()))
	}
}

// Run performs setup. Declining a re-run returns nil without touching the
// filesystem. A failed folder search returns an error wrapping
// resolver.ErrNotFound before anything is written.
func (r *Runner) Run() error {
	if r.Config == nil {
		return fmt.Errorf("setup config is nil")
	}
	r.defaults()
	out, log := r.Out, r.Logger

	fmt.Fprintln(out)
	fmt.Fprintf(out, "=== Mneme Standalone Setup (v%s) ===\n\n", record.Version)

	proceed, err := r.confirmRerun()
	if err != nil {
		return err
	}
	if !proceed {
		log.Info("re-run declined", zap.String("record", r.Paths.RecordFile))
		return nil
	}

	fmt.Fprintln(out, "\n[1/4] Searching for Dropbox folder...")
	found, err := r.resolve()
	if err != nil {
		fmt.Fprintf(out, "[ERROR] %s folder not found\n", r.Config.FolderName)
		return fmt.Errorf("resolve %s: %w", r.Config.FolderName, err)
	}
	log.Info("folder resolved",
		zap.String("root", found.Root),
		zap.String("source", found.Source))
	fmt.Fprintf(out, "[OK] Found Mneme folder: %s\n", found.Target)

	fmt.Fprintln(out, "\n[2/4] Creating standalone tools...")
	uploader, err := artifacts.WriteUploader(r.Paths.ToolsDir)
	if err != nil {
		return fmt.Errorf("create tools: %w", err)
	}
	fmt.Fprintf(out, "[OK] Tool created: %s\n", uploader)

	fmt.Fprintln(out, "\n[3/4] Creating desktop shortcuts...")
	if err := r.desktop(found, uploader); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n[4/4] Configuring Claude Desktop...")
	if err := r.claude(found); err != nil {
		return err
	}

	rec := record.New(r.Now(), found.Root, found.Target, r.Paths.ToolsDir)
	if err := record.Save(r.Paths.RecordFile, rec); err != nil {
		return fmt.Errorf("save setup record: %w", err)
	}
	log.Debug("setup record saved", zap.String("path", r.Paths.RecordFile))

	r.printSummary()
	return nil
}

func (r *Runner) confirmRerun() (bool, error) {
	if !record.Exists(r.Paths.RecordFile) {
		return true, nil
	}

	prev, err := record.Load(r.Paths.RecordFile)
	if err != nil {
		r.Logger.Warn("setup record unreadable", zap.Error(err))
		fmt.Fprintln(r.Out, "[INFO] Previous setup record found")
	} else {
		fmt.Fprintf(r.Out, "[INFO] Previous setup: %s\n", prev.Date)
	}

	if r.Prompter == nil {
		return false, nil
	}
	ok, err := r.Prompter.Confirm("Re-run setup")
	if err != nil {
		return false, fmt.Errorf("confirm re-run: %w", err)
	}
	return ok, nil
}

func (r *Runner) resolve() (resolver.Result, error) {
	sources := resolver.DefaultSources(r.Config, r.Paths.Home, r.GOOS, r.Username)

	var reader resolver.LineReader
	if r.Prompter != nil {
		reader = r.Prompter
	}
	return resolver.New(r.Config.FolderName, sources, reader, r.Out).
		WithLogger(r.Logger).
		Resolve()
}

func (r *Runner) desktop(found resolver.Result, uploader string) error {
	paths, err := artifacts.WriteLaunchers(r.Paths.Desktop, artifacts.LauncherData{
		TargetPath:   found.Target,
		UploaderPath: uploader,
		DatabaseURL:  r.Config.DatabaseURL,
	}, r.GOOS)
	if err != nil {
		return fmt.Errorf("create launchers: %w", err)
	}
	fmt.Fprintf(r.Out, "[OK] Launcher created: %s\n", paths[0])
	fmt.Fprintf(r.Out, "[OK] Notion prep script created: %s\n", paths[1])

	// 快捷方式失败不影响整体流程
	link := filepath.Join(r.Paths.Desktop, r.Config.FolderName)
	created, err := artifacts.CreateShortcut(link, found.Target, r.Linker)
	switch {
	case err != nil:
		r.Logger.Debug("folder shortcut failed", zap.String("link", link), zap.Error(err))
		fmt.Fprintln(r.Out, "[INFO] Please create folder shortcut manually")
	case created:
		fmt.Fprintf(r.Out, "[OK] Folder shortcut created: %s\n", link)
	default:
		r.Logger.Debug("folder shortcut already present", zap.String("link", link))
	}
	return nil
}

func (r *Runner) claude(found resolver.Result) error {
	if !extensions.ClaudeDesktopInstalled(r.Paths.Home, r.GOOS) {
		fmt.Fprintln(r.Out, "[INFO] Claude Desktop not installed")
		return nil
	}

	replaced, err := extensions.MergeMCPServer(
		r.Paths.ClaudeConfig,
		extensions.FilesystemServerName,
		extensions.FilesystemServer(found.Target),
	)
	if err != nil {
		return fmt.Errorf("configure claude desktop: %w", err)
	}
	r.Logger.Info("claude desktop config merged",
		zap.String("path", r.Paths.ClaudeConfig),
		zap.Bool("replaced", replaced))
	fmt.Fprintln(r.Out, "[OK] Claude Desktop configuration updated")
	return nil
}

func (r *Runner) printSummary() {
	launch, notionPrep := artifacts.LauncherPaths(r.Paths.Desktop, r.GOOS)
	launch, notionPrep = filepath.Base(launch), filepath.Base(notionPrep)

	fmt.Fprintln(r.Out, "\n=== Setup Complete! ===")
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, "Created on desktop:")
	fmt.Fprintf(r.Out, "  - %s : Launch Mneme and Claude\n", launch)
	fmt.Fprintf(r.Out, "  - %s : Prepare files for Notion\n", notionPrep)
	fmt.Fprintf(r.Out, "  - %s : Folder shortcut\n", r.Config.FolderName)
	fmt.Fprintln(r.Out, "\nUsage:")
	fmt.Fprintf(r.Out, "1. Run '%s'\n", launch)
	fmt.Fprintln(r.Out, "2. In Claude Desktop: 'Show me the Mneme documents'")
	fmt.Fprintln(r.Out, "\nNotion upload:")
	fmt.Fprintf(r.Out, "1. Run '%s'\n", notionPrep)
	fmt.Fprintln(r.Out, "2. Upload to Notion via Claude Desktop")
}

// PrintManualInstructions prints the fallback steps shown after an
// unexpected failure.
func PrintManualInstructions(out io.Writer, folderName string) {
	fmt.Fprintln(out, "\n=== Manual Setup Instructions ===")
	fmt.Fprintf(out, "1. Verify '%s' exists in Dropbox\n", folderName)
	fmt.Fprintln(out, "2. Create desktop shortcut manually")
	fmt.Fprintln(out, "3. Configure Claude Desktop to access the folder")
}
