package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yoke233/mneme/cli/input"
	"github.com/yoke233/mneme/config"
	"github.com/yoke233/mneme/internal/logger"
	"github.com/yoke233/mneme/resolver"
	"github.com/yoke233/mneme/setup"
	"go.uber.org/zap"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Find the Mneme folder and install launchers, tools and Claude Desktop access",
	Long: `Guided setup for Mneme.

The Mneme folder is searched for under ~/Dropbox, platform-specific Dropbox
locations, and any "dropbox_paths" listed in the local config. If none match
you are asked for the path once.

Environment:
  MNEME_FOLDER_NAME   target folder name (default Mneme_Documents)
  MNEME_DATABASE_URL  Notion database URL shown by the prep script`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// runSetup is the top-level catch-all: failures are reported with manual
// instructions and the command still returns normally.
func runSetup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	folder, err := setupOnce(out)
	switch {
	case err == nil:
	case errors.Is(err, resolver.ErrNotFound):
		logger.Debug("setup aborted", zap.Error(err))
	default:
		fmt.Fprintf(out, "\n[ERROR] An error occurred: %v\n", err)
		logger.Error("setup failed", zap.Error(err), zap.Stack("stack"))
		setup.PrintManualInstructions(out, folder)
	}
	return nil
}

func setupOnce(out io.Writer) (folder string, err error) {
	folder = strings.TrimSpace(os.Getenv(config.EnvFolderName))
	if folder == "" {
		folder = config.DefaultFolderName
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return folder, err
	}
	folder = cfg.FolderName
	if src := cfg.Source(); src != "" {
		logger.Debug("local config loaded", zap.String("path", src))
	}

	home, err := config.ResolveUserHomeDir()
	if err != nil {
		return folder, fmt.Errorf("failed to get home directory: %w", err)
	}

	runner := &setup.Runner{
		Config:   cfg,
		Paths:    setup.DefaultPaths(home, runtime.GOOS),
		Prompter: input.Console{},
		GOOS:     runtime.GOOS,
		Username: config.Username(),
		Out:      out,
	}
	return folder, runner.Run()
}
