package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yoke233/mneme/config"
	"github.com/yoke233/mneme/extensions"
	"github.com/yoke233/mneme/record"
	"github.com/yoke233/mneme/setup"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorded setup, if any",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the folders setup searches, in order",
	Args:  cobra.NoArgs,
	RunE:  runPaths,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pathsCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	home, err := config.ResolveUserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	paths := setup.DefaultPaths(home, runtime.GOOS)

	rec, err := record.Load(paths.RecordFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, "Setup has not been run.")
			fmt.Fprintln(out, "Run: mneme setup")
			return nil
		}
		return err
	}

	fmt.Fprintf(out, "Setup record: %s\n", paths.RecordFile)
	fmt.Fprintf(out, "  Date:       %s\n", rec.Date)
	fmt.Fprintf(out, "  Version:    %s\n", rec.Version)
	fmt.Fprintf(out, "  Dropbox:    %s\n", rec.DropboxPath)
	fmt.Fprintf(out, "  Mneme:      %s\n", rec.MnemePath)
	fmt.Fprintf(out, "  Tools:      %s\n", rec.ToolsDir)

	srv, ok, err := extensions.LookupMCPServer(paths.ClaudeConfig, extensions.FilesystemServerName)
	switch {
	case err != nil:
		fmt.Fprintf(out, "  Claude MCP: unreadable (%v)\n", err)
	case ok:
		fmt.Fprintf(out, "  Claude MCP: %s %v\n", srv.Command, srv.Args)
	default:
		fmt.Fprintln(out, "  Claude MCP: not configured")
	}
	return nil
}
