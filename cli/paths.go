package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yoke233/mneme/config"
	"github.com/yoke233/mneme/resolver"
)

func runPaths(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	home, err := config.ResolveUserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	sources := resolver.DefaultSources(cfg, home, runtime.GOOS, config.Username())
	fmt.Fprintf(out, "Target folder: %s\n", cfg.FolderName)
	if src := cfg.Source(); src != "" {
		fmt.Fprintf(out, "Local config:  %s\n", src)
	}
	fmt.Fprintln(out)

	for _, src := range sources {
		for _, base := range src.Candidates() {
			mark := " "
			if resolver.HasTarget(base, cfg.FolderName) {
				mark = "x"
			}
			fmt.Fprintf(out, "  [%s] %-8s %s\n", mark, src.Name, base)
		}
	}
	return nil
}
