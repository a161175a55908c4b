package cli

import (
	"github.com/spf13/cobra"
	"github.com/yoke233/mneme/internal/logger"
)

var (
	cfgFile  string
	logLevel string
	logDev   bool
)

var rootCmd = &cobra.Command{
	Use:   "mneme",
	Short: "Set up the Mneme documents folder on this machine",
	Long: `mneme finds your Dropbox folder holding the Mneme documents and prepares
this machine to work with it:

1. Writes the Notion preparation tool into ~/.mneme_tools
2. Creates launcher scripts and a folder shortcut on the desktop
3. Points Claude Desktop's filesystem MCP server at the folder

Running mneme without a subcommand runs setup.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logLevel, logDev)
	},
	RunE: runSetup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Local config file (default: config_local.json next to the executable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logDev, "log-dev", false, "Use development logging (stack traces on warnings)")
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}
