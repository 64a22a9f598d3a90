package main

import (
	"fmt"
	"os"
	"runtime"

	"behancedl/pkg/ui"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	notify     bool
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "behancedl [urls...]",
	Short: "Download full resolution images from Behance projects and moodboards",
	Long: `behancedl downloads every image of the given Behance projects at source resolution.

Seeds can be project pages (https://www.behance.net/gallery/...) or moodboards
(https://www.behance.net/collection/...). Moodboards are scrolled to the end and
replaced by the projects they contain, in page order.

Files are named behance_{owners}_{id}-{title}_{NN}.{ext} and written to the
output directory. Requests are paced: by default one second between images and
one second between projects.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			ui.SetQuietMode(true)
		}
		if cmd.Name() != "help" && cmd.Name() != "version" && cmd != expandCmd && cmd.Parent() != configCmd {
			ui.PrintLogo()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && downloadInput == "" {
			return cmd.Help()
		}
		return runDownload(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .behancedl.yaml or $HOME/.config/behancedl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&notify, "notify", false, "send a desktop notification when the run ends")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show log lines instead of progress bars")

	rootCmd.SetVersionTemplate(`behancedl {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
