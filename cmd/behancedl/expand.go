package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"behancedl/pkg/project"

	"github.com/spf13/cobra"
)

var (
	expandInput    string
	expandAbsolute bool
	expandCrawling crawlFlags
)

// expandCmd represents the expand command
var expandCmd = &cobra.Command{
	Use:   "expand [urls...]",
	Short: "Print the project list the seeds expand to, without downloading",
	Long: `Resolve moodboards into their projects and print the resulting list, one URL
per line, in the order download would process them. Project URLs given
directly are printed unchanged.`,
	Example: `  behancedl expand https://www.behance.net/collection/123/x
  behancedl expand --input seeds.txt --absolute > projects.txt`,
	RunE: runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().StringVarP(&expandInput, "input", "i", "", "file with one seed URL per line (- for stdin)")
	expandCmd.Flags().BoolVar(&expandAbsolute, "absolute", false, "print site-relative project links as absolute URLs")
	expandCrawling.register(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	seeds, err := collectSeeds(args, expandInput)
	if err != nil {
		return err
	}

	flags := globalFlags(cmd)
	flags["seed-urls"] = seeds
	expandCrawling.collect(cmd, flags)

	cfg, log, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if len(cfg.Behance.SeedURLs) == 0 {
		return fmt.Errorf("no seed URLs given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer sess.Close()

	projects, err := sess.expander.Expand(ctx, cfg.Behance.SeedURLs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range projects {
		if expandAbsolute {
			p = project.ResolveURL(cfg.Behance.BaseURL, p)
		}
		fmt.Fprintln(out, p)
	}
	return nil
}
