// Package cli wires the crawler's flag table onto a cobra command and builds
// a Config from it. The command itself stays a thin collaborator: parsing
// and wiring only, no crawl logic.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-recon/reconcrawler/internal/build"
	"github.com/go-recon/reconcrawler/internal/config"
	"github.com/go-recon/reconcrawler/internal/crawler"
)

var (
	threads    int
	maxDepth   int
	timeout    int
	output     string
	verbose    bool
	wayback    bool
	noSitemap  bool
	proxy      string
	jitter     float64
	categories []string
)

var rootCmd = &cobra.Command{
	Use:   "reconcrawler <target>",
	Short: "A concurrent reconnaissance web crawler.",
	Long: `reconcrawler crawls a target domain, following in-scope links up to a
configured depth, and reports discovered endpoints, subdomains, files, and
other assets as a JSON report.`,
	Version: build.FullVersion(),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()

		c := crawler.New(cfg, cmd.OutOrStderr())
		runErr := c.Run(ctx)
		if runErr != nil && ctx.Err() != nil {
			return errInterrupted
		}
		return runErr
	},
	SilenceUsage: true,
}

// errInterrupted signals Execute to return exit code 130 rather than 1.
var errInterrupted = fmt.Errorf("interrupted")

func init() {
	rootCmd.Flags().IntVarP(&threads, "threads", "t", 15, "worker count")
	rootCmd.Flags().IntVarP(&maxDepth, "depth", "d", 3, "max crawl depth")
	rootCmd.Flags().IntVar(&timeout, "timeout", 15, "per-request total timeout in seconds")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "JSON report path")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.Flags().BoolVar(&wayback, "wayback", false, "enable Wayback ingester")
	rootCmd.Flags().BoolVar(&noSitemap, "no-sitemap", false, "disable robots/sitemap ingester")
	rootCmd.Flags().StringVar(&proxy, "proxy", "", "HTTP proxy URL")
	rootCmd.Flags().Float64Var(&jitter, "jitter", 0, "uniform pre-request sleep upper bound, seconds")
	rootCmd.Flags().StringArrayVarP(&categories, "filter", "f", nil, "category filter, repeatable (default all)")
}

// buildConfig assembles a Config from the target positional argument and the
// package-level flag vars populated by cobra.
func buildConfig(target string) (config.Config, error) {
	builder := config.WithDefault(target).
		WithThreads(threads).
		WithMaxDepth(maxDepth).
		WithTimeout(secondsToDuration(timeout)).
		WithOutputPath(output).
		WithVerbose(verbose).
		WithUseWayback(wayback).
		WithUseSitemap(!noSitemap).
		WithProxy(proxy).
		WithJitterSeconds(jitter).
		WithCategoryFilter(categories)

	return builder.Build()
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// Execute runs the root command and returns the process exit code: 0 on
// success, 1 on fatal configuration or crawl error, 130 on operator
// interrupt.
func Execute() int {
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case err == errInterrupted:
		return 130
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
}

// ResetFlags restores every flag var to its default, for test isolation
// between cases that call buildConfig directly.
func ResetFlags() {
	threads = 15
	maxDepth = 3
	timeout = 15
	output = ""
	verbose = false
	wayback = false
	noSitemap = false
	proxy = ""
	jitter = 0
	categories = nil
}
