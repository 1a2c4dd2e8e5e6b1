package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nxpack/releasegen/internal/app"
	"github.com/nxpack/releasegen/internal/config"
	"github.com/nxpack/releasegen/internal/utils"
	"github.com/nxpack/releasegen/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "releasegen",
	Short: "Generate per-category release manifests from GitHub release tags",
	Long: `Releasegen reads the category source manifests (sysmodules, overlays,
apps, emulators), looks up the latest published GitHub release tag for
every referenced repository, and writes a RELEASE_*.ini version manifest
per category for the installer to consume.

Repositories are queried one at a time with a fixed delay in between to
stay under the unauthenticated API rate limit. Set GITHUB_TOKEN for a
higher limit.`,
	Version:       version.Short(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.releasegen/config.yaml)")
	rootCmd.PersistentFlags().StringP("include-dir", "i", config.DefaultIncludeDir, "Root of the per-category layout")
	rootCmd.PersistentFlags().String("token", "", "GitHub API token (default from GITHUB_TOKEN)")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Per-request timeout")
	rootCmd.PersistentFlags().Duration("delay", config.DefaultFetchDelay, "Delay between consecutive requests")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Run flags
	rootCmd.Flags().StringSlice("only", nil, "Restrict the run to these categories")
	rootCmd.Flags().Bool("dry-run", false, "Fetch and report without writing manifests")
	rootCmd.Flags().Bool("progress", false, "Show a progress bar per category")
	rootCmd.Flags().Bool("strict", false, "Exit non-zero when any entry failed")

	// Bind flags to viper
	_ = viper.BindPFlag("paths.include_dir", rootCmd.PersistentFlags().Lookup("include-dir"))
	_ = viper.BindPFlag("github.token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("github.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("fetch.delay", rootCmd.PersistentFlags().Lookup("delay"))

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The only supported abort is process termination; make SIGINT and
	// SIGTERM at least cut the in-flight request short.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	only, _ := cmd.Flags().GetStringSlice("only")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	progress, _ := cmd.Flags().GetBool("progress")
	strict, _ := cmd.Flags().GetBool("strict")

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config:   cfg,
		Logger:   log,
		DryRun:   dryRun,
		Progress: progress,
		Only:     only,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	start := time.Now()
	summary, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("run finished")

	if strict && summary.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed", summary.Failed, summary.Total)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
