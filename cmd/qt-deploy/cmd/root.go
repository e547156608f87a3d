package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oshokin/qt-deploy/internal/config"
	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/logger"
	"github.com/oshokin/qt-deploy/internal/service/deploy"
	"github.com/oshokin/qt-deploy/internal/version"
)

var (
	// configPath to the settings profile YAML file.
	configPath string
	// logLevel controls logging verbosity.
	logLevel string
	// logFile is where the plain-text run log is written.
	logFile string
	// versionOverride wins over the version header when set.
	versionOverride string

	// Action flags; each maps 1:1 to a pipeline stage.
	flagClean          bool
	flagCopyExe        bool
	flagCopyResources  bool
	flagUpdateConfigs  bool
	flagDeployQt       bool
	flagBuildInstaller bool
	flagGenerateRepo   bool
	flagUpdateRepo     bool
	flagAll            bool

	// overrides carries explicit path replacements.
	overrides config.Overrides

	// rootCmd represents the base command running the deployment pipeline.
	rootCmd = &cobra.Command{
		Use:   "qt-deploy",
		Short: "Build and deploy a Qt application installer.",
		Long: `Automates turning a compiled Qt application into a distributable installer
and, optionally, into a versioned online update repository.

Stages run in a fixed order: clean, copy-exe, copy-resources, update-configs,
deployqt, build-installer, then generate-repo or update-repo. Action flags
select which stages run; with no action flags every stage except update-repo
runs. Updating an existing public repository is always an explicit opt-in.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			setupLogger()

			options := &deploy.Options{
				ConfigPath:      configPath,
				Request:         buildRequest(),
				VersionOverride: versionOverride,
				Paths:           overrides,
			}

			_, err := deploy.Run(ctx, options)

			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the qt-deploy CLI and exits with a category-specific
// non-zero status on failure.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(deploy.ExitCode(err))
	}
}

// setupLogger rebuilds the global logger with the requested level and the
// run log file sink.
func setupLogger() {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		logger.Warnf(context.Background(), "Unknown log level %q, using info", logLevel)
	}

	logger.SetLogger(logger.New(zap.NewAtomicLevelAt(level), logger.WithRunLogFile(logFile)))
}

// buildRequest translates action flags into the requested stage set.
// An empty set makes the pipeline default to all stages.
func buildRequest() release.Request {
	request := release.NewRequest()
	if flagAll {
		request = release.AllStages()
	}

	add := func(enabled bool, stage release.Stage) {
		if enabled {
			request[stage] = struct{}{}
		}
	}

	add(flagClean, release.StageClean)
	add(flagCopyExe, release.StageCopyExe)
	add(flagCopyResources, release.StageCopyResources)
	add(flagUpdateConfigs, release.StageUpdateConfigs)
	add(flagDeployQt, release.StageDeployQt)
	add(flagBuildInstaller, release.StageBuildInstaller)
	add(flagGenerateRepo, release.StageGenerateRepo)
	add(flagUpdateRepo, release.StageUpdateRepo)

	return request
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.Flags()

	flags.BoolVar(&flagClean, "clean", false, "clean the installer data directory")
	flags.BoolVar(&flagCopyExe, "copy-exe", false, "copy the built executable into the staging tree")
	flags.BoolVar(&flagCopyResources, "copy-resources", false, "copy resource folders into the staging tree")
	flags.BoolVar(&flagUpdateConfigs, "update-configs", false, "update installer metadata from the version header")
	flags.BoolVar(&flagDeployQt, "deployqt", false, "gather runtime dependencies with the deployment tool")
	flags.BoolVar(&flagBuildInstaller, "build-installer", false, "build the installer binary")
	flags.BoolVar(&flagGenerateRepo, "generate-repo", false, "generate the online repository from scratch")
	flags.BoolVar(&flagUpdateRepo, "update-repo", false, "update an existing repository with new components")
	flags.BoolVar(&flagAll, "all", false, "perform all actions except update-repo (default when no action given)")

	flags.StringVar(&overrides.SourceDir, "source-dir", "", "source directory (default: current directory)")
	flags.StringVar(&overrides.BuildExe, "build-exe", "", "built executable path")
	flags.StringVar(&overrides.InstallerData, "installer-data", "", "installer data directory")
	flags.StringVar(&overrides.Output, "output", "", "output installer path (default templated with the version)")
	flags.StringVar(&overrides.RepoDir, "repo-dir", "", "online repository directory")
	flags.StringVar(&overrides.VersionHeader, "version-header", "", "path to the version header file")
	flags.StringVar(&overrides.QMLDir, "qml-dir", "", "QML directory for the deployment tool")

	flags.StringVar(&versionOverride, "version", "", "version for the installer (default: from the version header)")
	flags.StringVarP(&configPath, "config", "c", "", "path to the settings profile")
	flags.StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", config.DefaultRunLogFilename, "path of the plain-text run log")
}
