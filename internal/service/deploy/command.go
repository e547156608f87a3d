package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oshokin/qt-deploy/internal/config"
	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/logger"
	"github.com/oshokin/qt-deploy/internal/repository/appinfo"
	"github.com/oshokin/qt-deploy/internal/toolrunner"
)

// Options contains inputs for the pipeline entry point.
type Options struct {
	// ConfigPath is an optional path to the settings profile. When empty,
	// the default profile is used if it exists; built-in defaults otherwise.
	ConfigPath string
	// Request is the set of stages to run; empty means every stage
	// except update-repo.
	Request release.Request
	// VersionOverride, when set, wins over header-derived and default versions.
	VersionOverride string
	// Paths carries explicit path overrides from the command line.
	Paths config.Overrides
}

// pipeline holds the immutable per-run configuration and the aggregated
// stage results for the lifetime of one invocation.
type pipeline struct {
	cfg     *config.Config
	paths   config.Paths
	info    release.AppInfo
	request release.Request
	invoker toolrunner.Invoker
	results []release.Result
}

// Run executes the deployment pipeline and returns the per-stage results.
// Map the returned error to an exit code with ExitCode.
func Run(ctx context.Context, opts *Options) ([]release.Result, error) {
	ctx = logger.WithName(ctx, "qt-deploy")
	start := time.Now()

	logger.Info(ctx, "Starting deployment process")

	p, err := newPipeline(ctx, opts, toolrunner.ExecInvoker{})
	if err != nil {
		logger.ErrorKV(ctx, "Deployment could not start", "error", err)
		return nil, err
	}

	runErr := p.execute(ctx)
	p.logSummary(ctx, start, runErr)

	return p.results, runErr
}

// newPipeline resolves settings, stage request, application info and paths
// into an immutable pipeline value. All validation here happens before any
// filesystem side effect.
func newPipeline(ctx context.Context, opts *Options, invoker toolrunner.Invoker) (*pipeline, error) {
	cfg, err := loadSettings(ctx, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	request := opts.Request
	if len(request) == 0 {
		logger.Info(ctx, "No actions specified, defaulting to all stages")

		request = release.AllStages()
	}

	if err = request.Validate(); err != nil {
		return nil, &Error{Kind: KindConfig, Err: err}
	}

	info := resolveAppInfo(ctx, cfg, opts)
	paths := config.ResolvePaths(opts.Paths, info)

	logger.InfoKV(ctx, "Using application version", "version", info.Version.String())

	return &pipeline{
		cfg:     cfg,
		paths:   paths,
		info:    info,
		request: request,
		invoker: invoker,
	}, nil
}

// loadSettings reads the settings profile. A missing default profile is not
// an error; a missing explicitly requested one is.
func loadSettings(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.Load(config.DefaultConfigFilename)
		if errors.Is(err, os.ErrNotExist) {
			logger.DebugKV(ctx, "No settings profile found, using built-in defaults",
				"path", config.DefaultConfigFilename)

			return config.Default(), nil
		}

		if err != nil {
			return nil, &Error{Kind: KindConfig, Err: err}
		}

		return cfg, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Err: err}
	}

	return cfg, nil
}

// resolveAppInfo overlays the version header onto profile defaults and
// applies the explicit version override, which always wins.
func resolveAppInfo(ctx context.Context, cfg *config.Config, opts *Options) release.AppInfo {
	defaults := release.NewAppInfo(cfg.AppName, cfg.AppShortName, cfg.Company)
	headerPath := config.VersionHeaderPath(opts.Paths.SourceDir, opts.Paths.VersionHeader)

	info := appinfo.NewFileRepository(headerPath, defaults).Load(ctx)

	if opts.VersionOverride != "" {
		v, ok := release.ParseVersion(opts.VersionOverride)
		if !ok {
			logger.WarnKV(ctx, "Version override is not a x.y.z literal, keeping it as a label",
				"value", opts.VersionOverride)
		}

		info.Version = v

		logger.InfoKV(ctx, "Using explicit version override", "version", info.Version.String())
	}

	if info.AppName == "" {
		info.AppName = "app"
	}

	if info.ShortName == "" {
		info.ShortName = strings.ToUpper(strings.ReplaceAll(info.AppName, " ", ""))
	}

	return info
}

// record appends an immutable stage result.
func (p *pipeline) record(stage release.Stage, ok bool, message, output string) {
	p.results = append(p.results, release.Result{
		Stage:   stage,
		OK:      ok,
		Message: message,
		Output:  output,
	})
}

// logSummary writes the per-stage outcomes and the overall verdict. It runs
// whether or not the pipeline failed, so the log always ends with a summary.
func (p *pipeline) logSummary(ctx context.Context, start time.Time, runErr error) {
	executed, failed := 0, 0

	for _, res := range p.results {
		executed++

		if res.OK {
			logger.InfoKV(ctx, "Stage summary",
				"stage", string(res.Stage), "result", "ok", "message", res.Message)

			continue
		}

		failed++

		logger.ErrorKV(ctx, "Stage summary",
			"stage", string(res.Stage), "result", "failed", "message", res.Message)

		if output := strings.TrimSpace(res.Output); output != "" {
			logger.ErrorKV(ctx, "Tool output", "stage", string(res.Stage), "output", output)
		}
	}

	host, user := detectActor(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	if runErr != nil {
		logger.ErrorKV(ctx, "Deployment failed",
			"stages_executed", executed,
			"stages_failed", failed,
			"elapsed", elapsed.String(),
			"host", host,
			"user", user,
			"error", runErr)

		return
	}

	logger.InfoKV(ctx, fmt.Sprintf("Deployment process completed in %s", elapsed),
		"stages_executed", executed,
		"host", host,
		"user", user)
}
