package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/logger"
	"github.com/oshokin/qt-deploy/internal/toolrunner"
)

// stageSpec describes one pipeline stage: its identifier, an optional
// precondition check that must not cause side effects, the action itself,
// and the message recorded on success.
type stageSpec struct {
	stage    release.Stage
	precheck func(ctx context.Context) error
	run      func(ctx context.Context) (string, error)
	success  string
}

// specs returns the stage descriptors in the fixed dependency order.
func (p *pipeline) specs() []stageSpec {
	return []stageSpec{
		{
			stage:   release.StageClean,
			run:     p.clean,
			success: "installer data directory cleaned",
		},
		{
			stage:    release.StageCopyExe,
			precheck: p.copyExecutablePrecheck,
			run:      p.copyExecutable,
			success:  "built executable staged",
		},
		{
			stage:   release.StageCopyResources,
			run:     p.copyResources,
			success: "resource folders copied",
		},
		{
			stage:   release.StageUpdateConfigs,
			run:     p.updateConfigs,
			success: "installer metadata updated",
		},
		{
			stage:    release.StageDeployQt,
			precheck: p.deployQtPrecheck,
			run:      p.deployQt,
			success:  "runtime dependencies gathered",
		},
		{
			stage:    release.StageBuildInstaller,
			precheck: p.buildInstallerPrecheck,
			run:      p.buildInstaller,
			success:  "installer built",
		},
		{
			stage:    release.StageGenerateRepo,
			precheck: p.generateRepoPrecheck,
			run:      p.generateRepo,
			success:  "online repository generated",
		},
		{
			stage:    release.StageUpdateRepo,
			precheck: p.updateRepoPrecheck,
			run:      p.updateRepo,
			success:  "online repository updated",
		},
	}
}

// execute runs the requested stages in order with a fail-fast policy:
// the first failure halts the pipeline, already completed stages keep
// their results. Stages not requested are skipped, never reordered.
func (p *pipeline) execute(ctx context.Context) error {
	for _, spec := range p.specs() {
		if !p.request.Has(spec.stage) {
			logger.DebugKV(ctx, "Stage skipped", "stage", string(spec.stage))
			continue
		}

		stageCtx := logger.WithKV(ctx, "stage", string(spec.stage))
		logger.Info(stageCtx, "Stage started")

		if spec.precheck != nil {
			if err := spec.precheck(stageCtx); err != nil {
				p.record(spec.stage, false, err.Error(), "")
				logger.ErrorKV(stageCtx, "Stage failed", "error", err)

				return err
			}
		}

		output, err := spec.run(stageCtx)
		if err != nil {
			err = p.classify(spec.stage, err)
			p.record(spec.stage, false, err.Error(), output)
			logger.ErrorKV(stageCtx, "Stage failed", "error", err)

			if trimmed := strings.TrimSpace(output); trimmed != "" {
				logger.ErrorKV(stageCtx, "Tool output", "output", trimmed)
			}

			return err
		}

		p.record(spec.stage, true, spec.success, output)
		logger.Info(stageCtx, "Stage completed")
	}

	return nil
}

// classify wraps a stage action error with its failure category.
// Tool invocation errors keep their launch/exit distinction; anything
// else from a stage action is a staging failure.
func (p *pipeline) classify(stage release.Stage, err error) error {
	var stageErr *Error
	if errors.As(err, &stageErr) {
		return err
	}

	var launchErr *toolrunner.LaunchError
	if errors.As(err, &launchErr) {
		return &Error{Kind: KindToolLaunch, Stage: stage, Err: err}
	}

	var exitErr *toolrunner.ExitError
	if errors.As(err, &exitErr) {
		return &Error{Kind: KindToolFailure, Stage: stage, Err: err}
	}

	return stagingError(stage, err)
}

// requirePath fails a stage before it runs when a path it depends on is absent.
func requirePath(stage release.Stage, role, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return configError(stage, fmt.Errorf("%s does not exist: %s", role, path))
		}

		return configError(stage, fmt.Errorf("%s: %w", role, err))
	}

	return nil
}
