package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/toolrunner"
)

// errNoStagedExecutable signals that deployqt has nothing to scan.
var errNoStagedExecutable = errors.New("no staged executable found, run copy-exe first")

// deployQtPrecheck requires the staged executable to exist before any
// external tool is launched.
func (p *pipeline) deployQtPrecheck(_ context.Context) error {
	staged := p.paths.StagedExecutable(p.info)

	if _, err := os.Stat(staged); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return configError(release.StageDeployQt,
				fmt.Errorf("%w: %s", errNoStagedExecutable, staged))
		}

		return configError(release.StageDeployQt, err)
	}

	return nil
}

// deployQt runs the dependency-gathering tool against the staged executable
// so the runtime libraries and plugins land in the installer-data tree.
func (p *pipeline) deployQt(ctx context.Context) (string, error) {
	args := []string{"--release"}
	if p.paths.QMLDir != "" {
		args = append(args, "--qmldir", p.paths.QMLDir)
	}

	args = append(args, p.paths.StagedExecutable(p.info))

	return p.invoker.Run(ctx, toolrunner.Command{
		Path:        p.cfg.Tools.DeployQt,
		Args:        args,
		Description: "gather runtime dependencies",
	})
}

// buildInstallerPrecheck requires the installer configuration and the
// package tree before the builder is launched.
func (p *pipeline) buildInstallerPrecheck(_ context.Context) error {
	if err := requirePath(release.StageBuildInstaller,
		"installer config file", p.paths.InstallerConfigFile()); err != nil {
		return err
	}

	return requirePath(release.StageBuildInstaller, "package tree", p.paths.PackagesDir)
}

// buildInstaller produces the output installer from the prepared package tree.
func (p *pipeline) buildInstaller(ctx context.Context) (string, error) {
	return p.invoker.Run(ctx, toolrunner.Command{
		Path: p.cfg.Tools.BinaryCreator,
		Args: []string{
			"--offline-only",
			"-c", p.paths.InstallerConfigFile(),
			"-p", p.paths.PackagesDir,
			p.paths.Output,
		},
		Description: "build installer",
	})
}
