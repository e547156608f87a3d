package deploy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/toolrunner"
)

// TestExecuteRunsOnlyRequestedStages: with {copy-resources, deployqt} only,
// clean, copy-exe and both repository stages never execute and their
// directories stay untouched.
func TestExecuteRunsOnlyRequestedStages(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	p := newTestPipeline(t, release.NewRequest(release.StageCopyResources, release.StageDeployQt), invoker)

	writeFile(t, filepath.Join(p.paths.SourceDir, "img", "icon.png"), "icon")

	// Staged executable present so the deployqt precheck passes.
	writeFile(t, p.paths.StagedExecutable(p.info), "staged binary")

	require.NoError(t, p.execute(context.Background()))

	require.Len(t, p.results, 2)
	require.Equal(t, release.StageCopyResources, p.results[0].Stage)
	require.Equal(t, release.StageDeployQt, p.results[1].Stage)
	require.True(t, p.results[0].OK)
	require.True(t, p.results[1].OK)

	// Only the deployment tool ran.
	require.Len(t, invoker.calls, 1)
	require.Equal(t, p.cfg.Tools.DeployQt, invoker.calls[0].Path)
	require.Contains(t, invoker.calls[0].Args, p.paths.StagedExecutable(p.info))

	// The staged binary survived: clean never ran.
	contents, err := os.ReadFile(p.paths.StagedExecutable(p.info))
	require.NoError(t, err)
	require.Equal(t, "staged binary", string(contents))

	// The repository directory was never created.
	_, err = os.Stat(p.paths.RepoDir)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestExecuteFailFast halts at the first failing stage; completed stages
// keep their results and later stages never run.
func TestExecuteFailFast(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{output: "cannot find qml imports"}
	p := newTestPipeline(t, release.NewRequest(
		release.StageCopyResources,
		release.StageDeployQt,
		release.StageBuildInstaller,
	), invoker)
	invoker.errors = map[string]error{
		p.cfg.Tools.DeployQt: &toolrunner.ExitError{
			Tool:   p.cfg.Tools.DeployQt,
			Code:   1,
			Output: "cannot find qml imports",
		},
	}

	writeFile(t, filepath.Join(p.paths.SourceDir, "img", "icon.png"), "icon")
	writeFile(t, p.paths.StagedExecutable(p.info), "staged binary")

	err := p.execute(context.Background())
	require.Error(t, err)

	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, KindToolFailure, stageErr.Kind)
	require.Equal(t, release.StageDeployQt, stageErr.Stage)

	// copy-resources completed, deployqt failed, build-installer never ran.
	require.Len(t, p.results, 2)
	require.True(t, p.results[0].OK)
	require.False(t, p.results[1].OK)

	// The captured tool diagnostic is surfaced verbatim.
	require.Contains(t, p.results[1].Output, "cannot find qml imports")

	// The installer builder was never invoked.
	require.Len(t, invoker.calls, 1)

	require.Equal(t, 5, ExitCode(err))
}

// TestDeployQtWithoutStagedExecutable fails before any tool is launched.
func TestDeployQtWithoutStagedExecutable(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	p := newTestPipeline(t, release.NewRequest(release.StageDeployQt), invoker)

	err := p.execute(context.Background())
	require.Error(t, err)

	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, KindConfig, stageErr.Kind)
	require.Empty(t, invoker.calls)
}

// TestClassifyLaunchError keeps the misconfigured-environment distinction.
func TestClassifyLaunchError(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	p := newTestPipeline(t, release.NewRequest(release.StageDeployQt), invoker)
	invoker.errors = map[string]error{
		p.cfg.Tools.DeployQt: &toolrunner.LaunchError{
			Tool: p.cfg.Tools.DeployQt,
			Err:  os.ErrNotExist,
		},
	}

	writeFile(t, p.paths.StagedExecutable(p.info), "staged binary")

	err := p.execute(context.Background())

	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, KindToolLaunch, stageErr.Kind)
	require.Equal(t, 4, ExitCode(err))
}

// TestBuildInstallerArguments passes the config, package tree and output path.
func TestBuildInstallerArguments(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	p := newTestPipeline(t, release.NewRequest(release.StageBuildInstaller), invoker)

	writeFile(t, p.paths.InstallerConfigFile(), "<Installer/>")
	require.NoError(t, os.MkdirAll(p.paths.PackagesDir, 0o755))

	require.NoError(t, p.execute(context.Background()))

	require.Len(t, invoker.calls, 1)
	call := invoker.calls[0]
	require.Equal(t, p.cfg.Tools.BinaryCreator, call.Path)
	require.Contains(t, call.Args, "--offline-only")
	require.Contains(t, call.Args, p.paths.InstallerConfigFile())
	require.Contains(t, call.Args, p.paths.PackagesDir)
	require.Contains(t, call.Args, p.paths.Output)
}

// TestExitCode maps every failure category to a distinct code.
func TestExitCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 2, ExitCode(&Error{Kind: KindConfig, Err: os.ErrNotExist}))
	require.Equal(t, 3, ExitCode(&Error{Kind: KindStaging, Err: os.ErrPermission}))
	require.Equal(t, 4, ExitCode(&Error{Kind: KindToolLaunch, Err: os.ErrNotExist}))
	require.Equal(t, 5, ExitCode(&Error{Kind: KindToolFailure, Err: os.ErrInvalid}))
	require.Equal(t, 1, ExitCode(os.ErrClosed))
}
