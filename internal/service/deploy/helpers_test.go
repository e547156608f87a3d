package deploy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/qt-deploy/internal/config"
	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/toolrunner"
)

// fakeInvoker records invocations and fails on demand, substituting for
// real subprocesses in stage tests.
type fakeInvoker struct {
	calls  []toolrunner.Command
	errors map[string]error
	output string
}

func (f *fakeInvoker) Run(_ context.Context, cmd toolrunner.Command) (string, error) {
	f.calls = append(f.calls, cmd)

	if err, ok := f.errors[cmd.Path]; ok {
		return f.output, err
	}

	return f.output, nil
}

// newTestPipeline builds a pipeline rooted in a temp source tree.
func newTestPipeline(t *testing.T, request release.Request, invoker toolrunner.Invoker) *pipeline {
	t.Helper()

	sourceDir := t.TempDir()

	info := release.NewAppInfo("POI Navigator", "POINAV", "Lima Ltd")
	v, ok := release.ParseVersion("1.2.3")
	require.True(t, ok)

	info.Version = v

	return &pipeline{
		cfg:     config.Default(),
		paths:   config.ResolvePaths(config.Overrides{SourceDir: sourceDir}, info),
		info:    info,
		request: request,
		invoker: invoker,
	}
}

// writeFile creates a file with parents, for staging fixtures.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
