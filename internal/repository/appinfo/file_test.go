package appinfo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/qt-deploy/internal/domain/release"
)

func writeHeader(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "version.h")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

// TestLoadResolvesMacros extracts version, name and organization from the header.
func TestLoadResolvesMacros(t *testing.T) {
	t.Parallel()

	path := writeHeader(t, `
#pragma once
#define APP_VERSION "2.3.1"
#define APP_NAME "POI Navigator"
#define APP_ORGANIZATION "Lima Ltd"
`)

	repo := NewFileRepository(path, release.NewAppInfo("Fallback", "FB", "Nobody"))
	info := repo.Load(context.Background())

	require.True(t, info.Version.IsSemVer())
	require.Equal(t, 2, info.Version.Major)
	require.Equal(t, 3, info.Version.Minor)
	require.Equal(t, 1, info.Version.Patch)
	require.Equal(t, "POI Navigator", info.AppName)
	require.Equal(t, "Lima Ltd", info.Company)
}

// TestLoadFirstMatchWins ignores later redefinitions of the same macro.
func TestLoadFirstMatchWins(t *testing.T) {
	t.Parallel()

	path := writeHeader(t, `
#define APP_VERSION "1.2.3"
#define APP_VERSION "9.9.9"
`)

	repo := NewFileRepository(path, release.NewAppInfo("App", "APP", ""))
	info := repo.Load(context.Background())
	require.Equal(t, "1.2.3", info.Version.String())
}

// TestLoadMissingHeaderFallsBack never fails the run on a missing file.
func TestLoadMissingHeaderFallsBack(t *testing.T) {
	t.Parallel()

	defaults := release.NewAppInfo("Fallback", "FB", "Nobody")
	repo := NewFileRepository(filepath.Join(t.TempDir(), "absent.h"), defaults)

	info := repo.Load(context.Background())
	require.Equal(t, defaults.AppName, info.AppName)
	require.Equal(t, release.DefaultVersion().String(), info.Version.String())
}

// TestLoadCustomLabel keeps a non-semver literal as a raw label.
func TestLoadCustomLabel(t *testing.T) {
	t.Parallel()

	path := writeHeader(t, `#define APP_VERSION "2024-nightly"`)

	repo := NewFileRepository(path, release.NewAppInfo("App", "APP", ""))
	info := repo.Load(context.Background())

	require.False(t, info.Version.IsSemVer())
	require.Equal(t, "2024-nightly", info.Version.String())
}

// TestLoadNoMacros warns and keeps all defaults.
func TestLoadNoMacros(t *testing.T) {
	t.Parallel()

	path := writeHeader(t, "#pragma once\n")

	defaults := release.NewAppInfo("Fallback", "FB", "Nobody")
	repo := NewFileRepository(path, defaults)

	info := repo.Load(context.Background())
	require.Equal(t, defaults.AppName, info.AppName)
	require.Equal(t, defaults.Company, info.Company)
	require.Equal(t, defaults.Version.String(), info.Version.String())
}
