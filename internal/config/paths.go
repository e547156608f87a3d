package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/oshokin/qt-deploy/internal/domain/release"
)

// Overrides carries explicit path replacements from the command line.
// An override replaces its default unconditionally; empty means "use the default".
type Overrides struct {
	SourceDir     string
	BuildExe      string
	InstallerData string
	Output        string
	RepoDir       string
	VersionHeader string
	QMLDir        string
}

// Paths maps every logical path role to a resolved filesystem location.
// Resolution never checks existence: a missing path irrelevant to the
// requested stages must not block a run.
type Paths struct {
	// SourceDir is the project source tree all defaults derive from.
	SourceDir string
	// BuildExe is the compiled executable produced by the build.
	BuildExe string
	// InstallerRoot holds installer configuration, packages and output.
	InstallerRoot string
	// PackagesDir is the package tree consumed by the installer tools.
	PackagesDir string
	// InstallerData is the staging tree whose contents become the
	// installer's embedded package payload.
	InstallerData string
	// ConfigDir holds the installer configuration (config.xml).
	ConfigDir string
	// Output is the produced installer binary, templated with the version.
	Output string
	// RepoDir is the online update repository directory.
	RepoDir string
	// VersionHeader is the C header scanned for application macros.
	VersionHeader string
	// QMLDir is the QML root passed to the deployment tool.
	QMLDir string
}

// VersionHeaderPath resolves the header location before the rest of the
// paths: the version read from it feeds installer naming.
func VersionHeaderPath(sourceDir, override string) string {
	if override != "" {
		return override
	}

	if sourceDir == "" {
		sourceDir = "."
	}

	return filepath.Join(sourceDir, "version.h")
}

// ResolvePaths overlays CLI overrides onto defaults derived from the source
// directory and the resolved application info.
func ResolvePaths(overrides Overrides, info release.AppInfo) Paths {
	sourceDir := overrides.SourceDir
	if sourceDir == "" {
		sourceDir = "."
	}

	installerRoot := filepath.Join(sourceDir, "installers")
	packagesDir := filepath.Join(installerRoot, "packages")

	p := Paths{
		SourceDir:     sourceDir,
		BuildExe:      overrides.BuildExe,
		InstallerRoot: installerRoot,
		PackagesDir:   packagesDir,
		InstallerData: overrides.InstallerData,
		ConfigDir:     filepath.Join(installerRoot, "config"),
		Output:        overrides.Output,
		RepoDir:       overrides.RepoDir,
		VersionHeader: VersionHeaderPath(sourceDir, overrides.VersionHeader),
		QMLDir:        overrides.QMLDir,
	}

	if p.BuildExe == "" {
		p.BuildExe = filepath.Join(sourceDir, "x64", "Release", exeName(info.AppName))
	}

	if p.InstallerData == "" {
		p.InstallerData = filepath.Join(packagesDir, info.PackageID(), "data")
	}

	if p.Output == "" {
		p.Output = filepath.Join(installerRoot, info.InstallerBaseName()+ExecutableExtension())
	}

	if p.RepoDir == "" {
		p.RepoDir = filepath.Join(installerRoot, "repository")
	}

	if p.QMLDir == "" {
		p.QMLDir = sourceDir
	}

	return p
}

// StagedExecutable is the target path of the copy-exe stage inside the
// installer-data tree; deployqt operates on the same file.
func (p Paths) StagedExecutable(info release.AppInfo) string {
	return filepath.Join(p.InstallerData, exeName(info.AppName))
}

// InstallerConfigFile is the configuration consumed by the installer builder.
func (p Paths) InstallerConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.xml")
}

// PackageMetaDir is the metadata directory of the application package.
func (p Paths) PackageMetaDir(info release.AppInfo) string {
	return filepath.Join(p.PackagesDir, info.PackageID(), "meta")
}

// ExecutableExtension returns ".exe" on Windows and "" elsewhere.
func ExecutableExtension() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return ".exe"
	}

	return ""
}

// exeName renders the staged executable file name for the application.
func exeName(appName string) string {
	if appName == "" {
		appName = "app"
	}

	return appName + ExecutableExtension()
}
