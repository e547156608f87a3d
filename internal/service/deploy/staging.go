package deploy

import (
	"bytes"
	"context"
	"crypto"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/mitchellh/go-ps"

	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/logger"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// defaultFileMode is used for staged distribution artifacts.
	defaultFileMode os.FileMode = 0o755
	// defaultDirMode is used when creating staging directories.
	defaultDirMode os.FileMode = 0o755

	// defaultChecksumFunction verifies staged copies byte for byte.
	defaultChecksumFunction crypto.Hash = crypto.SHA512
)

// clean empties the installer-data directory, creating it when absent.
// Removal failures (permissions, file in use) are reported, not swallowed.
func (p *pipeline) clean(ctx context.Context) (string, error) {
	p.warnIfExecutableRunning(ctx)

	dir := p.paths.InstallerData

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(dir, defaultDirMode); err != nil {
				return "", stagingError(release.StageClean, fmt.Errorf("create %s: %w", dir, err))
			}

			logger.InfoKV(ctx, "Created installer data directory", "path", dir)

			return "", nil
		}

		return "", stagingError(release.StageClean, fmt.Errorf("read %s: %w", dir, err))
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err = os.RemoveAll(path); err != nil {
			return "", stagingError(release.StageClean, fmt.Errorf("remove %s: %w", path, err))
		}
	}

	logger.InfoKV(ctx, "Cleaned installer data directory", "path", dir, "entries", len(entries))

	return "", nil
}

// copyExecutablePrecheck fails fast when the built executable is missing,
// before anything is written.
func (p *pipeline) copyExecutablePrecheck(_ context.Context) error {
	return requirePath(release.StageCopyExe, "built executable", p.paths.BuildExe)
}

// copyExecutable stages the built binary under the application name,
// verifying the copy against a SHA-512 checksum of the source. Re-running
// with the same inputs yields the same resulting file.
func (p *pipeline) copyExecutable(ctx context.Context) (string, error) {
	target := p.paths.StagedExecutable(p.info)

	if err := os.MkdirAll(filepath.Dir(target), defaultDirMode); err != nil {
		return "", stagingError(release.StageCopyExe, fmt.Errorf("create staging directory: %w", err))
	}

	data, err := os.ReadFile(p.paths.BuildExe)
	if err != nil {
		return "", stagingError(release.StageCopyExe, fmt.Errorf("read %s: %w", p.paths.BuildExe, err))
	}

	hasher := defaultChecksumFunction.New()
	if _, err = hasher.Write(data); err != nil {
		return "", stagingError(release.StageCopyExe, fmt.Errorf("calculate checksum: %w", err))
	}

	// go-update replaces through a temp file, so a half-written target
	// never shadows a previous good copy.
	if _, err = os.Stat(target); errors.Is(err, os.ErrNotExist) {
		var placeholder *os.File

		placeholder, err = os.Create(filepath.Clean(target))
		if err != nil {
			return "", stagingError(release.StageCopyExe, fmt.Errorf("create %s: %w", target, err))
		}

		if err = placeholder.Close(); err != nil {
			return "", stagingError(release.StageCopyExe, err)
		}
	}

	applyOptions := goupdate.Options{
		TargetPath: target,
		TargetMode: defaultFileMode,
		Checksum:   hasher.Sum(nil),
		Hash:       defaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), applyOptions); err != nil {
		return "", stagingError(release.StageCopyExe, fmt.Errorf("stage executable: %w", err))
	}

	// go-update keeps the previous binary around; the staging tree must not
	// ship it inside the installer payload.
	if _, err = os.Stat(target + ".old"); err == nil {
		_ = os.Remove(target + ".old")
	}

	logger.InfoKV(ctx, "Staged executable", "source", p.paths.BuildExe, "target", target)

	return "", nil
}

// copyResources merges the configured resource folders into the staging
// tree: same relative paths are overwritten, unrelated existing files stay.
// A missing source folder is a per-folder warning, not a run failure.
func (p *pipeline) copyResources(ctx context.Context) (string, error) {
	if err := os.MkdirAll(p.paths.InstallerData, defaultDirMode); err != nil {
		return "", stagingError(release.StageCopyResources, fmt.Errorf("create staging directory: %w", err))
	}

	for _, folder := range p.cfg.ResourceFolders {
		source := filepath.Join(p.paths.SourceDir, folder)

		if _, err := os.Stat(source); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.WarnKV(ctx, "Resource folder not found, skipping", "path", source)
				continue
			}

			return "", stagingError(release.StageCopyResources, fmt.Errorf("stat %s: %w", source, err))
		}

		target := filepath.Join(p.paths.InstallerData, folder)
		if err := copyTree(source, target); err != nil {
			return "", stagingError(release.StageCopyResources,
				fmt.Errorf("copy %s: %w", folder, err))
		}

		logger.InfoKV(ctx, "Copied resource folder", "from", source, "to", target)
	}

	return "", nil
}

// copyTree recursively copies src into dst with merge semantics.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, defaultDirMode)
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return err
		}

		return os.WriteFile(target, data, info.Mode().Perm())
	})
}

// warnIfExecutableRunning surfaces the most common cause of staging failures
// on Windows up front: the application still running out of the staging tree.
func (p *pipeline) warnIfExecutableRunning(ctx context.Context) {
	processes, err := ps.Processes()
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	name := filepath.Base(p.paths.StagedExecutable(p.info))

	for _, process := range processes {
		if process.Executable() != name {
			continue
		}

		logger.WarnKV(ctx, "A process matching the staged executable is running, staging may fail",
			"process", name, "pid", process.Pid())

		return
	}
}
