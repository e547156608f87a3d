package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/logger"
	"github.com/oshokin/qt-deploy/internal/toolrunner"
)

// repoMarkerFilename is the file the repository tool writes at the root of
// every valid repository; its presence distinguishes Present from Absent.
const repoMarkerFilename = "Updates.xml"

// errRepositoryAbsent means update-repo was requested against a directory
// that holds no repository. Updating what does not exist is a defined failure.
var errRepositoryAbsent = errors.New("no repository found, run generate-repo first")

// repositoryPresent reports whether repoDir contains a valid repository structure.
func (p *pipeline) repositoryPresent() bool {
	_, err := os.Stat(filepath.Join(p.paths.RepoDir, repoMarkerFilename))
	return err == nil
}

// generateRepoPrecheck requires the package tree the repository is built from.
func (p *pipeline) generateRepoPrecheck(_ context.Context) error {
	return requirePath(release.StageGenerateRepo, "package tree", p.paths.PackagesDir)
}

// generateRepo creates the online repository from scratch. Replacing an
// existing repository is intentional and destructive, and is logged as such;
// previously shipped version history does not survive a generate.
func (p *pipeline) generateRepo(ctx context.Context) (string, error) {
	if p.repositoryPresent() {
		logger.WarnKV(ctx, "Replacing existing repository", "path", p.paths.RepoDir)

		if err := os.RemoveAll(p.paths.RepoDir); err != nil {
			return "", stagingError(release.StageGenerateRepo,
				fmt.Errorf("remove existing repository: %w", err))
		}
	}

	if err := os.MkdirAll(p.paths.RepoDir, defaultDirMode); err != nil {
		return "", stagingError(release.StageGenerateRepo,
			fmt.Errorf("create repository directory: %w", err))
	}

	return p.invoker.Run(ctx, toolrunner.Command{
		Path: p.cfg.Tools.Repogen,
		Args: []string{
			"-p", p.paths.PackagesDir,
			p.paths.RepoDir,
		},
		Description: "generate online repository",
	})
}

// updateRepoPrecheck requires both the package tree and an existing
// repository; the check runs before the tool is launched.
func (p *pipeline) updateRepoPrecheck(_ context.Context) error {
	if err := requirePath(release.StageUpdateRepo, "package tree", p.paths.PackagesDir); err != nil {
		return err
	}

	if !p.repositoryPresent() {
		return configError(release.StageUpdateRepo,
			fmt.Errorf("%w: %s", errRepositoryAbsent, p.paths.RepoDir))
	}

	return nil
}

// updateRepo extends the existing repository with the components present in
// the package tree. The operation is strictly additive/overwriting: components
// not targeted by the current package tree keep their version history, which
// is how previously shipped versions stay downloadable.
func (p *pipeline) updateRepo(ctx context.Context) (string, error) {
	return p.invoker.Run(ctx, toolrunner.Command{
		Path: p.cfg.Tools.Repogen,
		Args: []string{
			"--update-new-components",
			"-p", p.paths.PackagesDir,
			p.paths.RepoDir,
		},
		Description: "update online repository",
	})
}
