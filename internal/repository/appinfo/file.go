package appinfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/oshokin/qt-deploy/internal/domain/release"
	"github.com/oshokin/qt-deploy/internal/logger"
)

// Repository resolves application metadata for a run.
type Repository interface {
	Load(ctx context.Context) release.AppInfo
}

// FileRepository reads application metadata from a C version header.
// First match wins for each macro; later definitions are ignored.
type FileRepository struct {
	// path is the filesystem location of the version header.
	path string
	// defaults are returned (possibly partially) when the header
	// is missing or macros are absent.
	defaults release.AppInfo
}

var (
	versionMacroPattern = regexp.MustCompile(`#define\s+APP_VERSION\s+"([^"]+)"`)
	nameMacroPattern    = regexp.MustCompile(`#define\s+APP_NAME\s+"([^"]+)"`)
	orgMacroPattern     = regexp.MustCompile(`#define\s+APP_ORGANIZATION\s+"([^"]+)"`)
)

// NewFileRepository creates a repository reading the header at the provided path.
func NewFileRepository(path string, defaults release.AppInfo) *FileRepository {
	return &FileRepository{
		path:     filepath.Clean(path),
		defaults: defaults,
	}
}

// Load scans the header and overlays found macros onto the defaults.
// Every fallback is logged at warning level; Load itself never fails the run.
func (r *FileRepository) Load(ctx context.Context) release.AppInfo {
	info := r.defaults

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WarnKV(ctx, "Version header not found, using defaults", "path", r.path)
		} else {
			logger.WarnKV(ctx, "Unable to read version header, using defaults",
				"path", r.path, "error", err)
		}

		return info
	}

	if match := versionMacroPattern.FindSubmatch(contents); match != nil {
		raw := string(match[1])

		resolved, ok := release.ParseVersion(raw)
		if ok {
			logger.InfoKV(ctx, "Found application version", "version", resolved.String())
		} else {
			// A custom label still flows through to installer naming,
			// just not to structured comparisons.
			logger.WarnKV(ctx, "APP_VERSION is not a x.y.z literal, keeping it as a label",
				"value", raw)
		}

		info.Version = resolved
	} else {
		logger.WarnKV(ctx, "APP_VERSION not found in header, using default",
			"default", info.Version.String())
	}

	if match := nameMacroPattern.FindSubmatch(contents); match != nil {
		info.AppName = string(match[1])
		logger.InfoKV(ctx, "Found application name", "name", info.AppName)
	} else {
		logger.WarnKV(ctx, "APP_NAME not found in header, using default", "default", info.AppName)
	}

	if match := orgMacroPattern.FindSubmatch(contents); match != nil {
		info.Company = string(match[1])
		logger.InfoKV(ctx, "Found company name", "company", info.Company)
	} else {
		logger.WarnKV(ctx, "APP_ORGANIZATION not found in header, using default",
			"default", info.Company)
	}

	return info
}
