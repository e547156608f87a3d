package release

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Version is the application version resolved for a single run.
// The numeric triple is populated only for strict "x.y.z" literals;
// any other label is preserved verbatim in Raw so it still flows into
// installer naming, just not into structured comparisons.
type Version struct {
	// Major, Minor and Patch form the semantic version triple.
	Major int
	Minor int
	Patch int
	// Raw is the literal form the version was resolved from.
	Raw string
	// semver records whether the triple above is meaningful.
	semver bool
}

// versionPattern is the single well-defined match for a semantic version literal.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// ParseVersion interprets raw as a strict three-part semantic version.
// On any other literal it returns a label-only Version and false,
// keeping the raw string available to callers.
func ParseVersion(raw string) (Version, bool) {
	raw = strings.TrimSpace(raw)

	match := versionPattern.FindStringSubmatch(raw)
	if match == nil {
		return Version{Raw: raw}, false
	}

	// The pattern guarantees the groups are plain digits.
	major, _ := strconv.Atoi(match[1]) //nolint:errcheck // Guarded by the pattern.
	minor, _ := strconv.Atoi(match[2]) //nolint:errcheck // Guarded by the pattern.
	patch, _ := strconv.Atoi(match[3]) //nolint:errcheck // Guarded by the pattern.

	return Version{
		Major:  major,
		Minor:  minor,
		Patch:  patch,
		Raw:    raw,
		semver: true,
	}, true
}

// DefaultVersion is the fallback used when no version can be resolved.
func DefaultVersion() Version {
	v, _ := ParseVersion("1.0.0")
	return v
}

// IsSemVer reports whether the numeric triple is meaningful.
func (v Version) IsSemVer() bool {
	return v.semver
}

// String renders the version for naming and logs.
func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}

	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AppInfo describes the application being packaged.
// Fields default from the version header macros and can be overridden
// by the settings profile or CLI flags.
type AppInfo struct {
	// Version is the resolved release version.
	Version Version
	// AppName is the human-readable application name (also the staged executable name).
	AppName string
	// ShortName is the compact identifier used in package naming.
	ShortName string
	// Company is the publisher name.
	Company string
	// ReleaseDate is the YYYY-MM-DD date stamped into package metadata.
	ReleaseDate string
}

// NewAppInfo produces an AppInfo with defaults filled in for a run starting now.
func NewAppInfo(name, shortName, company string) AppInfo {
	return AppInfo{
		Version:     DefaultVersion(),
		AppName:     name,
		ShortName:   shortName,
		Company:     company,
		ReleaseDate: time.Now().Format("2006-01-02"),
	}
}

// PackageID returns the installer package identifier, e.g. "com.limaltd.POINAV".
func (a AppInfo) PackageID() string {
	company := strings.ToLower(strings.ReplaceAll(a.Company, " ", ""))
	if company == "" {
		company = "local"
	}

	return "com." + company + "." + a.ShortName
}

// InstallerBaseName returns the version-qualified installer file name without extension.
func (a AppInfo) InstallerBaseName() string {
	return strings.ReplaceAll(a.AppName, " ", "") + "-" + a.Version.String() + "-setup"
}
