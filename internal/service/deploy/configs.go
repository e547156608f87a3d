package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oshokin/qt-deploy/internal/logger"
)

// replacement rewrites every match of pattern with the rendered value.
type replacement struct {
	pattern *regexp.Regexp
	value   string
}

// updateConfigs stamps the resolved application info into the installer
// metadata files. Individual missing files are warnings, mirroring the
// optional nature of each metadata category; the stage itself succeeds
// as long as the rewrites that did apply went through.
func (p *pipeline) updateConfigs(ctx context.Context) (string, error) {
	configFile := p.paths.InstallerConfigFile()
	if err := rewriteFile(configFile, p.configXMLReplacements()); err != nil {
		if !warnIfMissing(ctx, configFile, err) {
			return "", err
		}
	} else {
		logger.InfoKV(ctx, "Updated installer config", "path", configFile)
	}

	packageFile := filepath.Join(p.paths.PackageMetaDir(p.info), "package.xml")
	if err := rewriteFile(packageFile, p.packageXMLReplacements()); err != nil {
		if !warnIfMissing(ctx, packageFile, err) {
			return "", err
		}
	} else {
		logger.InfoKV(ctx, "Updated package metadata", "path", packageFile)
	}

	// The install script is optional; only rewrite it when the project has one.
	scriptFile := filepath.Join(p.paths.PackageMetaDir(p.info), "installscript.qs")
	if _, err := os.Stat(scriptFile); err == nil {
		if err = rewriteFile(scriptFile, p.installScriptReplacements()); err != nil {
			return "", err
		}

		logger.InfoKV(ctx, "Updated install script", "path", scriptFile)
	} else {
		logger.DebugKV(ctx, "No install script found, skipping", "path", scriptFile)
	}

	return "", nil
}

// configXMLReplacements stamps the installer-wide configuration.
func (p *pipeline) configXMLReplacements() []replacement {
	return []replacement{
		{regexp.MustCompile(`<Name>[^<]*</Name>`), "<Name>" + p.info.AppName + "</Name>"},
		{regexp.MustCompile(`<Version>[^<]*</Version>`), "<Version>" + p.info.Version.String() + "</Version>"},
		{regexp.MustCompile(`<Title>[^<]* Installer</Title>`), "<Title>" + p.info.AppName + " Installer</Title>"},
		{regexp.MustCompile(`<Publisher>[^<]*</Publisher>`), "<Publisher>" + p.info.Company + "</Publisher>"},
		{regexp.MustCompile(`<StartMenuDir>[^<]*</StartMenuDir>`), "<StartMenuDir>" + p.info.AppName + "</StartMenuDir>"},
	}
}

// packageXMLReplacements stamps the core package metadata.
func (p *pipeline) packageXMLReplacements() []replacement {
	return []replacement{
		{regexp.MustCompile(`<DisplayName>[^<]* Core</DisplayName>`),
			"<DisplayName>" + p.info.ShortName + " Core</DisplayName>"},
		{regexp.MustCompile(`<Description>The core application files for [^<]*</Description>`),
			"<Description>The core application files for " + p.info.ShortName + "</Description>"},
		{regexp.MustCompile(`<Version>[^<]*</Version>`),
			"<Version>" + p.info.Version.String() + "</Version>"},
		{regexp.MustCompile(`<ReleaseDate>[^<]*</ReleaseDate>`),
			"<ReleaseDate>" + p.info.ReleaseDate + "</ReleaseDate>"},
		{regexp.MustCompile(`<Name>com\.[^<]*</Name>`),
			"<Name>" + p.info.PackageID() + "</Name>"},
	}
}

// installScriptReplacements stamps the variables commonly declared at the
// top of a QtIFW install script.
func (p *pipeline) installScriptReplacements() []replacement {
	return []replacement{
		{regexp.MustCompile(`(var\s+appName\s*=\s*)["'][^"']*["']`),
			`${1}"` + escapeReplacement(p.info.AppName) + `"`},
		{regexp.MustCompile(`(var\s+appVersion\s*=\s*)["'][^"']*["']`),
			`${1}"` + escapeReplacement(p.info.Version.String()) + `"`},
		{regexp.MustCompile(`(var\s+companyName\s*=\s*)["'][^"']*["']`),
			`${1}"` + escapeReplacement(p.info.Company) + `"`},
		{regexp.MustCompile(`(var\s+appShortName\s*=\s*)["'][^"']*["']`),
			`${1}"` + escapeReplacement(p.info.ShortName) + `"`},
	}
}

// rewriteFile applies the replacements in place, keeping the file's mode.
func rewriteFile(path string, replacements []replacement) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}

	text := string(contents)
	for _, r := range replacements {
		text = r.pattern.ReplaceAllString(text, r.value)
	}

	if err = os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// warnIfMissing downgrades a missing metadata file to a warning and
// reports whether it did so.
func warnIfMissing(ctx context.Context, path string, err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		logger.WarnKV(ctx, "Metadata file not found, skipping", "path", path)
		return true
	}

	return false
}

// escapeReplacement makes a literal value safe for use in a regexp replacement.
func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
