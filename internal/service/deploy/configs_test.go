package deploy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/qt-deploy/internal/domain/release"
)

const configXMLTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<Installer>
    <Name>Old App</Name>
    <Version>0.0.1</Version>
    <Title>Old App Installer</Title>
    <Publisher>Nobody</Publisher>
    <StartMenuDir>Old App</StartMenuDir>
</Installer>
`

const packageXMLTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<Package>
    <DisplayName>OLDAPP Core</DisplayName>
    <Description>The core application files for OLDAPP</Description>
    <Version>0.0.1</Version>
    <ReleaseDate>2000-01-01</ReleaseDate>
    <Name>com.nobody.OLDAPP</Name>
</Package>
`

const installScriptTemplate = `// Component install script.
var appName = "Old App";
var appVersion = '0.0.1';
var companyName = "Nobody";
var appShortName = "OLDAPP";
`

// TestUpdateConfigsRewritesMetadata stamps the resolved application info
// into all three metadata files.
func TestUpdateConfigsRewritesMetadata(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, release.NewRequest(release.StageUpdateConfigs), &fakeInvoker{})

	configFile := p.paths.InstallerConfigFile()
	packageFile := filepath.Join(p.paths.PackageMetaDir(p.info), "package.xml")
	scriptFile := filepath.Join(p.paths.PackageMetaDir(p.info), "installscript.qs")

	writeFile(t, configFile, configXMLTemplate)
	writeFile(t, packageFile, packageXMLTemplate)
	writeFile(t, scriptFile, installScriptTemplate)

	require.NoError(t, p.execute(context.Background()))

	config, err := os.ReadFile(configFile)
	require.NoError(t, err)
	require.Contains(t, string(config), "<Name>POI Navigator</Name>")
	require.Contains(t, string(config), "<Version>1.2.3</Version>")
	require.Contains(t, string(config), "<Title>POI Navigator Installer</Title>")
	require.Contains(t, string(config), "<Publisher>Lima Ltd</Publisher>")
	require.Contains(t, string(config), "<StartMenuDir>POI Navigator</StartMenuDir>")

	pkg, err := os.ReadFile(packageFile)
	require.NoError(t, err)
	require.Contains(t, string(pkg), "<DisplayName>POINAV Core</DisplayName>")
	require.Contains(t, string(pkg), "The core application files for POINAV")
	require.Contains(t, string(pkg), "<Version>1.2.3</Version>")
	require.Contains(t, string(pkg), "<ReleaseDate>"+p.info.ReleaseDate+"</ReleaseDate>")
	require.Contains(t, string(pkg), "<Name>com.limaltd.POINAV</Name>")

	script, err := os.ReadFile(scriptFile)
	require.NoError(t, err)
	require.Contains(t, string(script), `var appName = "POI Navigator";`)
	require.Contains(t, string(script), `var appVersion = "1.2.3";`)
	require.Contains(t, string(script), `var companyName = "Lima Ltd";`)
	require.Contains(t, string(script), `var appShortName = "POINAV";`)
}

// TestUpdateConfigsIdempotent applies the same rewrites twice with
// an identical result.
func TestUpdateConfigsIdempotent(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, release.NewRequest(release.StageUpdateConfigs), &fakeInvoker{})

	configFile := p.paths.InstallerConfigFile()
	writeFile(t, configFile, configXMLTemplate)

	ctx := context.Background()

	_, err := p.updateConfigs(ctx)
	require.NoError(t, err)

	first, err := os.ReadFile(configFile)
	require.NoError(t, err)

	_, err = p.updateConfigs(ctx)
	require.NoError(t, err)

	second, err := os.ReadFile(configFile)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

// TestUpdateConfigsMissingFiles warns per file instead of failing the stage.
func TestUpdateConfigsMissingFiles(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, release.NewRequest(release.StageUpdateConfigs), &fakeInvoker{})

	require.NoError(t, p.execute(context.Background()))
	require.Len(t, p.results, 1)
	require.True(t, p.results[0].OK)
}
