package release

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestOrderIsStable verifies the fixed dependency ordering of the pipeline.
func TestOrderIsStable(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Stage{
		StageClean,
		StageCopyExe,
		StageCopyResources,
		StageUpdateConfigs,
		StageDeployQt,
		StageBuildInstaller,
		StageGenerateRepo,
		StageUpdateRepo,
	}, Order())
}

// TestAllStagesExcludesUpdateRepo ensures "all" never touches an existing repository.
func TestAllStagesExcludesUpdateRepo(t *testing.T) {
	t.Parallel()

	r := AllStages()
	require.Len(t, r, len(Order())-1)
	require.False(t, r.Has(StageUpdateRepo))
	require.True(t, r.Has(StageGenerateRepo))
	require.NoError(t, r.Validate())
}

// TestRequestValidate covers the empty and conflicting-repo-stage cases.
func TestRequestValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, NewRequest().Validate(), ErrNoStages)

	conflicting := NewRequest(StageGenerateRepo, StageUpdateRepo)
	require.ErrorIs(t, conflicting.Validate(), ErrRepoStageConflict)

	require.NoError(t, NewRequest(StageClean, StageUpdateRepo).Validate())
}
