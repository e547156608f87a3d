package release

import "errors"

// Stage identifies one independently selectable unit of pipeline work.
type Stage string

const (
	// StageClean empties the installer-data directory.
	StageClean Stage = "clean"
	// StageCopyExe stages the built executable.
	StageCopyExe Stage = "copy-exe"
	// StageCopyResources merges resource folders into the staging tree.
	StageCopyResources Stage = "copy-resources"
	// StageUpdateConfigs rewrites installer metadata with resolved app info.
	StageUpdateConfigs Stage = "update-configs"
	// StageDeployQt gathers runtime dependencies via the deployment tool.
	StageDeployQt Stage = "deployqt"
	// StageBuildInstaller produces the installer binary.
	StageBuildInstaller Stage = "build-installer"
	// StageGenerateRepo creates (or replaces) the online update repository.
	StageGenerateRepo Stage = "generate-repo"
	// StageUpdateRepo incrementally extends an existing repository.
	StageUpdateRepo Stage = "update-repo"
)

// Order is the fixed dependency ordering of the pipeline. A stage that is
// not requested is skipped; requested stages never run out of this order.
func Order() []Stage {
	return []Stage{
		StageClean,
		StageCopyExe,
		StageCopyResources,
		StageUpdateConfigs,
		StageDeployQt,
		StageBuildInstaller,
		StageGenerateRepo,
		StageUpdateRepo,
	}
}

var (
	// ErrNoStages is returned when a request selects nothing to run.
	ErrNoStages = errors.New("no stages requested")
	// ErrRepoStageConflict is returned when generate-repo and update-repo
	// are combined in a single run. The repository can be freshly created
	// or incrementally updated, never both in one invocation.
	ErrRepoStageConflict = errors.New("generate-repo and update-repo are mutually exclusive")
)

// Request is the set of stages selected for a run.
type Request map[Stage]struct{}

// NewRequest builds a request from the given stages.
func NewRequest(stages ...Stage) Request {
	r := make(Request, len(stages))
	for _, s := range stages {
		r[s] = struct{}{}
	}

	return r
}

// AllStages expands the synthetic "all" action: every stage except
// update-repo. Touching an existing public repository is an explicit opt-in.
func AllStages() Request {
	r := NewRequest(Order()...)
	delete(r, StageUpdateRepo)

	return r
}

// Has reports whether the stage was requested.
func (r Request) Has(s Stage) bool {
	_, ok := r[s]
	return ok
}

// Validate rejects empty and contradictory requests before any side effects occur.
func (r Request) Validate() error {
	if len(r) == 0 {
		return ErrNoStages
	}

	if r.Has(StageGenerateRepo) && r.Has(StageUpdateRepo) {
		return ErrRepoStageConflict
	}

	return nil
}

// Result is the immutable outcome of one executed stage.
type Result struct {
	// Stage identifies which unit of work produced this result.
	Stage Stage
	// OK is the success flag.
	OK bool
	// Message is a human-readable outcome description.
	Message string
	// Output is the captured external tool output, when the stage ran one.
	Output string
}
