// Package deploy implements the release pipeline: staged file preparation,
// installer metadata updates, external tool invocation and online update
// repository management, executed as an ordered list of selectable stages.
//
// A run is strictly sequential: exactly one stage at a time, and within a
// stage at most one external process. The first failing stage halts the
// pipeline; completed stages keep their results and the run always ends
// with a logged summary and a meaningful exit code.
package deploy
