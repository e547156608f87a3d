// Package toolrunner executes external tools as blocking subprocesses and
// interprets their outcome.
//
// A tool that could not be found or started yields a LaunchError (usually a
// misconfigured environment); a tool that started and returned a non-zero
// status yields an ExitError carrying the captured combined output so the
// real diagnostic reaches the operator. There are no implicit retries and
// no imposed timeout: the invocation runs to completion.
package toolrunner
