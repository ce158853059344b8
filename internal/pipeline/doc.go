// Package pipeline sequences the four processing stages (extract,
// transform, load, notify) over a shared run state. Execution is
// strictly sequential: each stage is validated then executed, and the
// first failure ends the run with the stage error wrapped and logged.
// There is no retry and no partial-completion recovery.
package pipeline
