// Package hooks executes the shell scripts users bind to ricer commands.
//
// Hooks are plain shell scripts stored in the hooks/ directory of the
// configuration root and referenced by bare filename from the [hooks] table:
//
//	[hooks]
//	bootstrap = [{ pre = "prep.sh" }, { post = "vim_plug.sh" }]
//
// Each entry binds one or more actions to a command. Pre actions run before
// the command's own work, post actions after it, in declared order. An action
// may carry a workdir; "~" and environment variables in it are expanded at
// execution time.
//
// # Approval
//
// Because hooks run arbitrary code, the runner never executes a script
// without an approval decision:
//
//   - ApprovalAlways: run every action without asking
//   - ApprovalNever: skip every action
//   - ApprovalPrompt: show the script and ask before each action
//
// Prompting shows the full script contents through the configured Pager so
// the user can review what is about to run.
//
// A declined or skipped action is recorded in the report, not an error. A
// script that exits non-zero is recorded as failed; the runner keeps going
// unless FailFast is set.
package hooks
