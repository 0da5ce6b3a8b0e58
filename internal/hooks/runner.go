package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rice-configs/ricer/internal/config"
	"github.com/rice-configs/ricer/internal/document"
	"github.com/rice-configs/ricer/internal/log"
)

// ErrScriptMissing is returned (wrapped) when a configured hook script does
// not exist and the runner is in strict mode.
var ErrScriptMissing = errors.New("hook script missing")

// Approval controls whether hook scripts run without asking.
type Approval string

const (
	ApprovalAlways Approval = "always"
	ApprovalNever  Approval = "never"
	ApprovalPrompt Approval = "prompt"
)

// ParseApproval converts a flag value into an Approval.
func ParseApproval(s string) (Approval, error) {
	switch Approval(s) {
	case ApprovalAlways, ApprovalNever, ApprovalPrompt:
		return Approval(s), nil
	}
	return "", fmt.Errorf("invalid hook approval %q: expected always, never, or prompt", s)
}

// Source provides the configured hook actions for a command. Implemented by
// config.Manager.
type Source interface {
	HooksFor(command string) ([]config.ResolvedAction, error)
}

// Pager displays a script for review before the user approves it.
type Pager interface {
	Page(title string, body string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Outcome classifies what happened to a single hook action.
type Outcome string

const (
	OutcomeExecuted Outcome = "executed"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeNotFound Outcome = "not found"
	OutcomeFailed   Outcome = "failed"
)

// ActionResult records the outcome of one hook action.
type ActionResult struct {
	Script   string // absolute script path
	Phase    document.Phase
	Outcome  Outcome
	ExitCode int   // valid when Outcome is OutcomeFailed
	Err      error // underlying error, if any
}

// Report collects the results of one Run invocation.
type Report struct {
	Command string
	Phase   document.Phase
	Results []ActionResult
}

// Failed reports whether any action failed.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Options tune runner behavior.
type Options struct {
	Approval Approval

	// StrictMissing turns a missing script into an error instead of a
	// recorded OutcomeNotFound.
	StrictMissing bool

	// FailFast stops at the first failing script. The failure is still
	// recorded in the report.
	FailFast bool
}

// Runner executes the hook actions configured for ricer commands.
type Runner struct {
	source    Source
	pager     Pager
	confirmer Confirmer
	opts      Options

	// Stdout and Stderr are handed to the scripts. Default to the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a runner. pager and confirmer are only consulted for
// ApprovalPrompt and may be nil otherwise.
func NewRunner(source Source, pager Pager, confirmer Confirmer, opts Options) *Runner {
	if opts.Approval == "" {
		opts.Approval = ApprovalPrompt
	}
	return &Runner{
		source:    source,
		pager:     pager,
		confirmer: confirmer,
		opts:      opts,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Run executes the actions bound to command in the given phase, in declared
// order. The report always covers every action in the phase, including
// skipped and missing ones. An unconfigured command yields an empty report.
func (r *Runner) Run(ctx context.Context, command string, phase document.Phase) (Report, error) {
	report := Report{Command: command, Phase: phase}

	actions, err := r.source.HooksFor(command)
	if err != nil {
		return report, err
	}

	l := log.FromContext(ctx)
	for _, action := range actions {
		if action.Phase != phase {
			continue
		}
		res, err := r.runAction(ctx, l, action)
		report.Results = append(report.Results, res)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *Runner) runAction(ctx context.Context, l *log.Logger, action config.ResolvedAction) (ActionResult, error) {
	res := ActionResult{Script: action.Script, Phase: action.Phase}

	if _, err := os.Stat(action.Script); err != nil {
		if r.opts.StrictMissing {
			res.Outcome = OutcomeFailed
			res.Err = fmt.Errorf("%w: %s", ErrScriptMissing, action.Script)
			return res, res.Err
		}
		l.Printf("skipping missing hook script %s\n", action.Script)
		res.Outcome = OutcomeNotFound
		res.Err = err
		return res, nil
	}

	switch r.opts.Approval {
	case ApprovalNever:
		res.Outcome = OutcomeSkipped
		return res, nil
	case ApprovalPrompt:
		ok, err := r.approve(action)
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			return res, err
		}
		if !ok {
			res.Outcome = OutcomeSkipped
			return res, nil
		}
	}

	workdir, err := expandPath(action.Workdir)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res, err
	}

	l.Printf("running %s hook %s\n", action.Phase, filepath.Base(action.Script))

	cmd := exec.CommandContext(ctx, "sh", action.Script)
	cmd.Dir = workdir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	done := l.Command(workdir, "sh", action.Script)
	start := time.Now()
	err = cmd.Run()
	done(time.Since(start))
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		if r.opts.FailFast {
			return res, fmt.Errorf("hook %s: %w", filepath.Base(action.Script), err)
		}
		l.Printf("warning: hook %s failed: %v\n", filepath.Base(action.Script), err)
		return res, nil
	}

	res.Outcome = OutcomeExecuted
	return res, nil
}

// approve shows the script and asks for confirmation.
func (r *Runner) approve(action config.ResolvedAction) (bool, error) {
	if r.confirmer == nil {
		return false, errors.New("hook approval required but no confirmer configured")
	}
	if r.pager != nil {
		body, err := os.ReadFile(action.Script)
		if err != nil {
			return false, fmt.Errorf("read hook script: %w", err)
		}
		if err := r.pager.Page(filepath.Base(action.Script), string(body)); err != nil {
			return false, err
		}
	}
	return r.confirmer.Confirm(fmt.Sprintf("Run %s hook %s?", action.Phase, filepath.Base(action.Script)))
}

// expandPath resolves "~" and environment variables in a workdir. An empty
// workdir resolves to the process working directory by leaving Dir unset.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return os.ExpandEnv(path), nil
}
