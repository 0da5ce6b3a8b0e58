package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/tomledit"
	"github.com/creachadair/tomledit/parser"
)

// Phase says when a hook action runs relative to its guarded command.
type Phase string

const (
	// PhasePre runs before the guarded command.
	PhasePre Phase = "pre"

	// PhasePost runs after the guarded command.
	PhasePost Phase = "post"
)

// HookAction is a single script bound to a phase. Script is a bare filename;
// it is resolved against the hooks directory when the action executes, not
// when the document loads.
type HookAction struct {
	Phase   Phase
	Script  string
	Workdir string // optional working directory, shell-expanded at run time
}

// HookEntry is one command's ordered hook actions, stored as a key in the
// [hooks] table:
//
//	[hooks]
//	bootstrap = [{ pre = "prep.sh" }, { post = "vim_plug.sh" }]
type HookEntry struct {
	Command string
	Actions []HookAction
}

// hooksSection returns the [hooks] table, or nil.
func (d *Document) hooksSection() *tomledit.Section {
	for _, s := range d.doc.Sections {
		if s.Heading != nil && len(s.Heading.Name) == 1 && s.Heading.Name[0] == "hooks" {
			return s
		}
	}
	return nil
}

// Hook returns the ordered action list configured for a command. An
// unconfigured command reports ok=false; it is not an error.
func (d *Document) Hook(command string) (HookEntry, bool) {
	s := d.hooksSection()
	if s == nil {
		return HookEntry{}, false
	}
	for _, item := range s.Items {
		kv, ok := item.(*parser.KeyValue)
		if !ok || len(kv.Name) != 1 || kv.Name[0] != command {
			continue
		}
		return hookFromValue(command, kv.Value.String()), true
	}
	return HookEntry{}, false
}

// Hooks returns every configured hook entry in document order.
func (d *Document) Hooks() []HookEntry {
	s := d.hooksSection()
	if s == nil {
		return nil
	}
	var entries []HookEntry
	for _, item := range s.Items {
		kv, ok := item.(*parser.KeyValue)
		if !ok || len(kv.Name) != 1 {
			continue
		}
		entries = append(entries, hookFromValue(kv.Name[0], kv.Value.String()))
	}
	return entries
}

// hookFromValue decodes a hook array value. Each array element is an inline
// table that may carry pre, post, and workdir keys; one element expands to
// up to two actions, pre before post, sharing the element's workdir.
func hookFromValue(command, text string) HookEntry {
	entry := HookEntry{Command: command}

	var elems []map[string]any
	if err := decodeValue(text, &elems); err != nil {
		return entry
	}
	for _, elem := range elems {
		workdir, _ := elem["workdir"].(string)
		if script, ok := elem["pre"].(string); ok {
			entry.Actions = append(entry.Actions, HookAction{Phase: PhasePre, Script: script, Workdir: workdir})
		}
		if script, ok := elem["post"].(string); ok {
			entry.Actions = append(entry.Actions, HookAction{Phase: PhasePost, Script: script, Workdir: workdir})
		}
	}
	return entry
}

// SetHook creates or replaces a command's hook actions, touching only the
// lines of that command's own binding. The [hooks] table is created at the
// end of the document when absent; other content is left alone.
func (d *Document) SetHook(entry HookEntry) error {
	line := parser.Key{entry.Command}.String() + " = " + formatActions(entry.Actions)

	s := d.hooksSection()
	if s == nil {
		d.appendLines("[hooks]", line)
		return d.reparse()
	}

	for _, item := range s.Items {
		kv, ok := item.(*parser.KeyValue)
		if !ok || len(kv.Name) != 1 || kv.Name[0] != entry.Command {
			continue
		}
		start := kv.Line - 1
		end, trailer := valueSpan(splitLines(d.raw), start)
		if trailer != "" {
			line += " " + trailer
		}
		d.replaceLines(start, end, line)
		return d.reparse()
	}

	// New command: insert after the table's last non-blank line.
	start, end := d.sectionRange(s)
	lines := splitLines(d.raw)
	at := end
	for at > start+1 && strings.TrimSpace(lines[at-1]) == "" {
		at--
	}
	d.replaceLines(at, at, line)
	return d.reparse()
}

// formatActions renders actions as an array of inline tables.
func formatActions(actions []HookAction) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		var fields []string
		fields = append(fields, fmt.Sprintf("%s = %s", a.Phase, strconv.Quote(a.Script)))
		if a.Workdir != "" {
			fields = append(fields, fmt.Sprintf("workdir = %s", strconv.Quote(a.Workdir)))
		}
		parts = append(parts, "{ "+strings.Join(fields, ", ")+" }")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
