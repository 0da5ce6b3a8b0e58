// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/rice-configs/ricer/internal/config"
	"github.com/rice-configs/ricer/internal/document"
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// RepoTableHeaders are the columns of the repository listing.
var RepoTableHeaders = []string{"NAME", "TARGET", "STORE"}

// RepoTableRow builds one repository listing row. The store column comes
// from the manager's layout; a repository without a target shows "-".
func RepoTableRow(entry document.RepoEntry, store string) []string {
	target := entry.Target
	if !entry.TargetSet || target == "" {
		target = "-"
	}
	return []string{entry.Name, target, store}
}

// HookTableHeaders are the columns of the hook listing.
var HookTableHeaders = []string{"COMMAND", "PHASE", "SCRIPT", "WORKDIR"}

// HookTableRows expands one command's actions into listing rows.
func HookTableRows(command string, actions []config.ResolvedAction) [][]string {
	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		workdir := a.Workdir
		if workdir == "" {
			workdir = "-"
		}
		rows = append(rows, []string{command, string(a.Phase), a.Script, workdir})
	}
	return rows
}
