package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/creachadair/tomledit"
	"github.com/creachadair/tomledit/parser"
)

// RepoEntry is one tracked repository, stored as a [repos.<name>] table.
type RepoEntry struct {
	// Name uniquely identifies the repository across the repos section.
	Name string

	// Target is an optional work-tree override. TargetSet distinguishes an
	// absent target (plain self-contained repository) from an explicitly
	// empty one.
	Target    string
	TargetSet bool
}

// repoSection returns the [repos.<name>] section, or nil.
func (d *Document) repoSection(name string) *tomledit.Section {
	for _, s := range d.doc.Sections {
		if isRepoHeading(s, name) {
			return s
		}
	}
	return nil
}

func isRepoHeading(s *tomledit.Section, name string) bool {
	if s.Heading == nil || len(s.Heading.Name) != 2 {
		return false
	}
	return s.Heading.Name[0] == "repos" && s.Heading.Name[1] == name
}

// Repo looks up a repository entry by name.
func (d *Document) Repo(name string) (RepoEntry, bool) {
	s := d.repoSection(name)
	if s == nil {
		return RepoEntry{}, false
	}
	return repoFromSection(s), true
}

// Repos returns all repository entries, sorted by name. Section order in the
// document is user-controlled and carries no meaning for repositories.
func (d *Document) Repos() []RepoEntry {
	var entries []RepoEntry
	for _, s := range d.doc.Sections {
		if s.Heading != nil && len(s.Heading.Name) == 2 && s.Heading.Name[0] == "repos" {
			entries = append(entries, repoFromSection(s))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func repoFromSection(s *tomledit.Section) RepoEntry {
	entry := RepoEntry{Name: s.Heading.Name[1]}
	for _, item := range s.Items {
		kv, ok := item.(*parser.KeyValue)
		if !ok || len(kv.Name) != 1 || kv.Name[0] != "target" {
			continue
		}
		var target string
		if err := decodeValue(kv.Value.String(), &target); err == nil {
			entry.Target = target
			entry.TargetSet = true
		}
	}
	return entry
}

// AddRepo appends a new [repos.<name>] table at the end of the document,
// leaving all existing text as it was. Returns ErrDuplicateRepo if the name
// is already registered.
func (d *Document) AddRepo(entry RepoEntry) error {
	if d.repoSection(entry.Name) != nil {
		return ErrDuplicateRepo
	}
	block := []string{"[" + parser.Key{"repos", entry.Name}.String() + "]"}
	if entry.TargetSet {
		block = append(block, "target = "+strconv.Quote(entry.Target))
	}
	d.appendLines(block...)
	return d.reparse()
}

// RemoveRepo deletes the [repos.<name>] table's heading and contents. A
// block comment above the heading stays in place, as does everything else
// around the table. Returns ErrNotFound if the name is not registered.
func (d *Document) RemoveRepo(name string) error {
	s := d.repoSection(name)
	if s == nil {
		return ErrNotFound
	}
	start, end := d.sectionRange(s)
	d.replaceLines(start, end)
	d.trimTrailingBlanks()
	return d.reparse()
}

// RenameRepo rewrites the table's heading line in place, keeping the
// table's contents, comments, and position untouched. Returns ErrNotFound
// if from is not registered and ErrDuplicateRepo if to already is.
func (d *Document) RenameRepo(from, to string) error {
	s := d.repoSection(from)
	if s == nil {
		return ErrNotFound
	}
	if from != to && d.repoSection(to) != nil {
		return ErrDuplicateRepo
	}

	idx := s.Heading.Line - 1
	line := splitLines(d.raw)[idx]
	lb := strings.Index(line, "[")
	rb := strings.Index(line, "]")
	if lb < 0 || rb < lb {
		return fmt.Errorf("malformed heading on line %d", s.Heading.Line)
	}
	d.replaceLines(idx, idx+1, line[:lb+1]+parser.Key{"repos", to}.String()+line[rb:])
	return d.reparse()
}
