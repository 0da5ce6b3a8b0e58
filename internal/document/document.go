// Package document provides format-preserving access to ricer's
// configuration document.
//
// The document is TOML with two logical sections: tracked repositories
// ([repos.<name>] tables) and command hooks (the [hooks] table). The raw
// text is the source of truth: the parsed structure is only used to read
// and to locate lines, and every mutation splices the smallest line span
// it can. Everything else in the file (comments, blank lines, key
// ordering, unrelated tables) survives load/mutate/save cycles untouched,
// and serializing an unmodified document reproduces its input byte for
// byte.
//
// Persistence is atomic: WriteFile serializes to a temporary file in the
// target directory and renames it into place, so a crash mid-write never
// corrupts the previously committed document.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/creachadair/tomledit"
)

// Sentinel errors for repository section mutations.
var (
	// ErrDuplicateRepo reports an add or rename targeting a name that is
	// already registered.
	ErrDuplicateRepo = errors.New("repository already registered")

	// ErrNotFound reports a remove or rename of an unregistered name.
	ErrNotFound = errors.New("repository not found")
)

// ParseError reports malformed TOML with its position when known.
type ParseError struct {
	Path string // empty when parsing from memory
	Line int
	Col  int
	Err  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("parse %s:%d:%d: %v", e.Path, e.Line, e.Col, e.Err)
	case e.Path != "":
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("parse %d:%d: %v", e.Line, e.Col, e.Err)
	default:
		return fmt.Sprintf("parse: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is a parsed configuration document. The zero value is not usable;
// construct with New or Parse.
type Document struct {
	raw []byte
	doc *tomledit.Document
}

// New returns an empty document.
func New() *Document {
	return &Document{doc: &tomledit.Document{}}
}

// Parse parses TOML data into a document. Malformed input yields a
// *ParseError carrying line/column information when available.
func Parse(data []byte) (*Document, error) {
	// Validate through the toml codec first: its errors carry positions,
	// which the editing parser does not expose.
	var sink map[string]any
	if err := toml.Unmarshal(data, &sink); err != nil {
		perr := &ParseError{Err: err}
		var derr toml.ParseError
		if errors.As(err, &derr) {
			perr.Line = derr.Position.Line
			perr.Col = derr.Position.Col
		}
		return nil, perr
	}

	doc, err := tomledit.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return &Document{raw: bytes.Clone(data), doc: doc}, nil
}

// Load reads and parses the document at path. An absent file is reported as
// an error wrapping os.ErrNotExist; callers that treat "no file" as an empty
// document check for it before or after this call.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return d, nil
}

// reparse refreshes the structural view after a raw-text edit. The edits
// this package produces keep the text valid TOML, so a failure here means
// the splice itself is broken.
func (d *Document) reparse() error {
	doc, err := tomledit.Parse(bytes.NewReader(d.raw))
	if err != nil {
		return fmt.Errorf("reparse after edit: %w", err)
	}
	d.doc = doc
	return nil
}

// String returns the document text. Spans that no mutation touched are the
// verbatim input.
func (d *Document) String() string { return string(d.raw) }

// WriteFile atomically persists the document to path. A temporary file in
// the same directory is written first and renamed over the target, so a
// failure at any point leaves the previous contents intact.
func (d *Document) WriteFile(path string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, d.raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// decodeValue decodes a single TOML value's source text into dest using the
// toml codec, by wrapping it in a one-key document.
func decodeValue(text string, dest any) error {
	wrapped := "v = " + text
	var aux struct {
		V toml.Primitive `toml:"v"`
	}
	md, err := toml.Decode(wrapped, &aux)
	if err != nil {
		return err
	}
	return md.PrimitiveDecode(aux.V, dest)
}
