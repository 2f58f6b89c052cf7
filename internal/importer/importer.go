// Package importer finds input files, decodes them, parses shift reports and
// bank statements, and archives processed files.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/conciliador-dev/conciliador/internal/model"
)

const (
	KindReports    = "reports"
	KindStatements = "statements"
)

// Batch is the parsed content of one file.
type Batch struct {
	Reports    []model.ShiftReport
	Statements []model.Statement
}

// Parser converts one decoded input file into records.
type Parser interface {
	Parse(name string, r io.Reader) (Batch, error)
	Kind() string
}

// ParseError locates a failure in an input file. Line is 1-based, 0 when
// the failure is not tied to a line.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Registry holds parsers by kind.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes an input file.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate kind.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Kind())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser kind: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for kind, or nil.
func (r *Registry) Get(kind string) Parser {
	return r.parsers[strings.ToLower(kind)]
}

// DefaultRegistry returns a registry with the report and statement parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ReportParser{})
	r.Register(&StatementParser{})
	return r
}

// Scan returns the regular files of dir whose name ends in ext (case
// insensitive), sorted by name. A missing dir yields no files.
func Scan(dir, ext string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading input dir: %w", err)
	}

	ext = strings.ToLower(ext)
	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// Archive moves each file into dir, creating it if needed. A file whose
// name already exists in dir is left where it is unless overwrite is set.
// It returns the archived destination paths.
func Archive(paths []string, dir string, overwrite bool) ([]string, error) {
	if dir == "" {
		return nil, errors.New("no archive dir given")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	var moved []string
	for _, src := range paths {
		dst := filepath.Join(dir, filepath.Base(src))
		if _, err := os.Stat(dst); err == nil {
			if !overwrite {
				continue
			}
			if err := os.Remove(dst); err != nil {
				return moved, fmt.Errorf("replacing %s: %w", dst, err)
			}
		}
		if err := os.Rename(src, dst); err != nil {
			return moved, fmt.Errorf("archiving %s: %w", filepath.Base(src), err)
		}
		moved = append(moved, dst)
	}
	return moved, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as text: UTF-8 when valid, otherwise Windows-1252,
// the encoding of the legacy point-of-sale exports.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding windows-1252: %w", err)
	}
	return string(out), nil
}

// ParseFile reads, decodes and parses the file at path.
func ParseFile(p Parser, path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, &ParseError{File: filepath.Base(path), Err: err}
	}
	text, err := Decode(data)
	if err != nil {
		return Batch{}, &ParseError{File: filepath.Base(path), Err: err}
	}
	return p.Parse(filepath.Base(path), strings.NewReader(text))
}
