// Package resolver locates the Dropbox root that holds the target folder.
//
// Candidates come from an ordered list of sources that are evaluated lazily.
// The first base directory containing the target wins. When every source is
// exhausted the operator is asked for one path.
package resolver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yoke233/mneme/internal/logger"
	"go.uber.org/zap"
)

// ErrNotFound is returned when neither the candidates nor the operator's
// input lead to the target folder.
var ErrNotFound = errors.New("target folder not found")

const (
	SourceDefaults = "defaults"
	SourceConfig   = "config"
	SourceManual   = "manual"
)

// LineReader reads one line of operator input.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Source is a named provider of candidate base directories.
// Candidates is only called once every earlier source came up empty.
type Source struct {
	Name       string
	Candidates func() []string
}

// Result is the outcome of a successful resolution.
type Result struct {
	// Root is the base directory that contains the target folder.
	Root string
	// Target is Root joined with the target folder name.
	Target string
	// Source names where Root came from.
	Source string
}

// Resolver finds the resolved root for a target folder name.
type Resolver struct {
	target  string
	sources []Source
	reader  LineReader
	out     io.Writer
	log     *zap.Logger
}

// New creates a resolver. reader may be nil, in which case exhausting the
// sources fails without prompting.
func New(target string, sources []Source, reader LineReader, out io.Writer) *Resolver {
	if out == nil {
		out = io.Discard
	}
	return &Resolver{
		target:  target,
		sources: sources,
		reader:  reader,
		out:     out,
		log:     logger.L(),
	}
}

// WithLogger replaces the diagnostic logger.
func (r *Resolver) WithLogger(l *zap.Logger) *Resolver {
	if l != nil {
		r.log = l
	}
	return r
}

// Resolve returns the first candidate that holds the target folder, falling
// back to a single manual entry.
func (r *Resolver) Resolve() (Result, error) {
	for _, src := range r.sources {
		if src.Candidates == nil {
			continue
		}
		for _, base := range src.Candidates() {
			if !HasTarget(base, r.target) {
				r.log.Debug("candidate rejected", zap.String("source", src.Name), zap.String("path", base))
				continue
			}
			r.log.Debug("candidate accepted", zap.String("source", src.Name), zap.String("path", base))
			return r.result(base, src.Name), nil
		}
	}
	return r.manual()
}

// Candidates lists every candidate in scan order without probing anything.
func (r *Resolver) Candidates() []string {
	var all []string
	for _, src := range r.sources {
		if src.Candidates != nil {
			all = append(all, src.Candidates()...)
		}
	}
	return all
}

func (r *Resolver) manual() (Result, error) {
	fmt.Fprintf(r.out, "\n%s folder not found in Dropbox.\n", r.target)
	fmt.Fprintln(r.out, "Please enter one of the following:")
	fmt.Fprintln(r.out, "1. Dropbox folder path")
	fmt.Fprintf(r.out, "2. Full path to '%s' folder\n\n", r.target)

	if r.reader == nil {
		return Result{}, ErrNotFound
	}
	line, err := r.reader.ReadLine("Path: ")
	if err != nil {
		r.log.Debug("manual path input failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	root, ok := NormalizeManual(line, r.target)
	if !ok {
		r.log.Debug("manual path rejected", zap.String("input", line))
		return Result{}, ErrNotFound
	}
	return r.result(root, SourceManual), nil
}

func (r *Resolver) result(root, source string) Result {
	return Result{
		Root:   root,
		Target: filepath.Join(root, r.target),
		Source: source,
	}
}

// HasTarget reports whether base is an existing directory with target as an
// immediate child.
func HasTarget(base, target string) bool {
	if strings.TrimSpace(base) == "" {
		return false
	}
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return false
	}
	return exists(filepath.Join(base, target))
}

// NormalizeManual turns operator input into a resolved root.
//
// Input naming the target folder itself yields its parent. Input containing
// the target yields the input. The first rule wins when both apply.
func NormalizeManual(input, target string) (string, bool) {
	entered := strings.TrimSpace(input)
	if entered == "" {
		return "", false
	}
	p := filepath.Clean(entered)

	if filepath.Base(p) == target && exists(p) {
		return filepath.Dir(p), true
	}
	if exists(filepath.Join(p, target)) {
		return p, true
	}
	return "", false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
