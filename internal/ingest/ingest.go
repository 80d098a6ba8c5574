package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/repolens-dev/repolens/internal/registry"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/errors"
)

// SourceFile is one catalogued file of a snapshot. The record is immutable
// after ingestion; only the underlying bytes may change during remediation.
type SourceFile struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Size     int64  `json:"size"`
	Lines    int    `json:"lines"`
	Binary   bool   `json:"binary,omitempty"`
	Text     bool   `json:"-"`
}

// Diagnostic records a non-fatal per-file problem. Diagnostics ride on both
// result types instead of aborting a run.
type Diagnostic struct {
	File    string `json:"file,omitempty"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Result is the ordered file catalogue shared by all downstream scanners.
// Incomplete marks a catalogue truncated by an expired deadline; the partial
// catalogue stays valid.
type Result struct {
	Files       []SourceFile `json:"files"`
	TotalFiles  int          `json:"total_files"`
	TotalLines  int          `json:"total_lines"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Incomplete  bool         `json:"incomplete,omitempty"`
}

// Ingestor walks a snapshot root and produces the SourceFile catalogue.
type Ingestor struct {
	cfg    config.Engine
	reg    *registry.Registry
	logger hclog.Logger
}

// NewIngestor creates an Ingestor bound to one registry and engine config.
func NewIngestor(cfg config.Engine, reg *registry.Registry, logger hclog.Logger) *Ingestor {
	return &Ingestor{cfg: cfg, reg: reg, logger: logger}
}

// Ingest catalogues every file under root. The returned list is ordered
// lexicographically by relative path and contains no duplicate paths.
// Unreadable files become diagnostics; only a missing or non-directory root
// is fatal.
func (ing *Ingestor) Ingest(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewUnsupportedSourceError(root, "root does not exist")
	}
	if !info.IsDir() {
		return nil, errors.NewUnsupportedSourceError(root, "root is not a directory")
	}

	w := &walker{
		ing:     ing,
		root:    root,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		result:  &Result{},
	}
	if canonical, err := filepath.EvalSymlinks(root); err == nil {
		w.visited[canonical] = true
	}

	if err := w.walk(ctx, root); err != nil {
		return nil, err
	}

	sort.Slice(w.result.Files, func(i, j int) bool {
		return w.result.Files[i].Path < w.result.Files[j].Path
	})
	w.result.TotalFiles = len(w.result.Files)

	ing.logger.Info("snapshot ingested",
		"root", root,
		"files", w.result.TotalFiles,
		"lines", w.result.TotalLines,
		"diagnostics", len(w.result.Diagnostics))
	return w.result, nil
}

type walker struct {
	ing       *Ingestor
	root      string
	visited   map[string]bool // canonical directory paths, guards symlink cycles
	seen      map[string]bool // relative file paths, guards duplicates
	result    *Result
	truncated bool
}

func (w *walker) walk(ctx context.Context, dir string) error {
	if w.aborted(ctx) || w.truncated {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.diag(relPath(w.root, dir), "ingest", fmt.Sprintf("failed to read directory: %v", err))
		return nil
	}

	for _, entry := range entries {
		if w.aborted(ctx) {
			return nil
		}
		path := filepath.Join(dir, entry.Name())

		if w.ignored(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.diag(relPath(w.root, path), "ingest", fmt.Sprintf("failed to stat: %v", err))
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				w.diag(relPath(w.root, path), "ingest", fmt.Sprintf("broken symlink: %v", err))
				continue
			}
			resolvedInfo, err := os.Stat(resolved)
			if err != nil {
				w.diag(relPath(w.root, path), "ingest", fmt.Sprintf("failed to stat symlink target: %v", err))
				continue
			}
			if resolvedInfo.IsDir() {
				if w.visited[resolved] {
					continue
				}
				w.visited[resolved] = true
				if err := w.walk(ctx, path); err != nil {
					return err
				}
				continue
			}
			info = resolvedInfo
		}

		if info.IsDir() {
			if canonical, err := filepath.EvalSymlinks(path); err == nil {
				if w.visited[canonical] {
					continue
				}
				w.visited[canonical] = true
			}
			if err := w.walk(ctx, path); err != nil {
				return err
			}
			continue
		}

		w.addFile(path, info.Size())
		if w.ing.cfg.MaxFiles > 0 && len(w.result.Files) >= w.ing.cfg.MaxFiles {
			w.diag("", "ingest", fmt.Sprintf("file catalogue truncated at %d entries", w.ing.cfg.MaxFiles))
			w.truncated = true
			return nil
		}
	}
	return nil
}

// addFile classifies a single file and appends it to the catalogue.
func (w *walker) addFile(path string, size int64) {
	rel := relPath(w.root, path)
	if w.seen[rel] {
		return
	}
	w.seen[rel] = true

	file := SourceFile{Path: rel, Size: size}

	language, binary, err := w.ing.classify(path)
	if err != nil {
		w.diag(rel, "ingest", fmt.Sprintf("failed to classify: %v", err))
		w.result.Files = append(w.result.Files, file)
		return
	}
	file.Language = language
	file.Binary = binary

	oversize := w.ing.cfg.MaxFileSize > 0 && size > w.ing.cfg.MaxFileSize
	if oversize {
		w.diag(rel, "ingest", fmt.Sprintf("file exceeds size cap (%d bytes), excluded from text analysis", size))
	}

	file.Text = !binary && !oversize && w.ing.textLanguage(language)
	if file.Text {
		lines, err := countLines(path)
		if err != nil {
			w.diag(rel, "ingest", fmt.Sprintf("failed to read: %v", err))
			file.Text = false
		} else {
			file.Lines = lines
			w.result.TotalLines += lines
		}
	}

	w.result.Files = append(w.result.Files, file)
}

// aborted converts a fired deadline into catalogue truncation. The walk stops
// and the partial catalogue is returned marked incomplete instead of the run
// failing with a bare context error.
func (w *walker) aborted(ctx context.Context) bool {
	if ctx.Err() == nil {
		return false
	}
	if !w.truncated {
		w.truncated = true
		w.result.Incomplete = true
		w.diag("", "ingest", errors.NewTimeoutExceededError("ingestion", 0).Error())
	}
	return true
}

// ignored matches a base name against the configured ignore globs.
func (w *walker) ignored(name string) bool {
	for _, glob := range w.ing.cfg.IgnoreGlobs {
		if matched, _ := filepath.Match(glob, name); matched {
			return true
		}
	}
	return false
}

// textLanguage reports whether a language takes part in text-based analysis,
// honoring the enabled-language allowlist when one is configured.
func (ing *Ingestor) textLanguage(language string) bool {
	if language == "" || !ing.reg.TextLanguages[language] {
		return false
	}
	if len(ing.cfg.EnabledLanguages) == 0 {
		return true
	}
	for _, enabled := range ing.cfg.EnabledLanguages {
		if enabled == language {
			return true
		}
	}
	return false
}

func (w *walker) diag(file, stage, message string) {
	w.result.Diagnostics = append(w.result.Diagnostics, Diagnostic{File: file, Stage: stage, Message: message})
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// TextFiles returns the subset of the catalogue that downstream text-based
// scanners operate on, preserving catalogue order.
func (r *Result) TextFiles() []SourceFile {
	var out []SourceFile
	for _, f := range r.Files {
		if f.Text {
			out = append(out, f)
		}
	}
	return out
}

// HasFile reports whether the catalogue contains the exact relative path.
func (r *Result) HasFile(path string) bool {
	for _, f := range r.Files {
		if f.Path == path {
			return true
		}
	}
	return false
}

// PathSet returns the catalogued relative paths as a set for import resolution.
func (r *Result) PathSet() map[string]bool {
	set := make(map[string]bool, len(r.Files))
	for _, f := range r.Files {
		set[f.Path] = true
	}
	return set
}

// Basenames returns the set of file base names present in the catalogue.
func (r *Result) Basenames() map[string]bool {
	set := make(map[string]bool, len(r.Files))
	for _, f := range r.Files {
		set[strings.ToLower(filepath.Base(f.Path))] = true
	}
	return set
}
