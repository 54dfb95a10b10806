// Package workspace keeps the parsed state of every deck under a directory
// and serves it to the CLI watcher and the language server.
package workspace

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/mcnpdeck/config"
	"github.com/dhamidi/mcnpdeck/deck"
	"github.com/dhamidi/mcnpdeck/source"
)

var log = commonlog.GetLogger("mcnpdeck.workspace")

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	config  *config.Config
	files   map[string]*File
}

// File is the parsed state of one deck.
type File struct {
	Path    string
	Content []byte

	// Result holds the cards of this file alone.
	Result *deck.Result

	// Deck is Result with every READ card replaced by the cards of the
	// file it names. It is Result itself when the file has no READ cards.
	Deck *deck.Result

	// Includes lists the files pulled in through READ cards.
	Includes []string
}

func New(rootDir string, cfg *config.Config) *Workspace {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Workspace{
		rootDir: rootDir,
		config:  cfg,
		files:   make(map[string]*File),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

func (w *Workspace) Config() *config.Config {
	return w.config
}

// ScanAll parses every deck under the root directory, several files at a
// time. Files that cannot be read are logged and skipped.
func (w *Workspace) ScanAll(ctx context.Context) error {
	paths, err := w.deckPaths()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.ScanFile(path); err != nil {
				log.Warningf("skipping %s: %v", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *Workspace) deckPaths() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if w.config.IsDeck(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func (w *Workspace) ScanFile(path string) error {
	content, err := source.ReadFile(path, w.config.SourceEncoding())
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile parses content as the deck at path. content must already be
// normalised.
func (w *Workspace) UpdateFile(path string, content []byte) *File {
	res := deck.Parse(content, w.config.Options(w.displayName(path))...)
	f := &File{
		Path:    path,
		Content: content,
		Result:  res,
	}
	f.Deck, f.Includes = w.resolveReads(path, res, []string{path})
	log.Debugf("parsed %s: %d records, %d diagnostics, %d includes", path, len(res.Records), len(res.Diagnostics), len(f.Includes))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = f
	return f
}

func (w *Workspace) displayName(path string) string {
	if rel, err := filepath.Rel(w.rootDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns every parsed file sorted by path.
func (w *Workspace) Files() []*File {
	w.mu.RLock()
	files := make([]*File, 0, len(w.files))
	for _, f := range w.files {
		files = append(files, f)
	}
	w.mu.RUnlock()

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// IncludedBy returns the decks that pull in path through a READ card.
func (w *Workspace) IncludedBy(path string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []string
	for p, f := range w.files {
		if slices.Contains(f.Includes, path) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Diagnostics returns the diagnostics of every file, keyed by path.
func (w *Workspace) Diagnostics() map[string][]*deck.Diagnostic {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string][]*deck.Diagnostic, len(w.files))
	for path, f := range w.files {
		if len(f.Result.Diagnostics) > 0 {
			out[path] = f.Result.Diagnostics
		}
	}
	return out
}

// RecordAt returns the record of the file at path covering line, if any.
func (w *Workspace) RecordAt(path string, line int) *deck.Record {
	f := w.GetFile(path)
	if f == nil {
		return nil
	}
	for _, r := range f.Result.Records {
		if r.StartLine() <= line && line <= r.EndLine() {
			return r
		}
	}
	return nil
}
