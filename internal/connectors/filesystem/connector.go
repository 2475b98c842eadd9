// Package filesystem scans local directories for documents and watches them
// for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// DefaultPattern matches every file below the root.
const DefaultPattern = "**/*"

// ChangeType identifies what happened to a watched file.
type ChangeType int

// Change types emitted by Watch.
const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeDeleted
)

// String returns the lower-case change name.
func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a single file event below the root.
type Change struct {
	Type ChangeType
	Path string
}

// Connector scans and watches one directory tree.
// Hidden files and directories are always skipped.
type Connector struct {
	root     string
	patterns []string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// New creates a connector for root. Patterns are doublestar globs matched
// against slash-separated paths relative to root; none means DefaultPattern.
func New(root string, patterns ...string) *Connector {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	return &Connector{root: root, patterns: patterns}
}

// Root returns the directory being scanned.
func (c *Connector) Root() string {
	return c.root
}

// Validate checks the root is an existing directory and every pattern parses.
func (c *Connector) Validate() error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, c.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, c.root)
	}
	for _, p := range c.patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: bad pattern %q", domain.ErrInvalidInput, p)
		}
	}
	return nil
}

// Scan returns the absolute paths of matching files, sorted.
func (c *Connector) Scan(ctx context.Context) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != c.root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if c.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", c.root, err)
	}

	sort.Strings(files)
	return files, nil
}

// Watch emits changes to matching files until ctx is cancelled.
// Directories created after Watch starts are watched too.
func (c *Connector) Watch(ctx context.Context) (<-chan Change, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := c.addTree(watcher, c.root); err != nil {
		watcher.Close() //nolint:errcheck
		return nil, err
	}

	c.mu.Lock()
	c.watcher = watcher
	c.mu.Unlock()

	changes := make(chan Change, 16)
	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) && isDir(event.Name) {
					if !isHidden(filepath.Base(event.Name)) {
						if err := c.addTree(watcher, event.Name); err != nil {
							logger.Warn("watching %s: %v", event.Name, err)
						}
					}
					continue
				}
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops any running watcher.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

// handleFsEvent converts a raw event into a Change, or nil when ignored.
func (c *Connector) handleFsEvent(event fsnotify.Event) *Change {
	rel, ok := c.relative(event.Name)
	if !ok || isHidden(rel) || !c.matchRel(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Type: ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		t := ChangeUpdated
		if event.Has(fsnotify.Create) {
			t = ChangeCreated
		}
		return &Change{Type: t, Path: event.Name}
	default:
		return nil
	}
}

func (c *Connector) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != c.root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (c *Connector) matches(path string) bool {
	rel, ok := c.relative(path)
	return ok && c.matchRel(rel)
}

// relative returns path relative to the root in slash form.
func (c *Connector) relative(path string) (string, bool) {
	rel, err := filepath.Rel(c.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (c *Connector) matchRel(rel string) bool {
	for _, p := range c.patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// isHidden reports whether any element of path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && strings.HasPrefix(part, ".") && part != ".." {
			return true
		}
	}
	return false
}
