package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FS locates templates as files under a root directory. The identifier
// "mail/welcome" with suffix ".hbs" maps to <root>/mail/welcome.hbs.
type FS struct {
	root   string
	suffix string
	fsys   fs.FS
	logger *zap.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dirs    map[string]bool
	done    chan struct{}
}

// NewFS creates a file system locator
func NewFS(root, suffix string, logger *zap.Logger) *FS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FS{
		root:   root,
		suffix: suffix,
		fsys:   os.DirFS(root),
		logger: logger,
		dirs:   make(map[string]bool),
	}
}

// Source implements Locator.
func (f *FS) Source(id string) (string, bool, error) {
	name := id + f.suffix
	if !fs.ValidPath(name) {
		return "", false, nil
	}

	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read template %s: %w", name, err)
	}

	f.watchDir(filepath.Dir(filepath.Join(f.root, filepath.FromSlash(name))))
	return string(data), true, nil
}

// Watch calls onChange with the identifier of every template file that is
// written, renamed or removed once it has been located.
func (f *FS) Watch(onChange func(id string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	f.mu.Lock()
	f.watcher = watcher
	f.done = make(chan struct{})
	f.mu.Unlock()

	f.watchDir(f.root)
	go f.loop(watcher, onChange)

	return nil
}

func (f *FS) loop(watcher *fsnotify.Watcher, onChange func(id string)) {
	defer close(f.done)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			id, ok := f.identifier(event.Name)
			if !ok {
				continue
			}
			f.logger.Debug("template changed",
				zap.String("template", id),
				zap.String("op", event.Op.String()),
			)
			onChange(id)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.logger.Error("template watcher error", zap.Error(err))
		}
	}
}

// watchDir adds dir to the watcher once
func (f *FS) watchDir(dir string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.watcher == nil || f.dirs[dir] {
		return
	}
	if err := f.watcher.Add(dir); err != nil {
		f.logger.Warn("failed to watch template directory",
			zap.String("dir", dir),
			zap.Error(err),
		)
		return
	}
	f.dirs[dir] = true
}

// identifier maps a file name reported by the watcher back to a template id
func (f *FS) identifier(name string) (string, bool) {
	rel, err := filepath.Rel(f.root, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, f.suffix) {
		return "", false
	}
	return strings.TrimSuffix(rel, f.suffix), true
}

// Close stops watching
func (f *FS) Close() error {
	f.mu.Lock()
	watcher, done := f.watcher, f.done
	f.watcher = nil
	f.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	return err
}
