package userscript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DirCatalog serves the userscripts found in a directory. Files ending in
// ".js" are loaded; IDs follow the sorted file names, starting at 1.
type DirCatalog struct {
	dir    string
	logger *zap.Logger

	mu      sync.RWMutex
	scripts []Script
}

// NewDirCatalog loads the scripts in dir.
func NewDirCatalog(dir string, logger *zap.Logger) (*DirCatalog, error) {
	d := &DirCatalog{
		dir:    dir,
		logger: logger,
	}
	if err := d.Reload(); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns a copy of the most recently loaded scripts.
func (d *DirCatalog) List(_ context.Context) ([]Script, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Script, len(d.scripts))
	copy(out, d.scripts)
	return out, nil
}

// Reload re-reads the directory and swaps in the new snapshot.
// On error the previous snapshot is kept.
func (d *DirCatalog) Reload() error {
	scripts, err := loadDir(d.dir)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.scripts = scripts
	d.mu.Unlock()

	d.logger.Debug("userscript catalog loaded",
		zap.String("dir", d.dir),
		zap.Int("count", len(scripts)),
	)
	return nil
}

// Watch reloads the catalog whenever a file in the directory changes, until
// ctx is done. It blocks; run it in its own goroutine.
func (d *DirCatalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(d.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", d.dir, err)
	}

	d.logger.Info("watching userscript directory", zap.String("dir", d.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".js") || event.Op == fsnotify.Chmod {
				continue
			}
			if err := d.Reload(); err != nil {
				d.logger.Warn("failed to reload userscripts", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn("userscript watcher error", zap.Error(err))
		}
	}
}

func loadDir(dir string) ([]Script, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read userscript directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".js") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	scripts := make([]Script, 0, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read userscript %s: %w", name, err)
		}

		code := string(data)
		meta, _ := ParseMetadata(code)
		if meta.Name == "" {
			meta.Name = strings.TrimSuffix(strings.TrimSuffix(name, ".js"), ".user")
		}

		scripts = append(scripts, Script{
			ID:          i + 1,
			Name:        meta.Name,
			Description: meta.Description,
			Enabled:     meta.Enabled,
			Code:        code,
		})
	}

	return scripts, nil
}
