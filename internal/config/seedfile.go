package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SeedFileWatcher watches a local JSON or YAML fixture file and invokes
// a callback with its raw contents on start and whenever it changes,
// mirroring the teacher's fsnotify-based hot reload but scoped to fixture
// data rather than feature flags. The callback decides what the data is
// used for; cmd/chemistflow does not start a watcher, so nothing re-seeds
// the cache tiers unless a caller wires one up.
type SeedFileWatcher struct {
	path     string
	onChange func(data []byte) error
	logger   *zap.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSeedFileWatcher constructs a watcher for path. onChange receives the
// raw file bytes; the caller decides JSON vs YAML decoding.
func NewSeedFileWatcher(path string, onChange func(data []byte) error, logger *zap.Logger) *SeedFileWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedFileWatcher{path: path, onChange: onChange, logger: logger, done: make(chan struct{})}
}

// Start performs an initial load of path and begins watching it for
// writes. It is a no-op if path is empty.
func (w *SeedFileWatcher) Start() error {
	if w.path == "" {
		return nil
	}

	if err := w.reload(); err != nil {
		w.logger.Warn("initial seed file load failed", zap.String("path", w.path), zap.Error(err))
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsWatcher.Add(w.path); err != nil {
		fsWatcher.Close()
		return err
	}

	w.mu.Lock()
	w.watcher = fsWatcher
	w.mu.Unlock()

	go w.loop(fsWatcher)
	return nil
}

func (w *SeedFileWatcher) loop(fsWatcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if err := w.reload(); err != nil {
					w.logger.Warn("seed file reload failed", zap.String("path", w.path), zap.Error(err))
				}
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("seed file watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

func (w *SeedFileWatcher) reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	return w.onChange(data)
}

// Stop releases the underlying filesystem watch.
func (w *SeedFileWatcher) Stop() error {
	close(w.done)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

// DecodeSeed decodes fixture bytes as YAML or JSON into dest, picked by
// a best-effort sniff: a leading '{' or '[' is treated as JSON.
func DecodeSeed(data []byte, dest any) error {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return json.Unmarshal(data, dest)
		default:
			return yaml.Unmarshal(data, dest)
		}
	}
	return nil
}
