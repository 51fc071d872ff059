package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads the config file when it changes on disk and hands the
// parsed result to onChange. Notifications that leave the content
// unchanged are collapsed by hashing the raw file bytes.
type Watcher struct {
	path     string
	logger   *logrus.Logger
	onChange func(*Config)
	watcher  *fsnotify.Watcher
	lastHash [32]byte
	done     chan struct{}
	stopOnce sync.Once
}

func Watch(path string, logger *logrus.Logger, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory rather than the file so editors that replace
	// the file on save keep being tracked.
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		path:     path,
		logger:   logger,
		onChange: onChange,
		watcher:  fw,
		done:     make(chan struct{}),
	}

	if data, err := os.ReadFile(path); err == nil {
		w.lastHash = sha256.Sum256(data)
	}

	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("Config watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warnf("Failed to re-read config: %v", err)
		return
	}

	hash := sha256.Sum256(data)
	if hash == w.lastHash {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Errorf("Ignoring config change, reload failed: %v", err)
		return
	}

	w.lastHash = hash
	w.logger.Info("Config file changed, reloading")
	w.onChange(cfg)
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}
