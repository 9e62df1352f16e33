package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReadDark parses a dark-mode switch file. ok is false when the file is
// missing or holds anything but "dark" or "light".
func ReadDark(path string) (dark, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, false, nil
		}
		return false, false, err
	}
	switch strings.ToLower(strings.TrimSpace(string(data))) {
	case DarkOn:
		return true, true, nil
	case DarkOff:
		return false, true, nil
	}
	return false, false, nil
}

// DarkWatcher reports edits of the dark-mode switch file. It watches the
// parent directory so editors that replace the file are seen too. Only the
// latest value is kept for the reader.
type DarkWatcher struct {
	mu      sync.Mutex
	path    string
	log     *zap.Logger
	watcher *fsnotify.Watcher
	changes chan bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewDarkWatcher prepares a watcher for path.
func NewDarkWatcher(path string, log *zap.Logger) (*DarkWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve dark file: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &DarkWatcher{
		path:    abs,
		log:     log.With(zap.String("dark_file", abs)),
		watcher: w,
		changes: make(chan bool, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Changes delivers the new dark flag after each valid edit.
func (d *DarkWatcher) Changes() <-chan bool { return d.changes }

// Start begins watching on a background goroutine.
func (d *DarkWatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return nil
	}
	if err := d.watcher.Add(filepath.Dir(d.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(d.path), err)
	}
	d.running = true
	go d.run(ctx)
	d.log.Debug("watching dark file")
	return nil
}

// Stop ends the goroutine and releases the watcher. It is safe to call
// more than once, and before Start.
func (d *DarkWatcher) Stop() {
	d.mu.Lock()
	running := d.running
	d.running = false
	d.mu.Unlock()

	if running {
		close(d.stopCh)
		<-d.doneCh
	}
	if err := d.watcher.Close(); err != nil {
		d.log.Warn("closing watcher", zap.Error(err))
	}
}

func (d *DarkWatcher) run(ctx context.Context) {
	defer close(d.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			d.handle(event)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (d *DarkWatcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != d.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	dark, ok, err := ReadDark(d.path)
	if err != nil {
		d.log.Warn("reading dark file", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	d.log.Debug("dark file changed", zap.Bool("dark", dark))
	d.publish(dark)
}

// publish replaces any unread value with dark.
func (d *DarkWatcher) publish(dark bool) {
	select {
	case d.changes <- dark:
		return
	default:
	}
	select {
	case <-d.changes:
	default:
	}
	d.changes <- dark
}
