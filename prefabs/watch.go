package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type FileKind int

const (
	KindSpec FileKind = iota + 1
	KindScript
)

type Change struct {
	Path string
	Kind FileKind
}

// Watcher reports edits to tuning specs and input scripts in a set of
// directories. Bursts of events on one file within debounce collapse into one.
type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan Change
	Errors   chan error
	closeCh  chan struct{}
	doneCh   chan struct{}
	once     sync.Once
	debounce time.Duration
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
		debounce: 100 * time.Millisecond,
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.doneCh
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind := fileKind(event.Name)
			if kind == 0 {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Path: event.Name, Kind: kind}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func fileKind(path string) FileKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return KindSpec
	case ".tengo":
		return KindScript
	}
	return 0
}
