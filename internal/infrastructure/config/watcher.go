package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce is how long a level file must stay quiet before it is reported.
// Editors often truncate and rewrite a file, or save it twice, in one go.
const debounce = 100 * time.Millisecond

// Watcher reports level files that changed on disk. Events carries level
// names, as accepted by Loader.LoadLevel.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches the levels directory under basePath.
func NewWatcher(basePath string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(basePath, "levels")
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		logger:  logger.With(zap.String("dir", dir)),
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	// One timer per level, pushed back by every event so the name is only
	// reported once writes to it stop.
	pending := make(map[string]*time.Timer)
	quiet := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, ok := levelName(event.Name)
			if !ok {
				continue
			}
			if t, ok := pending[name]; ok {
				t.Reset(debounce)
				continue
			}
			pending[name] = time.AfterFunc(debounce, func() {
				select {
				case quiet <- name:
				case <-w.closeCh:
				}
			})
		case name := <-quiet:
			delete(pending, name)
			w.logger.Debug("level changed", zap.String("level", name))
			select {
			case w.Events <- name:
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
				w.logger.Warn("dropped watcher error", zap.Error(err))
			}
		case <-w.closeCh:
			return
		}
	}
}

func levelName(file string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(file))
	if ext != ".yaml" && ext != ".yml" {
		return "", false
	}
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)), true
}
