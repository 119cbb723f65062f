package agamdocs

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
)

// DefaultWatchDebounce coalesces the burst of events an editor save produces.
const DefaultWatchDebounce = 300 * time.Millisecond

// DocsWatcher calls a function after files in a directory change.
type DocsWatcher struct {
	w        *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	logger   echo.Logger

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	running sync.WaitGroup // onChange calls in progress

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// WatchDocs starts watching dir. onChange runs on its own goroutine once
// events have been quiet for debounce.
func WatchDocs(dir string, debounce time.Duration, onChange func(), logger echo.Logger) (*DocsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	dw := &DocsWatcher{
		w:        w,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}
	dw.wg.Add(1)
	go dw.loop()
	return dw, nil
}

func (dw *DocsWatcher) loop() {
	defer dw.wg.Done()
	for {
		select {
		case event, ok := <-dw.w.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				dw.logger.Debugf("docs changed: %s", event)
				dw.schedule()
			}
		case err, ok := <-dw.w.Errors:
			if !ok {
				return
			}
			dw.logger.Errorf("docs watcher: %v", err)
		case <-dw.done:
			return
		}
	}
}

func (dw *DocsWatcher) schedule() {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.timer != nil {
		dw.timer.Stop()
	}
	dw.timer = time.AfterFunc(dw.debounce, dw.fire)
}

func (dw *DocsWatcher) fire() {
	dw.mu.Lock()
	if dw.closed {
		dw.mu.Unlock()
		return
	}
	dw.running.Add(1)
	dw.mu.Unlock()
	defer dw.running.Done()
	dw.onChange()
}

// Close stops watching. A pending debounced call is dropped and a call
// already running is waited for, so the caller may release what onChange
// uses. Close is safe to call more than once.
func (dw *DocsWatcher) Close() error {
	dw.closeOnce.Do(func() {
		close(dw.done)
		dw.closeErr = dw.w.Close()
		dw.wg.Wait()

		dw.mu.Lock()
		dw.closed = true
		if dw.timer != nil {
			dw.timer.Stop()
		}
		dw.mu.Unlock()
		dw.running.Wait()
	})
	return dw.closeErr
}
