package sketch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 250 * time.Millisecond

// scriptWatcher calls onChange when the watched script is saved.
type scriptWatcher struct {
	watcher   *fsnotify.Watcher
	filePath  string
	debounce  time.Duration
	onChange  func() error
	onError   func(error)
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
	stopped   bool
}

// newScriptWatcher watches filePath. onChange runs once per burst of
// writes, after debounce has passed without further events.
func newScriptWatcher(filePath string, debounce time.Duration, onChange func() error, onError func(error)) (*scriptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	// Editors that save by renaming replace the inode, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &scriptWatcher{
		watcher:   watcher,
		filePath:  filePath,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine.
func (sw *scriptWatcher) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.running || sw.stopped {
		return
	}
	sw.running = true
	go sw.watchLoop()
}

// Stop stops the watcher and waits for the loop to exit. A watcher that
// was never started is closed directly.
func (sw *scriptWatcher) Stop() {
	sw.mu.Lock()
	if sw.stopped {
		sw.mu.Unlock()
		return
	}
	sw.stopped = true
	running := sw.running
	sw.mu.Unlock()

	if !running {
		sw.watcher.Close()
		return
	}
	close(sw.stopCh)
	<-sw.stoppedCh
}

// matches reports whether an event path names the watched script.
func (sw *scriptWatcher) matches(name string) bool {
	if filepath.Clean(name) == filepath.Clean(sw.filePath) {
		return true
	}
	absEvent, err1 := filepath.Abs(name)
	absPath, err2 := filepath.Abs(sw.filePath)
	return err1 == nil && err2 == nil && absEvent == absPath
}

func (sw *scriptWatcher) watchLoop() {
	defer close(sw.stoppedCh)
	defer sw.watcher.Close()

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-sw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(sw.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceTimer = nil
			debounceCh = nil
			if sw.onChange != nil {
				if err := sw.onChange(); err != nil && sw.onError != nil {
					sw.onError(err)
				}
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			if sw.onError != nil {
				sw.onError(err)
			}
		}
	}
}
