// Package watch reports FITS files as they appear in a directory.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors a directory for new or rewritten FITS files using fsnotify.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Files    <-chan string // Absolute or Dir-relative paths, as fsnotify reports them
	Errors   <-chan error

	files   chan string
	errs    chan error
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for dir. Call Start to begin delivering files.
func New(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(chan string, 16)
	errs := make(chan error, 4)
	return &Watcher{
		Dir:      dir,
		Debounce: DefaultDebounce,
		Files:    files,
		Errors:   errs,
		files:    files,
		errs:     errs,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and both channels. Files still settling are dropped.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.files)
	close(w.errs)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Track last event time per file.
	pending := make(map[string]time.Time)
	if w.Debounce <= 0 {
		w.Debounce = DefaultDebounce
	}
	ticker := time.NewTicker(w.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsFITS(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case now := <-ticker.C:
			for file, t := range pending {
				if now.Sub(t) < w.Debounce {
					continue
				}
				delete(pending, file)
				if _, err := os.Stat(file); err != nil {
					continue
				}
				select {
				case w.files <- file:
				case <-w.stop:
					return
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; drop them if nobody is listening.
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// IsFITS reports whether name looks like a FITS file. Hidden files are
// ignored so that the temporary files fits.Save renames into place are not
// picked up half-written.
func IsFITS(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	if strings.HasPrefix(base, ".") {
		return false
	}
	base = strings.TrimSuffix(base, ".gz")
	switch filepath.Ext(base) {
	case ".fits", ".fit", ".fts":
		return true
	}
	return false
}
