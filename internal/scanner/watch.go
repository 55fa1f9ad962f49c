package scanner

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/krampenschiesser/cryptochest/internal/log"
)

// DebounceInterval is how long the watcher waits after the last event on a
// path before forwarding it, so that a burst of writes (e.g. a temp-file
// write followed by a rename) collapses into one event.
const DebounceInterval = 10 * time.Second

// ChangeKind distinguishes the three filesystem events the Actor reacts
// to. A rename is treated as a removal of the old name plus a creation of
// the new one, matching how the underlying watcher reports it.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

// Change is a single debounced filesystem event ready to be turned into a
// synthetic FileAdded/FileChanged/FileDeleted command.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher recursively watches a set of root folders and emits debounced
// Change events on its Events channel. Callers must call Close when done.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan Change
	stop   chan struct{}
}

// Watch installs a recursive watch on every folder and starts the
// debounce loop. The folders themselves are watched non-recursively by
// fsnotify; nested directories are added as they are observed being
// created. Directories that already exist below a folder when Watch is
// called are not added.
func Watch(folders []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, folder := range folders {
		if err := fsw.Add(folder); err != nil {
			log.Warn("could not watch folder", log.String("folder", folder), log.Err(err))
		}
	}

	w := &Watcher{fs: fsw, events: make(chan Change), stop: make(chan struct{})}
	go w.loop()
	return w, nil
}

// Events returns the channel of debounced changes.
func (w *Watcher) Events() <-chan Change { return w.events }

// Close stops the debounce loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.stop)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	pending := make(map[string]Change)
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	flush := func() {
		for _, c := range pending {
			w.events <- c
		}
		pending = make(map[string]Change)
	}

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			kind, ok := classifyEvent(event)
			if !ok {
				continue
			}
			if kind == ChangeCreated {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fs.Add(event.Name); err != nil {
						log.Warn("could not watch folder", log.String("folder", event.Name), log.Err(err))
					}
				}
			}
			pending[event.Name] = Change{Path: event.Name, Kind: kind}
			timer.Reset(DebounceInterval)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn("filesystem watch error", log.Err(err))
		case <-timer.C:
			flush()
		}
	}
}

// classifyEvent maps an fsnotify op to a ChangeKind. Renames are reported
// as a removal of the old path — the corresponding Create for the new
// path arrives as its own event, matching the original implementation's
// "rename = remove + create" treatment.
func classifyEvent(event fsnotify.Event) (ChangeKind, bool) {
	switch {
	case event.Op&fsnotify.Create != 0:
		return ChangeCreated, true
	case event.Op&fsnotify.Write != 0:
		return ChangeModified, true
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return ChangeRemoved, true
	default:
		return 0, false
	}
}
