// Package actor is the single-threaded command dispatcher: it owns the
// global State exclusively, sequences every OpenRepository /
// CloseRepository / CreateFile / UpdateHeader / UpdateContent /
// DeleteFile / List command against it, and folds the Scanner's watcher
// events into the same inbox as synthetic commands so State never needs
// its own lock.
package actor

import (
	"errors"
	"time"

	"github.com/krampenschiesser/cryptochest/internal/log"
	"github.com/krampenschiesser/cryptochest/internal/scanner"
)

var errActorStopped = errors.New("actor: stopped")

type envelope struct {
	cmd   Command
	reply chan Response
}

// Actor runs the dispatch loop. It is not used directly by callers —
// Start returns a Control handle instead.
type Actor struct {
	state   *State
	inbox   chan envelope
	watcher *scanner.Watcher
}

// Control is the handle callers use to talk to a running Actor. Every
// method is safe to call from any goroutine; the Actor itself runs on
// its own goroutine and processes one envelope at a time.
type Control struct {
	inbox chan envelope
	done  chan struct{}
}

// Start scans folders, installs a recursive debounced watch, and spawns
// the dispatch loop on its own goroutine. Callers get back a Control to
// issue commands with and a Stop method to shut it down cleanly.
func Start(folders []string) (*Control, error) {
	scan := scanner.ScanFolders(folders)
	watcher, err := scanner.Watch(folders)
	if err != nil {
		return nil, err
	}

	a := &Actor{
		state:   newState(folders, scan),
		inbox:   make(chan envelope),
		watcher: watcher,
	}
	control := &Control{inbox: a.inbox, done: make(chan struct{})}

	go a.run(control.done)
	return control, nil
}

func (a *Actor) run(done chan struct{}) {
	log.Info("actor starting", log.Int("repositories", len(a.state.repos)), log.Int("files", len(a.state.files)))
	defer close(done)
	defer a.watcher.Close()

	for {
		select {
		case env := <-a.inbox:
			if _, ok := env.cmd.(shutdown); ok {
				env.reply <- nil
				return
			}
			env.reply <- dispatch(env.cmd, a.state, time.Now())
		case change, ok := <-a.watcher.Events():
			if !ok {
				continue
			}
			a.handleChange(change)
		}
	}
}

func (a *Actor) handleChange(change scanner.Change) {
	var cmd Command
	switch change.Kind {
	case scanner.ChangeCreated:
		cmd = fileAdded{Path: change.Path}
	case scanner.ChangeModified:
		cmd = fileChanged{Path: change.Path}
	case scanner.ChangeRemoved:
		cmd = fileDeleted{Path: change.Path}
	}
	resp := dispatch(cmd, a.state, time.Now())
	if u, ok := resp.(UnrecognizedFile); ok {
		log.Debug("scan event ignored", log.String("path", u.Path), log.String("reason", u.Message))
	}
}

// Send submits cmd and blocks until the Actor replies. The returned
// error is non-nil only if the Actor has already stopped; domain-level
// failures (wrong password, invalid token, optimistic lock, write
// failure) are carried in the Response, never in error.
func (c *Control) Send(cmd Command) (Response, error) {
	reply := make(chan Response, 1)
	select {
	case c.inbox <- envelope{cmd: cmd, reply: reply}:
	case <-c.done:
		return nil, errActorStopped
	}
	select {
	case resp := <-reply:
		return resp, nil
	case <-c.done:
		return nil, errActorStopped
	}
}

// Stop sends the shutdown sentinel and waits for the dispatch loop to
// exit. It is safe to call more than once.
func (c *Control) Stop() {
	select {
	case <-c.done:
		return
	default:
	}
	reply := make(chan Response, 1)
	select {
	case c.inbox <- envelope{cmd: shutdown{}, reply: reply}:
		<-c.done
	case <-c.done:
	}
}
