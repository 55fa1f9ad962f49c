package scanner

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestClassifyEventMapsCreateWriteRemoveRename(t *testing.T) {
	kind, ok := classifyEvent(fsnotify.Event{Name: "a", Op: fsnotify.Create})
	assert.True(t, ok)
	assert.Equal(t, ChangeCreated, kind)

	kind, ok = classifyEvent(fsnotify.Event{Name: "a", Op: fsnotify.Write})
	assert.True(t, ok)
	assert.Equal(t, ChangeModified, kind)

	kind, ok = classifyEvent(fsnotify.Event{Name: "a", Op: fsnotify.Remove})
	assert.True(t, ok)
	assert.Equal(t, ChangeRemoved, kind)

	kind, ok = classifyEvent(fsnotify.Event{Name: "a", Op: fsnotify.Rename})
	assert.True(t, ok)
	assert.Equal(t, ChangeRemoved, kind)
}

func TestClassifyEventIgnoresChmod(t *testing.T) {
	_, ok := classifyEvent(fsnotify.Event{Name: "a", Op: fsnotify.Chmod})
	assert.False(t, ok)
}

func TestWatchAndCloseOnTempDir(t *testing.T) {
	dir := t.TempDir()
	w, err := Watch([]string{dir})
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
}
