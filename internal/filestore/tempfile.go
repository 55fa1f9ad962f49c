package filestore

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/krampenschiesser/cryptochest/internal/log"
	"github.com/krampenschiesser/cryptochest/internal/util"
)

// tempFile is a scoped temp-file handle used to stage a blob before it is
// published via rename. If the file was never marked moved, cleanup removes
// it — this bounds a crashed or failed publish to, at worst, a stray temp
// file in the OS temp dir rather than a partially-written destination.
type tempFile struct {
	path  string
	moved bool
}

func newTempFile() (*tempFile, error) {
	name := uuid.New().String()
	return &tempFile{path: filepath.Join(os.TempDir(), name)}, nil
}

// writeAndPublish writes data to the temp file, fsyncs it, then renames it
// over dest. This is the only commit primitive: readers of dest never
// observe a partial blob.
func (t *tempFile) writeAndPublish(data []byte, dest string) error {
	f, err := os.Create(t.path)
	if err != nil {
		return err
	}
	buf := util.GetMiBBuffer()
	defer util.PutMiBBuffer(buf)
	if _, err := io.CopyBuffer(f, bytes.NewReader(data), buf); err != nil {
		f.Close()
		t.cleanup()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		t.cleanup()
		return err
	}
	if err := f.Close(); err != nil {
		t.cleanup()
		return err
	}
	if err := os.Rename(t.path, dest); err != nil {
		t.cleanup()
		return err
	}
	t.moved = true
	return nil
}

func (t *tempFile) cleanup() {
	if t.moved {
		return
	}
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		log.Warn("could not remove temp file", log.String("path", t.path), log.Err(err))
	}
}
