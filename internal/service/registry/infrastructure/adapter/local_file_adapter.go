package adapter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const localFileBackendName = "local-file"

// LocalFileAdapter keeps the item list in a file on local disk. It is the
// terminal tier of the chain and the only one that is always configured.
type LocalFileAdapter struct {
	path string
}

// NewLocalFileAdapter creates a backend over path.
func NewLocalFileAdapter(path string) *LocalFileAdapter {
	return &LocalFileAdapter{path: path}
}

func (a *LocalFileAdapter) Name() string { return localFileBackendName }

// Path returns the file location.
func (a *LocalFileAdapter) Path() string { return a.path }

func (a *LocalFileAdapter) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", a.path)
	}
	return data, nil
}

// Write replaces the file atomically: the content goes to a temporary file
// in the same directory which is then renamed over the target, so readers
// never observe a half-written list.
// ⚠️ 这是最后一层：ctx 已取消也照样写入，webhook 已经确认过的预订不能丢。
func (a *LocalFileAdapter) Write(_ context.Context, content []byte) error {
	dir := filepath.Dir(a.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(a.path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(err, "chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		return errors.Wrapf(err, "rename %s to %s", tmpName, a.path)
	}
	committed = true
	return nil
}
