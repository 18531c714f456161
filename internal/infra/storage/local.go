package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	domain "github.com/toolverse-app/toolverse/internal/domain/tools"
)

// Local stages processing outputs in a shared downloads directory.
// Names carry a uuid so two operations finishing in the same
// millisecond can never collide.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create downloads dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) Stage(operation, ext string) (domain.Artifact, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := fmt.Sprintf("%s-%s%s", operation, uuid.New().String(), ext)
	return domain.Artifact{
		Name: name,
		Path: filepath.Join(l.dir, name),
	}, nil
}

// Resolve maps a bare filename to its path inside the downloads dir.
// Anything that escapes the directory is treated as not found.
func (l *Local) Resolve(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		return "", domain.ErrFileNotFound
	}
	path := filepath.Join(l.dir, filename)
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return "", domain.ErrFileNotFound
	}
	return path, nil
}

func (l *Local) Remove(filename string) error {
	path, err := l.Resolve(filename)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
