package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LockName is the advisory lock file kept in the website root during a build.
const LockName = ".photosite.lock"

// ErrLocked is returned when another build holds the destination lock.
var ErrLocked = errors.New("destination is locked by another build")

// Lock is an advisory lock on a website root.
//
// Two builds writing the same destination would delete each other's fresh
// artifacts, so a build refuses to start while the lock file exists. A lock
// left behind by a crashed build has to be removed by hand.
type Lock struct {
	Path string
	ID   uuid.UUID
}

// AcquireLock creates the lock file in dir.
func AcquireLock(dir string) (*Lock, error) {
	l := &Lock{
		Path: filepath.Join(dir, LockName),
		ID:   uuid.New(),
	}

	f, err := os.OpenFile(l.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			holder, _ := os.ReadFile(l.Path)
			return nil, fmt.Errorf("%w: %s (%s)", ErrLocked, l.Path, strings.TrimSpace(string(holder)))
		}
		return nil, err
	}

	_, err = fmt.Fprintf(f, "run %s pid %d started %s\n", l.ID, os.Getpid(), time.Now().Format(time.RFC3339))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(l.Path)
		return nil, err
	}
	return l, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if err := os.Remove(l.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
