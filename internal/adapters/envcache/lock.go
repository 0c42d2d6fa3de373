package envcache

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/zerr"
)

// errLockBusy is returned by tryLock when another open file holds the lock.
var errLockBusy = errors.New("lock is held by another process")

// fileLock is an exclusive advisory lock on a file.
// Locks are owned by the open file, so two fileLocks on the same path
// exclude each other even inside one process.
type fileLock struct {
	path string
	file *os.File
}

// acquireLock takes the lock at path following policy.
func acquireLock(ctx context.Context, path string, policy domain.LockPolicy) (*fileLock, error) {
	file, err := openLockFile(path)
	if err != nil {
		return nil, err
	}

	lock := &fileLock{path: path, file: file}

	var deadline time.Time
	if policy.ShouldWait() {
		deadline = time.Now().Add(policy.Timeout)
	}

	for {
		err := tryLock(file)
		if err == nil && !lock.current() {
			// The file was unlinked while we waited for it. Lock its replacement.
			_ = lock.release()
			if file, err = openLockFile(path); err != nil {
				return nil, err
			}
			lock = &fileLock{path: path, file: file}
			continue
		}
		if err == nil {
			if werr := lock.writeHolder(os.Getpid()); werr != nil {
				_ = lock.release()
				return nil, werr
			}
			return lock, nil
		}
		if !errors.Is(err, errLockBusy) {
			_ = file.Close()
			return nil, zerr.With(zerr.Wrap(domain.ErrLockFailed, err.Error()), "path", path)
		}

		if !policy.ShouldWait() || !time.Now().Before(deadline) {
			holder := lock.readHolder()
			_ = file.Close()
			timeoutErr := zerr.With(zerr.Wrap(domain.ErrBuildLockTimeout, "another bex process is building this environment"), "path", path)
			if holder > 0 {
				timeoutErr = zerr.With(timeoutErr, "holder_pid", holder)
			}
			if policy.ShouldWait() {
				timeoutErr = zerr.With(timeoutErr, "timeout", policy.Timeout.String())
			}
			return nil, timeoutErr
		}

		wait := min(policy.Interval(), time.Until(deadline))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			_ = file.Close()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func openLockFile(path string) (*os.File, error) {
	//nolint:gosec // path is derived from the cache root and a hex fingerprint
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, domain.PrivateFilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrLockFailed, err.Error()), "path", path)
	}
	return file, nil
}

// current reports whether the locked file is still the one at l.path.
func (l *fileLock) current() bool {
	onDisk, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	held, err := l.file.Stat()
	if err != nil {
		return false
	}
	return os.SameFile(onDisk, held)
}

// writeHolder records the PID of the lock holder in the lock file.
func (l *fileLock) writeHolder(pid int) error {
	if err := l.file.Truncate(0); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrLockFailed, err.Error()), "path", l.path)
	}
	if _, err := l.file.WriteAt([]byte(strconv.Itoa(pid)+"\n"), 0); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrLockFailed, err.Error()), "path", l.path)
	}
	return nil
}

// readHolder returns the PID recorded in the lock file, or 0.
func (l *fileLock) readHolder() int {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// release unlocks and closes the lock file. It is safe to call more than once.
func (l *fileLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil

	unlockErr := unlock(file)
	closeErr := file.Close()
	if unlockErr != nil {
		return zerr.With(zerr.Wrap(domain.ErrLockFailed, unlockErr.Error()), "path", l.path)
	}
	if closeErr != nil {
		return zerr.With(zerr.Wrap(domain.ErrLockFailed, closeErr.Error()), "path", l.path)
	}
	return nil
}
