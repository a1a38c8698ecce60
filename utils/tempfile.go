package utils

import (
	"errors"
	"fmt"
	"os"
)

// TempFileObserver is told about every scoped temp file, for logging and for
// tests that check cleanup.
type TempFileObserver func(path string, removeErr error)

// WithTempFile creates a uniquely named, closed file in dir (os.TempDir when
// empty) and calls fn with its path. The file is removed when fn returns,
// whether fn succeeded, failed or panicked. A removal failure is reported
// only when fn itself succeeded.
func WithTempFile(dir, pattern string, fn func(path string) error, observers ...TempFileObserver) (err error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if cerr := f.Close(); cerr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close temp file: %w", cerr)
	}

	defer func() {
		rerr := os.Remove(path)
		if errors.Is(rerr, os.ErrNotExist) {
			rerr = nil
		}
		for _, o := range observers {
			o(path, rerr)
		}
		if err == nil && rerr != nil {
			err = fmt.Errorf("remove temp file: %w", rerr)
		}
	}()

	return fn(path)
}
