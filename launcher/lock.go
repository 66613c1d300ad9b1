package launcher

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireLock takes an exclusive lock on the launcher directory so two
// launcher processes cannot race the database and instance files. The
// returned release func must be called on shutdown.
func AcquireLock(launcherDir string) (func(), error) {
	lock := flock.New(filepath.Join(launcherDir, "launcher.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire launcher lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another launcher instance is already running")
	}
	return func() { _ = lock.Unlock() }, nil
}
