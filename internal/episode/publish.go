package episode

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Publish copies finished episodes into dir. A failed copy is reported but
// never invalidates the already-produced artifact, so all copies are
// attempted and the errors joined.
func Publish(paths []string, dir string) error {
	var errs []error
	for _, p := range paths {
		dst := filepath.Join(dir, filepath.Base(p))
		if err := copyFile(p, dst); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", filepath.Base(p), err))
		}
	}
	return errors.Join(errs...)
}
