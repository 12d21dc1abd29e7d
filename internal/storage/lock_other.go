//go:build !unix

package storage

import (
	"fmt"
	"os"
)

// lockFile creates path but takes no lock; only unix builds guard against a
// second process opening the same database.
func lockFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	return f, nil
}
