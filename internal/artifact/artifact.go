// Package artifact reads trained model artifacts exported as JSON files.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrMissing signals that a required artifact file does not exist.
var ErrMissing = errors.New("artifact not found")

// Load decodes the named JSON artifact from dir into v.
// A missing file yields ErrMissing so callers can distinguish absent
// artifacts from corrupt ones.
func Load(dir, name string, v any) error {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return fmt.Errorf("read artifact %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return nil
}

// Exists reports whether the named artifact is present in dir.
func Exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
