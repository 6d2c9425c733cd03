package calibration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Dir is the conventional storage directory for calibration files. It is
// created on first save. Overridable for tests.
var Dir = defaultDir()

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".handeye", "calibrations")
	}
	return filepath.Join(home, ".handeye", "calibrations")
}

// FilenameForName returns the conventional storage path for a calibration
// name. Names may be namespaced with slashes; only the last segment is used.
func FilenameForName(name string) (string, error) {
	trimmed := strings.TrimRight(name, "/")
	if trimmed == "" {
		return "", ErrEmptyName
	}
	parts := strings.Split(trimmed, "/")
	return filepath.Join(Dir, parts[len(parts)-1]+".yaml"), nil
}

// Filename returns the conventional storage path for this calibration.
func (c *Calibration) Filename() (string, error) {
	return FilenameForName(c.Parameters.Name)
}

// SaveToFile writes the calibration to its conventional path, creating Dir
// if needed. Serialization completes in memory before the file is touched.
func (c *Calibration) SaveToFile() error {
	path, err := c.Filename()
	if err != nil {
		return err
	}

	text, err := c.ToYAML()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(Dir, 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create directory %s", Dir)
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write calibration to %s", path)
	}

	return nil
}

// LoadFromFile reads the calibration stored under the given name at the
// conventional path.
func LoadFromFile(name string) (*Calibration, error) {
	path, err := FilenameForName(name)
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads a calibration file at an explicit path.
func LoadFromPath(path string) (*Calibration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read calibration from %s", path)
	}

	c, err := FromYAML(string(b))
	if err != nil {
		return nil, fmt.Errorf("invalid calibration file %s: %w", path, err)
	}
	return c, nil
}
