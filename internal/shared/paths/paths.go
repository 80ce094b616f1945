package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppDirName is the per-user directory holding host state
const AppDirName = ".vwhost"

// Home returns the current user's home directory
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return home, nil
}

// StateDir returns the per-user state directory, ~/.vwhost
func StateDir() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, AppDirName), nil
}

// Expand resolves a configured file path: environment variables are
// substituted, a leading ~ becomes the home directory and the result is made
// absolute. An empty path stays empty.
func Expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := Home()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return abs, nil
}

// InStateDir resolves a bare file name against StateDir. Paths with a
// directory component go through Expand unchanged.
func InStateDir(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, filepath.Separator) || strings.HasPrefix(name, "~") || strings.Contains(name, "$") {
		return Expand(name)
	}
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
