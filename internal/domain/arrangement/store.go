package arrangement

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/vwhost/internal/shared/errors"
)

// Store saves and loads one arrangement file
type Store struct {
	path  string
	codec Codec
}

// NewStore creates a store for path; the extension selects the format
func NewStore(path string) (*Store, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, codec: codec}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Format() string { return s.codec.Name() }

// Save writes a to disk, replacing any previous file atomically
func (s *Store) Save(a Arrangement) error {
	data, err := s.codec.Marshal(a)
	if err != nil {
		return fmt.Errorf("arrangement: encode %s: %w", s.codec.Name(), err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("arrangement: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".arrangement-*")
	if err != nil {
		return fmt.Errorf("arrangement: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("arrangement: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("arrangement: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("arrangement: %w", err)
	}
	return nil
}

// Load reads the saved arrangement. A missing file is a NotFound error.
func (s *Store) Load() (Arrangement, error) {
	var a Arrangement
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return a, errors.NotFound("arrangement.load", s.path)
		}
		return a, fmt.Errorf("arrangement: %w", err)
	}
	if err := s.codec.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("arrangement: decode %s: %w", s.codec.Name(), err)
	}
	return a, nil
}
