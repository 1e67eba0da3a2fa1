package sim

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const storeFileName = "calibration.yaml"

// storeFile is the on-disk layout: one keyed record per override,
// overwrite-on-save, last value wins. No versioning or migration.
type storeFile struct {
	Anchor *AnchorParams `yaml:"anchor,omitempty"`
	Speed  *SpeedSet     `yaml:"speed,omitempty"`
}

// Store persists user calibration overrides. Writes happen only on an
// explicit save action; loading falls back silently to the built-in
// defaults when the file is absent or unreadable.
type Store struct {
	path string
}

// DefaultStoreDir is the per-user override directory.
func DefaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oven-sim"
	}
	return filepath.Join(home, ".oven-sim")
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, storeFileName)}
}

func (s *Store) read() storeFile {
	var f storeFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		return storeFile{}
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		logrus.Warnf("calibration store unreadable, using defaults: %v", err)
		return storeFile{}
	}
	return f
}

func (s *Store) write(f storeFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// LoadAnchor returns the persisted anchor override, or the built-in
// defaults when none is stored. The second return reports which it was.
func (s *Store) LoadAnchor() (AnchorParams, bool) {
	f := s.read()
	if f.Anchor == nil {
		return DefaultAnchor(), false
	}
	return *f.Anchor, true
}

// SaveAnchor overwrites the anchor override record.
func (s *Store) SaveAnchor(a AnchorParams) error {
	f := s.read()
	f.Anchor = &a
	return s.write(f)
}

// LoadSpeed returns the persisted speed override, or nil when none is
// stored (speed display stays disabled without a calibration).
func (s *Store) LoadSpeed() (*SpeedSet, bool) {
	f := s.read()
	if f.Speed == nil {
		return nil, false
	}
	return f.Speed, true
}

// SaveSpeed overwrites the speed override record.
func (s *Store) SaveSpeed(set SpeedSet) error {
	f := s.read()
	f.Speed = &set
	return s.write(f)
}

// ResetOverrides removes every persisted override.
func (s *Store) ResetOverrides() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
