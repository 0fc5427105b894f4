// drivers/filekv/filekv.go
//go:build !rp2040 && !rp2350

package filekv

import (
	"os"
	"path/filepath"
)

// Store keeps one file per record under Dir. Good enough for the single
// small record this system persists; writes go through a rename so a
// half-written record is never observed.
type Store struct {
	Dir string
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

func (s *Store) ReadRecord(key string) ([]byte, bool) {
	b, err := os.ReadFile(s.path(key))
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (s *Store) WriteRecord(key string, b []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}
