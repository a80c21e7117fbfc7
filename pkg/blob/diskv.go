package blob

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

const tempDirName = ".tmp"

// Diskv stores one file per key under a base directory.
type Diskv struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskv creates a Diskv rooted at basePath. Writes land in a temp dir
// first and are renamed into place so readers never see partial values.
//
// The read cache is disabled; other processes (and Watch) expect every Get
// to hit the file.
func NewDiskv(basePath string) *Diskv {
	return &Diskv{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			TempDir:      filepath.Join(basePath, tempDirName),
			CacheSizeMax: 0,
		}),
		basePath: basePath,
	}
}

// BasePath is the directory values are written under.
func (s *Diskv) BasePath() string {
	return s.basePath
}

func (s *Diskv) Get(key string) (string, bool, error) {
	if !s.d.Has(key) {
		return "", false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("blob: read %s: %w", key, err)
	}
	return string(val), true, nil
}

func (s *Diskv) Set(key, value string) error {
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("blob: write %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys currently stored.
func (s *Diskv) Keys() []string {
	var keys []string
	for key := range s.d.Keys(nil) {
		keys = append(keys, key)
	}
	return keys
}
