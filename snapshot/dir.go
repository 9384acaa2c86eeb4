package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgryski/go-farm"
	"github.com/rs/zerolog/log"
)

const snapshotExt = ".msgpack"

// DirStore keeps one file per item, named by its hash.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

func (d *DirStore) path(h Hash) string {
	return filepath.Join(d.dir, h.String()+snapshotExt)
}

func (d *DirStore) getValue(h Hash) (bool, []byte, error) {
	data, err := os.ReadFile(d.path(h))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, err
	}
	return true, data, nil
}

func (d *DirStore) Has(hash Hash) bool {
	_, err := os.Stat(d.path(hash))
	return err == nil
}

// Put writes through a temporary file so a reader never sees a partial
// snapshot.
func (d *DirStore) Put(item Serde) (Hash, error) {
	data, err := encode(item)
	if err != nil {
		return 0, err
	}
	h := Hash(farm.Hash64(data))
	if d.Has(h) {
		return h, nil
	}
	tmp, err := os.CreateTemp(d.dir, "put-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), d.path(h)); err != nil {
		return 0, err
	}
	log.Debug().Str("hash", h.String()).Int("bytes", len(data)).Str("dir", d.dir).Msg("snapshot stored")
	return h, nil
}

// List returns the stored hashes in ascending order. Stray files are
// skipped.
func (d *DirStore) List() ([]Hash, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}
	var out []Hash
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), snapshotExt)
		if !ok || e.IsDir() {
			continue
		}
		h, err := ParseHash(name)
		if err != nil {
			log.Warn().Str("file", e.Name()).Msg("skipping unrecognized file in snapshot dir")
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
