package records

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/filex"
	"github.com/dmitrijs2005/dutybadge/internal/server/models"
)

// FileStore keeps the snapshot in one JSON file on local disk.
type FileStore struct {
	path string
	loc  *time.Location
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, loc: time.Local}
}

func (s *FileStore) Load(ctx context.Context) (map[string]*models.UserRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]*models.UserRecord{}, nil
		}
		return nil, ioFailure("read "+s.path, err)
	}
	return Decode(data, s.loc)
}

func (s *FileStore) Save(ctx context.Context, recs map[string]*models.UserRecord) error {
	data, err := Encode(recs)
	if err != nil {
		return ioFailure("encode", err)
	}
	if err := filex.WriteAtomic(s.path, data, 0o600); err != nil {
		return ioFailure("write "+s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
