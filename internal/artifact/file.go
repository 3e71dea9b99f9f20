package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Skufu/heartguard/internal/profile"
)

// FileStore reads <dir>/<variant>.yaml, falling back to <variant>.json.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) Fetch(ctx context.Context, variant profile.Variant) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, ext := range []string{".yaml", ".json"} {
		path := filepath.Join(s.Dir, string(variant)+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: no %s artifact in %s", ErrArtifactNotFound, variant, s.Dir)
}
