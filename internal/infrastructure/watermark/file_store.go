package watermark

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const defaultFilePath = ".lastrun"

// FileStore keeps a single timestamp in a plain text file. It serves
// local runs and deployments without a database; the key is implied by
// the file itself.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	if strings.TrimSpace(path) == "" {
		path = defaultFilePath
	}

	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context, _ string) (int64, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read watermark file %s: %w", s.path, err)
	}

	value, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse watermark file %s: %w", s.path, err)
	}

	return value, true, nil
}

func (s *FileStore) Set(_ context.Context, _ string, value int64) error {
	if err := os.WriteFile(s.path, []byte(strconv.FormatInt(value, 10)), 0o644); err != nil {
		return fmt.Errorf("write watermark file %s: %w", s.path, err)
	}

	return nil
}
