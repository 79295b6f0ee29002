package storage

import (
	"os"
	"path/filepath"
)

// Documents stores uploaded resume files, one per user. A new upload
// overwrites the previous one.
type Documents struct {
	Dir string
}

func NewDocuments(dir string) *Documents {
	return &Documents{Dir: dir}
}

// Save writes the document bytes to the per-user location and returns its path.
func (d *Documents) Save(userID string, data []byte) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(d.Dir, userID+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
