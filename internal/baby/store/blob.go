package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
)

// Blob is the single storage slot the whole baby collection serializes
// into. Implementations hold one opaque value; the Store always reads and
// writes it in full.
type Blob interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// FileBlob persists the collection as one JSON file at an injected path.
type FileBlob struct {
	path string
}

func NewFileBlob(path string) *FileBlob {
	return &FileBlob{path: path}
}

// Read returns the file contents, or nil when the file does not exist yet.
func (b *FileBlob) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (b *FileBlob) Write(_ context.Context, data []byte) error {
	return os.WriteFile(b.path, data, 0o600)
}

// MemoryBlob keeps the collection in memory for tests and throwaway runs.
// FailReads and FailWrites inject storage faults to exercise the Store's
// degradation paths.
type MemoryBlob struct {
	mu         sync.Mutex
	data       []byte
	FailReads  bool
	FailWrites bool
}

func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{}
}

var errBlobFault = errors.New("injected blob fault")

func (b *MemoryBlob) Read(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailReads {
		return nil, errBlobFault
	}
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBlob) Write(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites {
		return errBlobFault
	}
	b.data = append([]byte(nil), data...)
	return nil
}
