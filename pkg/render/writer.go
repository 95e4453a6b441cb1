package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Writer persists generated files.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// OSWriter writes to disk, creating parent directories.
type OSWriter struct {
	DirPerm  os.FileMode
	FilePerm os.FileMode
}

// WriteFile implements Writer.
func (w OSWriter) WriteFile(path string, data []byte) error {
	dirPerm, filePerm := w.DirPerm, w.FilePerm
	if dirPerm == 0 {
		dirPerm = 0o755
	}
	if filePerm == 0 {
		filePerm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("render: create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}

// MemoryWriter keeps files in memory. Safe for concurrent use.
type MemoryWriter struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryWriter returns an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{files: make(map[string][]byte)}
}

// WriteFile implements Writer.
func (w *MemoryWriter) WriteFile(path string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

// File returns the content written to path.
func (w *MemoryWriter) File(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.files[filepath.Clean(path)]
	return data, ok
}

// Paths lists written paths in sorted order.
func (w *MemoryWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
