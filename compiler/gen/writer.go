package gen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Writer persists rendered artifacts. Paths are slash separated and
// relative to the output directory.
type Writer interface {
	// Write creates or overwrites the file at path.
	Write(ctx context.Context, path string, data []byte) error
	// Create creates the file at path. It never overwrites: if the file
	// exists, Create returns an *ExistsError and leaves it untouched.
	Create(ctx context.Context, path string, data []byte) error
	// Remove deletes the file at path and reports whether it existed.
	Remove(ctx context.Context, path string) (bool, error)
}

// WriterMetrics tracks what a Writer did.
type WriterMetrics struct {
	FilesWritten int
	FilesRemoved int
	TotalBytes   int64
}

// DirWriter writes artifacts under a root directory on disk.
type DirWriter struct {
	Root string

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewDirWriter returns a writer rooted at dir.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{Root: dir}
}

// Metrics returns a snapshot of the writer metrics.
func (w *DirWriter) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

func (w *DirWriter) abs(path string) string {
	return filepath.Join(w.Root, filepath.FromSlash(path))
}

// Write implements Writer. The file is written to a temporary file in the
// same directory and renamed into place, so readers never observe a
// partially written artifact.
func (w *DirWriter) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := w.abs(path)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".dbtypegen-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// Remove is a no-op after a successful rename.
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.wrote(len(data))
	return nil
}

// Create implements Writer. Existence is checked by the exclusive open
// itself, so two runs racing on the same scaffold cannot both create it.
func (w *DirWriter) Create(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := w.abs(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, fs.ErrExist):
		return &ExistsError{Path: path}
	case err != nil:
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w.wrote(len(data))
	return nil
}

// Remove implements Writer. The parent directory is removed as well when
// it is left empty.
func (w *DirWriter) Remove(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	full := w.abs(path)
	switch err := os.Remove(full); {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	if dir := filepath.Dir(full); dir != filepath.Clean(w.Root) {
		if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
			_ = os.Remove(dir)
		}
	}
	w.mu.Lock()
	w.metrics.FilesRemoved++
	w.mu.Unlock()
	return true, nil
}

func (w *DirWriter) wrote(n int) {
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(n)
	w.mu.Unlock()
}

// MemWriter keeps artifacts in memory. It is used for dry runs and tests.
type MemWriter struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemWriter returns a MemWriter holding the given files.
func NewMemWriter(files map[string][]byte) *MemWriter {
	w := &MemWriter{files: make(map[string][]byte, len(files))}
	for p, data := range files {
		w.files[p] = slices.Clone(data)
	}
	return w
}

// Write implements Writer.
func (w *MemWriter) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.init()
	w.files[path] = slices.Clone(data)
	return nil
}

// Create implements Writer.
func (w *MemWriter) Create(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.init()
	if _, ok := w.files[path]; ok {
		return &ExistsError{Path: path}
	}
	w.files[path] = slices.Clone(data)
	return nil
}

// Remove implements Writer.
func (w *MemWriter) Remove(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[path]
	delete(w.files, path)
	return ok, nil
}

// File returns the content of the file at path.
func (w *MemWriter) File(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.files[path]
	return data, ok
}

// Paths returns the sorted paths of all files.
func (w *MemWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

func (w *MemWriter) init() {
	if w.files == nil {
		w.files = make(map[string][]byte)
	}
}
