package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// writer writes generated files below a target directory and keeps track of
// what was written.
type writer struct {
	mu      sync.Mutex
	metrics Metrics
}

// Metrics tracks generation output.
type Metrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// render writes a jennifer file. Jennifer tracks imports and formats the
// output itself.
func (w *writer) render(f *jen.File, path string) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError("render", path, "", err)
	}
	return w.write(path, buf.Bytes())
}

// format runs goimports on src, which adds the imports a property body uses
// and removes those it does not, then writes the result.
func (w *writer) format(path string, src []byte) error {
	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
		debugPath := path + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, src, 0o644)
		return NewGenerationError("format", path, fmt.Sprintf("unformatted written to %s", debugPath), err)
	}
	return w.write(path, formatted)
}

// write writes b to path, creating its directory.
func (w *writer) write(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewGenerationError("write", path, "create directory", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return NewGenerationError("write", path, "", err)
	}
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(b))
	w.mu.Unlock()
	return nil
}

func (w *writer) snapshot() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}
