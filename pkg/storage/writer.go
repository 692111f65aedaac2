package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"igexport/pkg/models"
)

// DefaultIndent is used when no indent is configured
const DefaultIndent = "  "

// ResultWriter writes export results either to a file or to a stream
type ResultWriter struct {
	path   string
	indent string
	out    io.Writer
	mu     sync.Mutex
}

// NewResultWriter creates a writer for path. An empty path writes to stdout.
func NewResultWriter(path, indent string) *ResultWriter {
	if indent == "" {
		indent = DefaultIndent
	}
	return &ResultWriter{
		path:   path,
		indent: indent,
		out:    os.Stdout,
	}
}

// WithOutput redirects stream output, used when no path is set
func (w *ResultWriter) WithOutput(out io.Writer) *ResultWriter {
	w.out = out
	return w
}

// Path returns the destination file, or "" for stream output
func (w *ResultWriter) Path() string {
	return w.path
}

// Encode renders result as indented JSON with a trailing newline
func (w *ResultWriter) Encode(result *models.ScrapeResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to write: result is nil")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", w.indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores result at the configured destination
func (w *ResultWriter) Write(result *models.ScrapeResult) error {
	data, err := w.Encode(result)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.path == "" {
		if _, err := w.out.Write(data); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		return nil
	}
	return writeAtomic(w.path, data)
}

// writeAtomic writes data to a temporary file next to path, then renames it
// into place so readers never observe a partial export
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := tmp.Name()

	_, err = tmp.Write(data)
	closeErr := tmp.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save result data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
