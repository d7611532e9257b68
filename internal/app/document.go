package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Document is the file being edited.
type Document struct {
	mu sync.Mutex

	path string
	mode fs.FileMode
	disk string
	new  bool
}

// OpenDocument reads the file at path. A missing file opens as a new,
// empty document that is created on the first save.
func OpenDocument(path string) (*Document, error) {
	if path == "" {
		return nil, ErrNoDocument
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &OperationError{Op: "open", Target: path, Err: err}
	}

	d := &Document{path: abs, mode: 0o644}
	data, err := os.ReadFile(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		d.new = true
		return d, nil
	case err != nil:
		return nil, &OperationError{Op: "open", Target: path, Err: err}
	}
	if info, err := os.Stat(abs); err == nil {
		d.mode = info.Mode().Perm()
	}
	d.disk = string(data)
	return d, nil
}

// Path returns the absolute path of the document.
func (d *Document) Path() string {
	return d.path
}

// Name returns the base name shown to the user.
func (d *Document) Name() string {
	return filepath.Base(d.path)
}

// IsNew reports whether the file did not exist when opened and has not
// been saved since.
func (d *Document) IsNew() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.new
}

// Content returns the content last read from or written to disk.
func (d *Document) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disk
}

// Save writes markup through a temporary file in the same directory so
// readers never see a partial file.
func (d *Document) Save(markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "."+filepath.Base(d.path)+".*")
	if err != nil {
		return &OperationError{Op: "save", Target: d.path, Err: err}
	}
	name := tmp.Name()
	if _, err := tmp.WriteString(markup); err != nil {
		tmp.Close()
		os.Remove(name)
		return &OperationError{Op: "save", Target: d.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return &OperationError{Op: "save", Target: d.path, Err: err}
	}
	if err := os.Chmod(name, d.mode); err != nil {
		os.Remove(name)
		return &OperationError{Op: "save", Target: d.path, Err: err}
	}
	if err := os.Rename(name, d.path); err != nil {
		os.Remove(name)
		return &OperationError{Op: "save", Target: d.path, Err: err}
	}
	d.disk = markup
	d.new = false
	return nil
}

// Reload rereads the file. It reports false when the content on disk is
// unchanged, including the echo of our own save.
func (d *Document) Reload() (string, bool, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return "", false, &OperationError{Op: "reload", Target: d.path, Err: err}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	markup := string(data)
	if markup == d.disk {
		return markup, false, nil
	}
	d.disk = markup
	d.new = false
	return markup, true, nil
}
