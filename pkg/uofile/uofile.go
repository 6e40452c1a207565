// Package uofile provides read-only access to Ultima Online data files.
//
// Flat files (.mul) are mapped as a single byte region. UOP containers are
// mapped the same way and additionally expose their entry table, resolved
// into chunk order by hashing the entry names.
package uofile

import (
	"fmt"
	"os"
)

// File is a read-only mapped data file.
type File struct {
	path    string
	data    []byte
	unmap   func([]byte) error
	entries []Entry
	uop     bool
}

// Open maps a flat data file for reading.
func Open(path string) (*File, error) {
	data, unmap, err := mapPath(path)
	if err != nil {
		return nil, err
	}
	return &File{path: path, data: data, unmap: unmap}, nil
}

// OpenUOP maps a UOP container and resolves its entry table.
// pattern names entry i when formatted with fmt.Sprintf(pattern, i),
// e.g. "build/map0legacymul/%08d.dat".
func OpenUOP(path, pattern string) (*File, error) {
	data, unmap, err := mapPath(path)
	if err != nil {
		return nil, err
	}

	file := &File{path: path, data: data, unmap: unmap, uop: true}

	entries, err := readEntries(data, pattern)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("reading entry table: %w", err)
	}
	file.entries = entries

	return file, nil
}

func mapPath(path string) ([]byte, func([]byte) error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := int(info.Size())
	if size == 0 {
		return nil, nil, nil
	}

	data, unmap, err := mapFile(f, size)
	if err != nil {
		return nil, nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	return data, unmap, nil
}

// Close releases the mapped region. The file must not be read afterwards.
func (f *File) Close() error {
	if f == nil || f.data == nil {
		return nil
	}
	data := f.data
	f.data = nil
	f.entries = nil
	if f.unmap != nil {
		return f.unmap(data)
	}
	return nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Bytes returns the mapped region. It is nil for empty or closed files.
func (f *File) Bytes() []byte {
	if f == nil {
		return nil
	}
	return f.data
}

// Len returns the length of the mapped region.
func (f *File) Len() int {
	if f == nil {
		return 0
	}
	return len(f.data)
}

// IsUOP reports whether the file is a UOP container.
func (f *File) IsUOP() bool {
	return f != nil && f.uop
}

// Entries returns the container entries in chunk order. Flat files have none.
func (f *File) Entries() []Entry {
	if f == nil {
		return nil
	}
	return f.entries
}

// FromBytes wraps an in-memory region as a flat file.
func FromBytes(path string, data []byte) *File {
	return &File{path: path, data: data}
}

// UOPFromBytes wraps an in-memory UOP container and resolves its entries.
func UOPFromBytes(path string, data []byte, pattern string) (*File, error) {
	entries, err := readEntries(data, pattern)
	if err != nil {
		return nil, fmt.Errorf("reading entry table: %w", err)
	}
	return &File{path: path, data: data, entries: entries, uop: true}, nil
}
