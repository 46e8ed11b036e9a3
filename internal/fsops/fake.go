package fsops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FakeFS implements FS in memory for testing.
// Paths are cleaned before use; parents of added entries are implied directories.
type FakeFS struct {
	mu    sync.Mutex
	dirs  map[string]bool
	files map[string][]byte
}

// NewFakeFS creates a FakeFS containing the given directories.
func NewFakeFS(dirs ...string) *FakeFS {
	f := &FakeFS{
		dirs:  make(map[string]bool),
		files: make(map[string][]byte),
	}
	for _, d := range dirs {
		f.AddDir(d)
	}
	return f
}

// AddDir registers a directory and all of its parents.
func (f *FakeFS) AddDir(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addDirLocked(filepath.Clean(path))
}

// AddFile registers a file with the given content. Parent directories are created.
func (f *FakeFS) AddFile(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	f.addDirLocked(filepath.Dir(path))
	f.files[path] = append([]byte(nil), data...)
}

// RemoveDir forgets a directory (but not its children).
func (f *FakeFS) RemoveDir(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.dirs, filepath.Clean(path))
}

func (f *FakeFS) addDirLocked(path string) {
	for {
		f.dirs[path] = true
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

// Stat returns synthetic file info.
func (f *FakeFS) Stat(path string) (os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	if f.dirs[path] {
		return fakeInfo{name: filepath.Base(path), dir: true}, nil
	}
	if data, ok := f.files[path]; ok {
		return fakeInfo{name: filepath.Base(path), size: int64(len(data))}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
}

// IsDir reports whether path is a registered directory.
func (f *FakeFS) IsDir(path string) bool {
	if path == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirs[filepath.Clean(path)]
}

// MkdirAll registers the directory.
func (f *FakeFS) MkdirAll(path string, perm os.FileMode) error {
	f.AddDir(path)
	return nil
}

// Remove deletes a file or directory entry.
func (f *FakeFS) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	if _, ok := f.files[path]; ok {
		delete(f.files, path)
		return nil
	}
	if f.dirs[path] {
		delete(f.dirs, path)
		return nil
	}
	return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
}

// ReadDir lists the direct children of a directory, sorted by name.
func (f *FakeFS) ReadDir(path string) ([]os.DirEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	if !f.dirs[path] {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: os.ErrNotExist}
	}

	var entries []os.DirEntry
	prefix := path + string(filepath.Separator)
	for d := range f.dirs {
		if d != path && strings.HasPrefix(d, prefix) && !strings.Contains(d[len(prefix):], string(filepath.Separator)) {
			entries = append(entries, fs.FileInfoToDirEntry(fakeInfo{name: filepath.Base(d), dir: true}))
		}
	}
	for p, data := range f.files {
		if strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], string(filepath.Separator)) {
			entries = append(entries, fs.FileInfoToDirEntry(fakeInfo{name: filepath.Base(p), size: int64(len(data))}))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// AtomicWrite stores the data in memory.
func (f *FakeFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	f.AddFile(path, data)
	return nil
}

// ReadFile returns the stored data.
func (f *FakeFS) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	data, ok := f.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// Exists checks if a file or directory is registered.
func (f *FakeFS) Exists(path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path = filepath.Clean(path)
	_, isFile := f.files[path]
	return isFile || f.dirs[path], nil
}

// ValidateIdentifier applies the same rules as RealFS.
func (f *FakeFS) ValidateIdentifier(id string) error {
	return validateIdentifier(id)
}

type fakeInfo struct {
	name string
	dir  bool
	size int64
}

func (i fakeInfo) Name() string { return i.name }
func (i fakeInfo) Size() int64  { return i.size }
func (i fakeInfo) Mode() os.FileMode {
	if i.dir {
		return os.ModeDir | 0755
	}
	return 0644
}
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return i.dir }
func (i fakeInfo) Sys() any           { return nil }
