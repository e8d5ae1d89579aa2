package device

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/picotools/picoide/internal/model"
)

// NewFileContent is written by Create
const NewFileContent = "# New file\n"

var (
	ErrFilenameRequired = errors.New("filename required")
	ErrInvalidName      = errors.New("invalid filename")
	ErrProtected        = errors.New("file is protected")
)

// FileStore maps device paths onto a host directory
type FileStore struct {
	root     string
	bootFile string
}

// NewFileStore creates the root directory if needed
func NewFileStore(root, bootFile string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create device root: %w", err)
	}
	return &FileStore{root: root, bootFile: bootFile}, nil
}

// Root returns the host directory backing the store
func (fs *FileStore) Root() string {
	return fs.root
}

// BootFile returns the name of the file that runs on boot
func (fs *FileStore) BootFile() string {
	return fs.bootFile
}

// cleanName normalises a device path: surrounding space and the leading
// slash of an absolute device path are dropped, and "." and ".." elements are
// resolved, so "./code.py" and "lib/../code.py" both name code.py.
func cleanName(name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "", ErrFilenameRequired
	}
	native := filepath.FromSlash(name)
	if !filepath.IsLocal(native) {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	clean := filepath.ToSlash(filepath.Clean(native))
	if clean == "." {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	return clean, nil
}

func (fs *FileStore) resolve(name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(fs.root, filepath.FromSlash(clean)), nil
}

// IsBootFile reports whether name refers to the boot file
func (fs *FileStore) IsBootFile(name string) bool {
	clean, err := cleanName(name)
	if err != nil {
		return false
	}
	return strings.EqualFold(clean, fs.bootFile)
}

// Save writes content to name, creating parent directories
func (fs *FileStore) Save(name, content string) error {
	path, err := fs.resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// Load returns the content of name. Missing files yield an error matching os.ErrNotExist.
func (fs *FileStore) Load(name string) (string, error) {
	path, err := fs.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Create writes a fresh file holding NewFileContent
func (fs *FileStore) Create(name string) error {
	return fs.Save(name, NewFileContent)
}

// Delete removes name. The boot file cannot be deleted.
func (fs *FileStore) Delete(name string) error {
	path, err := fs.resolve(name)
	if err != nil {
		return err
	}
	if fs.IsBootFile(name) {
		return fmt.Errorf("%w: cannot delete %s (currently running)", ErrProtected, fs.bootFile)
	}
	return os.Remove(path)
}

// List returns the regular files at the root, sorted by name
func (fs *FileStore) List() ([]model.FileMetadata, error) {
	dirEntries, err := os.ReadDir(fs.root)
	if err != nil {
		return nil, err
	}

	files := make([]model.FileMetadata, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, model.FileMetadata{Name: de.Name(), Size: info.Size()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
