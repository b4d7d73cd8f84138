package chart

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Image is a rendered PNG chart. When it was written to disk, closing it
// removes the file.
type Image struct {
	data []byte
	path string
}

// Compile-time interface check.
var _ Handle = (*Image)(nil)

// NewImage wraps png. If dir is non-empty the image is also written to
// dir/<name>.png.
func NewImage(dir, name string, png []byte) (*Image, error) {
	img := &Image{data: png}
	if dir == "" {
		return img, nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(dir, name+".png")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return nil, fmt.Errorf("write chart: %w", err)
	}
	img.path = path
	return img, nil
}

// Bytes returns the PNG data; nil after Close.
func (i *Image) Bytes() []byte { return i.data }

// Path returns the file the image was written to, or "".
func (i *Image) Path() string { return i.path }

// Close releases the image data and removes its file.
func (i *Image) Close() error {
	i.data = nil
	if i.path == "" {
		return nil
	}
	path := i.path
	i.path = ""
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
