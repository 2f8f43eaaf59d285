// Package imagefile loads executable images into memory for scanning.
//
// Files are mapped read-only where the platform allows it and read into a
// buffer otherwise. Either way the caller sees a single []byte that stays
// valid until Close.
package imagefile

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
	"golang.org/x/sys/unix"
)

var ErrTooLarge = errors.New("imagefile: image too large")

type Image struct {
	Path    string
	Data    []byte
	mmapped bool
}

var mmap = unix.Mmap

// Open maps the file at path read-only. If mmap is unavailable it falls
// back to ReadAt-based loading. The returned image must be closed to
// release any mapping.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !stat.Mode().IsRegular() {
		return nil, fmt.Errorf("imagefile: %s is not a regular file", path)
	}

	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size64)
	}
	size := int(size64)
	if size == 0 {
		return &Image{Path: path, Data: []byte{}}, nil
	}

	data, err := mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return &Image{Path: path, Data: data, mmapped: true}, nil
	}

	// Fallback path that does not require mmap support.
	im, err := OpenReaderAt(f, size64)
	if err != nil {
		return nil, err
	}
	im.Path = path
	return im, nil
}

// OpenReaderAt loads an image from a random-access reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*Image, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return &Image{Data: data}, nil
}

// ReadLimited reads r to EOF, failing with ErrTooLarge once more than limit
// bytes arrive. A limit <= 0 disables the check.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Mapped reports whether Data is backed by a file mapping.
func (im *Image) Mapped() bool {
	return im != nil && im.mmapped
}

// Close releases the image and any mmap backing.
func (im *Image) Close() error {
	if im == nil || im.Data == nil {
		return nil
	}
	var err error
	if im.mmapped {
		err = unix.Munmap(im.Data)
	}
	im.Data = nil
	im.mmapped = false
	return err
}

// Fingerprint returns the hex xxh3-128 digest of data. It identifies images
// that carry no LC_UUID.
func Fingerprint(data []byte) string {
	sum := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(sum[:])
}
