// Package image loads a flat 8086 binary into memory, unwrapping gzip or
// zip containers on the way.
package image

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Container formats recognised by Load.
const (
	KindRaw  = "raw"
	KindGzip = "gzip"
	KindZip  = "zip"
)

// Image is a loaded program. Bytes must not be modified.
type Image struct {
	Path   string
	Kind   string // KindRaw, KindGzip or KindZip
	Member string // archive member name for zip images
	Bytes  []byte // decoded machine code
	Digest string // sha256 of the file as stored on disk
}

// Size is the number of machine code bytes.
func (im *Image) Size() int {
	return len(im.Bytes)
}

// Open reads path and unwraps it.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	im, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	im.Path = path
	return im, nil
}

// Load builds an Image from file contents.
func Load(data []byte) (*Image, error) {
	im := &Image{Kind: KindRaw, Bytes: data, Digest: fmt.Sprintf("%x", sha256.Sum256(data))}

	switch {
	case isGzip(data):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer r.Close()

		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("gzip decompression: %w", err)
		}
		slog.Debug("Unwrapped gzip image", "compressed", len(data), "size", len(out))
		im.Kind, im.Bytes = KindGzip, out

	case isZip(data):
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("zip reader: %w", err)
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("zip archive is empty")
		}

		// first member only
		f := zr.File[0]
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in zip: %w", f.Name, err)
		}
		defer rc.Close()

		out, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s from zip: %w", f.Name, err)
		}
		slog.Debug("Unwrapped zip image", "member", f.Name, "size", len(out))
		im.Kind, im.Member, im.Bytes = KindZip, f.Name, out
	}

	return im, nil
}

// gzip magic 1f 8b
func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// zip local file header "PK\x03\x04"
func isZip(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 0x03 && data[3] == 0x04
}
