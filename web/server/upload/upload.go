// Package upload stores images uploaded through the admin API, such as site
// screenshots, icons and contact QR codes.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/nrednav/cuid2"
)

// Kind is a category of uploaded files. Each kind is stored in its own
// directory.
type Kind string

// Upload kinds.
const (
	KindScreenshot Kind = "screenshots"
	KindIcon       Kind = "icons"
	KindQRCode     Kind = "qrcodes"
)

// Kinds are all the valid upload kinds.
var Kinds = []Kind{KindScreenshot, KindIcon, KindQRCode}

// URLPrefix is the URL path prefix uploaded files are served from.
const URLPrefix = "/uploads"

var extensions = map[string]string{
	"image/png":    ".png",
	"image/jpeg":   ".jpg",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// ErrNotFound is returned when a stored file doesn't exist.
var ErrNotFound = errors.New("file not found")

// InvalidFileError is returned when an uploaded file is rejected.
type InvalidFileError struct {
	Field string
	Msg   string
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid %s file: %s", e.Field, e.Msg)
}

// Store saves uploaded files on a filesystem.
type Store struct {
	fs      vfs.FileSystem
	dir     string
	maxSize int64
}

// NewStore returns a new Store that saves files under dir, and rejects files
// larger than maxSize bytes.
func NewStore(fs vfs.FileSystem, dir string, maxSize int64) *Store {
	return &Store{fs: fs, dir: dir, maxSize: maxSize}
}

// MaxSize returns the maximum accepted file size in bytes.
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save validates and stores an uploaded image, and returns the URL path it
// can be retrieved from. Only images are accepted, detected from the file
// contents.
func (s *Store) Save(kind Kind, field string, fh *multipart.FileHeader) (string, error) {
	if !slices.Contains(Kinds, kind) {
		return "", fmt.Errorf("invalid upload kind '%s'", kind)
	}
	if fh.Size > s.maxSize {
		return "", &InvalidFileError{
			Field: field,
			Msg:   fmt.Sprintf("size %d exceeds the limit of %d bytes", fh.Size, s.maxSize),
		}
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed opening uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed reading uploaded file: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", &InvalidFileError{
			Field: field, Msg: fmt.Sprintf("size exceeds the limit of %d bytes", s.maxSize),
		}
	}

	ext, err := imageExt(fh, data)
	if err != nil {
		return "", &InvalidFileError{Field: field, Msg: err.Error()}
	}

	dir := filepath.Join(s.dir, string(kind))
	if err = s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed creating upload directory: %w", err)
	}

	name := cuid2.Generate() + ext
	if err = vfs.WriteFile(s.fs, filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed writing uploaded file: %w", err)
	}

	return path.Join(URLPrefix, string(kind), name), nil
}

// Open returns the stored file with the given kind and name.
func (s *Store) Open(kind Kind, name string) (vfs.File, error) {
	if !slices.Contains(Kinds, kind) || !validName(name) {
		return nil, ErrNotFound
	}

	f, err := s.fs.Open(filepath.Join(s.dir, string(kind), name))
	if err != nil {
		if vfs.IsErrNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed opening stored file: %w", err)
	}

	return f, nil
}

// Remove deletes the stored file referenced by urlPath. Paths that don't
// point to a stored file are ignored.
func (s *Store) Remove(urlPath string) error {
	kind, name, ok := parseURLPath(urlPath)
	if !ok {
		return nil
	}

	err := s.fs.Remove(filepath.Join(s.dir, string(kind), name))
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed removing stored file: %w", err)
	}

	return nil
}

func parseURLPath(urlPath string) (Kind, string, bool) {
	rest, ok := strings.CutPrefix(urlPath, URLPrefix+"/")
	if !ok {
		return "", "", false
	}
	kind, name, ok := strings.Cut(rest, "/")
	if !ok || !slices.Contains(Kinds, Kind(kind)) || !validName(name) {
		return "", "", false
	}

	return Kind(kind), name, true
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`)
}

// imageExt returns the file extension for the image type detected from
// data. The type declared by the client must also be an image.
func imageExt(fh *multipart.FileHeader, data []byte) (string, error) {
	declared := fh.Header.Get("Content-Type")
	if declared != "" && !strings.HasPrefix(declared, "image/") {
		return "", fmt.Errorf("content type '%s' is not an image", declared)
	}

	sniffed, _, _ := strings.Cut(http.DetectContentType(data), ";")
	ext, ok := extensions[sniffed]
	if !ok {
		return "", fmt.Errorf("detected content type '%s' is not a supported image", sniffed)
	}

	return ext, nil
}
