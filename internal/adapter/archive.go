package adapter

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	m "github.com/mouse-blink/vendoring/internal/model"
)

// ArchiveMember is a regular file read out of a distribution archive.
type ArchiveMember struct {
	Name    string
	Content []byte
}

// ArchiveReader reads selected members of wheels, zips and source tarballs.
type ArchiveReader interface {
	// ReadMembers returns every regular file whose slash-separated name
	// satisfies match, in archive order.
	ReadMembers(path m.Path, match func(name string) bool) ([]ArchiveMember, error)
}

// ErrUnknownArchive is returned for files that are neither zip nor tar.gz.
var ErrUnknownArchive = errors.New("unknown archive extension")

// LocalArchiveReader reads archives from disk.
type LocalArchiveReader struct{}

// NewLocalArchiveReader constructs a LocalArchiveReader.
func NewLocalArchiveReader() *LocalArchiveReader {
	return &LocalArchiveReader{}
}

// ReadMembers dispatches on the file extension.
func (r *LocalArchiveReader) ReadMembers(path m.Path, match func(name string) bool) ([]ArchiveMember, error) {
	name := filepath.Base(string(path))

	switch {
	case strings.HasSuffix(name, ".zip"), strings.HasSuffix(name, ".whl"):
		return readZip(string(path), match)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return readTarGz(string(path), match)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownArchive, name)
	}
}

func readZip(path string, match func(string) bool) ([]ArchiveMember, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = zr.Close()
	}()

	var members []ArchiveMember

	for _, f := range zr.File {
		if !f.Mode().IsRegular() || !match(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}

		content, err := io.ReadAll(rc)
		_ = rc.Close()

		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}

		members = append(members, ArchiveMember{Name: f.Name, Content: content})
	}

	return members, nil
}

func readTarGz(path string, match func(string) bool) ([]ArchiveMember, error) {
	// #nosec G304 - path is an artifact pip downloaded into the cache directory
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = gz.Close()
	}()

	tr := tar.NewReader(gz)

	var members []ArchiveMember

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return members, nil
		}

		if err != nil {
			return nil, err
		}

		if !hdr.FileInfo().Mode().IsRegular() || !match(hdr.Name) {
			continue
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", hdr.Name, err)
		}

		members = append(members, ArchiveMember{Name: hdr.Name, Content: content})
	}
}
