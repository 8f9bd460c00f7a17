package gopresentation

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Archive is a random-access, read-only view over a PPTX's member files.
// It wraps the zip central directory so member lookups are O(1) after
// Open, and it never touches the filesystem itself for member reads.
//
// An Archive owns no caches beyond the underlying *zip.Reader; parsed-XML
// and relationship caches live one layer up, on Presentation, so that
// closing a Presentation can drop them independently of archive lifetime.
type Archive struct {
	zr      *zip.Reader
	entries map[string]*zip.File
	closer  io.Closer // non-nil when opened from a file path
}

// OpenArchive opens a PPTX from a file path.
func OpenArchive(path string) (*Archive, error) {
	f, err := zipOpenReaderFunc(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveOpenFailed, path, err)
	}
	a := newArchive(&f.Reader)
	a.closer = f
	return a, nil
}

// OpenArchiveBytes opens a PPTX from an in-memory buffer.
func OpenArchiveBytes(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveOpenFailed, err)
	}
	return newArchive(zr), nil
}

// OpenArchiveReaderAt opens a PPTX from an io.ReaderAt of the given size,
// for callers streaming from something other than a []byte or a path.
func OpenArchiveReaderAt(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveOpenFailed, err)
	}
	return newArchive(zr), nil
}

func newArchive(zr *zip.Reader) *Archive {
	a := &Archive{zr: zr, entries: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.entries[normalizeMemberPath(f.Name)] = f
	}
	return a
}

// zipOpenReaderFunc is a seam so tests can stub disk access; in production
// it is archive/zip's own OpenReader.
var zipOpenReaderFunc = zip.OpenReader

// normalizeMemberPath makes member path comparisons forward-slash and
// leading-slash insensitive, matching how rels targets are written.
func normalizeMemberPath(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}

// Exists reports whether member is present in the archive.
func (a *Archive) Exists(member string) bool {
	_, ok := a.entries[normalizeMemberPath(member)]
	return ok
}

// List returns all member paths, in no particular order.
func (a *Archive) List() []string {
	out := make([]string, 0, len(a.entries))
	for name := range a.entries {
		out = append(out, name)
	}
	return out
}

// ReadBytes returns the raw bytes of member, or ErrMemberNotFound.
func (a *Archive) ReadBytes(member string) ([]byte, error) {
	f, ok := a.entries[normalizeMemberPath(member)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, member)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMemberNotFound, member, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMemberNotFound, member, err)
	}
	return data, nil
}

// ReadText is ReadBytes with a string result.
func (a *Archive) ReadText(member string) (string, error) {
	b, err := a.ReadBytes(member)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Close releases the underlying file handle, if any. After Close, no
// member access is legal; the Archive must be reopened.
func (a *Archive) Close() error {
	a.entries = nil
	a.zr = nil
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
