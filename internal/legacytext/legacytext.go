// Package legacytext adapts streams to the text conventions of OziExplorer
// files: ISO-8859-1 bytes and CRLF line endings.
package legacytext

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// crlf translates every LF into CRLF.
type crlf struct {
	transform.NopResetter
}

func (crlf) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c == '\n' {
			if nDst+2 > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = '\r'
			dst[nDst+1] = '\n'
			nDst += 2
		} else {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
		}
		nSrc++
	}
	return nDst, nSrc, nil
}

// NewWriter returns a writer that encodes UTF-8 text written to it as
// ISO-8859-1 with CRLF line endings. It buffers; Close flushes it without
// closing w.
func NewWriter(w io.Writer) *transform.Writer {
	return transform.NewWriter(w, transform.Chain(crlf{}, charmap.ISO8859_1.NewEncoder()))
}

// NewReader returns a reader decoding ISO-8859-1 from r into UTF-8. Line
// endings are left untouched.
func NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}

// File is an OS file opened through the legacy text conventions.
type File struct {
	f *os.File
	r io.Reader
	w *transform.Writer
}

// Create creates or truncates the file at path for writing.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &File{f: f, w: NewWriter(f)}, nil
}

// Open opens the file at path for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &File{f: f, r: NewReader(f)}, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.f.Name()
}

func (f *File) Read(p []byte) (int, error) {
	if f.r == nil {
		return 0, fmt.Errorf("%s is not open for reading", f.f.Name())
	}
	return f.r.Read(p)
}

func (f *File) Write(p []byte) (int, error) {
	if f.w == nil {
		return 0, fmt.Errorf("%s is not open for writing", f.f.Name())
	}
	return f.w.Write(p)
}

// Close flushes pending output and closes the underlying file. The first
// error encountered is returned.
func (f *File) Close() error {
	var flushErr error
	if f.w != nil {
		flushErr = f.w.Close()
	}
	closeErr := f.f.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", f.f.Name(), flushErr)
	}
	return closeErr
}
