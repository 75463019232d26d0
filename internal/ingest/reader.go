// Package ingest provides restartable line sources over CDC mortality
// files. The public-use files are latin-1 encoded fixed-width text, one
// record per line, distributed either raw or inside a zip archive.
// Lines are handed out byte for byte: decoding latin-1 to UTF-8 would
// widen high bytes and shift every field offset after them, so decoding
// happens where individual field values are extracted.
package ingest

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader yields record lines one at a time, returning io.EOF at end of
// input. Lines have their trailing newline removed and otherwise carry
// the file's bytes unchanged.
type Reader interface {
	Next() (string, error)
	Close() error
}

// Provider opens a fresh Reader over the same source. The core makes a
// single forward pass per Reader; reprocessing means opening again.
type Provider interface {
	Open() (Reader, error)
}

// Mortality records are around 450 bytes, but give the scanner headroom
// for format variants with longer trailing filler.
const maxLineBytes = 1 << 20

type lineReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

func newLineReader(r io.Reader, closer io.Closer) *lineReader {
	scanner := bufio.NewScanner(bufio.NewReaderSize(r, 256*1024))
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &lineReader{scanner: scanner, closer: closer}
}

func (lr *lineReader) Next() (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	// Scanner strips \n; strip a stray \r from CRLF sources too.
	return strings.TrimSuffix(lr.scanner.Text(), "\r"), nil
}

func (lr *lineReader) Close() error {
	if lr.closer != nil {
		return lr.closer.Close()
	}
	return nil
}

// FileProvider reads records from a plain file on disk.
type FileProvider struct {
	Path string
}

func (p FileProvider) Open() (Reader, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	return newLineReader(f, f), nil
}

// ZipProvider reads records from one member of a zip archive, as the CDC
// distributes the yearly files. Member selects by exact name; empty
// Member takes the first non-directory entry.
type ZipProvider struct {
	Path   string
	Member string
}

func (p ZipProvider) Open() (Reader, error) {
	zr, err := zip.OpenReader(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var entry *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if p.Member == "" || f.Name == p.Member {
			entry = f
			break
		}
	}
	if entry == nil {
		zr.Close()
		if p.Member == "" {
			return nil, fmt.Errorf("archive %s has no file entries", p.Path)
		}
		return nil, fmt.Errorf("archive %s has no member %q", p.Path, p.Member)
	}

	rc, err := entry.Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("open archive member %s: %w", entry.Name, err)
	}
	return newLineReader(rc, &zipCloser{rc: rc, zr: zr}), nil
}

type zipCloser struct {
	rc io.ReadCloser
	zr *zip.ReadCloser
}

func (c *zipCloser) Close() error {
	err := c.rc.Close()
	if cerr := c.zr.Close(); err == nil {
		err = cerr
	}
	return err
}

// ForPath returns a provider for path: zip archives get a ZipProvider,
// anything else is read as a plain file.
func ForPath(path string) Provider {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return ZipProvider{Path: path}
	}
	return FileProvider{Path: path}
}
