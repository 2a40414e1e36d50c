// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive walks the entries of a bot export zip archive.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// Entry is one file entry of an archive.
type Entry struct {
	// Name is the slash-separated path of the entry inside the archive.
	Name string

	// Data is the uncompressed entry content.
	Data []byte
}

// WalkFunc is called once per matching entry. Returning an error stops the walk.
type WalkFunc func(Entry) error

// Walk opens the zip archive at path and calls fn, in archive order, for
// every file entry whose name starts with prefix. Directory entries are
// skipped. The archive is closed before Walk returns.
func Walk(path, prefix string, fn WalkFunc) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer zr.Close()

	return walkFiles(zr.File, prefix, fn)
}

// WalkReader is Walk over an archive held in r.
func WalkReader(r io.ReaderAt, size int64, prefix string, fn WalkFunc) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	return walkFiles(zr.File, prefix, fn)
}

func walkFiles(files []*zip.File, prefix string, fn WalkFunc) error {
	for _, f := range files {
		if !matches(f, prefix) {
			continue
		}
		data, err := readFile(f)
		if err != nil {
			return fmt.Errorf("reading entry %s: %w", f.Name, err)
		}
		if err := fn(Entry{Name: f.Name, Data: data}); err != nil {
			return err
		}
	}
	return nil
}

// matches reports whether f is a file entry under prefix.
func matches(f *zip.File, prefix string) bool {
	if !strings.HasPrefix(f.Name, prefix) {
		return false
	}
	return !f.FileInfo().IsDir() && !strings.HasSuffix(f.Name, "/")
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
