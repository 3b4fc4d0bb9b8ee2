package processor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// maxEntrySize caps the decompressed size of one archive member
const maxEntrySize = 64 << 20

// signaturePrefix marks the detached signature file the e-invoicing API ships next to each document
const signaturePrefix = "semnatura_"

// Entry is one XML member of an archive
type Entry struct {
	Name string
	Data []byte
}

// ReadZip returns the XML documents of an archive in archive order.
// Directories, non-XML members and detached signatures are skipped.
func ReadZip(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	var entries []Entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isDocumentEntry(f.Name) {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: f.Name, Data: content})
	}
	return entries, nil
}

func isDocumentEntry(name string) bool {
	base := strings.ToLower(path.Base(name))
	return strings.HasSuffix(base, ".xml") && !strings.HasPrefix(base, signaturePrefix)
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if len(content) > maxEntrySize {
		return nil, fmt.Errorf("archive member %s exceeds %d bytes", f.Name, maxEntrySize)
	}
	return content, nil
}
