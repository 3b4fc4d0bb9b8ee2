// Package attachment decodes the binary renditions embedded in UBL documents
// (AdditionalDocumentReference/Attachment/EmbeddedDocumentBinaryObject).
package attachment

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
	"github.com/rezonia/efactura-reconciler/internal/model"
)

const mimePDF = "application/pdf"

var pdfMagic = []byte("%PDF-")

// Info describes one decoded attachment
type Info struct {
	ReferenceID string `json:"reference_id,omitempty"`
	FileName    string `json:"file_name"`
	MimeCode    string `json:"mime_code,omitempty"`
	Size        int    `json:"size"`
	// Pages is set for readable PDFs only
	Pages    int    `json:"pages,omitempty"`
	PDFError string `json:"pdf_error,omitempty"`
}

// Decode returns the raw bytes of an attachment. Line breaks inside the base64 text are ignored.
func Decode(a model.Attachment) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, a.Content)
	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("attachment %q: invalid base64: %w", a.ReferenceID, err)
	}
	return data, nil
}

// IsPDF reports whether data is a PDF, by declared mime code or content
func IsPDF(mimeCode string, data []byte) bool {
	return strings.EqualFold(mimeCode, mimePDF) || bytes.HasPrefix(data, pdfMagic)
}

var disableConfigDir sync.Once

// PageCount reads the page count of a PDF with pdfcpu
func PageCount(data []byte) (int, error) {
	disableConfigDir.Do(api.DisableConfigDir)
	return api.PageCount(bytes.NewReader(data), nil)
}

var unsafeChars = regexp.MustCompile(`[/\\?` + "`" + `&%*:|"<>\x7F\x00-\x1F,.\s]+`)

// SanitizeFileName cleans each part of path separators, dots and control characters and joins them with "_"
func SanitizeFileName(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ReplaceAll(strings.TrimSpace(p), ".", "")
		p = unsafeChars.ReplaceAllString(p, "-")
		clean = append(clean, p)
	}
	return strings.Join(clean, "_")
}

// DocumentStem builds "<supplier>_<date>_<number>_<payable>" for naming a document's files
func DocumentStem(doc *model.Document) string {
	stem := SanitizeFileName(doc.SupplierName(), doc.IssueDate.Format("2006-01-02"), doc.ID)
	if payable, err := doc.PayableAmount(); err == nil {
		stem += "_" + moneydec.RoundCents(payable).StringFixed(2)
	}
	return stem
}

// FileName picks the output name of the i-th attachment of doc
func FileName(doc *model.Document, i int, a model.Attachment) string {
	ext := filepath.Ext(a.Filename)
	if ext != "" {
		ext = "." + SanitizeFileName(ext[1:])
	} else if strings.EqualFold(a.MimeCode, mimePDF) {
		ext = ".pdf"
	}
	if name := strings.TrimSuffix(a.Filename, filepath.Ext(a.Filename)); strings.TrimSpace(name) != "" {
		return SanitizeFileName(filepath.Base(name)) + ext
	}
	stem := DocumentStem(doc)
	if i > 0 {
		stem = fmt.Sprintf("%s_%d", stem, i+1)
	}
	return stem + ext
}

// Inspect decodes every attachment of doc. PDF pages are counted; an unreadable
// PDF is reported in Info.PDFError rather than failing the document.
func Inspect(doc *model.Document) ([]Info, error) {
	infos := make([]Info, 0, len(doc.Attachments))
	for i, a := range doc.Attachments {
		data, err := Decode(a)
		if err != nil {
			return nil, err
		}
		infos = append(infos, describe(doc, i, a, data))
	}
	return infos, nil
}

func describe(doc *model.Document, i int, a model.Attachment, data []byte) Info {
	info := Info{
		ReferenceID: a.ReferenceID,
		FileName:    FileName(doc, i, a),
		MimeCode:    a.MimeCode,
		Size:        len(data),
	}
	if IsPDF(a.MimeCode, data) {
		pages, err := PageCount(data)
		if err != nil {
			info.PDFError = err.Error()
		} else {
			info.Pages = pages
		}
	}
	return info
}

// Writer saves attachments to a directory
type Writer struct {
	dir       string
	overwrite bool
	log       zerolog.Logger
}

// WriterOption configures a Writer
type WriterOption func(*Writer)

// WithOverwrite replaces existing files instead of skipping them
func WithOverwrite(overwrite bool) WriterOption {
	return func(w *Writer) {
		w.overwrite = overwrite
	}
}

// WithWriterLogger sets the logger
func WithWriterLogger(l zerolog.Logger) WriterOption {
	return func(w *Writer) {
		w.log = l
	}
}

// NewWriter creates a writer targeting dir
func NewWriter(dir string, opts ...WriterOption) *Writer {
	w := &Writer{dir: dir, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write decodes and saves every attachment of doc, returning the written infos
func (w *Writer) Write(doc *model.Document) ([]Info, error) {
	if len(doc.Attachments) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []Info
	for i, a := range doc.Attachments {
		data, err := Decode(a)
		if err != nil {
			return written, err
		}
		info := describe(doc, i, a, data)
		path := filepath.Join(w.dir, info.FileName)

		if !w.overwrite {
			if _, err := os.Stat(path); err == nil {
				w.log.Debug().Str("path", path).Msg("attachment exists, skipping")
				continue
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write attachment %s: %w", path, err)
		}
		w.log.Info().Str("document", doc.ID).Str("path", path).Int("size", info.Size).Msg("attachment written")
		written = append(written, info)
	}
	return written, nil
}
