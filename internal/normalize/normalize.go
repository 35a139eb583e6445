// Package normalize turns methodic guides of any supported format into one
// plain-text string.
package normalize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Format is a declared source format tag.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatTXT      Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// Decoder converts raw document bytes into plain text.
type Decoder interface {
	Decode(r io.Reader) (string, error)
}

// SupportedExtensions maps file extensions to their format.
var SupportedExtensions = map[string]Format{
	".pdf":      FormatPDF,
	".docx":     FormatDOCX,
	".txt":      FormatTXT,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
}

// FormatFromFilename returns the format for a filename's extension, or ""
// when the extension is not supported.
func FormatFromFilename(name string) Format {
	return SupportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return FormatFromFilename(filename) != ""
}

// Options configure a Normalizer.
type Options struct {
	// PDFFallbackPdftotext runs the pdftotext binary when the Go PDF
	// decoder fails.
	PDFFallbackPdftotext bool
}

// Normalizer dispatches to a Decoder per format. It never returns errors:
// decode failures are logged and yield "".
type Normalizer struct {
	decoders map[Format]Decoder
	log      *slog.Logger
}

// New creates a Normalizer with a decoder for every supported format.
func New(opts Options, log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Normalizer{
		decoders: map[Format]Decoder{
			FormatPDF:      &PDFDecoder{FallbackPdftotext: opts.PDFFallbackPdftotext},
			FormatDOCX:     &DOCXDecoder{},
			FormatTXT:      &TextDecoder{},
			FormatMarkdown: &MarkdownDecoder{},
			FormatHTML:     &HTMLDecoder{},
		},
		log: log,
	}
}

// Normalize reads the file at path as format.
func (n *Normalizer) Normalize(path string, format Format) string {
	f, err := os.Open(path)
	if err != nil {
		n.log.Error("open source file", "path", path, "error", err)
		return ""
	}
	defer f.Close()
	return n.NormalizeReader(f, format)
}

// NormalizeReader decodes r as format. Unknown formats and decode errors
// yield "".
func (n *Normalizer) NormalizeReader(r io.Reader, format Format) string {
	dec, ok := n.decoders[format]
	if !ok {
		n.log.Warn("unsupported source format", "format", string(format))
		return ""
	}
	text, err := decode(dec, r)
	if err != nil {
		n.log.Error("decode source document", "format", string(format), "error", err)
		return ""
	}
	text = Clean(text)
	n.log.Debug("source normalized", "format", string(format), "chars", len([]rune(text)))
	return text
}

// decode shields callers from panics inside third-party decoders, which
// malformed PDFs are known to trigger.
func decode(dec Decoder, r io.Reader) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("decoder panic: %v", p)
		}
	}()
	return dec.Decode(r)
}

var cleaner = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u00a0", " ",
	"\u00ad", "",
	"\ufeff", "",
)

// Clean applies Unicode NFC, unifies line endings and drops soft hyphens,
// byte-order marks and non-breaking spaces.
func Clean(text string) string {
	return strings.TrimSpace(cleaner.Replace(norm.NFC.String(text)))
}
