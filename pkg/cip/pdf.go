package cip

import (
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/shukubooks/shuku/pkg/errcodes"
)

type PdfReader struct {
	file   *os.File
	reader *pdf.Reader
}

func OpenPdf(path string) (*PdfReader, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, errcodes.InvalidPdfFile()
	}
	return &PdfReader{file: file, reader: reader}, nil
}

func (r *PdfReader) Close() error {
	return r.file.Close()
}

func (r *PdfReader) Pages() int {
	return r.reader.NumPage()
}

// ReadPage returns the plain text of a 1-based page.
func (r *PdfReader) ReadPage(page int) (string, error) {
	if page < 1 || page > r.reader.NumPage() {
		return "", errcodes.InvalidPdfPage()
	}

	p := r.reader.Page(page)
	if p.V.IsNull() {
		return "", errcodes.InvalidPdfPage()
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", errcodes.InvalidPdfPage()
	}
	return text, nil
}
