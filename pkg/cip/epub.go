package cip

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"

	"github.com/shukubooks/shuku/pkg/errcodes"
	"github.com/shukubooks/shuku/pkg/htmlutil"
)

// EpubReader walks an EPUB container's spine. Pages are spine entries in
// reading order.
type EpubReader struct {
	archive *zip.ReadCloser
	entries map[string]*zip.File
	spine   []string
}

type containerXML struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageXML struct {
	Manifest struct {
		Items []struct {
			ID   string `xml:"id,attr"`
			Href string `xml:"href,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

func OpenEpub(filePath string) (*EpubReader, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, errcodes.InvalidEpubFile()
	}

	reader := &EpubReader{
		archive: archive,
		entries: make(map[string]*zip.File, len(archive.File)),
	}
	for _, f := range archive.File {
		reader.entries[f.Name] = f
	}

	if err := reader.loadSpine(); err != nil {
		_ = archive.Close()
		return nil, err
	}
	return reader, nil
}

func (r *EpubReader) loadSpine() error {
	var container containerXML
	if err := r.decodeEntry("META-INF/container.xml", &container); err != nil {
		return err
	}
	if len(container.Rootfiles) == 0 {
		return errcodes.InvalidEpubFile()
	}

	opfPath := container.Rootfiles[0].FullPath
	var pkg packageXML
	if err := r.decodeEntry(opfPath, &pkg); err != nil {
		return err
	}

	hrefs := make(map[string]string, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		hrefs[item.ID] = item.Href
	}

	// Spine hrefs are relative to the OPF's directory.
	opfDir := path.Dir(opfPath)
	for _, ref := range pkg.Spine.ItemRefs {
		href, ok := hrefs[ref.IDRef]
		if !ok {
			continue
		}
		r.spine = append(r.spine, path.Join(opfDir, href))
	}

	if len(r.spine) == 0 {
		return errcodes.InvalidEpubFile()
	}
	return nil
}

func (r *EpubReader) decodeEntry(name string, v interface{}) error {
	entry, ok := r.entries[name]
	if !ok {
		return errcodes.InvalidEpubFile()
	}

	rc, err := entry.Open()
	if err != nil {
		return errcodes.InvalidEpubFile()
	}
	defer rc.Close()

	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return errcodes.InvalidEpubFile()
	}
	return nil
}

func (r *EpubReader) Close() error {
	return r.archive.Close()
}

func (r *EpubReader) Pages() int {
	return len(r.spine)
}

// ReadPage returns the text content of a 0-based spine entry with markup
// stripped.
func (r *EpubReader) ReadPage(page int) (string, error) {
	if page < 0 || page >= len(r.spine) {
		return "", errcodes.InvalidEpubPage()
	}

	entry, ok := r.entries[r.spine[page]]
	if !ok {
		return "", errcodes.InvalidEpubPage()
	}

	rc, err := entry.Open()
	if err != nil {
		return "", errcodes.InvalidEpubPage()
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", errcodes.InvalidEpubPage()
	}
	return htmlutil.StripTags(string(raw)), nil
}
