package opc

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Well-known part names shared by the supported container families.
const (
	DocumentPart     = "word/document.xml"
	PresentationPart = "ppt/presentation.xml"
	ContentTypesPart = "[Content_Types].xml"
	AppPropsPart     = "docProps/app.xml"
	SlideDir         = "ppt/slides/"
	SlideRelsDir     = "ppt/slides/_rels/"
	PresentationRels = "ppt/_rels/presentation.xml.rels"
)

// Kind identifies the container family of an opened package.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindSlideDeck
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindSlideDeck:
		return "slidedeck"
	}
	return "unknown"
}

// Part is one named entry inside a package.
type Part struct {
	Name string
	Data []byte
}

// Package is an ordered collection of parts read from a zip container.
// Paths are case-sensitive, '/'-delimited, and unique; iteration and
// serialization follow the original archive order, with parts added later
// appended at the end.
type Package struct {
	order []string
	parts map[string]*Part
}

// Open reads a package from an in-memory archive.
func Open(data []byte) (*Package, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// OpenReader reads a package from a zip archive.
func OpenReader(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, NewCorruptArchiveError(err)
	}

	pkg := &Package{parts: make(map[string]*Part)}
	for _, file := range zr.File {
		rc, err := file.Open()
		if err != nil {
			return nil, NewCorruptArchiveError(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, NewCorruptArchiveError(err)
		}
		pkg.SetPart(file.Name, data)
	}
	return pkg, nil
}

// OpenFile reads a package from a file path.
func OpenFile(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError("read", path, err)
	}
	return Open(data)
}

// Kind reports which container family the package belongs to. A package
// carrying neither primary part fails with a MissingPartError.
func (p *Package) Kind() (Kind, error) {
	switch {
	case p.Has(DocumentPart):
		return KindDocument, nil
	case p.Has(PresentationPart):
		return KindSlideDeck, nil
	}
	return KindUnknown, NewMissingPartError(DocumentPart + " or " + PresentationPart)
}

// Has reports whether a part with the given name exists.
func (p *Package) Has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// Len returns the number of parts.
func (p *Package) Len() int {
	return len(p.order)
}

// Names returns all part names in archive order.
func (p *Package) Names() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// SortedNames returns all part names in lexical order, for callers that
// need deterministic iteration independent of archive layout.
func (p *Package) SortedNames() []string {
	names := p.Names()
	sort.Strings(names)
	return names
}

// Part returns the raw content of a named part.
func (p *Package) Part(name string) ([]byte, bool) {
	part, ok := p.parts[name]
	if !ok {
		return nil, false
	}
	return part.Data, true
}

// Text returns the content of a named part decoded as UTF-8 text.
func (p *Package) Text(name string) (string, error) {
	part, ok := p.parts[name]
	if !ok {
		return "", NewMissingPartError(name)
	}
	if !utf8.Valid(part.Data) {
		return "", NewEncodingError(name)
	}
	return string(part.Data), nil
}

// SetPart stores raw content under a name, replacing existing content in
// place or appending a new part at the end of the archive order.
func (p *Package) SetPart(name string, data []byte) {
	if part, ok := p.parts[name]; ok {
		part.Data = data
		return
	}
	p.parts[name] = &Part{Name: name, Data: data}
	p.order = append(p.order, name)
}

// SetText stores text content under a name.
func (p *Package) SetText(name, text string) {
	p.SetPart(name, []byte(text))
}

// Remove deletes a part. It reports whether the part existed.
func (p *Package) Remove(name string) bool {
	if _, ok := p.parts[name]; !ok {
		return false
	}
	delete(p.parts, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// Save serializes the package as a zip archive. Parts are written in
// archive order, so the leading metadata part of the source container
// keeps its position.
func (p *Package) Save(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range p.order {
		fw, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return NewIOError("write", name, err)
		}
		if _, err := fw.Write(p.parts[name].Data); err != nil {
			zw.Close()
			return NewIOError("write", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return NewIOError("close", "archive", err)
	}
	return nil
}

// Bytes serializes the package into a new in-memory archive.
func (p *Package) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := p.Save(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile publishes the package atomically: the archive is written to a
// uniquely named temporary file next to the destination and renamed into
// place only once fully flushed. No partial output or scratch file remains
// on any failure path.
func (p *Package) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, ".opc-"+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return NewIOError("create", tmp, err)
	}
	if err := p.Save(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return NewIOError("sync", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return NewIOError("close", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return NewIOError("rename", path, err)
	}
	return nil
}
