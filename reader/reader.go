package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/tsawler/pdfops/core"
	"github.com/tsawler/pdfops/pages"
)

// ErrEncrypted is returned for documents protected by a security handler.
var ErrEncrypted = errors.New("encrypted documents are not supported")

// headerWindow is how far into the file the %PDF- header may start.
const headerWindow = 1024

var headerPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader represents a PDF document loaded into memory
type Reader struct {
	data          []byte
	xrefTable     *core.XRefTable
	trailer       core.Dict
	version       PDFVersion
	reconstructed bool
	objCache      map[int]core.Object        // Cache for loaded objects
	objStreams    map[int]*core.ObjectStream // Cache for decoded object streams
	loading       map[int]bool               // Objects currently being loaded
	pageTree      *pages.PageTree            // Cached page tree
}

// Ensure Reader implements pages.ObjectResolver
var _ pages.ObjectResolver = (*Reader)(nil)

// Open reads a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return NewReader(data)
}

// NewReader creates a reader over the bytes of a whole PDF file.
// A damaged cross-reference section is rebuilt by scanning the file.
func NewReader(data []byte) (*Reader, error) {
	reader := &Reader{
		data:       data,
		objCache:   make(map[int]core.Object),
		objStreams: make(map[int]*core.ObjectStream),
		loading:    make(map[int]bool),
	}

	version, err := parseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	reader.version = version

	table, err := core.LoadXRef(data)
	if err != nil {
		rebuilt, rerr := core.ReconstructXRef(data)
		if rerr != nil {
			return nil, fmt.Errorf("failed to load xref: %w", err)
		}
		table = rebuilt
		reader.reconstructed = true
	}
	reader.xrefTable = table
	reader.trailer = table.Trailer

	if reader.trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}

	return reader, nil
}

// parseHeader finds "%PDF-x.y" near the start of the file
func parseHeader(data []byte) (PDFVersion, error) {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 {
		return PDFVersion{}, fmt.Errorf("invalid PDF header: %q", truncate(window, 16))
	}

	matches := headerPattern.FindSubmatch(window[idx:])
	if matches == nil {
		return PDFVersion{}, fmt.Errorf("invalid version format: %q", truncate(window[idx:], 16))
	}
	major, _ := strconv.Atoi(string(matches[1]))
	minor, _ := strconv.Atoi(string(matches[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// Close releases cached objects. The reader must not be used afterwards.
func (r *Reader) Close() error {
	r.objCache = nil
	r.objStreams = nil
	r.pageTree = nil
	return nil
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// Reconstructed reports whether the cross-reference table was rebuilt by
// scanning the file
func (r *Reader) Reconstructed() bool {
	return r.reconstructed
}

// FileSize returns the size of the PDF file in bytes
func (r *Reader) FileSize() int64 {
	return int64(len(r.data))
}

// NumObjects returns the /Size of the trailer
func (r *Reader) NumObjects() int {
	size, ok := r.trailer.GetInt("Size")
	if !ok {
		return 0
	}
	return int(size)
}

// GetObject loads an object by its number
// Uses caching to avoid re-parsing objects
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if r.objCache == nil {
		return nil, fmt.Errorf("reader is closed")
	}
	if obj, ok := r.objCache[objNum]; ok {
		return obj, nil
	}

	entry, ok := r.xrefTable.Get(objNum)
	if !ok {
		return nil, fmt.Errorf("object %d not found in xref table", objNum)
	}

	if r.loading[objNum] {
		return nil, fmt.Errorf("object %d refers to itself while loading", objNum)
	}
	r.loading[objNum] = true
	defer delete(r.loading, objNum)

	var obj core.Object
	var err error
	switch entry.Kind {
	case core.XRefInUse:
		obj, err = r.loadDirect(objNum, entry)
	case core.XRefCompressed:
		obj, err = r.loadCompressed(objNum, entry)
	default:
		return nil, fmt.Errorf("object %d is not in use", objNum)
	}
	if err != nil {
		return nil, err
	}

	r.objCache[objNum] = obj
	return obj, nil
}

func (r *Reader) loadDirect(objNum int, entry core.XRefEntry) (core.Object, error) {
	if entry.Offset < 0 || entry.Offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("object %d offset %d outside file", objNum, entry.Offset)
	}

	parser := core.NewParser(r.data)
	parser.SetReferenceResolver(r)
	parser.Seek(int(entry.Offset))
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}

	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}
	return indObj.Object, nil
}

func (r *Reader) loadCompressed(objNum int, entry core.XRefEntry) (core.Object, error) {
	objStm, ok := r.objStreams[entry.Stream]
	if !ok {
		container, err := r.GetObject(entry.Stream)
		if err != nil {
			return nil, fmt.Errorf("failed to load object stream %d for object %d: %w", entry.Stream, objNum, err)
		}
		stream, ok := container.(*core.Stream)
		if !ok {
			return nil, fmt.Errorf("object stream %d is %T, not a stream", entry.Stream, container)
		}
		objStm, err = core.NewObjectStream(stream)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.Stream, err)
		}
		r.objStreams[entry.Stream] = objStm
	}

	obj, err := objStm.Object(objNum, entry.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %d from stream %d: %w", objNum, entry.Stream, err)
	}
	return obj, nil
}

// ResolveReference resolves an indirect reference
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve resolves an object if it's an indirect reference, otherwise returns it as-is
// Implements pages.ObjectResolver interface
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.ResolveReference(ref)
	}
	return obj, nil
}

// GetCatalog returns the document catalog (root object)
func (r *Reader) GetCatalog() (core.Dict, error) {
	rootRef := r.trailer.Get("Root")
	if rootRef == nil {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}

	ref, ok := rootRef.(core.IndirectRef)
	if !ok {
		return nil, fmt.Errorf("invalid /Root type: %T", rootRef)
	}

	obj, err := r.ResolveReference(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}

	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", obj)
	}

	return catalog, nil
}

// GetInfo returns the document info dictionary (metadata)
func (r *Reader) GetInfo() (core.Dict, error) {
	infoRef := r.trailer.Get("Info")
	if infoRef == nil {
		return nil, nil // Info is optional
	}

	obj, err := r.Resolve(infoRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve info: %w", err)
	}

	info, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("info is not a dictionary: %T", obj)
	}

	return info, nil
}

// Pages returns every page in document order
func (r *Reader) Pages() ([]*pages.Page, error) {
	if r.pageTree == nil {
		catalog, err := r.GetCatalog()
		if err != nil {
			return nil, fmt.Errorf("failed to get catalog: %w", err)
		}
		tree, err := pages.NewCatalog(catalog, r).Pages()
		if err != nil {
			return nil, err
		}
		r.pageTree = tree
	}
	return r.pageTree.Pages()
}

// ContentObjects returns the content stream references of a page in
// drawing order
func (r *Reader) ContentObjects(page *pages.Page) ([]core.IndirectRef, error) {
	refs, err := page.ContentRefs()
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page.Number(), err)
	}
	return refs, nil
}

// Decompress returns the decoded bytes of a stream
func (r *Reader) Decompress(stream *core.Stream) ([]byte, error) {
	return stream.Decode()
}
