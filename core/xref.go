package core

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// XRefEntryKind distinguishes the three kinds of cross-reference entries.
type XRefEntryKind int

const (
	XRefFree       XRefEntryKind = iota // deleted or never used
	XRefInUse                           // stored at a byte offset in the file
	XRefCompressed                      // stored inside an object stream (PDF 1.5+)
)

// XRefEntry locates one object.
type XRefEntry struct {
	Kind       XRefEntryKind
	Offset     int64 // XRefInUse: byte offset of "N G obj"
	Generation int
	Stream     int // XRefCompressed: number of the containing object stream
	Index      int // XRefCompressed: index within that stream
}

// XRefTable maps object numbers to their locations.
type XRefTable struct {
	Entries map[int]XRefEntry
	Trailer Dict
}

// NewXRefTable creates an empty table.
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]XRefEntry),
		Trailer: make(Dict),
	}
}

// Get returns the entry for objNum.
func (x *XRefTable) Get(objNum int) (XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// setIfAbsent records entry unless objNum already has one; sections are
// read newest first so the first entry seen wins.
func (x *XRefTable) setIfAbsent(objNum int, entry XRefEntry) {
	if _, ok := x.Entries[objNum]; !ok {
		x.Entries[objNum] = entry
	}
}

// LoadXRef reads the cross-reference data of a whole file: the section
// named by startxref and every section reached through /Prev and /XRefStm.
// The trailer is the newest one, with older keys filled in where missing.
func LoadXRef(data []byte) (*XRefTable, error) {
	offset, err := FindStartXRef(data)
	if err != nil {
		return nil, err
	}

	merged := NewXRefTable()
	seen := make(map[int64]bool)
	for offset >= 0 {
		if seen[offset] {
			return nil, fmt.Errorf("cross-reference chain loops at offset %d", offset)
		}
		seen[offset] = true

		section, err := ParseXRefSection(data, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to parse xref at offset %d: %w", offset, err)
		}

		// Hybrid files: objects hidden from old readers live in /XRefStm and
		// take precedence over the table's free entries for the same numbers.
		if stmOffset, ok := section.Trailer.GetInt("XRefStm"); ok && !seen[int64(stmOffset)] {
			seen[int64(stmOffset)] = true
			stm, err := ParseXRefSection(data, int64(stmOffset))
			if err != nil {
				return nil, fmt.Errorf("failed to parse /XRefStm at offset %d: %w", stmOffset, err)
			}
			for num, entry := range stm.Entries {
				if cur, ok := section.Entries[num]; !ok || cur.Kind == XRefFree {
					section.Entries[num] = entry
				}
			}
		}

		for num, entry := range section.Entries {
			merged.setIfAbsent(num, entry)
		}
		for key, val := range section.Trailer {
			if !merged.Trailer.Has(key) {
				merged.Trailer[key] = val
			}
		}

		prev, ok := section.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}

	delete(merged.Trailer, "Prev")
	delete(merged.Trailer, "XRefStm")
	return merged, nil
}

var startxrefKeyword = []byte("startxref")

// FindStartXRef returns the offset recorded after the last "startxref".
func FindStartXRef(data []byte) (int64, error) {
	tail := data
	if len(tail) > 2048 {
		tail = tail[len(tail)-2048:]
	}
	idx := bytes.LastIndex(tail, startxrefKeyword)
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found in PDF")
	}
	lx := NewLexer(tail[idx+len(startxrefKeyword):])
	tok, err := lx.NextToken()
	if err != nil || tok.Type != TokenInteger {
		return 0, fmt.Errorf("invalid startxref format")
	}
	offset, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid xref offset: %w", err)
	}
	if offset < 0 || offset >= int64(len(data)) {
		return 0, fmt.Errorf("xref offset %d outside file of %d bytes", offset, len(data))
	}
	return offset, nil
}

// ParseXRefSection parses the section at offset, which is either a classic
// "xref" table followed by a trailer or a cross-reference stream object.
func ParseXRefSection(data []byte, offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("offset %d outside file", offset)
	}
	p := NewParser(data)
	p.Seek(int(offset))

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.Type == TokenKeyword && string(tok.Value) == "xref":
		return parseXRefTable(p)
	case tok.Type == TokenInteger:
		p.Seek(int(offset))
		return parseXRefStream(p)
	default:
		return nil, fmt.Errorf("expected 'xref' or a cross-reference stream, got %v %q", tok.Type, tok.Value)
	}
}

// parseXRefTable reads subsections "first count" each followed by count
// entries "offset generation n|f", up to the trailer dictionary.
func parseXRefTable(p *Parser) (*XRefTable, error) {
	table := NewXRefTable()
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenKeyword && string(tok.Value) == "trailer" {
			obj, err := p.ParseObject()
			if err != nil {
				return nil, fmt.Errorf("failed to parse trailer dictionary: %w", err)
			}
			trailer, ok := obj.(Dict)
			if !ok {
				return nil, fmt.Errorf("trailer is not a dictionary, got %T", obj)
			}
			table.Trailer = trailer
			return table, nil
		}
		if tok.Type != TokenInteger {
			return nil, fmt.Errorf("invalid subsection header %q at position %d", tok.Value, tok.Pos)
		}
		first, _ := strconv.Atoi(string(tok.Value))
		count, err := p.expectInt("subsection count")
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			entry, err := parseXRefTableEntry(p)
			if err != nil {
				return nil, fmt.Errorf("entry %d of subsection %d: %w", i, first, err)
			}
			table.setIfAbsent(first+i, entry)
		}
	}
}

func parseXRefTableEntry(p *Parser) (XRefEntry, error) {
	offTok, err := p.next()
	if err != nil {
		return XRefEntry{}, err
	}
	offset, err := strconv.ParseInt(string(offTok.Value), 10, 64)
	if offTok.Type != TokenInteger || err != nil {
		return XRefEntry{}, fmt.Errorf("invalid offset %q", offTok.Value)
	}
	gen, err := p.expectInt("generation")
	if err != nil {
		return XRefEntry{}, err
	}
	flag, err := p.next()
	if err != nil {
		return XRefEntry{}, err
	}
	switch string(flag.Value) {
	case "n":
		return XRefEntry{Kind: XRefInUse, Offset: offset, Generation: gen}, nil
	case "f":
		return XRefEntry{Kind: XRefFree, Generation: gen}, nil
	default:
		return XRefEntry{}, fmt.Errorf("invalid in-use flag: %q", flag.Value)
	}
}

// parseXRefStream reads a /Type /XRef stream. Its dictionary doubles as
// the trailer.
func parseXRefStream(p *Parser) (*XRefTable, error) {
	ind, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := ind.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("cross-reference object %d is not a stream", ind.Ref.Number)
	}
	if typ, _ := stream.Dict.GetName("Type"); typ != "XRef" {
		return nil, fmt.Errorf("stream %d is not a cross-reference stream (type %q)", ind.Ref.Number, typ)
	}

	w, err := xrefWidths(stream.Dict)
	if err != nil {
		return nil, err
	}
	index, err := xrefIndex(stream.Dict)
	if err != nil {
		return nil, err
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.Trailer = stream.Dict
	rowLen := w[0] + w[1] + w[2]
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		first, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			if pos+rowLen > len(data) {
				return nil, fmt.Errorf("xref stream truncated at entry %d", first+j)
			}
			entry, err := parseXRefStreamEntry(data[pos:pos+rowLen], w)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", first+j, err)
			}
			table.setIfAbsent(first+j, entry)
			pos += rowLen
		}
	}
	return table, nil
}

func xrefWidths(dict Dict) ([3]int, error) {
	var w [3]int
	arr, ok := dict.GetArray("W")
	if !ok || len(arr) != 3 {
		return w, fmt.Errorf("xref stream /W must be an array of three integers")
	}
	for i := range w {
		n, ok := AsInt(arr[i])
		if !ok || n < 0 || n > 8 {
			return w, fmt.Errorf("invalid /W entry %d: %v", i, arr[i])
		}
		w[i] = int(n)
	}
	return w, nil
}

func xrefIndex(dict Dict) ([]int, error) {
	arr, ok := dict.GetArray("Index")
	if !ok {
		size, ok := dict.GetInt("Size")
		if !ok {
			return nil, fmt.Errorf("xref stream missing /Size")
		}
		return []int{0, int(size)}, nil
	}
	if len(arr)%2 != 0 {
		return nil, fmt.Errorf("xref stream /Index has odd length %d", len(arr))
	}
	index := make([]int, len(arr))
	for i, v := range arr {
		n, ok := AsInt(v)
		if !ok || n < 0 {
			return nil, fmt.Errorf("invalid /Index entry %d: %v", i, v)
		}
		index[i] = int(n)
	}
	return index, nil
}

// parseXRefStreamEntry decodes one row. A zero-width type field means type 1.
func parseXRefStreamEntry(row []byte, w [3]int) (XRefEntry, error) {
	typ := int64(1)
	if w[0] > 0 {
		typ = readBigEndianInt(row[:w[0]])
	}
	f2 := readBigEndianInt(row[w[0] : w[0]+w[1]])
	f3 := readBigEndianInt(row[w[0]+w[1]:])

	switch typ {
	case 0:
		return XRefEntry{Kind: XRefFree, Generation: int(f3)}, nil
	case 1:
		return XRefEntry{Kind: XRefInUse, Offset: f2, Generation: int(f3)}, nil
	case 2:
		return XRefEntry{Kind: XRefCompressed, Stream: int(f2), Index: int(f3)}, nil
	default:
		return XRefEntry{}, fmt.Errorf("unknown xref entry type %d", typ)
	}
}

func readBigEndianInt(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

var objHeader = regexp.MustCompile(`(?m)(?:^|[\r\n\s])(\d+)\s+(\d+)\s+obj\b`)

// ReconstructXRef rebuilds a table by scanning the file for "N G obj"
// headers, for files whose startxref or xref data is damaged. Later
// definitions win, as they would after incremental updates. The trailer is
// the last "trailer" dictionary in the file, or one synthesized from the
// first /Type /Catalog object.
func ReconstructXRef(data []byte) (*XRefTable, error) {
	table := NewXRefTable()
	for _, m := range objHeader.FindAllSubmatchIndex(data, -1) {
		num, err1 := strconv.Atoi(string(data[m[2]:m[3]]))
		gen, err2 := strconv.Atoi(string(data[m[4]:m[5]]))
		if err1 != nil || err2 != nil {
			continue
		}
		table.Entries[num] = XRefEntry{Kind: XRefInUse, Offset: int64(m[2]), Generation: gen}
	}
	if len(table.Entries) == 0 {
		return nil, fmt.Errorf("no objects found while reconstructing xref")
	}

	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		p := NewParser(data)
		p.Seek(idx + len("trailer"))
		if obj, err := p.ParseObject(); err == nil {
			if dict, ok := obj.(Dict); ok && dict.Has("Root") {
				table.Trailer = dict
				return table, nil
			}
		}
	}

	nums := make([]int, 0, len(table.Entries))
	for num := range table.Entries {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	for _, num := range nums {
		entry := table.Entries[num]
		p := NewParser(data)
		p.Seek(int(entry.Offset))
		ind, err := p.ParseIndirectObject()
		if err != nil {
			continue
		}
		if dict, ok := ind.Object.(Dict); ok {
			if typ, _ := dict.GetName("Type"); typ == "Catalog" {
				table.Trailer["Root"] = IndirectRef{Number: num, Generation: entry.Generation}
				return table, nil
			}
		}
	}
	return nil, fmt.Errorf("no trailer or catalog found while reconstructing xref")
}
