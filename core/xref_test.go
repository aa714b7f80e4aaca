package core

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF lays out objects 1..n with a classic xref table and trailer.
// It returns the file and the offset of each object.
func buildPDF(objects []string, trailer string) ([]byte, []int) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes(), offsets
}

// TestLoadXRefTable tests a classic cross-reference table
func TestLoadXRefTable(t *testing.T) {
	data, offsets := buildPDF([]string{
		"<</Type /Catalog /Pages 2 0 R>>",
		"<</Type /Pages /Kids [] /Count 0>>",
	}, "<</Size 3 /Root 1 0 R>>")

	table, err := LoadXRef(data)
	require.NoError(t, err)

	entry, ok := table.Get(0)
	require.True(t, ok)
	assert.Equal(t, XRefFree, entry.Kind)

	for i, off := range offsets {
		entry, ok := table.Get(i + 1)
		require.True(t, ok)
		assert.Equal(t, XRefInUse, entry.Kind)
		assert.Equal(t, int64(off), entry.Offset)
	}
	assert.Equal(t, IndirectRef{Number: 1}, table.Trailer.Get("Root"))
}

// TestLoadXRefPrev tests an incremental update chained with /Prev
func TestLoadXRefPrev(t *testing.T) {
	data, _ := buildPDF([]string{
		"<</Type /Catalog /Pages 2 0 R>>",
		"(old)",
	}, "<</Size 3 /Root 1 0 R /Info 9 0 R>>")
	prev, err := FindStartXRef(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.Write(data)
	updated := buf.Len()
	buf.WriteString("2 0 obj\n(new)\nendobj\n")
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n2 1\n%010d 00000 n \ntrailer\n<</Size 3 /Root 1 0 R /Prev %d>>\nstartxref\n%d\n%%%%EOF\n", updated, prev, xref)

	table, err := LoadXRef(buf.Bytes())
	require.NoError(t, err)

	entry, _ := table.Get(2)
	assert.Equal(t, int64(updated), entry.Offset, "newest section wins")
	_, ok := table.Get(1)
	assert.True(t, ok, "older entries are kept")
	assert.True(t, table.Trailer.Has("Info"), "older trailer keys are merged")
	assert.False(t, table.Trailer.Has("Prev"))
}

// TestLoadXRefLoop tests a /Prev chain pointing at itself
func TestLoadXRefLoop(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 1\n0000000000 65535 f \ntrailer\n<</Size 1 /Prev %d>>\nstartxref\n%d\n%%%%EOF\n", xref, xref)

	_, err := LoadXRef(buf.Bytes())
	assert.Error(t, err)
}

// TestFindStartXRef tests locating the startxref offset
func TestFindStartXRef(t *testing.T) {
	off, err := FindStartXRef([]byte("junk\nstartxref\n10\nstartxref\n20\n%%EOF"))
	require.NoError(t, err)
	assert.Equal(t, int64(20), off)

	_, err = FindStartXRef([]byte("%PDF-1.4\nno trailer here"))
	assert.Error(t, err)
}

// TestParseXRefStream tests a cross-reference stream with /Index and /W
func TestParseXRefStream(t *testing.T) {
	rows := []byte{
		1, 0x00, 0x0f, 0, // obj 3: offset 15
		2, 0x00, 0x07, 2, // obj 4: in stream 7 at index 2
		0, 0x00, 0x00, 1, // obj 5: free
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n")
	start := buf.Len()
	fmt.Fprintf(&buf, "9 0 obj\n<</Type /XRef /Size 6 /Index [3 3] /W [1 2 1] /Root 1 0 R /Length %d>>\nstream\n", len(rows))
	buf.Write(rows)
	fmt.Fprintf(&buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", start)

	table, err := LoadXRef(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, XRefEntry{Kind: XRefInUse, Offset: 15}, table.Entries[3])
	assert.Equal(t, XRefEntry{Kind: XRefCompressed, Stream: 7, Index: 2}, table.Entries[4])
	assert.Equal(t, XRefEntry{Kind: XRefFree, Generation: 1}, table.Entries[5])
	assert.Len(t, table.Entries, 3)
	assert.Equal(t, IndirectRef{Number: 1}, table.Trailer.Get("Root"))
}

// TestParseXRefStreamEntry tests a zero-width type field
func TestParseXRefStreamEntry(t *testing.T) {
	entry, err := parseXRefStreamEntry([]byte{0x01, 0x00}, [3]int{0, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, XRefEntry{Kind: XRefInUse, Offset: 256}, entry)

	_, err = parseXRefStreamEntry([]byte{9, 0, 0}, [3]int{1, 1, 1})
	assert.Error(t, err)
}

// TestParseXRefSectionErrors tests offsets that do not hold xref data
func TestParseXRefSectionErrors(t *testing.T) {
	data := []byte("%PDF-1.4\n/NotXRef\n")
	_, err := ParseXRefSection(data, 9)
	assert.Error(t, err)
	_, err = ParseXRefSection(data, 500)
	assert.Error(t, err)
}

// TestReconstructXRef tests rebuilding a table from object headers
func TestReconstructXRef(t *testing.T) {
	data, offsets := buildPDF([]string{
		"<</Type /Catalog /Pages 2 0 R>>",
		"<</Type /Pages /Kids [] /Count 0>>",
	}, "<</Size 3 /Root 1 0 R>>")

	// Break startxref.
	broken := bytes.Replace(data, []byte("startxref"), []byte("startxrfe"), 1)
	_, err := LoadXRef(broken)
	require.Error(t, err)

	table, err := ReconstructXRef(broken)
	require.NoError(t, err)
	assert.Equal(t, int64(offsets[0]), table.Entries[1].Offset)
	assert.Equal(t, int64(offsets[1]), table.Entries[2].Offset)
	assert.Equal(t, IndirectRef{Number: 1}, table.Trailer.Get("Root"))
}

// TestReconstructXRefCatalog tests synthesizing a trailer from the catalog
func TestReconstructXRefCatalog(t *testing.T) {
	data := []byte("%PDF-1.4\n1 0 obj\n<</Type /Pages /Kids []>>\nendobj\n2 0 obj\n<</Type /Catalog /Pages 1 0 R>>\nendobj\n")
	table, err := ReconstructXRef(data)
	require.NoError(t, err)
	assert.Equal(t, IndirectRef{Number: 2}, table.Trailer.Get("Root"))

	_, err = ReconstructXRef([]byte("%PDF-1.4\nnothing"))
	assert.Error(t, err)
}
