package core

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseObject tests parsing of direct objects
func TestParseObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Object
	}{
		{"null", "null", Null{}},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"integer", "42", Int(42)},
		{"real", "-1.25", Real(-1.25)},
		{"huge integer", "99999999999999999999", Real(99999999999999999999)},
		{"string", "(abc)", String("abc")},
		{"hex string", "<00FF>", String("\x00\xff")},
		{"name", "/F1", Name("F1")},
		{"reference", "12 0 R", IndirectRef{Number: 12, Generation: 0}},
		{"array", "[1 2.5 /N (s) 3 0 R]", Array{Int(1), Real(2.5), Name("N"), String("s"), IndirectRef{Number: 3}}},
		{"nested array", "[[1] []]", Array{Array{Int(1)}, Array{}}},
		{"dict", "<</Type /Page /Count 2>>", Dict{"Type": Name("Page"), "Count": Int(2)}},
		{"dict with comment", "<</A % c\n1>>", Dict{"A": Int(1)}},
		{"dict dangling key", "<</A 1 /B>>", Dict{"A": Int(1), "B": Null{}}},
		{"integers not reference", "[1 2 3]", Array{Int(1), Int(2), Int(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := NewParser([]byte(tt.input)).ParseObject()
			require.NoError(t, err)
			assert.Equal(t, tt.want, obj)
		})
	}
}

// TestParseObjectErrors tests malformed objects
func TestParseObjectErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated array", "[1 2"},
		{"unterminated dict", "<</A 1"},
		{"non-name key", "<<1 2>>"},
		{"bare keyword", "Tj"},
		{"stray array end", "]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser([]byte(tt.input)).ParseObject()
			assert.Error(t, err)
		})
	}

	_, err := NewParser([]byte("   ")).ParseObject()
	assert.ErrorIs(t, err, io.EOF)
}

// TestNextItem tests reading operands and operators from a content stream
func TestNextItem(t *testing.T) {
	p := NewParser([]byte("/F1 12 Tf % set font\n(Hi) Tj true null T*"))

	type item struct {
		obj     Object
		keyword string
	}
	var got []item
	for {
		obj, kw, err := p.NextItem()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, item{obj, kw})
	}

	assert.Equal(t, []item{
		{Name("F1"), ""},
		{Int(12), ""},
		{nil, "Tf"},
		{String("Hi"), ""},
		{nil, "Tj"},
		{Bool(true), ""},
		{Null{}, ""},
		{nil, "T*"},
	}, got)
}

// TestNextItemReferenceLookahead tests that failed "N G R" lookahead rewinds
func TestNextItemReferenceLookahead(t *testing.T) {
	p := NewParser([]byte("1 0 0 1 5 5 cm"))
	var ints []Object
	for {
		obj, kw, err := p.NextItem()
		require.NoError(t, err)
		if kw != "" {
			assert.Equal(t, "cm", kw)
			break
		}
		ints = append(ints, obj)
	}
	assert.Equal(t, []Object{Int(1), Int(0), Int(0), Int(1), Int(5), Int(5)}, ints)
}

// TestParseIndirectObject tests "N G obj ... endobj" definitions
func TestParseIndirectObject(t *testing.T) {
	ind, err := NewParser([]byte("7 0 obj\n<</Type /Catalog>>\nendobj")).ParseIndirectObject()
	require.NoError(t, err)
	assert.Equal(t, IndirectRef{Number: 7, Generation: 0}, ind.Ref)
	assert.Equal(t, Dict{"Type": Name("Catalog")}, ind.Object)

	ind, err = NewParser([]byte("3 1 obj endobj")).ParseIndirectObject()
	require.NoError(t, err)
	assert.Equal(t, Null{}, ind.Object)

	ind, err = NewParser([]byte("4 0 obj 17\n5 0 obj")).ParseIndirectObject()
	require.NoError(t, err, "missing endobj is tolerated")
	assert.Equal(t, Int(17), ind.Object)

	_, err = NewParser([]byte("4 0 foo")).ParseIndirectObject()
	assert.Error(t, err)
}

// TestParseStream tests stream bodies with correct and wrong /Length
func TestParseStream(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact length", "1 0 obj <</Length 5>> stream\nHello\nendstream endobj", "Hello"},
		{"CRLF after keyword", "1 0 obj <</Length 5>> stream\r\nHello\r\nendstream endobj", "Hello"},
		{"length too long", "1 0 obj <</Length 50>> stream\nHello\nendstream endobj", "Hello"},
		{"length too short", "1 0 obj <</Length 2>> stream\nHello\nendstream endobj", "Hello"},
		{"missing length", "1 0 obj <<>> stream\nHello\nendstream endobj", "Hello"},
		{"empty", "1 0 obj <</Length 0>> stream\n\nendstream endobj", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind, err := NewParser([]byte(tt.input)).ParseIndirectObject()
			require.NoError(t, err)
			stream, ok := ind.Object.(*Stream)
			require.True(t, ok, "got %T", ind.Object)
			assert.Equal(t, tt.want, string(stream.Data))
		})
	}
}

type mapResolver map[IndirectRef]Object

func (m mapResolver) ResolveReference(ref IndirectRef) (Object, error) {
	obj, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("object %v not found", ref)
	}
	return obj, nil
}

// TestParseStreamIndirectLength tests a /Length stored in another object
func TestParseStreamIndirectLength(t *testing.T) {
	input := []byte("1 0 obj <</Length 2 0 R>> stream\nab)cd\nendstream endobj")

	p := NewParser(input)
	p.SetReferenceResolver(mapResolver{{Number: 2}: Int(5)})
	ind, err := p.ParseIndirectObject()
	require.NoError(t, err)
	assert.Equal(t, "ab)cd", string(ind.Object.(*Stream).Data))

	// Without a resolver the data still runs to endstream.
	ind, err = NewParser(input).ParseIndirectObject()
	require.NoError(t, err)
	assert.Equal(t, "ab)cd", string(ind.Object.(*Stream).Data))
}

// TestParseStreamMissingEndstream tests an unterminated stream
func TestParseStreamMissingEndstream(t *testing.T) {
	_, err := NewParser([]byte("1 0 obj <<>> stream\nabc")).ParseIndirectObject()
	assert.Error(t, err)
}
