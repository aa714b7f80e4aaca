package core

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// TestStreamDecode tests filter chains on stream data
func TestStreamDecode(t *testing.T) {
	content := []byte("BT /F1 12 Tf (Hello) Tj ET")
	compressed := deflate(t, content)

	tests := []struct {
		name string
		dict Dict
		data []byte
	}{
		{"no filter", Dict{}, content},
		{"null filter", Dict{"Filter": Null{}}, content},
		{"flate", Dict{"Filter": Name("FlateDecode")}, compressed},
		{"flate in array", Dict{"Filter": Array{Name("FlateDecode")}}, compressed},
		{"hex then flate", Dict{"Filter": Array{Name("ASCIIHexDecode"), Name("FlateDecode")}}, []byte(hexEncode(compressed) + ">")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{Dict: tt.dict, Data: tt.data}
			got, err := s.Decode()
			require.NoError(t, err)
			assert.Equal(t, content, got)
		})
	}
}

// TestStreamDecodeErrors tests invalid filter specifications
func TestStreamDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		dict Dict
	}{
		{"unknown filter", Dict{"Filter": Name("NoSuchDecode")}},
		{"filter not a name", Dict{"Filter": Int(3)}},
		{"array element not a name", Dict{"Filter": Array{Int(1)}}},
		{"corrupt flate", Dict{"Filter": Name("FlateDecode")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Stream{Dict: tt.dict, Data: []byte("not compressed")}).Decode()
			assert.Error(t, err)
		})
	}
}

// TestStreamDecodeParms tests that /DecodeParms reaches the filter
func TestStreamDecodeParms(t *testing.T) {
	// Two PNG "Up" rows of two columns.
	raw := []byte{2, 1, 2, 2, 1, 1}
	s := &Stream{
		Dict: Dict{
			"Filter":      Array{Name("FlateDecode")},
			"DecodeParms": Array{Dict{"Predictor": Int(12), "Columns": Int(2)}},
		},
		Data: deflate(t, raw),
	}
	got, err := s.Decode()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 2, 3}, got)
}

func hexEncode(b []byte) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, digits[c>>4], digits[c&0x0f])
	}
	return string(out)
}
