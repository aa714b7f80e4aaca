package filters

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for filters that are recognized but not implemented.
var ErrUnsupported = errors.New("unsupported filter")

// Params holds decode parameters converted to Go values (int, float64,
// bool, string).
type Params map[string]interface{}

// Int returns the integer parameter key, or def when missing or not numeric.
func (p Params) Int(key string, def int) int {
	if p == nil {
		return def
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Bool returns the boolean parameter key, or def when missing.
func (p Params) Bool(key string, def bool) bool {
	if p == nil {
		return def
	}
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Func decodes data with the given parameters.
type Func func(data []byte, params Params) ([]byte, error)

var registry = map[string]Func{
	"FlateDecode":     FlateDecode,
	"LZWDecode":       LZWDecode,
	"ASCIIHexDecode":  withoutParams(ASCIIHexDecode),
	"ASCII85Decode":   withoutParams(ASCII85Decode),
	"RunLengthDecode": withoutParams(RunLengthDecode),
	"CCITTFaxDecode":  CCITTFaxDecode,
	"DCTDecode":       passThrough,
	"JPXDecode":       passThrough,
}

// abbreviations used in inline images
var abbreviations = map[string]string{
	"Fl":  "FlateDecode",
	"LZW": "LZWDecode",
	"AHx": "ASCIIHexDecode",
	"A85": "ASCII85Decode",
	"RL":  "RunLengthDecode",
	"CCF": "CCITTFaxDecode",
	"DCT": "DCTDecode",
}

// Decode applies the filter called name to data.
func Decode(name string, data []byte, params Params) ([]byte, error) {
	if full, ok := abbreviations[name]; ok {
		name = full
	}
	fn, ok := registry[name]
	if !ok {
		switch name {
		case "JBIG2Decode", "Crypt":
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
		}
		return nil, fmt.Errorf("unknown filter: %s", name)
	}
	out, err := fn(data, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func withoutParams(fn func([]byte) ([]byte, error)) Func {
	return func(data []byte, _ Params) ([]byte, error) {
		return fn(data)
	}
}

func passThrough(data []byte, _ Params) ([]byte, error) {
	return data, nil
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
