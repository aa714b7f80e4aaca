package core

import (
	"fmt"
)

// ObjectStream is a /Type /ObjStm stream holding several non-stream
// objects (PDF 1.5+). The header of the decoded data lists N pairs of
// object number and offset relative to /First.
type ObjectStream struct {
	n       int
	first   int
	decoded []byte
	numbers []int
	offsets []int
}

// NewObjectStream decodes stream and reads its header.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	if typ, _ := stream.Dict.GetName("Type"); typ != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type %q", typ)
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N: %v", stream.Dict.Get("N"))
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First: %v", stream.Dict.Get("First"))
	}

	decoded, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode object stream: %w", err)
	}
	if int(first) > len(decoded) {
		return nil, fmt.Errorf("/First (%d) exceeds decoded data length (%d)", first, len(decoded))
	}

	os := &ObjectStream{n: int(n), first: int(first), decoded: decoded}
	if err := os.parseHeader(); err != nil {
		return nil, fmt.Errorf("failed to parse object stream header: %w", err)
	}
	return os, nil
}

func (os *ObjectStream) parseHeader() error {
	p := NewParser(os.decoded[:os.first])
	os.numbers = make([]int, 0, os.n)
	os.offsets = make([]int, 0, os.n)
	for i := 0; i < os.n; i++ {
		num, err := p.expectInt("object number")
		if err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
		off, err := p.expectInt("offset")
		if err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
		os.numbers = append(os.numbers, num)
		os.offsets = append(os.offsets, off)
	}
	return nil
}

// N returns the number of objects stored in the stream.
func (os *ObjectStream) N() int {
	return os.n
}

// ObjectAt parses the object at index (header order) and returns it with
// its object number.
func (os *ObjectStream) ObjectAt(index int) (Object, int, error) {
	if index < 0 || index >= len(os.offsets) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.offsets))
	}
	start := os.first + os.offsets[index]
	if start >= len(os.decoded) {
		return nil, 0, fmt.Errorf("object offset %d exceeds decoded data length %d", start, len(os.decoded))
	}
	end := len(os.decoded)
	if index+1 < len(os.offsets) {
		if next := os.first + os.offsets[index+1]; next > start && next < end {
			end = next
		}
	}

	obj, err := NewParser(os.decoded[start:end]).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object at index %d: %w", index, err)
	}
	return obj, os.numbers[index], nil
}

// Object finds objNum in the stream. index is a hint from the
// cross-reference entry and is checked first.
func (os *ObjectStream) Object(objNum, index int) (Object, error) {
	if index >= 0 && index < len(os.numbers) && os.numbers[index] == objNum {
		obj, _, err := os.ObjectAt(index)
		return obj, err
	}
	for i, num := range os.numbers {
		if num == objNum {
			obj, _, err := os.ObjectAt(i)
			return obj, err
		}
	}
	return nil, fmt.Errorf("object %d not found in object stream", objNum)
}
