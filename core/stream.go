package core

import (
	"fmt"

	"github.com/tsawler/pdfops/internal/filters"
)

// Decode returns the stream data with every filter in /Filter applied in
// order. /DecodeParms may be a single dictionary or an array parallel to
// /Filter.
func (s *Stream) Decode() ([]byte, error) {
	names, err := s.filterNames()
	if err != nil {
		return nil, err
	}

	data := s.Data
	for i, name := range names {
		data, err = filters.Decode(name, data, s.decodeParams(i))
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
		}
	}
	return data, nil
}

// filterNames lists the stream's filters; an absent /Filter means none.
func (s *Stream) filterNames() ([]string, error) {
	switch f := s.Dict.Get("Filter").(type) {
	case nil, Null:
		return nil, nil
	case Name:
		return []string{string(f)}, nil
	case Array:
		names := make([]string, len(f))
		for i, elem := range f {
			name, ok := AsName(elem)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %T", i, elem)
			}
			names[i] = string(name)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("invalid Filter type: %T", f)
	}
}

func (s *Stream) decodeParams(index int) filters.Params {
	switch p := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		return toParams(p)
	case Array:
		if dict, ok := p.Get(index).(Dict); ok {
			return toParams(dict)
		}
	}
	return nil
}

// toParams converts PDF values to the Go primitives filters expect.
func toParams(dict Dict) filters.Params {
	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
