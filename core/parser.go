package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ReferenceResolver is an interface for resolving indirect references.
// The parser needs one when a stream's /Length is itself an indirect object.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser builds PDF objects from the tokens produced by a Lexer.
type Parser struct {
	lexer    *Lexer
	resolver ReferenceResolver
}

// NewParser creates a parser positioned at the start of data.
func NewParser(data []byte) *Parser {
	return &Parser{lexer: NewLexer(data)}
}

// SetReferenceResolver sets the resolver used for indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// Lexer exposes the underlying lexer for callers that need raw access,
// such as inline image data in content streams.
func (p *Parser) Lexer() *Lexer {
	return p.lexer
}

// Seek repositions the parser at offset.
func (p *Parser) Seek(offset int) {
	p.lexer.Seek(offset)
}

// next returns the next non-comment token.
func (p *Parser) next() (Token, error) {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return Token{}, err
		}
		if tok.Type != TokenComment {
			return tok, nil
		}
	}
}

// ParseObject parses the next object. It returns io.EOF at the end of input.
func (p *Parser) ParseObject() (Object, error) {
	obj, keyword, err := p.NextItem()
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("unexpected keyword: %s", keyword)
	}
	return obj, nil
}

// NextItem reads the next object or bare keyword. Bare keywords other than
// true, false and null come back in keyword with a nil object; in a content
// stream they are operators. It returns io.EOF at the end of input.
func (p *Parser) NextItem() (obj Object, keyword string, err error) {
	tok, err := p.next()
	if err != nil {
		return nil, "", err
	}
	if tok.Type == TokenEOF {
		return nil, "", io.EOF
	}
	if tok.Type == TokenKeyword {
		switch string(tok.Value) {
		case "null":
			return Null{}, "", nil
		case "true":
			return Bool(true), "", nil
		case "false":
			return Bool(false), "", nil
		default:
			return nil, string(tok.Value), nil
		}
	}
	obj, err = p.parseValue(tok)
	return obj, "", err
}

// parseValue turns tok, and for containers the tokens that follow it, into an object.
func (p *Parser) parseValue(tok Token) (Object, error) {
	switch tok.Type {
	case TokenInteger:
		return p.parseNumber(tok)
	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q at position %d", tok.Value, tok.Pos)
		}
		return Real(val), nil
	case TokenString, TokenHexString:
		return String(tok.Value), nil
	case TokenName:
		return Name(tok.Value), nil
	case TokenArrayStart:
		return p.parseArray()
	case TokenDictStart:
		return p.parseDict()
	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)
	case TokenEOF:
		return nil, io.ErrUnexpectedEOF
	default:
		return nil, fmt.Errorf("unexpected token %v at position %d", tok.Type, tok.Pos)
	}
}

// parseNumber parses an integer or, by looking ahead for "gen R", an
// indirect reference. The lexer is rewound when the lookahead fails.
func (p *Parser) parseNumber(tok Token) (Object, error) {
	num, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		// Out-of-range integers and a lone sign are read as reals, as most readers do.
		f, ferr := strconv.ParseFloat(string(tok.Value), 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.Value, tok.Pos)
		}
		return Real(f), nil
	}

	mark := p.lexer.Pos()
	if gen, ok := p.lookaheadReference(); ok {
		return IndirectRef{Number: int(num), Generation: gen}, nil
	}
	p.lexer.Seek(mark)
	return Int(num), nil
}

func (p *Parser) lookaheadReference() (int, bool) {
	second, err := p.lexer.NextToken()
	if err != nil || second.Type != TokenInteger {
		return 0, false
	}
	gen, err := strconv.Atoi(string(second.Value))
	if err != nil {
		return 0, false
	}
	third, err := p.lexer.NextToken()
	if err != nil || third.Type != TokenKeyword || string(third.Value) != "R" {
		return 0, false
	}
	return gen, true
}

// parseArray parses the elements after '[' up to the matching ']'.
func (p *Parser) parseArray() (Object, error) {
	arr := Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in array")
		}
		obj, err := p.parseValue(tok)
		if err != nil {
			return nil, fmt.Errorf("error parsing array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses the entries after '<<' up to the matching '>>'.
func (p *Parser) parseDict() (Object, error) {
	dict := make(Dict)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("expected name for dictionary key, got %v at position %d", tok.Type, tok.Pos)
		}
		key := string(tok.Value)

		valTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if valTok.Type == TokenDictEnd {
			// A key with no value; treat it as null and stop.
			dict[key] = Null{}
			return dict, nil
		}
		value, err := p.parseValue(valTok)
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}
		dict[key] = value
	}
}

// ParseIndirectObject parses "num gen obj <object> endobj", including the
// stream form "num gen obj <dict> stream ... endstream endobj".
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("obj"); err != nil {
		return nil, err
	}

	obj, keyword, err := p.NextItem()
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object value: %w", err)
	}
	if obj == nil {
		if keyword != "endobj" {
			return nil, fmt.Errorf("unexpected keyword %q in object %d", keyword, num)
		}
		// "N G obj endobj" is an empty object, read as null.
		return &IndirectObject{Ref: IndirectRef{Number: num, Generation: gen}, Object: Null{}}, nil
	}

	mark := p.lexer.Pos()
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("stream must follow a dictionary, got %T", obj)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream of object %d: %w", num, err)
		}
		obj = stream
		mark = p.lexer.Pos()
		tok, err = p.next()
		if err != nil {
			return nil, err
		}
	}

	// A missing endobj is tolerated; the object is already complete.
	if tok.Type != TokenKeyword || string(tok.Value) != "endobj" {
		p.lexer.Seek(mark)
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

func (p *Parser) expectInt(what string) (int, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	if tok.Type != TokenInteger {
		return 0, fmt.Errorf("expected %s, got %v at position %d", what, tok.Type, tok.Pos)
	}
	n, err := strconv.Atoi(string(tok.Value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, tok.Value, err)
	}
	return n, nil
}

func (p *Parser) expectKeyword(keyword string) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok.Type != TokenKeyword || string(tok.Value) != keyword {
		return fmt.Errorf("expected '%s' keyword, got %v %q at position %d", keyword, tok.Type, tok.Value, tok.Pos)
	}
	return nil
}

var endstreamKeyword = []byte("endstream")

// parseStream reads the stream data following the "stream" keyword. The
// /Length entry is trusted when "endstream" follows it; otherwise the data
// runs up to the next "endstream" marker.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	p.lexer.SkipStreamEOL()
	start := p.lexer.Pos()

	length, lengthErr := p.streamLength(dict)
	if lengthErr == nil {
		if data, err := p.lexer.ReadBytes(length); err == nil {
			tok, err := p.next()
			if err == nil && tok.Type == TokenKeyword && string(tok.Value) == "endstream" {
				return &Stream{Dict: dict, Data: data}, nil
			}
		}
	}

	p.lexer.Seek(start)
	rest := p.lexer.Remaining()
	end := bytes.Index(rest, endstreamKeyword)
	if end < 0 {
		if lengthErr != nil {
			return nil, lengthErr
		}
		return nil, errors.New("missing 'endstream' keyword")
	}
	data := bytes.TrimRight(rest[:end], "\r\n")
	p.lexer.Skip(end + len(endstreamKeyword))
	return &Stream{Dict: dict, Data: data}, nil
}

func (p *Parser) streamLength(dict Dict) (int, error) {
	switch v := dict.Get("Length").(type) {
	case Int:
		if v < 0 {
			return 0, fmt.Errorf("invalid stream length: %d", v)
		}
		return int(v), nil
	case IndirectRef:
		if p.resolver == nil {
			return 0, fmt.Errorf("indirect reference for stream length requires a reference resolver")
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve stream length reference: %w", err)
		}
		n, ok := resolved.(Int)
		if !ok || n < 0 {
			return 0, fmt.Errorf("stream length reference resolved to %v, expected a non-negative Int", resolved)
		}
		return int(n), nil
	case nil:
		return 0, fmt.Errorf("stream dictionary missing 'Length' entry")
	default:
		return 0, fmt.Errorf("invalid type for stream length: %T", v)
	}
}
