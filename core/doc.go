// Package core provides low-level PDF parsing primitives and object types.
//
// # Object Types
//
// Every PDF value satisfies the [Object] interface:
//
//   - [Null], [Bool], [Int], [Real]
//   - [String] - raw bytes of a literal or hexadecimal string
//   - [Name] - a name without its leading slash
//   - [Array], [Dict]
//   - [Stream] - a dictionary plus encoded data
//   - [IndirectRef] - a reference to an indirect object
//
// Content stream operands are loosely typed. [AsNumber], [AsInt],
// [AsName], [AsString] and [AsArray] narrow an operand to the shape an
// operator needs and report false, rather than failing, on a mismatch.
//
// # Parsing
//
// [Lexer] tokenizes an in-memory buffer and [Parser] builds objects from
// the tokens. [Parser.NextItem] also returns bare keywords, which is how
// content stream operators are read.
//
// # Cross-Reference Data
//
// [LoadXRef] follows startxref, /Prev and /XRefStm through classic tables
// and cross-reference streams. [ReconstructXRef] rebuilds a table by
// scanning for object headers when that data is damaged. [ObjectStream]
// reads objects stored in /Type /ObjStm streams.
//
// # Stream Decoding
//
// [Stream.Decode] applies the stream's /Filter chain.
package core
