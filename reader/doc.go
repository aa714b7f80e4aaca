// Package reader loads PDF files and resolves their objects.
//
// This package orchestrates the lower-level core package to provide the
// document store the content-stream walker reads from.
//
// # Opening PDF Files
//
// Use [Open] to read a PDF file into memory:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [NewReader] with the bytes of a whole file.
//
// Cross-reference tables, cross-reference streams and incremental updates
// are supported. When the cross-reference data is damaged the table is
// rebuilt by scanning the file for object headers; [Reader.Reconstructed]
// reports when that happened. Encrypted documents are rejected with
// [ErrEncrypted].
//
// # Pages and Content
//
//	all, err := r.Pages()
//	for _, page := range all {
//	    refs, _ := r.ContentObjects(page)
//	    for _, ref := range refs {
//	        obj, _ := r.ResolveReference(ref)
//	        data, _ := r.Decompress(obj.(*core.Stream))
//	        ...
//	    }
//	}
//
// # Object Resolution
//
//   - GetObject(objNum) - load object by number, including objects stored
//     in object streams
//   - ResolveReference(ref) - resolve an IndirectRef
//   - Resolve(obj) - resolve if indirect, otherwise return as-is
//
// Loaded objects and decoded object streams are cached for the lifetime of
// the Reader.
package reader
