// Package pages walks the PDF page tree.
//
// # Page Tree
//
// PDF documents organize pages in a tree of /Pages nodes whose leaves are
// /Page dictionaries. [PageTree] flattens it in document order:
//
//	tree, _ := pages.NewCatalog(catalogDict, resolver).Pages()
//	all, _ := tree.Pages()
//	for _, page := range all {
//	    refs, _ := page.ContentRefs()
//	    ...
//	}
//
// Cycles in /Kids are reported as errors.
//
// # Object Resolution
//
// The [ObjectResolver] interface abstracts object lookup, so the page tree
// can resolve indirect references without depending on the reader.
package pages
