package pages

import (
	"fmt"

	"github.com/tsawler/pdfops/core"
)

// ObjectResolver interface for resolving indirect references
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{
		dict:     dict,
		resolver: resolver,
	}
}

// Pages returns the root of the page tree
func (c *Catalog) Pages() (*PageTree, error) {
	pagesRef := c.dict.Get("Pages")
	if pagesRef == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}

	pagesObj, err := c.resolver.Resolve(pagesRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Pages: %w", err)
	}

	pagesDict, ok := pagesObj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages type: %T", pagesObj)
	}

	root, _ := pagesRef.(core.IndirectRef)
	return NewPageTree(pagesDict, root, c.resolver), nil
}

// PageTree represents the PDF page tree
type PageTree struct {
	root     core.Dict
	rootRef  core.IndirectRef
	resolver ObjectResolver
	pages    []*Page // Cached flattened page list
}

// NewPageTree creates a new page tree from the root pages dictionary.
// rootRef is the zero value when the root is not an indirect object.
func NewPageTree(root core.Dict, rootRef core.IndirectRef, resolver ObjectResolver) *PageTree {
	return &PageTree{
		root:     root,
		rootRef:  rootRef,
		resolver: resolver,
	}
}

// Pages returns all pages in document order
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages == nil {
		if err := t.loadPages(); err != nil {
			return nil, err
		}
	}
	return t.pages, nil
}

func (t *PageTree) loadPages() error {
	pages := make([]*Page, 0)
	visited := make(map[core.IndirectRef]bool)
	if t.rootRef != (core.IndirectRef{}) {
		visited[t.rootRef] = true
	}

	if err := t.traversePageNode(t.root, t.rootRef, visited, &pages); err != nil {
		return fmt.Errorf("failed to traverse page tree: %w", err)
	}
	t.pages = pages
	return nil
}

// traversePageNode walks one node depth-first, appending leaves to pages.
// visited guards against /Kids cycles.
func (t *PageTree) traversePageNode(node core.Dict, ref core.IndirectRef, visited map[core.IndirectRef]bool, pages *[]*Page) error {
	typeName, _ := node.GetName("Type")
	if typeName == "" {
		// Some writers omit /Type; a node with /Kids is an intermediate node.
		typeName = "Page"
		if node.Has("Kids") {
			typeName = "Pages"
		}
	}

	switch typeName {
	case "Pages":
		kidsObj := node.Get("Kids")
		if kidsObj == nil {
			return fmt.Errorf("Pages node missing /Kids entry")
		}
		kidsResolved, err := t.resolver.Resolve(kidsObj)
		if err != nil {
			return fmt.Errorf("failed to resolve /Kids: %w", err)
		}
		kids, ok := kidsResolved.(core.Array)
		if !ok {
			return fmt.Errorf("invalid /Kids type: %T", kidsResolved)
		}

		for i, kidObj := range kids {
			kidRef, isRef := kidObj.(core.IndirectRef)
			if isRef {
				if visited[kidRef] {
					return fmt.Errorf("page tree cycle at object %d", kidRef.Number)
				}
				visited[kidRef] = true
			}

			kidResolved, err := t.resolver.Resolve(kidObj)
			if err != nil {
				return fmt.Errorf("failed to resolve kid %d: %w", i, err)
			}
			kidDict, ok := kidResolved.(core.Dict)
			if !ok {
				return fmt.Errorf("invalid kid type: %T", kidResolved)
			}

			if err := t.traversePageNode(kidDict, kidRef, visited, pages); err != nil {
				return err
			}
		}

	case "Page":
		*pages = append(*pages, &Page{
			number:   len(*pages) + 1,
			ref:      ref,
			dict:     node,
			resolver: t.resolver,
		})

	default:
		return fmt.Errorf("unexpected page node type: %s", typeName)
	}

	return nil
}

// Page represents a single PDF page
type Page struct {
	number   int
	ref      core.IndirectRef
	dict     core.Dict
	resolver ObjectResolver
}

// NewPage creates a page outside of a page tree, mostly for tests.
func NewPage(number int, ref core.IndirectRef, dict core.Dict, resolver ObjectResolver) *Page {
	return &Page{number: number, ref: ref, dict: dict, resolver: resolver}
}

// Number returns the 1-based position of the page in document order
func (p *Page) Number() int {
	return p.number
}

// Ref returns the page object's reference
func (p *Page) Ref() core.IndirectRef {
	return p.ref
}

// ContentRefs returns the references of the page's content streams in
// drawing order. /Contents may be a reference to one stream, an array of
// references, or a reference to such an array. A page without /Contents
// has no content streams.
func (p *Page) ContentRefs() ([]core.IndirectRef, error) {
	contentsObj := p.dict.Get("Contents")
	switch v := contentsObj.(type) {
	case nil, core.Null:
		return nil, nil
	case core.IndirectRef:
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve Contents: %w", err)
		}
		if arr, ok := resolved.(core.Array); ok {
			return refsOf(arr)
		}
		return []core.IndirectRef{v}, nil
	case core.Array:
		return refsOf(v)
	default:
		return nil, fmt.Errorf("invalid Contents type: %T", contentsObj)
	}
}

func refsOf(arr core.Array) ([]core.IndirectRef, error) {
	refs := make([]core.IndirectRef, 0, len(arr))
	for i, elem := range arr {
		ref, ok := elem.(core.IndirectRef)
		if !ok {
			return nil, fmt.Errorf("contents[%d] is not an indirect reference: %T", i, elem)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
