package walker

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tsawler/pdfops/contentstream"
	"github.com/tsawler/pdfops/core"
	"github.com/tsawler/pdfops/operation"
	"github.com/tsawler/pdfops/pages"
)

var (
	// ErrStore is the kind of every failure reported by the document store
	// or the tokenizer.
	ErrStore = errors.New("document store error")

	// ErrNotStream is returned when a content object does not resolve to a
	// stream.
	ErrNotStream = errors.New("content object is not a stream")
)

// StoreError wraps a document store or tokenizer failure with where it
// happened. It matches ErrStore with errors.Is.
type StoreError struct {
	Op     string // what was being done, e.g. "decompress"
	Page   int    // 0 when not tied to a page
	Object core.IndirectRef
	Err    error
}

func (e *StoreError) Error() string {
	switch {
	case e.Object != (core.IndirectRef{}):
		return fmt.Sprintf("failed to %s page %d object %s: %v", e.Op, e.Page, e.Object, e.Err)
	case e.Page > 0:
		return fmt.Sprintf("failed to %s page %d: %v", e.Op, e.Page, e.Err)
	default:
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
}

func (e *StoreError) Is(target error) bool { return target == ErrStore }
func (e *StoreError) Unwrap() error        { return e.Err }

// Store is the document the walker reads from. *reader.Reader implements it.
type Store interface {
	Pages() ([]*pages.Page, error)
	ContentObjects(page *pages.Page) ([]core.IndirectRef, error)
	ResolveReference(ref core.IndirectRef) (core.Object, error)
	Decompress(stream *core.Stream) ([]byte, error)
}

// Position identifies where an operation came from.
type Position struct {
	Page   int              // 1-based page number
	Object core.IndirectRef // content stream
	Index  int              // instruction index within the stream
}

func (p Position) String() string {
	return fmt.Sprintf("page %d object %s instruction %d", p.Page, p.Object, p.Index)
}

// Handler receives decoded operations in document order.
type Handler interface {
	Handle(pos Position, op operation.Operation) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(pos Position, op operation.Operation) error

func (f HandlerFunc) Handle(pos Position, op operation.Operation) error {
	return f(pos, op)
}

// Tokenizer splits decoded content stream bytes into instructions.
type Tokenizer func(data []byte) ([]contentstream.Instruction, error)

// Stats counts what a walk saw.
type Stats struct {
	Pages          int
	ContentObjects int
	Instructions   int
	Operations     int // decoded and handed to the handler
	Skipped        int // undecodable instructions passed over
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger for progress and skipped instructions.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Walker) { w.logger = logger }
}

// WithSkipInvalid makes decode errors non-fatal: the instruction is logged,
// counted and skipped.
func WithSkipInvalid(skip bool) Option {
	return func(w *Walker) { w.skipInvalid = skip }
}

// WithTokenizer replaces contentstream.Parse.
func WithTokenizer(tokenize Tokenizer) Option {
	return func(w *Walker) { w.tokenize = tokenize }
}

// Walker drives the decoder over every content stream of a document.
type Walker struct {
	store       Store
	handler     Handler
	logger      zerolog.Logger
	skipInvalid bool
	tokenize    Tokenizer
}

// New creates a Walker. Without WithLogger nothing is logged.
func New(store Store, handler Handler, opts ...Option) *Walker {
	w := &Walker{
		store:    store,
		handler:  handler,
		logger:   zerolog.Nop(),
		tokenize: contentstream.Parse,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk visits every page in order and, within a page, every content stream
// in order, decoding each instruction and passing it to the handler. It
// stops at the first store, tokenizer, decode or handler error, returning
// the counts reached so far.
func (w *Walker) Walk() (Stats, error) {
	var stats Stats

	pageList, err := w.store.Pages()
	if err != nil {
		return stats, &StoreError{Op: "list pages", Err: err}
	}

	for _, page := range pageList {
		stats.Pages++
		refs, err := w.store.ContentObjects(page)
		if err != nil {
			return stats, &StoreError{Op: "list content objects of", Page: page.Number(), Err: err}
		}
		w.logger.Debug().Int("page", page.Number()).Int("streams", len(refs)).Msg("walking page")

		for _, ref := range refs {
			stats.ContentObjects++
			if err := w.walkStream(page.Number(), ref, &stats); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

func (w *Walker) walkStream(page int, ref core.IndirectRef, stats *Stats) error {
	obj, err := w.store.ResolveReference(ref)
	if err != nil {
		return &StoreError{Op: "resolve", Page: page, Object: ref, Err: err}
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return &StoreError{Op: "resolve", Page: page, Object: ref, Err: fmt.Errorf("%w: got %T", ErrNotStream, obj)}
	}

	w.logger.Info().Int("page", page).Stringer("object", ref).Msg("decompressing stream")
	data, err := w.store.Decompress(stream)
	if err != nil {
		return &StoreError{Op: "decompress", Page: page, Object: ref, Err: err}
	}

	instructions, err := w.tokenize(data)
	if err != nil {
		return &StoreError{Op: "tokenize", Page: page, Object: ref, Err: err}
	}

	for i, in := range instructions {
		stats.Instructions++
		pos := Position{Page: page, Object: ref, Index: i}

		op, err := operation.DecodeInstruction(in)
		if err != nil {
			if w.skipInvalid {
				stats.Skipped++
				w.logger.Warn().Err(err).Stringer("position", pos).Str("operator", in.Operator).Msg("skipping instruction")
				continue
			}
			return fmt.Errorf("%s: %w", pos, err)
		}

		if err := w.handler.Handle(pos, op); err != nil {
			return fmt.Errorf("%s: %w", pos, err)
		}
		stats.Operations++
	}
	return nil
}
