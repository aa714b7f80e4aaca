package walker

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfops/contentstream"
	"github.com/tsawler/pdfops/core"
	"github.com/tsawler/pdfops/operation"
	"github.com/tsawler/pdfops/pages"
)

// fakeStore is an in-memory Store. Content objects are keyed by page number.
type fakeStore struct {
	pages         []*pages.Page
	contents      map[int][]core.IndirectRef
	objects       map[core.IndirectRef]core.Object
	pagesErr      error
	contentsErr   error
	decompressErr error
}

func ref(n int) core.IndirectRef {
	return core.IndirectRef{Number: n}
}

// newFakeStore builds a store with one page per element of streams; each
// page's streams get consecutive object numbers starting at 10.
func newFakeStore(streams ...[]string) *fakeStore {
	s := &fakeStore{
		contents: make(map[int][]core.IndirectRef),
		objects:  make(map[core.IndirectRef]core.Object),
	}
	next := 10
	for i, pageStreams := range streams {
		number := i + 1
		s.pages = append(s.pages, pages.NewPage(number, ref(number), core.Dict{"Type": core.Name("Page")}, nil))
		for _, content := range pageStreams {
			r := ref(next)
			next++
			s.objects[r] = &core.Stream{Dict: core.Dict{}, Data: []byte(content)}
			s.contents[number] = append(s.contents[number], r)
		}
	}
	return s
}

func (s *fakeStore) Pages() ([]*pages.Page, error) {
	return s.pages, s.pagesErr
}

func (s *fakeStore) ContentObjects(page *pages.Page) ([]core.IndirectRef, error) {
	if s.contentsErr != nil {
		return nil, s.contentsErr
	}
	return s.contents[page.Number()], nil
}

func (s *fakeStore) ResolveReference(r core.IndirectRef) (core.Object, error) {
	obj, ok := s.objects[r]
	if !ok {
		return nil, errors.New("no such object")
	}
	return obj, nil
}

func (s *fakeStore) Decompress(stream *core.Stream) ([]byte, error) {
	if s.decompressErr != nil {
		return nil, s.decompressErr
	}
	return stream.Data, nil
}

type recorded struct {
	pos Position
	op  operation.Operation
}

func collect(out *[]recorded) HandlerFunc {
	return func(pos Position, op operation.Operation) error {
		*out = append(*out, recorded{pos, op})
		return nil
	}
}

// TestWalkDecodesText tests the font-and-text sequence end to end
func TestWalkDecodesText(t *testing.T) {
	store := newFakeStore([]string{"/F1 12 Tf (Hello) Tj"})

	var got []recorded
	stats, err := New(store, collect(&got)).Walk()
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, operation.SetTextFontAndSize{Name: "F1", Size: 12}, got[0].op)
	assert.Equal(t, operation.ShowText{Body: "Hello"}, got[1].op)
	assert.Equal(t, Position{Page: 1, Object: ref(10), Index: 1}, got[1].pos)
	assert.Equal(t, Stats{Pages: 1, ContentObjects: 1, Instructions: 2, Operations: 2}, stats)
}

// TestWalkOrder tests that pages and streams are visited in order
func TestWalkOrder(t *testing.T) {
	store := newFakeStore(
		[]string{"q", "Q"},
		nil,
		[]string{"BT ET"},
	)

	var got []recorded
	stats, err := New(store, collect(&got)).Walk()
	require.NoError(t, err)

	var ops []string
	for _, r := range got {
		ops = append(ops, r.op.Operator())
	}
	assert.Equal(t, []string{"q", "Q", "BT", "ET"}, ops)
	assert.Equal(t, 1, got[1].pos.Page)
	assert.Equal(t, ref(11), got[1].pos.Object)
	assert.Equal(t, 3, got[2].pos.Page)
	assert.Equal(t, 3, stats.Pages)
	assert.Equal(t, 3, stats.ContentObjects)
}

// TestWalkDecodeErrors tests that decode errors stop the walk
func TestWalkDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    error
	}{
		{"wrong operand type", "q (F1) 12 Tf", operation.ErrOperandType},
		{"missing operand", "q /F1 Tf", operation.ErrMissingOperands},
		{"unknown operator", "q 1 2 zz", operation.ErrUnknownOperator},
		{"invalid utf-8", "q <FF> Tj", operation.ErrUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []recorded
			stats, err := New(newFakeStore([]string{tt.content}), collect(&got)).Walk()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.NotErrorIs(t, err, ErrStore)
			assert.Contains(t, err.Error(), "page 1 object 10 0 R instruction 1")
			assert.Len(t, got, 1)
			assert.Equal(t, 1, stats.Operations)
		})
	}
}

// TestWalkSkipInvalid tests that skip mode logs and counts decode errors
func TestWalkSkipInvalid(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	store := newFakeStore([]string{"q 1 2 zz (x) Tf Q"})

	var got []recorded
	stats, err := New(store, collect(&got), WithSkipInvalid(true), WithLogger(logger)).Walk()
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 4, stats.Instructions)
	assert.Equal(t, 2, stats.Operations)
	assert.Equal(t, 2, strings.Count(logs.String(), `"message":"skipping instruction"`))
	assert.Contains(t, logs.String(), `"operator":"zz"`)
}

// TestWalkStoreErrors tests that collaborator failures surface as StoreError
func TestWalkStoreErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(s *fakeStore)
		opts    []Option
		op      string
		wantErr error
	}{
		{"pages", func(s *fakeStore) { s.pagesErr = boom }, nil, "list pages", boom},
		{"content objects", func(s *fakeStore) { s.contentsErr = boom }, nil, "list content objects of", boom},
		{"dangling reference", func(s *fakeStore) { delete(s.objects, ref(10)) }, nil, "resolve", nil},
		{"not a stream", func(s *fakeStore) { s.objects[ref(10)] = core.Dict{} }, nil, "resolve", ErrNotStream},
		{"decompress", func(s *fakeStore) { s.decompressErr = boom }, nil, "decompress", boom},
		{"tokenize", func(s *fakeStore) {}, []Option{WithTokenizer(func([]byte) ([]contentstream.Instruction, error) {
			return nil, boom
		})}, "tokenize", boom},
		{"trailing operands", func(s *fakeStore) {
			s.objects[ref(10)] = &core.Stream{Dict: core.Dict{}, Data: []byte("q 1 2")}
		}, nil, "tokenize", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore([]string{"q Q"})
			tt.setup(store)

			var got []recorded
			_, err := New(store, collect(&got), tt.opts...).Walk()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStore)

			var storeErr *StoreError
			require.ErrorAs(t, err, &storeErr)
			assert.Equal(t, tt.op, storeErr.Op)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, got)
		})
	}
}

// TestWalkHandlerError tests that handler errors stop the walk
func TestWalkHandlerError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	handler := HandlerFunc(func(Position, operation.Operation) error {
		calls++
		return stop
	})

	stats, err := New(newFakeStore([]string{"q Q"}), handler).Walk()
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, stats.Operations)
}

// TestWalkLogsDecompression tests the per-stream progress line
func TestWalkLogsDecompression(t *testing.T) {
	var logs bytes.Buffer
	store := newFakeStore([]string{"q", "Q"})

	_, err := New(store, collect(new([]recorded)), WithLogger(zerolog.New(&logs))).Walk()
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(logs.String(), `"message":"decompressing stream"`))
	assert.Contains(t, logs.String(), `"object":"11 0 R"`)
}

// TestStoreErrorMessage tests StoreError formatting
func TestStoreErrorMessage(t *testing.T) {
	err := errors.New("bad data")
	tests := []struct {
		err  *StoreError
		want string
	}{
		{&StoreError{Op: "list pages", Err: err}, "failed to list pages: bad data"},
		{&StoreError{Op: "list content objects of", Page: 2, Err: err}, "failed to list content objects of page 2: bad data"},
		{&StoreError{Op: "decompress", Page: 2, Object: ref(7), Err: err}, "failed to decompress page 2 object 7 0 R: bad data"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
		assert.ErrorIs(t, tt.err, err)
	}
}
