// Package walker drives the operation decoder over a whole document.
//
// A [Walker] asks its [Store] for the pages in order, for each page the
// content streams in order, then resolves, decompresses and tokenizes each
// stream and decodes every instruction, handing the typed operation to a
// [Handler] together with its [Position]:
//
//	r, _ := reader.Open("document.pdf")
//	printer := walker.NewPrinter(os.Stdout, walker.DefaultSuppressed)
//	stats, err := walker.New(r, printer, walker.WithLogger(logger)).Walk()
//
// Store and tokenizer failures are reported as [*StoreError], matching
// [ErrStore]. Decode errors come back wrapped with their position and
// match the operation package's error kinds. Both stop the walk, except
// that [WithSkipInvalid] turns decode errors into logged, counted skips.
//
// [Printer] is the stock handler: it prints every operation whose operator
// is not suppressed, one per line.
package walker
