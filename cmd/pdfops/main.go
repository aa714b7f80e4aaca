// Command pdfops prints the typed operations of every page content stream
// in a PDF file.
//
// Usage:
//
//	pdfops <file.pdf>
//
// Operations are written to stdout one per line; progress and errors go to
// the log on stderr. See the config package for the PDFOPS_* variables.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/tsawler/pdfops/config"
	"github.com/tsawler/pdfops/logging"
	"github.com/tsawler/pdfops/reader"
	"github.com/tsawler/pdfops/walker"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.pdf>\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfops: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfops: %v\n", err)
		os.Exit(1)
	}
	log.Logger = logger

	if err := run(os.Args[1], cfg, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("failed to decode document")
	}
}

func run(path string, cfg config.Config, stdout io.Writer) error {
	log.Info().Str("path", path).Msg("loading document")
	doc, err := reader.Open(path)
	if err != nil {
		return &walker.StoreError{Op: "load document", Err: err}
	}
	defer doc.Close()

	log.Debug().
		Stringer("version", doc.Version()).
		Int("objects", doc.NumObjects()).
		Bool("reconstructed", doc.Reconstructed()).
		Msg("document loaded")

	out := bufio.NewWriter(stdout)
	printer := walker.NewPrinter(out, cfg.Suppress)
	w := walker.New(doc, printer,
		walker.WithLogger(log.Logger),
		walker.WithSkipInvalid(cfg.SkipInvalid),
	)

	stats, walkErr := w.Walk()
	if err := out.Flush(); err != nil && walkErr == nil {
		walkErr = fmt.Errorf("failed to write output: %w", err)
	}
	if walkErr != nil {
		return walkErr
	}

	log.Info().
		Int("pages", stats.Pages).
		Int("streams", stats.ContentObjects).
		Int("operations", stats.Operations).
		Int("printed", printer.Printed()).
		Int("skipped", stats.Skipped).
		Msg("done")
	return nil
}
