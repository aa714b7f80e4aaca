package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfops/config"
	"github.com/tsawler/pdfops/operation"
	"github.com/tsawler/pdfops/walker"
)

// writePDF writes a one-page document whose page has the given content
// stream and returns its path
func writePDF(t *testing.T, content string) string {
	t.Helper()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "test.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func quietLog(t *testing.T) {
	t.Helper()
	saved := log.Logger
	log.Logger = zerolog.Nop()
	t.Cleanup(func() { log.Logger = saved })
}

// TestRun tests printing a document with the default suppression set
func TestRun(t *testing.T) {
	quietLog(t)
	path := writePDF(t, "BT /F1 12 Tf 72 700 Td (Hello) Tj ET 0 0 1 rg")

	var out bytes.Buffer
	require.NoError(t, run(path, config.Default(), &out))
	assert.Equal(t, "ShowText{Body:Hello}\nSetRGBColorForNonstrokingOperations{R:0 G:0 B:1}\n", out.String())
}

// TestRunNoSuppression tests printing every operation
func TestRunNoSuppression(t *testing.T) {
	quietLog(t)
	path := writePDF(t, "q Q")

	cfg := config.Default()
	cfg.Suppress = nil

	var out bytes.Buffer
	require.NoError(t, run(path, cfg, &out))
	assert.Equal(t, "SaveGraphicsState{}\nRestoreGraphicsState{}\n", out.String())
}

// TestRunErrors tests that failures are returned, with output up to the
// failure flushed
func TestRunErrors(t *testing.T) {
	quietLog(t)

	var out bytes.Buffer
	err := run(filepath.Join(t.TempDir(), "missing.pdf"), config.Default(), &out)
	assert.ErrorIs(t, err, walker.ErrStore)

	path := writePDF(t, "(Hi) Tj /F1 Tf")
	out.Reset()
	err = run(path, config.Default(), &out)
	assert.ErrorIs(t, err, operation.ErrMissingOperands)
	assert.Equal(t, "ShowText{Body:Hi}\n", out.String())

	cfg := config.Default()
	cfg.SkipInvalid = true
	out.Reset()
	require.NoError(t, run(path, cfg, &out))
	assert.Equal(t, "ShowText{Body:Hi}\n", out.String())
}
