package gen

import (
	"bytes"
	"io"
	"testing"
)

// TestCtx is a noop closer, which wraps an io.Writer
// and only meant to be used for tests.
type TestCtx struct {
	io.Writer

	// Opened records every filename passed to Open.
	Opened *[]string
}

// Open returns the underlying io.Writer.
func (ctx TestCtx) Open(filename string) (io.WriteCloser, error) {
	if ctx.Opened != nil {
		*ctx.Opened = append(*ctx.Opened, filename)
	}
	return ctx, nil
}

// Close always returns nil.
func (ctx TestCtx) Close() error { return nil }

// CompareBytes reports the first line at which out differs from ex.
func CompareBytes(t *testing.T, ex, out []byte) {
	t.Helper()

	if bytes.Equal(ex, out) {
		return
	}

	exLines := bytes.Split(ex, []byte{'\n'})
	outLines := bytes.Split(out, []byte{'\n'})
	for i := 0; i < len(exLines) && i < len(outLines); i++ {
		if !bytes.Equal(exLines[i], outLines[i]) {
			t.Fatalf("mismatch at line %d:\n\texpected: %q\n\tgot:      %q", i+1, exLines[i], outLines[i])
		}
	}
	t.Fatalf("line count mismatch: expected %d lines, got %d", len(exLines), len(outLines))
}
