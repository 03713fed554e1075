package logging

import (
	"io"

	"go.uber.org/multierr"
)

// teeWriter writes each log line to all outputs. A failing output does not
// stop the others; the line counts as written if any output took it.
type teeWriter struct {
	outputs []io.Writer
}

func newTeeWriter(outputs ...io.Writer) *teeWriter {
	return &teeWriter{outputs: outputs}
}

func (t *teeWriter) Write(p []byte) (int, error) {
	var errs error
	written := false
	for _, out := range t.outputs {
		if _, err := out.Write(p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		written = true
	}
	if !written {
		return 0, errs
	}
	return len(p), errs
}
