package outfmt

import (
	"context"
	"io"
)

// Formatter handles output formatting for commands.
type Formatter struct {
	opts Options
	out  io.Writer
}

// NewFormatter creates a Formatter using the options carried by ctx.
func NewFormatter(ctx context.Context, out io.Writer) *Formatter {
	return &Formatter{opts: FromContext(ctx), out: out}
}

// Output writes data through the output pipeline.
func (f *Formatter) Output(data any) error {
	return Write(f.out, data, f.opts)
}

// Message writes a {"message": ...} confirmation.
func (f *Formatter) Message(message string) error {
	return f.Output(map[string]string{"message": message})
}
