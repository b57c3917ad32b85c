package outfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
)

// Options controls how results are rendered. They are set once from the
// global flags and read by every output call.
type Options struct {
	Compact bool
	Slim    bool
	Plain   bool
	Fields  []string
	Query   string
}

// DefaultOptions strips API metadata and pretty-prints.
func DefaultOptions() Options {
	return Options{Slim: true}
}

type optionsKey struct{}

// WithOptions adds output options to the context
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// FromContext retrieves output options from the context, falling back to
// DefaultOptions.
func FromContext(ctx context.Context) Options {
	if opts, ok := ctx.Value(optionsKey{}).(Options); ok {
		return opts
	}
	return DefaultOptions()
}

// Render runs the pipeline and optional jq query over v and returns the
// serialized document without a trailing newline.
func Render(v any, opts Options) ([]byte, error) {
	doc, err := FromAny(v)
	if err != nil {
		return nil, err
	}
	doc = Process(doc, opts)

	var data []byte
	if opts.Query != "" {
		result, err := ApplyQuery(doc, opts.Query)
		if err != nil {
			return nil, err
		}
		data, err = marshalNoEscape(result)
		if err != nil {
			return nil, err
		}
	} else {
		data, err = doc.MarshalJSON()
		if err != nil {
			return nil, err
		}
	}

	if opts.Compact {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders v to w followed by a newline.
func Write(w io.Writer, v any, opts Options) error {
	data, err := Render(v, opts)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteJSON writes a value as pretty-printed JSON without running the
// pipeline. Used for error envelopes.
func WriteJSON(w io.Writer, v any) error {
	return WriteJSONMaybeCompact(w, v, false)
}

// WriteJSONMaybeCompact writes JSON, using compact format if compact is true.
func WriteJSONMaybeCompact(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
