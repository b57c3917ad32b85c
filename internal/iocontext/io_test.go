// internal/iocontext/io_test.go
package iocontext

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDefaultIO(t *testing.T) {
	streams := DefaultIO()
	if streams.Out == nil || streams.ErrOut == nil || streams.In == nil {
		t.Error("DefaultIO should return non-nil streams")
	}
}

func TestWithIO(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	ctx := WithIO(context.Background(), &IO{Out: out, ErrOut: errOut})

	got := GetIO(ctx)
	if got.Out != out || got.ErrOut != errOut {
		t.Error("GetIO should return the IO set with WithIO")
	}
	if GetIO(context.Background()) == nil {
		t.Error("GetIO should return default IO when not set")
	}
}

func TestTextArg(t *testing.T) {
	streams := &IO{In: strings.NewReader("Thanks for waiting.\n")}

	got, err := streams.TextArg("inline")
	if err != nil || got != "inline" {
		t.Fatalf("TextArg(inline) = %q, %v", got, err)
	}

	got, err = streams.TextArg("-")
	if err != nil {
		t.Fatalf("TextArg(-): %v", err)
	}
	if got != "Thanks for waiting." {
		t.Fatalf("TextArg(-) = %q", got)
	}

	if _, err := (&IO{}).TextArg("-"); err == nil {
		t.Fatal("expected error without stdin")
	}
}
