package outfmt

import (
	"encoding/json"
	"testing"
)

func TestParsePreservesKeyOrder(t *testing.T) {
	in := `{"zeta":1,"alpha":{"b":true,"a":null},"mid":["x<y",2.5,-3]}`
	v, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := v.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(out) != in {
		t.Fatalf("got %s, want %s", out, in)
	}
	if keys := v.Obj.Keys(); len(keys) != 3 || keys[0] != "zeta" || keys[2] != "mid" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	for _, in := range []string{`{"a":}`, `{"a":1} {"b":2}`, ``} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestFromAny(t *testing.T) {
	type item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	v, err := FromAny(item{ID: 7, Name: "a"})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	out, _ := v.MarshalJSON()
	if string(out) != `{"id":7,"name":"a"}` {
		t.Fatalf("got %s", out)
	}

	raw, err := FromAny(json.RawMessage(`{"b":1,"a":2}`))
	if err != nil {
		t.Fatalf("FromAny raw: %v", err)
	}
	out, _ = raw.MarshalJSON()
	if string(out) != `{"b":1,"a":2}` {
		t.Fatalf("raw order lost: %s", out)
	}
}

func TestToAny(t *testing.T) {
	v, err := Parse([]byte(`{"n":3,"f":1.5,"s":"x","b":false,"z":null,"a":[1]}`))
	if err != nil {
		t.Fatal(err)
	}
	m, ok := v.ToAny().(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", v.ToAny())
	}
	if m["n"] != 3 || m["f"] != 1.5 || m["s"] != "x" || m["b"] != false || m["z"] != nil {
		t.Fatalf("unexpected conversion %#v", m)
	}
	if arr, ok := m["a"].([]any); !ok || len(arr) != 1 || arr[0] != 1 {
		t.Fatalf("unexpected array %#v", m["a"])
	}
}

func TestIsZeroNumber(t *testing.T) {
	if !Int(0).IsZeroNumber() || !Number("0.0").IsZeroNumber() {
		t.Fatal("zero should be detected")
	}
	if Int(1).IsZeroNumber() || String("0").IsZeroNumber() {
		t.Fatal("non-zero values should not be detected")
	}
}
