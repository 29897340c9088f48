package canon

import "testing"

type sample struct {
	B string `json:"b"`
	A string `json:"a"`
	C *string `json:"c,omitempty"`
}

func TestMarshalOmitsNulls(t *testing.T) {
	out, err := Marshal(sample{B: "x", A: "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = `{"b":"x","a":"y"}`
	if string(out) != want {
		t.Fatalf("got %s want %s", out, want)
	}
}

func TestMarshalIsCompact(t *testing.T) {
	out, err := Marshal(map[string]int{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range out {
		if c == ' ' || c == '\n' || c == '\t' {
			t.Fatalf("expected compact output, got %q", out)
		}
	}
}

type delegating struct {
	Inner string
}

func (d delegating) MarshalMerkleJSON() ([]byte, error) {
	return []byte(`{"fromDelegate":true}`), nil
}

func TestMarshalDelegatesToMerkleJSONer(t *testing.T) {
	out, err := Marshal(delegating{Inner: "ignored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const want = `{"fromDelegate":true}`
	if string(out) != want {
		t.Fatalf("got %s want %s", out, want)
	}
}

func TestMarshalStringMatchesMarshal(t *testing.T) {
	b, err := Marshal(sample{A: "1", B: "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := MarshalString(sample{A: "1", B: "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != s {
		t.Fatalf("mismatch: %s vs %s", b, s)
	}
}
