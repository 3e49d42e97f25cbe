package shared

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected distinct ids")
	}
	if len(strings.Split(a, "-")) != 5 {
		t.Errorf("expected uuid shape, got %s", a)
	}
}

func TestMarshalJSON(t *testing.T) {
	payload := map[string]string{"group": "Famiglia Rossi"}

	compact, err := MarshalJSON(payload, false)
	if err != nil {
		t.Fatalf("compact marshal failed: %v", err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Errorf("expected compact output, got %q", compact)
	}

	indented, err := MarshalJSON(payload, true)
	if err != nil {
		t.Fatalf("indented marshal failed: %v", err)
	}
	if !strings.Contains(string(indented), "\n  ") {
		t.Errorf("expected indented output, got %q", indented)
	}
}
