package shared

import (
	"strings"
	"testing"
)

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}

	if len(state) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(state))
	}

	other, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate second state: %v", err)
	}
	if state == other {
		t.Error("expected distinct state tokens")
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if len(id) != 36 {
		t.Errorf("expected a 36 character uuid, got %q", id)
	}
	if GenerateID() == id {
		t.Error("expected distinct ids")
	}
}

func TestOpenBrowser(t *testing.T) {
	t.Run("unknown platform", func(t *testing.T) {
		orig := osName
		osName = func() string { return "plan9" }
		defer func() { osName = orig }()

		if err := OpenBrowser("http://127.0.0.1/consent"); err == nil {
			t.Error("expected an error for a platform without a launcher")
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if string(out) != `{"key":"value"}` {
			t.Errorf("unexpected output %s", out)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if !strings.Contains(string(out), "\n  \"key\": \"value\"") {
			t.Errorf("expected indented output, got %s", out)
		}
	})
}
