package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"account id", `{"tokens":{"account_id":"acc-1"}}`, "account_id:acc-1"},
		{"user id", `{"tokens":{"user_id":"usr-2"}}`, "user_id:usr-2"},
		{"account id wins", `{"tokens":{"account_id":"acc-1","user_id":"usr-2"}}`, "account_id:acc-1"},
		{"api key only", `{"OPENAI_API_KEY":"sk-x"}`, ""},
		{"empty tokens", `{"tokens":{}}`, ""},
		{"malformed", `{not json`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromJSON([]byte(tt.data)); got != tt.want {
				t.Errorf("FromJSON(%q) = %q, want %q", tt.data, got, tt.want)
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auth.json")
	if err := os.WriteFile(path, []byte(`{"tokens":{"account_id":"acc-9"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	if got := FromFile(path); got != "account_id:acc-9" {
		t.Errorf("expected account_id:acc-9, got %q", got)
	}
}

func TestFromFileMissing(t *testing.T) {
	if got := FromFile(filepath.Join(t.TempDir(), "nope.json")); got != "" {
		t.Errorf("expected empty identity for missing file, got %q", got)
	}
}
