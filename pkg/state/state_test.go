package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "state.json"))

	tests := []models.SessionState{
		{Current: "work", Previous: "personal"},
		{Current: "name with spaces", Previous: `quotes "and" more`},
		{Current: "unicode-héllo", Previous: "tabs\tand\nnewlines"},
		{Current: "", Previous: ""},
	}

	for _, want := range tests {
		if err := f.Save(want); err != nil {
			t.Fatal(err)
		}
		got := f.Load()
		if got != want {
			t.Errorf("round-trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.json"))
	st := f.Load()
	if st.Current != "" || st.Previous != "" {
		t.Errorf("expected empty state, got %+v", st)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("CURRENT='old shell format'"), 0o600); err != nil {
		t.Fatal(err)
	}
	st := NewFile(path).Load()
	if st.Current != "" || st.Previous != "" {
		t.Errorf("expected empty state for corrupt file, got %+v", st)
	}
}

func TestSaveCreatesDir(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "nested", "dir", "state.json"))
	if err := f.Save(models.SessionState{Current: "a"}); err != nil {
		t.Fatal(err)
	}
	if got := f.Load(); got.Current != "a" {
		t.Errorf("expected a, got %+v", got)
	}
}

func TestNoLeftoverTempFile(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "state.json"))
	if err := f.Save(models.SessionState{Current: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "state.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
