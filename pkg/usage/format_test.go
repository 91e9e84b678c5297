package usage

import (
	"strings"
	"testing"
	"time"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

func fp(v float64) *float64 { return &v }

func TestLabelForSeconds(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "5h"}, // unknown length falls back
		{3600, "1h"},
		{18000, "5h"},
		{18060, "5h"}, // rounding bias keeps 5h1m at 5h
		{86400, "24h"},
		{604800, "weekly"},
		{2592000, "monthly"},
		{31536000, "annual"},
	}

	for _, tt := range tests {
		if got := labelForSeconds(tt.seconds, "5h"); got != tt.want {
			t.Errorf("labelForSeconds(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatWindowSameDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	reset := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

	w := models.UsageWindow{UsedPercent: fp(42), ResetAt: reset.Unix(), LimitWindowSeconds: 18000}
	got := FormatWindow(w, "5h", now)
	want := "5h limit: 42% used (resets 14:30)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatWindowOtherDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	reset := time.Date(2024, 3, 14, 8, 5, 0, 0, time.UTC)

	w := models.UsageWindow{UsedPercent: fp(10.5), ResetAt: reset.Unix(), LimitWindowSeconds: 604800}
	got := FormatWindow(w, "weekly", now)
	want := "Weekly limit: 10.5% used (resets 08:05 on 14 Mar)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatWindowNoReset(t *testing.T) {
	now := time.Now()
	w := models.UsageWindow{UsedPercent: fp(7)}
	got := FormatWindow(w, "5h", now)
	if got != "5h limit: 7% used" {
		t.Errorf("got %q", got)
	}
}

func TestFormatWindowUnavailable(t *testing.T) {
	if got := FormatWindow(models.UsageWindow{}, "5h", time.Now()); got != "" {
		t.Errorf("window without used_percent should render empty, got %q", got)
	}
}

func TestFailureLine(t *testing.T) {
	tests := []struct {
		rec  models.UsageRecord
		want string
	}{
		{models.Failure("http_401"), "Auth check: 401 Unauthorized (token invalid or expired)"},
		{models.Failure("http_503"), "Usage fetch failed: HTTP 503"},
		{models.Failure(models.ReasonHTTPFailed), "Usage fetch failed: network error"},
		{models.Failure(models.ReasonAuthMissing), "Auth check: auth.json missing"},
		{models.Failure(models.ReasonPayloadParseFailed), "Usage fetch failed: invalid response payload"},
		{models.Failure("weird"), "Usage unavailable (weird)"},
	}
	for _, tt := range tests {
		if got := FailureLine(tt.rec); got != tt.want {
			t.Errorf("FailureLine(%q) = %q, want %q", tt.rec.Reason, got, tt.want)
		}
	}

	noToken := models.Failure(models.ReasonNoAccessToken)
	noToken.HasAPIKey = true
	if got := FailureLine(noToken); !strings.Contains(got, "API-key-only") {
		t.Errorf("expected API-key-only hint, got %q", got)
	}
}

func TestLines(t *testing.T) {
	now := time.Now()

	rec := models.UsageRecord{
		OK:      true,
		Rolling: models.UsageWindow{UsedPercent: fp(20)},
		Weekly:  models.UsageWindow{UsedPercent: fp(30)},
	}
	lines := Lines(rec, now)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}

	empty := models.UsageRecord{OK: true}
	lines = Lines(empty, now)
	if len(lines) != 1 || !strings.Contains(lines[0], "missing rate-limit windows") {
		t.Errorf("expected missing-windows line, got %v", lines)
	}

	failed := models.Failure(models.ReasonHTTPFailed)
	lines = Lines(failed, now)
	if len(lines) != 1 || !strings.Contains(lines[0], "network error") {
		t.Errorf("expected failure line, got %v", lines)
	}
}
