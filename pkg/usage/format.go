package usage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

// labelForSeconds maps a window length to a display label. Windows up to a
// day render as "<N>h"; longer ones bucket into weekly, monthly, annual.
// A small rounding bias keeps windows like 5h1m labelled 5h.
func labelForSeconds(seconds int64, fallback string) string {
	if seconds <= 0 {
		return fallback
	}

	minutes := seconds / 60
	const (
		minutesPerHour  = 60
		minutesPerDay   = 24 * minutesPerHour
		minutesPerWeek  = 7 * minutesPerDay
		minutesPerMonth = 30 * minutesPerDay
		roundingBias    = 3
	)

	if minutes <= minutesPerDay+roundingBias {
		hours := (minutes + roundingBias) / minutesPerHour
		if hours < 1 {
			hours = 1
		}
		return strconv.FormatInt(hours, 10) + "h"
	}
	if minutes <= minutesPerWeek+roundingBias {
		return "weekly"
	}
	if minutes <= minutesPerMonth+roundingBias {
		return "monthly"
	}
	return "annual"
}

func prettyLabel(label string) string {
	if label == "" {
		return label
	}
	r := label[0]
	if r >= 'a' && r <= 'z' {
		return strings.ToUpper(label[:1]) + label[1:]
	}
	return label
}

// formatReset renders a reset timestamp as local "HH:MM", appending
// " on <D> <Mon>" when the reset falls on a different day than now.
// Unknown resets (0) render as "".
func formatReset(resetAt int64, now time.Time) string {
	if resetAt <= 0 {
		return ""
	}
	reset := time.Unix(resetAt, 0).In(now.Location())
	clock := reset.Format("15:04")
	ry, rm, rd := reset.Date()
	ny, nm, nd := now.Date()
	if ry == ny && rm == nm && rd == nd {
		return clock
	}
	return fmt.Sprintf("%s on %d %s", clock, reset.Day(), reset.Format("Jan"))
}

// FormatWindow renders one usage window as a display line, or "" when the
// window reported no usage.
func FormatWindow(w models.UsageWindow, fallbackLabel string, now time.Time) string {
	if w.UsedPercent == nil {
		return ""
	}
	label := prettyLabel(labelForSeconds(w.LimitWindowSeconds, fallbackLabel))
	used := strconv.FormatFloat(*w.UsedPercent, 'f', -1, 64)
	if reset := formatReset(w.ResetAt, now); reset != "" {
		return fmt.Sprintf("%s limit: %s%% used (resets %s)", label, used, reset)
	}
	return fmt.Sprintf("%s limit: %s%% used", label, used)
}

// FailureLine renders an unavailable record's reason for display.
func FailureLine(rec models.UsageRecord) string {
	reason := rec.Reason

	switch {
	case reason == "http_401":
		return "Auth check: 401 Unauthorized (token invalid or expired)"
	case strings.HasPrefix(reason, "http_") && reason != models.ReasonHTTPFailed:
		return "Usage fetch failed: HTTP " + strings.TrimPrefix(reason, "http_")
	case reason == models.ReasonNoAccessToken:
		if rec.HasAPIKey {
			return "Auth check: missing ChatGPT access token (API-key-only auth)"
		}
		return "Auth check: missing ChatGPT access token"
	case reason == models.ReasonAuthMissing:
		return "Auth check: auth.json missing"
	case reason == models.ReasonAuthReadFailed:
		return "Auth check: couldn't read auth.json"
	case reason == models.ReasonPayloadParseFailed:
		return "Usage fetch failed: invalid response payload"
	case reason == models.ReasonHTTPFailed:
		return "Usage fetch failed: network error"
	case reason == "":
		return "Usage unavailable (unknown error)"
	default:
		return fmt.Sprintf("Usage unavailable (%s)", reason)
	}
}

// Lines renders a record's usage windows for display, or an explanatory
// failure line when no window data is available.
func Lines(rec models.UsageRecord, now time.Time) []string {
	if !rec.OK {
		return []string{FailureLine(rec)}
	}
	var lines []string
	if l := FormatWindow(rec.Rolling, "5h", now); l != "" {
		lines = append(lines, l)
	}
	if l := FormatWindow(rec.Weekly, "weekly", now); l != "" {
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return []string{"Usage unavailable (missing rate-limit windows)"}
	}
	return lines
}
