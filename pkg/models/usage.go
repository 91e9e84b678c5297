package models

import "math"

// Reasons a usage fetch can fail. Recorded on UsageRecord, never returned
// as errors; usage is always best-effort.
const (
	ReasonAuthMissing        = "auth_missing"
	ReasonAuthReadFailed     = "auth_read_failed"
	ReasonNoAccessToken      = "no_access_token"
	ReasonHTTPFailed         = "http_failed"
	ReasonPayloadParseFailed = "payload_parse_failed"
)

// UsageWindow describes one rate-limit window from the usage endpoint.
// UsedPercent is nil when the endpoint did not report the window.
type UsageWindow struct {
	UsedPercent        *float64 `json:"used_percent,omitempty"`
	ResetAt            int64    `json:"reset_at,omitempty"`
	LimitWindowSeconds int64    `json:"limit_window_seconds,omitempty"`
}

// RemainingPercent returns round(clamp(100-used, 0, 100)), or -1 when the
// window reported no used_percent. -1 means "unknown", distinct from 0.
func (w UsageWindow) RemainingPercent() int {
	if w.UsedPercent == nil {
		return -1
	}
	remaining := 100 - *w.UsedPercent
	if remaining < 0 {
		remaining = 0
	}
	if remaining > 100 {
		remaining = 100
	}
	return int(math.Round(remaining))
}

// UsageRecord is the per-account result of one usage fetch attempt.
type UsageRecord struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	// HasAPIKey is set alongside ReasonNoAccessToken when the credential
	// carries a static API key instead of login tokens.
	HasAPIKey bool        `json:"has_api_key,omitempty"`
	Rolling   UsageWindow `json:"rolling"`
	Weekly    UsageWindow `json:"weekly"`
	// RollingRemaining and WeeklyRemaining cache RemainingPercent of the
	// two windows; -1 means unavailable.
	RollingRemaining int `json:"rolling_remaining"`
	WeeklyRemaining  int `json:"weekly_remaining"`
}

// Failure builds an unavailable UsageRecord with the given reason.
func Failure(reason string) UsageRecord {
	return UsageRecord{Reason: reason, RollingRemaining: -1, WeeklyRemaining: -1}
}

// Candidate is the flattened, filter-ready view of an account's usage fed to
// the selection heuristic. Negative remaining percentages mean "unknown".
type Candidate struct {
	Name             string `json:"name"`
	WeeklyRemaining  int    `json:"weekly_remaining"`
	RollingRemaining int    `json:"rolling_remaining"`
	WeeklyResetAt    int64  `json:"weekly_reset_at"`
	RollingResetAt   int64  `json:"rolling_reset_at"`
}
