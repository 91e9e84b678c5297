// Package usage fetches per-account quota windows from the remote usage
// endpoint and formats them for display.
//
// Fetching is strictly best-effort: every failure mode (missing credential,
// absent token, transport error, bad status, malformed payload) degrades to a
// typed unavailable record. Nothing here returns an error to the caller.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
)

// DefaultTimeout bounds a single usage call.
const DefaultTimeout = 10 * time.Second

const userAgent = "codex-cli"

// Fetcher performs usage calls against a resolved endpoint.
type Fetcher struct {
	client *http.Client
	url    string
}

// NewFetcher creates a Fetcher for the given base URL and per-call timeout.
// Zero values select the documented defaults.
func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		url:    URL(baseURL),
	}
}

// URL returns the resolved usage endpoint. It participates in the batch cache
// key so cached results from one endpoint never serve another.
func (f *Fetcher) URL() string {
	return f.url
}

type credential struct {
	OpenAIAPIKey string `json:"OPENAI_API_KEY"`
	Tokens       struct {
		AccessToken string `json:"access_token"`
		AccountID   string `json:"account_id"`
	} `json:"tokens"`
}

type wireWindow struct {
	UsedPercent        *float64 `json:"used_percent"`
	ResetAt            *float64 `json:"reset_at"`
	LimitWindowSeconds *float64 `json:"limit_window_seconds"`
}

type usagePayload struct {
	RateLimit struct {
		PrimaryWindow   *wireWindow `json:"primary_window"`
		SecondaryWindow *wireWindow `json:"secondary_window"`
	} `json:"rate_limit"`
}

func toWindow(w *wireWindow) models.UsageWindow {
	if w == nil {
		return models.UsageWindow{}
	}
	out := models.UsageWindow{UsedPercent: w.UsedPercent}
	if w.ResetAt != nil {
		out.ResetAt = int64(math.Round(*w.ResetAt))
	}
	if w.LimitWindowSeconds != nil {
		out.LimitWindowSeconds = int64(*w.LimitWindowSeconds)
	}
	return out
}

// FetchFile reads a credential file and retrieves its usage windows.
// A credential without an access token yields no_access_token without a
// network call.
func (f *Fetcher) FetchFile(ctx context.Context, path string) models.UsageRecord {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Failure(models.ReasonAuthMissing)
		}
		return models.Failure(models.ReasonAuthReadFailed)
	}

	var cred credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return models.Failure(models.ReasonAuthReadFailed)
	}
	if cred.Tokens.AccessToken == "" {
		rec := models.Failure(models.ReasonNoAccessToken)
		rec.HasAPIKey = cred.OpenAIAPIKey != ""
		return rec
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return models.Failure(models.ReasonHTTPFailed)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Tokens.AccessToken)
	req.Header.Set("User-Agent", userAgent)
	if cred.Tokens.AccountID != "" {
		req.Header.Set("ChatGPT-Account-Id", cred.Tokens.AccountID)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return models.Failure(models.ReasonHTTPFailed)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Failure(models.ReasonHTTPFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Failure(fmt.Sprintf("http_%d", resp.StatusCode))
	}

	var payload usagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Failure(models.ReasonPayloadParseFailed)
	}

	rolling := toWindow(payload.RateLimit.PrimaryWindow)
	weekly := toWindow(payload.RateLimit.SecondaryWindow)
	return models.UsageRecord{
		OK:               true,
		Rolling:          rolling,
		Weekly:           weekly,
		RollingRemaining: rolling.RemainingPercent(),
		WeeklyRemaining:  weekly.RemainingPercent(),
	}
}
